// Package remote is the HTTP client for an optional external similarity
// service. Every failure mode is reported as scoring.ErrRemoteUnavailable so
// the caller can fall back to the local calculator.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/scoring"
)

const (
	// UserAgent identifies the game server to the scoring service.
	UserAgent = "proximity-server/1.0"

	// DefaultTimeout caps a request when the caller's context has no deadline.
	DefaultTimeout = 3 * time.Second

	maxResponseBytes = 4 << 10
)

// Client talks to a scoring endpoint that accepts
// {"guess","target","category"} and replies {"score": 0..100}.
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
}

// New builds a Client. requestsPerSecond <= 0 disables client-side limiting.
func New(url string, requestsPerSecond float64) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1)
	}
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
	}
}

type scoreRequest struct {
	Guess    string `json:"guess"`
	Target   string `json:"target"`
	Category string `json:"category"`
}

type scoreResponse struct {
	Score *int `json:"score"`
}

// ScoreSimilarity implements scoring.RemoteClient.
//
// The limiter never waits: when no token is available the call fails
// immediately instead of delaying a guess.
func (c *Client) ScoreSimilarity(ctx context.Context, guess, target string, cat category.ID) (int, error) {
	if !c.limiter.Allow() {
		return 0, fmt.Errorf("%w: rate limited", scoring.ErrRemoteUnavailable)
	}

	body, err := json.Marshal(scoreRequest{Guess: guess, Target: target, Category: string(cat)})
	if err != nil {
		return 0, fmt.Errorf("%w: encode: %v", scoring.ErrRemoteUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", scoring.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", scoring.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return 0, fmt.Errorf("%w: status %d", scoring.ErrRemoteUnavailable, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", scoring.ErrRemoteUnavailable, err)
	}
	if out.Score == nil || *out.Score < 0 || *out.Score > 100 {
		return 0, fmt.Errorf("%w: invalid score", scoring.ErrRemoteUnavailable)
	}
	return *out.Score, nil
}
