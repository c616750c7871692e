package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/proximity/internal/category"
)

// ErrRemoteUnavailable reports that the remote scorer could not produce a
// score. It is never fatal; callers fall back to the local Calculator.
var ErrRemoteUnavailable = errors.New("remote scorer unavailable")

// Scorer computes the 0-100 proximity of guess to target within a category.
// Implementations must be total: every call returns a score.
type Scorer interface {
	Score(ctx context.Context, guess, target string, cat category.ID) int
}

// RemoteClient is a best-effort external similarity service.
type RemoteClient interface {
	ScoreSimilarity(ctx context.Context, guess, target string, cat category.ID) (int, error)
}

// DefaultRemoteTimeout bounds a single remote call.
const DefaultRemoteTimeout = 1500 * time.Millisecond

// Remote asks a RemoteClient first and falls back to a local Scorer on any
// failure or timeout.
type Remote struct {
	client   RemoteClient
	fallback Scorer
	timeout  time.Duration
}

// NewRemote wraps client with fallback. A non-positive timeout means DefaultRemoteTimeout.
func NewRemote(client RemoteClient, fallback Scorer, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Remote{client: client, fallback: fallback, timeout: timeout}
}

// Score implements Scorer.
//
// Identical words always score 100 without a remote call, and a remote score
// for different words is capped at 99 so only the target itself completes a round.
func (r *Remote) Score(ctx context.Context, guess, target string, cat category.ID) int {
	if category.Normalize(guess) == category.Normalize(target) {
		return 100
	}
	if r.client == nil {
		return r.fallback.Score(ctx, guess, target, cat)
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	score, err := r.client.ScoreSimilarity(rctx, guess, target, cat)
	if err == nil && (score < 0 || score > 100) {
		err = ErrRemoteUnavailable
	}
	if err != nil {
		log.Warn().Err(err).Str("category", string(cat)).Msg("remote scorer failed, using local score")
		return r.fallback.Score(ctx, guess, target, cat)
	}
	return min(score, 99)
}

// NewFromConfig picks the scoring strategy: "remote" wraps client with local
// as the fallback, anything else is local alone.
func NewFromConfig(strategy string, local Scorer, client RemoteClient, timeout time.Duration) Scorer {
	if strategy == "remote" && client != nil {
		return NewRemote(client, local, timeout)
	}
	return local
}
