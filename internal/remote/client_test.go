package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/scoring"
)

func TestScoreSimilarity_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Guess != "lion" || req.Target != "tiger" || req.Category != "animals" {
			t.Errorf("unexpected payload %+v", req)
		}
		_, _ = w.Write([]byte(`{"score":77}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	got, err := c.ScoreSimilarity(context.Background(), "lion", "tiger", category.Animals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 77 {
		t.Errorf("score = %d, want 77", got)
	}
}

func TestScoreSimilarity_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"missing score", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{"out of range", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"score":101}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			_, err := New(srv.URL, 0).ScoreSimilarity(context.Background(), "a", "b", category.Food)
			if !errors.Is(err, scoring.ErrRemoteUnavailable) {
				t.Errorf("expected ErrRemoteUnavailable, got %v", err)
			}
		})
	}
}

func TestScoreSimilarity_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL, 0).ScoreSimilarity(ctx, "a", "b", category.Food)
	if !errors.Is(err, scoring.ErrRemoteUnavailable) {
		t.Errorf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestScoreSimilarity_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"score":50}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 1) // burst of 2
	var limited bool
	for i := 0; i < 5; i++ {
		if _, err := c.ScoreSimilarity(context.Background(), "a", "b", category.Food); errors.Is(err, scoring.ErrRemoteUnavailable) {
			limited = true
		}
	}
	if !limited {
		t.Error("expected limiter to refuse a request")
	}
}

func TestClientPlugsIntoRemoteScorer(t *testing.T) {
	var _ scoring.RemoteClient = (*Client)(nil)
}
