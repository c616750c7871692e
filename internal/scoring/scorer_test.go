package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/proximity/internal/category"
)

type stubClient struct {
	score int
	err   error
	delay time.Duration
	calls int
}

func (s *stubClient) ScoreSimilarity(ctx context.Context, _, _ string, _ category.ID) (int, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return 0, errors.Join(ErrRemoteUnavailable, ctx.Err())
		}
	}
	return s.score, s.err
}

func TestRemoteUsesClientScore(t *testing.T) {
	calc := newTestCalculator(t)
	client := &stubClient{score: 42}
	r := NewRemote(client, calc, time.Second)
	if got := r.Score(context.Background(), "lion", "tiger", category.Animals); got != 42 {
		t.Errorf("Score = %d, want 42", got)
	}
}

func TestRemoteFallbacks(t *testing.T) {
	calc := newTestCalculator(t)
	want := calc.Semantic("lion", "tiger", category.Animals)
	tests := []struct {
		name   string
		client *stubClient
	}{
		{"error", &stubClient{err: ErrRemoteUnavailable}},
		{"out of range", &stubClient{score: 150}},
		{"negative", &stubClient{score: -1}},
		{"timeout", &stubClient{score: 10, delay: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRemote(tt.client, calc, 20*time.Millisecond)
			start := time.Now()
			if got := r.Score(context.Background(), "lion", "tiger", category.Animals); got != want {
				t.Errorf("Score = %d, want local %d", got, want)
			}
			if time.Since(start) > 500*time.Millisecond {
				t.Errorf("fallback took %v; timeout not honoured", time.Since(start))
			}
		})
	}
}

func TestRemoteIdentityShortCircuits(t *testing.T) {
	client := &stubClient{score: 3}
	r := NewRemote(client, newTestCalculator(t), time.Second)
	if got := r.Score(context.Background(), "Tiger", "tiger", category.Animals); got != 100 {
		t.Errorf("Score = %d, want 100", got)
	}
	if client.calls != 0 {
		t.Errorf("remote called %d times for identical words", client.calls)
	}
}

func TestRemoteCapsNonIdentical(t *testing.T) {
	r := NewRemote(&stubClient{score: 100}, newTestCalculator(t), time.Second)
	if got := r.Score(context.Background(), "lion", "tiger", category.Animals); got != 99 {
		t.Errorf("Score = %d, want 99", got)
	}
}

func TestRemoteNilClient(t *testing.T) {
	calc := newTestCalculator(t)
	r := NewRemote(nil, calc, 0)
	if got, want := r.Score(context.Background(), "wolf", "dog", category.Animals), calc.Semantic("wolf", "dog", category.Animals); got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestCalculatorIsScorer(t *testing.T) {
	var s Scorer = newTestCalculator(t)
	if got := s.Score(context.Background(), "jaws", "jaws", category.Movies); got != 100 {
		t.Errorf("Score = %d", got)
	}
}

func TestNewFromConfig(t *testing.T) {
	local := newTestCalculator(t)
	if s := NewFromConfig("local", local, &stubClient{score: 50}, 0); s != Scorer(local) {
		t.Errorf("local strategy returned %T", s)
	}
	if s := NewFromConfig("remote", local, nil, 0); s != Scorer(local) {
		t.Errorf("remote without client returned %T", s)
	}
	if _, ok := NewFromConfig("remote", local, &stubClient{score: 50}, 0).(*Remote); !ok {
		t.Error("remote strategy should return *Remote")
	}
}
