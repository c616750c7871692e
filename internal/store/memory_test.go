package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/game"
)

type words []string

func (w words) WordList(category.ID) []string { return w }

type constScorer int

func (c constScorer) Score(context.Context, string, string, category.ID) int { return int(c) }

func newSession(t *testing.T, started time.Time) *game.Session {
	t.Helper()
	s, err := game.NewSession(game.Deps{Words: words{"lion"}, Scorer: constScorer(10)},
		category.Animals, game.ModeClassic, game.Options{Now: func() time.Time { return started }})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t, time.Now())

	if _, err := st.Get(ctx, s.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Save err = %v", err)
	}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.ID())
	if err != nil || got != s {
		t.Fatalf("Get = %p, %v", got, err)
	}
	if err := st.Delete(ctx, s.ID()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	st := newMemory(func() time.Time { return now })

	old := newSession(t, now.Add(-3*time.Hour))
	fresh := newSession(t, now.Add(-10*time.Minute))
	_ = st.Save(ctx, old)
	_ = st.Save(ctx, fresh)

	if n := st.Sweep(ctx, 2*time.Hour); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if _, err := st.Get(ctx, old.ID()); !errors.Is(err, ErrNotFound) {
		t.Error("old session survived the sweep")
	}
	if _, err := st.Get(ctx, fresh.ID()); err != nil {
		t.Error("fresh session was swept")
	}
}
