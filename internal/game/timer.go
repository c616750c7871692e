package game

import (
	"context"
	"time"
)

// RunTimer drives s.Tick every interval until the session is terminal or ctx
// is done. onDone, if set, runs once with the final snapshot when the clock
// ends the session. It blocks; run it in its own goroutine.
func RunTimer(ctx context.Context, s *Session, interval time.Duration, onDone func(Snapshot)) {
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, done := s.Tick(); done {
				if onDone != nil {
					onDone(s.Snapshot())
				}
				return
			}
		}
	}
}
