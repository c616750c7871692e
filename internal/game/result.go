package game

import (
	"time"

	"github.com/robalobadob/proximity/internal/leaderboard"
)

// ClassicWinScore is the leaderboard score for any classic win.
const ClassicWinScore = 100

// Result returns the leaderboard tuple for a finished session. ok is false
// while the session is still active.
//
// Classic records 100 and the seconds taken; speedrun records the number of
// words solved and the time limit.
func (s *Session) Result() (leaderboard.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		return leaderboard.Submission{}, false
	}

	sub := leaderboard.Submission{
		SessionID: s.id,
		Category:  s.cat,
		Mode:      string(s.mode),
		UserID:    s.opts.UserID,
	}
	switch s.mode {
	case ModeSpeedrun:
		sub.Score = s.wordsGuessed
		sub.TimeSeconds = int(s.opts.TimeLimit / time.Second)
	default:
		sub.Score = ClassicWinScore
		sub.TimeSeconds = int(s.endedAt.Sub(s.startedAt) / time.Second)
	}
	return sub, true
}
