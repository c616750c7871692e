// internal/game/types.go
//
// Core type definitions for a proximity session.
// Defines:
//   - Mode:        classic (ends on the first correct guess) or speedrun (timed, target advances).
//   - State:       active, won, timed_out. Won and timed_out are terminal.
//   - GuessRecord: one scored guess.
//   - Snapshot:    read-only copy of a session for rendering and JSON responses.
//   - Errors surfaced to players as inline messages.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/proximity/internal/category"
)

// Mode selects the session rules.
type Mode string

const (
	ModeClassic  Mode = "classic"
	ModeSpeedrun Mode = "speedrun"
)

// ParseMode maps a request value onto a Mode. Empty means classic.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "", ModeClassic:
		return ModeClassic, true
	case ModeSpeedrun:
		return ModeSpeedrun, true
	}
	return "", false
}

// State is the session lifecycle position.
type State string

const (
	StateActive   State = "active"
	StateWon      State = "won"
	StateTimedOut State = "timed_out"
)

// Terminal reports whether no further guesses are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateTimedOut }

var (
	ErrInvalidInput    = errors.New("invalid word")
	ErrDuplicateGuess  = errors.New("already guessed")
	ErrSessionTerminal = errors.New("game is over")
	ErrGuessInFlight   = errors.New("a guess is already being scored")
	ErrUnknownCategory = errors.New("unknown category")
)

// GuessRecord is one scored guess.
type GuessRecord struct {
	Word      string    `json:"word"`
	Proximity int       `json:"proximity"`
	Seq       int       `json:"seq"` // 1-based submission order within the current target
	At        time.Time `json:"at"`
}

// Snapshot is a point-in-time copy of a session. Target is only set once the
// session is terminal.
type Snapshot struct {
	ID            string        `json:"id"`
	Category      category.ID   `json:"category"`
	Mode          Mode          `json:"mode"`
	State         State         `json:"state"`
	Guesses       []GuessRecord `json:"guesses"`
	WordsGuessed  int           `json:"wordsGuessed"`
	SolvedWords   []string      `json:"solvedWords,omitempty"`
	HintsEnabled  bool          `json:"hintsEnabled"`
	CurrentHint   string        `json:"currentHint,omitempty"`
	RevealedHints []string      `json:"revealedHints"`
	Remaining     time.Duration `json:"-"`
	RemainingSec  int           `json:"remainingSeconds,omitempty"`
	StartedAt     time.Time     `json:"startedAt"`
	EndedAt       *time.Time    `json:"endedAt,omitempty"`
	Target        string        `json:"target,omitempty"`
	UserID        string        `json:"-"`
	Daily         bool          `json:"daily,omitempty"`
}

// GuessResult is what SubmitGuess reports for an accepted guess.
type GuessResult struct {
	Record  GuessRecord `json:"record"`
	Solved  bool        `json:"solved"`
	State   State       `json:"state"`
	NewHint string      `json:"newHint,omitempty"`
}
