// internal/game/engine.go
//
// Session state machine.
// Responsibilities:
//   - Create sessions with a random (or fixed) target drawn from the category list.
//   - Validate, de-duplicate and score guesses; keep guesses sorted by proximity.
//   - Classic: a score of 100 wins. Speedrun: a score of 100 draws the next target.
//   - Reveal hints every HintCadence guesses while hints are enabled.
//   - Count down speedrun time via Tick (driven once per second by RunTimer).
//
// Concurrency:
//   - All state is guarded by mu. Scoring runs outside the lock so a slow remote
//     scorer never blocks Tick or Snapshot.
//   - At most one guess is in flight per session; overlapping submits get ErrGuessInFlight.
//   - Tick only touches the remaining time and the terminal transition.
package game

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/hint"
	"github.com/robalobadob/proximity/internal/random"
	"github.com/robalobadob/proximity/internal/scoring"
)

const (
	DefaultHintCadence = 15
	DefaultTimeLimit   = 60 * time.Second
	tickStep           = time.Second
)

// WordLists is the read-only category provider.
type WordLists interface {
	WordList(id category.ID) []string
}

// Validator gates raw guesses before scoring.
type Validator interface {
	Accept(input string) bool
}

// Hinter produces a hint not in prior when possible.
type Hinter interface {
	Generate(target string, cat category.ID, prior hint.Set) string
}

// Deps are the collaborators a session needs. Hints may be nil when the
// caller never enables hints.
type Deps struct {
	Words     WordLists
	Scorer    scoring.Scorer
	Validator Validator
	Hints     Hinter
}

// Options tune a single session. Zero values pick the defaults.
type Options struct {
	HintCadence  int
	TimeLimit    time.Duration
	HintsEnabled bool
	Target       string // fixed first target, e.g. the daily word
	Daily        bool
	UserID       string
	Rand         random.Source
	Now          func() time.Time
}

// Session is one game in progress or finished.
type Session struct {
	mu sync.Mutex

	id    string
	cat   category.ID
	mode  Mode
	deps  Deps
	words []string
	opts  Options

	state         State
	target        string
	guesses       []GuessRecord
	seq           int
	wordsGuessed  int
	solved        []string
	hintsEnabled  bool
	currentHint   string
	revealedHints []string
	remaining     time.Duration
	startedAt     time.Time
	endedAt       time.Time
	lastActive    time.Time
	inFlight      bool
}

// NewSession starts a session in cat with the given mode.
func NewSession(deps Deps, cat category.ID, mode Mode, opts Options) (*Session, error) {
	words := deps.Words.WordList(cat)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	if opts.HintCadence <= 0 {
		opts.HintCadence = DefaultHintCadence
	}
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultTimeLimit
	}
	if opts.Rand == nil {
		opts.Rand = random.Crypto{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	target := category.Normalize(opts.Target)
	if target == "" {
		target = random.Pick(opts.Rand, words)
	}

	now := opts.Now()
	s := &Session{
		id:           uuid.NewString(),
		cat:          cat,
		mode:         mode,
		deps:         deps,
		words:        words,
		opts:         opts,
		state:        StateActive,
		target:       target,
		guesses:      []GuessRecord{},
		hintsEnabled: opts.HintsEnabled,
		startedAt:    now,
		lastActive:   now,
	}
	if mode == ModeSpeedrun {
		s.remaining = opts.TimeLimit
	}
	log.Info().Str("session", s.id).Str("category", string(cat)).Str("mode", string(mode)).Msg("session started")
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SubmitGuess validates, scores and records raw.
//
// Rejections (ErrInvalidInput, ErrDuplicateGuess, ErrSessionTerminal,
// ErrGuessInFlight) leave the session untouched.
func (s *Session) SubmitGuess(ctx context.Context, raw string) (GuessResult, error) {
	word := category.Normalize(raw)

	s.mu.Lock()
	if err := s.checkGuessLocked(word); err != nil {
		s.mu.Unlock()
		return GuessResult{}, err
	}
	s.inFlight = true
	target, cat := s.target, s.cat
	s.mu.Unlock()

	proximity := s.deps.Scorer.Score(ctx, word, target, cat)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.state.Terminal() {
		// The clock ran out while the guess was being scored.
		return GuessResult{}, ErrSessionTerminal
	}
	return s.applyLocked(word, proximity), nil
}

func (s *Session) checkGuessLocked(word string) error {
	switch {
	case s.state.Terminal():
		return ErrSessionTerminal
	case s.inFlight:
		return ErrGuessInFlight
	case s.deps.Validator != nil && !s.deps.Validator.Accept(word):
		return fmt.Errorf("%w: %q", ErrInvalidInput, word)
	case word == "":
		return ErrInvalidInput
	case lo.ContainsBy(s.guesses, func(g GuessRecord) bool { return g.Word == word }):
		return fmt.Errorf("%w: %q", ErrDuplicateGuess, word)
	}
	return nil
}

// applyLocked records a scored guess and runs the transitions.
func (s *Session) applyLocked(word string, proximity int) GuessResult {
	now := s.opts.Now()
	s.lastActive = now
	s.seq++
	rec := GuessRecord{Word: word, Proximity: proximity, Seq: s.seq, At: now}

	// Prepend then stable-sort so equal scores list the newest first.
	s.guesses = append([]GuessRecord{rec}, s.guesses...)
	slices.SortStableFunc(s.guesses, func(a, b GuessRecord) int { return b.Proximity - a.Proximity })

	res := GuessResult{Record: rec}
	if proximity == 100 {
		res.Solved = true
		if s.mode == ModeSpeedrun {
			s.advanceLocked()
		} else {
			s.state = StateWon
			s.endedAt = now
			log.Info().Str("session", s.id).Int("guesses", len(s.guesses)).Msg("session won")
		}
		res.State = s.state
		return res
	}

	if s.hintsEnabled && s.deps.Hints != nil && len(s.guesses)%s.opts.HintCadence == 0 {
		h := s.deps.Hints.Generate(s.target, s.cat, s.priorHintsLocked())
		s.revealedHints = append(s.revealedHints, h)
		s.currentHint = h
		res.NewHint = h
	}
	res.State = s.state
	return res
}

// advanceLocked draws the next speedrun target. Words already solved this
// round are avoided while any remain; a one-word list repeats its word.
func (s *Session) advanceLocked() {
	solvedWord := s.target
	s.solved = append(s.solved, solvedWord)
	s.wordsGuessed++

	candidates := lo.Without(s.words, s.solved...)
	if len(candidates) == 0 {
		candidates = lo.Without(s.words, solvedWord)
	}
	if len(candidates) == 0 {
		candidates = s.words
	}
	s.target = random.Pick(s.opts.Rand, candidates)

	s.guesses = []GuessRecord{}
	s.seq = 0
	s.revealedHints = nil
	s.currentHint = ""
	log.Info().Str("session", s.id).Int("wordsGuessed", s.wordsGuessed).Msg("speedrun target solved")
}

func (s *Session) priorHintsLocked() hint.Set {
	prior := make(hint.Set, len(s.revealedHints))
	for _, h := range s.revealedHints {
		prior[h] = struct{}{}
	}
	return prior
}

// Tick advances the speedrun clock by one second. It reports the remaining
// time and whether the session is now terminal. Classic sessions ignore ticks.
func (s *Session) Tick() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeSpeedrun || s.state.Terminal() {
		return s.remaining, s.state.Terminal()
	}
	s.remaining -= tickStep
	if s.remaining <= 0 {
		s.remaining = 0
		s.state = StateTimedOut
		s.endedAt = s.opts.Now()
		log.Info().Str("session", s.id).Int("wordsGuessed", s.wordsGuessed).Msg("speedrun timed out")
	}
	return s.remaining, s.state.Terminal()
}

// ToggleHints flips hint display and returns the new setting. Turning hints
// back on restores the most recent hint; turning them off keeps the history.
func (s *Session) ToggleHints() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hintsEnabled = !s.hintsEnabled
	if s.hintsEnabled {
		if n := len(s.revealedHints); n > 0 {
			s.currentHint = s.revealedHints[n-1]
		}
	} else {
		s.currentHint = ""
	}
	s.lastActive = s.opts.Now()
	return s.hintsEnabled
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:            s.id,
		Category:      s.cat,
		Mode:          s.mode,
		State:         s.state,
		Guesses:       slices.Clone(s.guesses),
		WordsGuessed:  s.wordsGuessed,
		SolvedWords:   slices.Clone(s.solved),
		HintsEnabled:  s.hintsEnabled,
		CurrentHint:   s.currentHint,
		RevealedHints: slices.Clone(s.revealedHints),
		StartedAt:     s.startedAt,
		UserID:        s.opts.UserID,
		Daily:         s.opts.Daily,
	}
	if snap.RevealedHints == nil {
		snap.RevealedHints = []string{}
	}
	if s.mode == ModeSpeedrun {
		snap.Remaining = s.remaining
		snap.RemainingSec = int(s.remaining / time.Second)
	}
	if s.state.Terminal() {
		end := s.endedAt
		snap.EndedAt = &end
		snap.Target = s.target
	}
	return snap
}

// LastActive is the time of the last accepted guess or hint toggle.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// State reports the lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
