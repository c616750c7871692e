// internal/httpserver/routes_game.go
//
// Game endpoints. All run with optional auth so guests can play; a signed-in
// player's finished sessions carry their user ID onto the leaderboard.
//
//   - POST /game/new          start a session {category, mode, hints, daily}
//   - GET  /game/{id}         current snapshot
//   - POST /game/{id}/guess   submit a guess (rate limited per IP)
//   - POST /game/{id}/hints   toggle hint display

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/proximity/internal/account"
	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/daily"
	"github.com/robalobadob/proximity/internal/game"
	"github.com/robalobadob/proximity/internal/store"
)

func (s *Server) mountGameRoutes() {
	s.r.Route("/game", func(r chi.Router) {
		r.Use(s.deps.Accounts.OptionalAuth)
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.With(s.limiter.middleware).Post("/{id}/guess", s.handleGuess)
		r.Post("/{id}/hints", s.handleToggleHints)
	})
}

type newGameReq struct {
	Category string `json:"category"`
	Mode     string `json:"mode"`  // "classic" | "speedrun"
	Hints    bool   `json:"hints"` // start with hints shown
	Daily    bool   `json:"daily"` // play today's shared word (classic only)
}

// handleNewGame creates a session, stores it and, for speedrun, starts its clock.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	cat := category.ID(category.Normalize(req.Category))
	if !s.deps.Registry.Has(cat) {
		writeError(w, http.StatusBadRequest, "unknown_category", req.Category)
		return
	}
	mode, ok := game.ParseMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_mode", req.Mode)
		return
	}
	if req.Daily && mode != game.ModeClassic {
		writeError(w, http.StatusBadRequest, "bad_request", "daily words are classic only")
		return
	}

	opts := game.Options{
		HintCadence:  s.opts.HintCadence,
		TimeLimit:    s.opts.SpeedrunLimit,
		HintsEnabled: req.Hints,
		Daily:        req.Daily,
	}
	if u, ok := account.FromContext(r.Context()); ok {
		opts.UserID = u.ID
	}
	if req.Daily {
		opts.Target = daily.Target(time.Now(), s.opts.DailySalt, cat, s.deps.Registry.WordList(cat))
	}

	sess, err := game.NewSession(s.deps.Game, cat, mode, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_category", err.Error())
		return
	}
	if err := s.deps.Store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}

	if mode == game.ModeSpeedrun {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			game.RunTimer(s.bg, sess, s.opts.TickInterval, func(game.Snapshot) {
				s.finish(s.bg, sess)
			})
		}()
	}

	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Result game.GuessResult `json:"result"`
	Game   game.Snapshot    `json:"game"`
}

// handleGuess scores a guess. Rejections map to 4xx codes and never change the session.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	res, err := sess.SubmitGuess(r.Context(), req.Guess)
	if err != nil {
		s.writeGuessError(w, req.Guess, err)
		return
	}
	if res.State.Terminal() {
		s.finish(r.Context(), sess)
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Game: sess.Snapshot()})
}

func (s *Server) writeGuessError(w http.ResponseWriter, raw string, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		body := errorBody{Error: "invalid_word", Message: err.Error()}
		if s.deps.Validator != nil {
			if sug, ok := s.deps.Validator.Suggest(raw); ok {
				body.Suggest = sug
			}
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, game.ErrDuplicateGuess):
		writeError(w, http.StatusConflict, "duplicate_guess", err.Error())
	case errors.Is(err, game.ErrSessionTerminal):
		writeError(w, http.StatusConflict, "game_over", err.Error())
	case errors.Is(err, game.ErrGuessInFlight):
		writeError(w, http.StatusConflict, "guess_in_flight", err.Error())
	default:
		log.Error().Err(err).Msg("submit guess")
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

func (s *Server) handleToggleHints(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.ToggleHints()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// lookup loads the session named in the URL or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.deps.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no such game")
		} else {
			writeError(w, http.StatusInternalServerError, "internal", "")
		}
		return nil, false
	}
	return sess, true
}

// finish records a terminal session on the leaderboard. Daily games are
// stored like any classic game; resubmitting a session is ignored by the store.
func (s *Server) finish(ctx context.Context, sess *game.Session) {
	sub, ok := sess.Result()
	if !ok || s.deps.Leaderboard == nil {
		return
	}
	// The request may be cancelled right after the response; use a short detached context.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.deps.Leaderboard.Submit(ctx, sub); err != nil {
		log.Warn().Err(err).Str("session", sub.SessionID).Msg("leaderboard submit")
		return
	}
	log.Info().Str("session", sub.SessionID).Str("mode", sub.Mode).Int("score", sub.Score).Msg("score recorded")
}
