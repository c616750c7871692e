// internal/httpserver/server.go
//
// HTTP server wiring for the proximity backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/categories", "/leaderboard".
//   - Game endpoints (optional auth): /game/new, /game/{id}, /game/{id}/guess, /game/{id}/hints.
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - Background work: one countdown goroutine per speedrun session and a
//     periodic sweep of idle sessions.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guesses are rate limited per client IP.
//   - Finished sessions are written to the leaderboard exactly once.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/proximity/internal/account"
	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/game"
	"github.com/robalobadob/proximity/internal/leaderboard"
	"github.com/robalobadob/proximity/internal/store"
	"github.com/robalobadob/proximity/internal/validate"
)

// Leaderboard is the persistence collaborator for finished sessions.
type Leaderboard interface {
	Submit(ctx context.Context, sub leaderboard.Submission) error
	Top(ctx context.Context, cat category.ID, mode string, limit int) ([]leaderboard.Row, error)
}

// Deps are the server's collaborators.
type Deps struct {
	Registry    *category.Registry
	Validator   *validate.Validator
	Game        game.Deps
	Store       store.Store
	Leaderboard Leaderboard
	Accounts    *account.Service
}

// Options tune server behaviour. Zero values pick sensible defaults.
type Options struct {
	ClientOrigin   string
	SpeedrunLimit  time.Duration
	HintCadence    int
	DailySalt      string
	RateLimitRPS   float64
	RateLimitBurst int
	SessionTTL     time.Duration
	TickInterval   time.Duration
}

// Server bundles router, session store and background workers.
type Server struct {
	r       *chi.Mux
	deps    Deps
	opts    Options
	limiter *ipLimiter

	// bg is cancelled on Shutdown to stop timers and the sweeper.
	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	srv *http.Server
}

// New constructs a Server, installs middleware, registers routes and starts
// the idle-session sweeper.
func New(deps Deps, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.SpeedrunLimit <= 0 {
		opts.SpeedrunLimit = game.DefaultTimeLimit
	}
	if opts.HintCadence <= 0 {
		opts.HintCadence = game.DefaultHintCadence
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 5
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 10
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	bg, cancel := context.WithCancel(context.Background())
	s := &Server{
		r:       chi.NewRouter(),
		deps:    deps,
		opts:    opts,
		limiter: newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		bg:      bg,
		cancel:  cancel,
	}
	s.srv = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "proximity",
			"endpoints": []string{"/health", "/categories", "POST /game/new", "GET /game/{id}", "POST /game/{id}/guess", "POST /game/{id}/hints", "/leaderboard", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Get("/categories", s.handleCategories)
	s.r.Get("/leaderboard", s.handleLeaderboard)
	s.mountGameRoutes()
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// Start begins serving HTTP on addr. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.srv.Addr = addr
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests, then stops timers and the sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.cancel()
	s.wg.Wait()
	return err
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// sweepLoop drops idle sessions every few minutes until Shutdown.
func (s *Server) sweepLoop() {
	defer s.wg.Done()
	every := min(s.opts.SessionTTL/4, 5*time.Minute)
	if every <= 0 {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.bg.Done():
			return
		case <-t.C:
			if n := s.deps.Store.Sweep(s.bg, s.opts.SessionTTL); n > 0 {
				log.Info().Int("removed", n).Msg("swept idle sessions")
			}
			s.limiter.prune()
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Suggest string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, errorBody{Error: errCode, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10))
	return dec.Decode(v)
}
