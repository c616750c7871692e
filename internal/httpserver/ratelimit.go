package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token bucket per client key.
type ipLimiter struct {
	mu       sync.Mutex
	rps      float64
	burst    int
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

const limiterIdle = 10 * time.Minute

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{rps: rps, burst: burst, limiters: map[string]*limiterEntry{}}
}

// get returns the rate limiter for the given key (usually client IP).
func (l *ipLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.limiters[key]; ok {
		e.lastSeen = time.Now()
		return e.lim
	}
	if key == "" {
		log.Warn().Msg("rate limiter key is empty")
	}
	e := &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.rps), l.burst), lastSeen: time.Now()}
	l.limiters[key] = e
	return e.lim
}

// prune forgets clients not seen recently.
func (l *ipLimiter) prune() {
	cutoff := time.Now().Add(-limiterIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, k)
		}
	}
}

// middleware rejects requests beyond the per-client rate with 429.
func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientKey(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey strips the port from RemoteAddr (already rewritten by chimw.RealIP).
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
