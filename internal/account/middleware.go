package account

import (
	"context"
	"net/http"
)

// AuthUser is placed into the request context by the auth middleware.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u *AuthUser) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (*AuthUser, bool) {
	u, _ := ctx.Value(ctxUserKey{}).(*AuthUser)
	return u, u != nil
}

// authenticate resolves the request's token to a user that still exists.
func (s *Service) authenticate(r *http.Request) (*AuthUser, error) {
	tok := s.TokenFromRequest(r)
	if tok == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.ParseToken(tok)
	if err != nil {
		return nil, err
	}
	if _, err := s.FindByID(r.Context(), u.ID); err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// OptionalAuth decorates requests with the user when a valid token is present.
// It never rejects; guests pass through.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := s.authenticate(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth enforces a valid token.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.authenticate(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"sign in required"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
