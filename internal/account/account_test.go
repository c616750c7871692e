package account

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/robalobadob/proximity/assets"
	"github.com/robalobadob/proximity/internal/leaderboard"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := leaderboard.Open(filepath.Join(t.TempDir(), "acct.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := leaderboard.Migrate(db, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	return NewService(db, Options{Secret: "test-secret", CookieName: "tok"})
}

func TestSignupLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.Signup(ctx, "  ada_l ", "correct horse")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Username != "ada_l" || u.ID == "" || u.PasswordHash == "correct horse" {
		t.Errorf("user = %+v", u)
	}

	if _, err := s.Signup(ctx, "ADA_L", "another pass"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate signup err = %v", err)
	}

	got, err := s.Login(ctx, "Ada_L", "correct horse")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Login = %+v, %v", got, err)
	}
	if _, err := s.Login(ctx, "ada_l", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v", err)
	}
	if _, err := s.Login(ctx, "nobody", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	s := newService(t)
	for _, tc := range []struct{ user, pass string }{
		{"ab", "long enough"},
		{"bad name", "long enough"},
		{"fine_name", "short"},
	} {
		if _, err := s.Signup(context.Background(), tc.user, tc.pass); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("Signup(%q, %q) err = %v", tc.user, tc.pass, err)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newService(t)
	u, err := s.Signup(context.Background(), "grace", "hopper123")
	if err != nil {
		t.Fatal(err)
	}
	tok, exp, err := s.SignToken(u)
	if err != nil {
		t.Fatal(err)
	}
	if exp.IsZero() {
		t.Error("expiry not set")
	}
	au, err := s.ParseToken(tok)
	if err != nil || au.ID != u.ID || au.Username != "grace" {
		t.Fatalf("ParseToken = %+v, %v", au, err)
	}

	other := NewService(nil, Options{Secret: "different"})
	if _, err := other.ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret err = %v", err)
	}
	if _, err := s.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := newService(t)
	u, _ := s.Signup(context.Background(), "linus", "penguins1")
	tok, _, _ := s.SignToken(u)

	var seen *AuthUser
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		mw       func(http.Handler) http.Handler
		setup    func(r *http.Request)
		wantCode int
		wantUser bool
	}{
		{"optional guest", s.OptionalAuth, func(*http.Request) {}, http.StatusOK, false},
		{"optional bearer", s.OptionalAuth, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK, true},
		{"optional cookie", s.OptionalAuth, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "tok", Value: tok}) }, http.StatusOK, true},
		{"optional bad token", s.OptionalAuth, func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusOK, false},
		{"required guest", s.RequireAuth, func(*http.Request) {}, http.StatusUnauthorized, false},
		{"required bearer", s.RequireAuth, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			tt.mw(h).ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if (seen != nil) != tt.wantUser {
				t.Errorf("user in context = %v, want %v", seen, tt.wantUser)
			}
		})
	}
}

func TestCookies(t *testing.T) {
	s := NewService(nil, Options{Secret: "x", CookieName: "tok", Secure: true})
	rec := httptest.NewRecorder()
	s.ClearCookie(rec)
	c := rec.Result().Cookies()
	if len(c) != 1 || c[0].Name != "tok" || c[0].MaxAge >= 0 || !c[0].Secure || c[0].SameSite != http.SameSiteNoneMode {
		t.Errorf("cleared cookie = %+v", c)
	}
}
