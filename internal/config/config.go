// internal/config/config.go
//
// Environment-driven configuration.
//
// Load reads a .env file when present (github.com/joho/godotenv; a missing
// file is not an error) and then the process environment. Every key has a
// default so a bare `go run .` works for local play.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Scorer strategies.
const (
	ScorerLocal  = "local"
	ScorerRemote = "remote"
)

const devSecret = "dev_secret_change_me"

type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	Production   bool
	ClientOrigin string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string

	SpeedrunSeconds  int
	HintCadence      int
	LengthPenaltyCap int
	DailySalt        string

	Scorer              string
	RemoteScorerURL     string
	RemoteScorerTimeout time.Duration
	RemoteScorerRPS     float64

	RateLimitRPS   float64
	RateLimitBurst int
	SessionTTL     time.Duration
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "./data/proximity.db"),
		Production:   getEnv("APP_ENV", "development") == "production",
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),

		JWTSecret:  getEnv("JWT_SECRET", devSecret),
		CookieName: getEnv("COOKIE_NAME", "proximity_token"),
		DailySalt:  getEnv("DAILY_SALT", "proximity"),

		Scorer:          strings.ToLower(getEnv("SCORER", ScorerLocal)),
		RemoteScorerURL: getEnv("REMOTE_SCORER_URL", ""),
	}

	var errs []error
	c.JWTExpiresDays = getEnvInt("JWT_EXPIRES_DAYS", 14, &errs)
	c.SpeedrunSeconds = getEnvInt("SPEEDRUN_SECONDS", 60, &errs)
	c.HintCadence = getEnvInt("HINT_CADENCE", 15, &errs)
	c.LengthPenaltyCap = getEnvInt("LENGTH_PENALTY_CAP", 25, &errs)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10, &errs)
	c.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", 5, &errs)
	c.RemoteScorerRPS = getEnvFloat("REMOTE_SCORER_RPS", 5, &errs)
	c.RemoteScorerTimeout = getEnvDuration("REMOTE_SCORER_TIMEOUT", 1500*time.Millisecond, &errs)
	c.SessionTTL = getEnvDuration("SESSION_TTL", 2*time.Hour, &errs)

	if err := errors.Join(errs...); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate checks ranges and cross-field requirements.
func (c Config) Validate() error {
	var errs []error
	if c.SpeedrunSeconds <= 0 {
		errs = append(errs, errors.New("SPEEDRUN_SECONDS must be positive"))
	}
	if c.HintCadence <= 0 {
		errs = append(errs, errors.New("HINT_CADENCE must be positive"))
	}
	if c.LengthPenaltyCap <= 0 || c.LengthPenaltyCap > 100 {
		errs = append(errs, errors.New("LENGTH_PENALTY_CAP must be in 1..100"))
	}
	if c.JWTExpiresDays <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_DAYS must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	switch c.Scorer {
	case ScorerLocal:
	case ScorerRemote:
		if c.RemoteScorerURL == "" {
			errs = append(errs, errors.New("SCORER=remote requires REMOTE_SCORER_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("SCORER must be %q or %q, got %q", ScorerLocal, ScorerRemote, c.Scorer))
	}
	if c.Production && c.JWTSecret == devSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}

// SpeedrunLimit is SpeedrunSeconds as a duration.
func (c Config) SpeedrunLimit() time.Duration {
	return time.Duration(c.SpeedrunSeconds) * time.Second
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int, errs *[]error) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return n
}

func getEnvFloat(k string, def float64, errs *[]error) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return f
}

func getEnvDuration(k string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return d
}
