package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/proximity/assets"
	"github.com/robalobadob/proximity/internal/account"
	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/config"
	"github.com/robalobadob/proximity/internal/game"
	"github.com/robalobadob/proximity/internal/hint"
	"github.com/robalobadob/proximity/internal/httpserver"
	"github.com/robalobadob/proximity/internal/leaderboard"
	"github.com/robalobadob/proximity/internal/remote"
	"github.com/robalobadob/proximity/internal/scoring"
	"github.com/robalobadob/proximity/internal/semantic"
	"github.com/robalobadob/proximity/internal/store"
	"github.com/robalobadob/proximity/internal/validate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	reg, err := category.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load categories")
	}
	kb, err := semantic.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load knowledge tables")
	}
	validator, err := validate.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build validator")
	}
	nCats, nWords := reg.Stats()
	log.Info().Int("categories", nCats).Int("words", nWords).Msg("word lists loaded")

	local := scoring.NewCalculator(kb, nil, cfg.LengthPenaltyCap)
	var client scoring.RemoteClient
	if cfg.Scorer == config.ScorerRemote {
		client = remote.New(cfg.RemoteScorerURL, cfg.RemoteScorerRPS)
		log.Info().Str("url", cfg.RemoteScorerURL).Msg("remote scorer enabled")
	}
	scorer := scoring.NewFromConfig(cfg.Scorer, local, client, cfg.RemoteScorerTimeout)

	db, err := leaderboard.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := leaderboard.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(httpserver.Deps{
		Registry:  reg,
		Validator: validator,
		Game: game.Deps{
			Words:     reg,
			Scorer:    scorer,
			Validator: validator,
			Hints:     hint.New(kb, nil),
		},
		Store:       store.NewMemoryStore(),
		Leaderboard: leaderboard.NewStore(db),
		Accounts: account.NewService(db, account.Options{
			Secret:      cfg.JWTSecret,
			ExpiresDays: cfg.JWTExpiresDays,
			CookieName:  cfg.CookieName,
			Secure:      cfg.Production,
		}),
	}, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SpeedrunLimit:  cfg.SpeedrunLimit(),
		HintCadence:    cfg.HintCadence,
		DailySalt:      cfg.DailySalt,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		SessionTTL:     cfg.SessionTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("scorer", cfg.Scorer).Msg("starting proximity server")
		errc <- srv.Start(cfg.Addr())
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}
}
