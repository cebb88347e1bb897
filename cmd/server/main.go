package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Simplici0/sellercalc/internal/config"
	"github.com/Simplici0/sellercalc/internal/db"
	"github.com/Simplici0/sellercalc/internal/logging"
	"github.com/Simplici0/sellercalc/internal/migrations"
	"github.com/Simplici0/sellercalc/internal/seed"
	"github.com/Simplici0/sellercalc/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, warnings := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database.DB, logging.Goose{Logger: logger.With().Str("component", "migrations").Logger()}); err != nil {
		return err
	}

	stats, err := seed.Run(ctx, database, seed.Config{Enabled: cfg.SeedExample})
	if err != nil {
		return err
	}
	if stats.Inserts > 0 {
		logger.Info().Int("inserts", stats.Inserts).Msg("seeded example calculation")
	}

	auth := newAuthService(cfg.AccessPassword, cfg.SessionSecret)
	if !auth.enabled() {
		logger.Warn().Msg("access gate disabled: ACCESS_PASSWORD is empty")
	}

	srv := &server{auth: auth, store: store.New(database), logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(logger))
	r.Use(middleware.Recoverer)
	srv.routes(r)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
