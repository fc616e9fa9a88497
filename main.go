// main.go
//
// Entry point for the Assembly Endgame server.
// Startup order:
//   - load configuration (.env, then environment) and set up logging
//   - load the word catalog; an empty catalog is fatal
//   - open the game store (memory or SQLite)
//   - start the session hub and the HTTP server
//
// SIGINT/SIGTERM drain the HTTP server, then close every session and the
// store, so in-progress games survive a restart when the store is SQLite.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/assembly-endgame/internal/config"
	"github.com/robalobadob/assembly-endgame/internal/httpserver"
	"github.com/robalobadob/assembly-endgame/internal/session"
	"github.com/robalobadob/assembly-endgame/internal/store"
	"github.com/robalobadob/assembly-endgame/internal/words"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.SetupLogging("info", config.LogConsole)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := config.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	if err := words.Init(cfg.WordsFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	catalog := words.Default()
	log.Info().Int("words", catalog.Len()).Int("categories", len(catalog.Categories())).Msg("word list loaded")

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
	}

	hub := session.NewHub(catalog, session.HubOptions{
		Store:     st,
		IdleTTL:   cfg.IdleTTL,
		RecordTTL: cfg.TokenTTL,
		DailySalt: cfg.DailySalt,
		Logger:    logger,
	})
	srv := httpserver.New(hub, catalog, httpserver.Options{
		ClientOrigin: cfg.ClientOrigin,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		SecureCookie: cfg.SecureCookie,
		Logger:       logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Str("store", cfg.Store).Msg("starting endgame server")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		cancel()
	}

	hub.Close()
	if err := st.Close(); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.Store == config.StoreSQLite {
		return store.OpenSQLite(cfg.DBPath)
	}
	return store.NewMemoryStore(), nil
}
