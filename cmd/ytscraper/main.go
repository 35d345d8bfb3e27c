package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ytscraper/config"
	"ytscraper/storage"
	"ytscraper/web"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("YTSCRAPER_PRETTY_LOGS") == "1" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sessions, err := storage.NewSessionStore(cfg.SessionDir, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	sessions.SetLogger(log.With().Str("component", "storage").Logger())
	sessions.Cleanup()

	srv := web.NewServer(cfg, sessions)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}
