package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventpass/internal/config"
	"eventpass/internal/devbackend"
	"eventpass/internal/logger"
	"eventpass/internal/models"
)

var sampleEvents = []models.EventInput{
	{Title: "Go Meetup", Description: "Talks and pizza", Date: "2024-03-01", Location: "Berlin"},
	{Title: "Jazz Night", Description: "Live quartet", Date: "2024-03-15", Location: "Lisbon"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	backend := devbackend.New([]byte(cfg.DevBackend.JWTSecret), logger.WithComponent(log, "devbackend"))
	if err := seed(backend, cfg.DevBackend); err != nil {
		log.Fatal().Err(err).Msg("failed to seed backend")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.DevBackend.Port,
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("demo_user", cfg.DevBackend.DemoEmail).Msg("dev backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// seed creates the demo organizer and the sample events it owns.
func seed(backend *devbackend.Server, cfg config.DevBackendConfig) error {
	if err := backend.AddUser(cfg.DemoEmail, "demo", cfg.DemoPassword, true); err != nil {
		return err
	}
	for _, ev := range sampleEvents {
		backend.AddEvent(ev, 1)
	}
	return nil
}
