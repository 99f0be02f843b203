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

	"eventpass/internal/api"
	"eventpass/internal/config"
	"eventpass/internal/credentials"
	"eventpass/internal/handlers"
	"eventpass/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	store, err := credentials.NewSQLiteStore(cfg.Credentials.Path, []byte(cfg.Credentials.Secret))
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Credentials.Path).Msg("failed to open credential store")
	}
	defer store.Close()

	client := api.NewClient(cfg.API.BaseURL, store, api.WithLogger(logger.WithComponent(log, "api")))
	h := handlers.NewHandlers(client, cfg.Server.TemplateDir, logger.WithComponent(log, "screens"))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           setupRouter(h, cfg.Server.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("api", cfg.API.BaseURL).Msg("server listening")
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

func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.HandleFunc("GET /{$}", h.Root)

	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /signup", h.SignupForm)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("GET /register", h.SimpleSignupForm)
	mux.HandleFunc("POST /register", h.SimpleSignup)
	mux.HandleFunc("GET /logout", h.LogoutConfirm)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /events", h.EventFeed)
	mux.HandleFunc("GET /events/{id}", h.EventDetail)
	mux.HandleFunc("POST /events/{id}/tickets", h.PurchaseTicket)

	mux.HandleFunc("GET /organizer", h.OrganizerDashboard)
	mux.HandleFunc("POST /organizer/events", h.CreateEvent)
	mux.HandleFunc("GET /organizer/events/{id}/tickets", h.OrganizerTickets)

	return mux
}
