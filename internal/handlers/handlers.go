package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"eventpass/internal/models"
	"eventpass/internal/navigation"

	"github.com/rs/zerolog"
)

// Backend is the part of the API client the screens use.
type Backend interface {
	navigation.AuthChecker
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Signup(ctx context.Context, username, email, password string) (*models.AuthResponse, error)
	SimpleSignup(ctx context.Context, firstName, lastName, phone string) error
	Logout(ctx context.Context)
	Events(ctx context.Context) ([]models.Event, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, in models.EventInput) (*models.Event, error)
	OrganizerEvents(ctx context.Context) ([]models.OrganizerEvent, error)
	EventTickets(ctx context.Context, eventID string) (json.RawMessage, error)
	PurchaseTicket(ctx context.Context, eventID string) (json.RawMessage, error)
}

// Handlers holds dependencies for the screens.
type Handlers struct {
	api         Backend
	templateDir string
	log         zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(api Backend, templateDir string, log zerolog.Logger) *Handlers {
	return &Handlers{api: api, templateDir: templateDir, log: log}
}

// Alert is a message shown at the top of a screen.
type Alert struct {
	Title   string
	Message string
	Success bool
}

func errorAlert(message string) *Alert {
	return &Alert{Title: "Error", Message: message}
}

func successAlert(message string) *Alert {
	return &Alert{Title: "Success", Message: message, Success: true}
}

// Root sends the user to the feed when a token is stored and to the login
// screen otherwise.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, navigation.Initial(r.Context(), h.api))
}

// navigate replaces the current screen. htmx requests get an HX-Location
// header so the swap stays inside #content.
func (h *Handlers) navigate(w http.ResponseWriter, r *http.Request, s navigation.Screen, params ...string) {
	path := navigation.Path(s, params...)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Location", fmt.Sprintf(`{"path":%q, "target":"#content"}`, path))
		return
	}
	http.Redirect(w, r, path, http.StatusFound)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "base.html"), filepath.Join(h.templateDir, viewName))
	if err != nil {
		h.log.Error().Err(err).Str("view", viewName).Msg("template error")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	target := "base.html"
	if r.Header.Get("HX-Request") == "true" {
		target = "content"
	}
	if err := tmpl.ExecuteTemplate(w, target, data); err != nil {
		h.log.Error().Err(err).Str("view", viewName).Msg("template execution error")
	}
}
