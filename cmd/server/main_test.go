package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"eventpass/internal/api"
	"eventpass/internal/credentials"
	"eventpass/internal/handlers"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	// Backend stand-in: every event lookup fails, everything else is unauthorized
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events":
			w.WriteHeader(http.StatusInternalServerError)
		case "/events/1":
			io.WriteString(w, `{"id":1,"title":"Routed Event","description":"","date":"","location":"","organizer_id":1}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer backend.Close()

	store := credentials.NewMemoryStore()
	client := api.NewClient(backend.URL, store)

	// Use relative paths for tests running in cmd/server
	h := handlers.NewHandlers(client, "../../web/templates", zerolog.Nop())

	if _, err := os.Stat("../../web/templates"); os.IsNotExist(err) {
		t.Skip("Template directory not found, skipping router test")
	}

	mux := setupRouter(h, "../../web/static")

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
		allowAlt   []int // Alternative acceptable status codes
	}{
		{
			name:       "Root redirects to login without a token",
			method:     "GET",
			path:       "/",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Static file access",
			method:     "GET",
			path:       "/static/style.css",
			wantStatus: http.StatusOK,
			allowAlt:   []int{http.StatusNotFound}, // File might not exist in test env
		},
		{
			name:       "Login screen",
			method:     "GET",
			path:       "/login",
			wantStatus: http.StatusOK,
			wantBody:   "Welcome Back",
		},
		{
			name:       "Feed falls back to placeholders",
			method:     "GET",
			path:       "/events",
			wantStatus: http.StatusOK,
			wantBody:   "Sample Event 1",
		},
		{
			name:       "Event detail",
			method:     "GET",
			path:       "/events/1",
			wantStatus: http.StatusOK,
			wantBody:   "Routed Event",
		},
		{
			name:       "Purchase without token surfaces an alert",
			method:     "POST",
			path:       "/events/1/tickets",
			wantStatus: http.StatusOK,
			wantBody:   "Could not purchase ticket",
		},
		{
			name:       "Organizer tickets",
			method:     "GET",
			path:       "/organizer/events/1/tickets",
			wantStatus: http.StatusOK,
			wantBody:   "Could not load tickets",
		},
		{
			name:       "Unknown path",
			method:     "GET",
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Check if status matches expected or any alternative
			if len(tt.allowAlt) > 0 {
				acceptableStatuses := append([]int{tt.wantStatus}, tt.allowAlt...)
				assert.Contains(t, acceptableStatuses, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			} else {
				assert.Equal(t, tt.wantStatus, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			}
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}

	// Root follows the stored token
	require.NoError(t, store.Set(t.Context(), "tok"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
	assert.Equal(t, "/events", w.Header().Get("Location"))
}
