// Package devbackend is an in-memory stand-in for the events backend, used
// for local development and tests. It serves the same routes and status
// codes as the real service.
package devbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"eventpass/internal/models"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long issued access tokens stay valid.
const TokenTTL = time.Hour

type user struct {
	ID           int
	Email        string
	Username     string
	PasswordHash []byte
	Organizer    bool
}

type event struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	OrganizerID int    `json:"organizer_id"`
}

type eventWithSales struct {
	event
	TicketSales int `json:"ticket_sales"`
}

type ticket struct {
	ID      int `json:"id"`
	EventID int `json:"event_id"`
	UserID  int `json:"user_id"`
}

type signup struct {
	ID int `json:"id"`
	models.SimpleSignup
}

type userJSON struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type authResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        userJSON `json:"user"`
}

// Server is the in-memory backend. It is safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	secret  []byte
	users   map[string]*user
	events  []event
	tickets []ticket
	signups []signup
	nextID  int

	router *mux.Router
	log    zerolog.Logger
}

// New creates an empty backend signing tokens with secret.
func New(secret []byte, log zerolog.Logger) *Server {
	s := &Server{
		secret: secret,
		users:  make(map[string]*user),
		log:    log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/signup", s.handleSimpleSignup).Methods(http.MethodPost)
	r.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	r.HandleFunc("/events", s.requireUser(s.handleCreateEvent)).Methods(http.MethodPost)
	r.HandleFunc("/events/{id}", s.handleGetEvent).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}/tickets", s.requireUser(s.handlePurchase)).Methods(http.MethodPost)
	r.HandleFunc("/organizer/events", s.requireUser(s.handleOrganizerEvents)).Methods(http.MethodGet)
	r.HandleFunc("/organizer/events/{id}/tickets", s.requireUser(s.handleOrganizerTickets)).Methods(http.MethodGet)
	r.Use(s.logRequests)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

// AddUser registers an account directly. Signups through the API are always
// organizers.
func (s *Server) AddUser(email, username, password string, organizer bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return errors.New("email already registered")
	}
	s.users[email] = &user{ID: s.id(), Email: email, Username: username, PasswordHash: hash, Organizer: organizer}
	return nil
}

// AddEvent stores an event owned by organizerID and returns its id.
func (s *Server) AddEvent(in models.EventInput, organizerID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := event{
		ID:          s.id(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		OrganizerID: organizerID,
	}
	s.events = append(s.events, ev)
	return ev.ID
}

// Signups returns the minimal registrations received so far.
func (s *Server) Signups() []models.SimpleSignup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SimpleSignup, 0, len(s.signups))
	for _, su := range s.signups {
		out = append(out, su.SimpleSignup)
	}
	return out
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Msg("backend request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil
}
