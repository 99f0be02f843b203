package devbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventpass/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userContextKey contextKey = "user"

func (s *Server) issueToken(u *user) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(u.ID),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// userFromToken resolves the bearer token on r to a user.
func (s *Server) userFromToken(r *http.Request) (*user, bool) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// requireUser rejects requests without a valid token with 401.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.userFromToken(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, u)))
	}
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userContextKey).(*user)
	return u
}

func (s *Server) authResponse(w http.ResponseWriter, u *user) {
	token, err := s.issueToken(u)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign token")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userJSON{ID: u.ID, Email: u.Email, Username: u.Username},
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in models.SignupCredentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	if err := s.AddUser(in.Email, in.Username, in.Password, true); err != nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	s.mu.Lock()
	u := s.users[in.Email]
	s.mu.Unlock()
	s.authResponse(w, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.LoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[in.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	s.authResponse(w, u)
}

func (s *Server) handleSimpleSignup(w http.ResponseWriter, r *http.Request) {
	var in models.SimpleSignup
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "first_name, last_name and phone are required")
		return
	}

	s.mu.Lock()
	su := signup{ID: s.id(), SimpleSignup: in}
	s.signups = append(s.signups, su)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, su)
}
