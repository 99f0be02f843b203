package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventpass/internal/credentials"
	"eventpass/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client talks to the events backend on behalf of one local user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      credentials.Store
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request and storage diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the backend at baseURL that keeps its token
// in store.
func NewClient(baseURL string, store credentials.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) token(ctx context.Context) string {
	token, err := c.store.Get(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("error getting token")
		return ""
	}
	return token
}

func (c *Client) setToken(ctx context.Context, token string) {
	if err := c.store.Set(ctx, token); err != nil {
		c.log.Error().Err(err).Msg("error setting token")
	}
}

func (c *Client) removeToken(ctx context.Context) {
	if err := c.store.Delete(ctx); err != nil {
		c.log.Error().Err(err).Msg("error removing token")
	}
}

// makeRequest sends one request and returns the body of a 2xx response.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, &TransportError{Method: method, Path: endpoint, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", endpoint).Str("request_id", requestID).Msg("request failed")
		return nil, &TransportError{Method: method, Path: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", endpoint).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode == http.StatusUnauthorized {
			c.removeToken(ctx)
		}
		return nil, &HTTPError{Method: method, Path: endpoint, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: endpoint, Err: err}
	}
	return data, nil
}

// do sends a request and decodes the response into T.
func do[T any](ctx context.Context, c *Client, method, endpoint string, body any) (T, error) {
	var out T
	data, err := c.makeRequest(ctx, method, endpoint, body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Path: endpoint, Err: err}
	}
	return out, nil
}

// raw sends a request and returns the response body untouched. An empty body
// is returned as JSON null.
func (c *Client) raw(ctx context.Context, method, endpoint string) (json.RawMessage, error) {
	data, err := c.makeRequest(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, &DecodeError{Path: endpoint, Err: fmt.Errorf("invalid JSON body")}
	}
	return json.RawMessage(data), nil
}

// Login authenticates with email and password and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := do[models.AuthResponse](ctx, c, http.MethodPost, "/auth/login", models.LoginCredentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	c.setToken(ctx, resp.AccessToken)
	return &resp, nil
}

// Signup creates an account and stores the returned token.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*models.AuthResponse, error) {
	resp, err := do[models.AuthResponse](ctx, c, http.MethodPost, "/auth/signup", models.SignupCredentials{
		Email:    email,
		Password: password,
		Username: username,
	})
	if err != nil {
		return nil, err
	}
	c.setToken(ctx, resp.AccessToken)
	return &resp, nil
}

// SimpleSignup submits the minimal registration form. The response body is
// ignored and no token is stored.
func (c *Client) SimpleSignup(ctx context.Context, firstName, lastName, phone string) error {
	_, err := c.makeRequest(ctx, http.MethodPost, "/signup", models.SimpleSignup{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	})
	return err
}

// Logout removes the stored token.
func (c *Client) Logout(ctx context.Context) {
	c.removeToken(ctx)
}

// Events lists all events.
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	return do[[]models.Event](ctx, c, http.MethodGet, "/events", nil)
}

// Event fetches a single event.
func (c *Client) Event(ctx context.Context, id string) (*models.Event, error) {
	ev, err := do[models.Event](ctx, c, http.MethodGet, "/events/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// CreateEvent creates an event owned by the current user.
func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (*models.Event, error) {
	ev, err := do[models.Event](ctx, c, http.MethodPost, "/events", in)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// OrganizerEvents lists the current organizer's events with ticket sales.
func (c *Client) OrganizerEvents(ctx context.Context) ([]models.OrganizerEvent, error) {
	return do[[]models.OrganizerEvent](ctx, c, http.MethodGet, "/organizer/events", nil)
}

// EventTickets returns the organizer's ticket listing for an event as sent by
// the backend.
func (c *Client) EventTickets(ctx context.Context, eventID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/organizer/events/"+url.PathEscape(eventID)+"/tickets")
}

// PurchaseTicket buys a ticket for an event and returns the backend's reply.
func (c *Client) PurchaseTicket(ctx context.Context, eventID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/tickets")
}

// IsAuthenticated reports whether a token is stored. The token is not
// validated and the backend is not contacted.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.token(ctx) != ""
}
