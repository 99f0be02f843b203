package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a backend resource. The backend emits numeric ids while
// paths address resources by string, so both JSON forms are accepted.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User represents the account embedded in an authentication response.
type User struct {
	ID       ID     `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// AuthResponse is returned by login and signup. Only AccessToken is kept.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// LoginCredentials is the login request body.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupCredentials is the signup request body.
type SignupCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// SimpleSignup is the minimal registration form.
type SimpleSignup struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Event represents an event listed by the backend. Date is kept verbatim.
type Event struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	OrganizerID ID     `json:"organizer_id"`
}

// EventInput holds the writable fields of an event.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

// OrganizerEvent is an event as seen by its organizer, with sales.
type OrganizerEvent struct {
	Event
	TicketSales int `json:"ticket_sales"`
}

// Ticket is a purchased ticket.
type Ticket struct {
	ID      ID `json:"id"`
	EventID ID `json:"event_id"`
	UserID  ID `json:"user_id"`
}
