// Package navigation names the client's screens and decides where a session
// starts.
package navigation

import (
	"context"
	"net/url"
)

// Screen names a screen of the client.
type Screen string

const (
	Login              Screen = "Login"
	Signup             Screen = "Signup"
	SimpleSignup       Screen = "SimpleSignup"
	EventFeed          Screen = "EventFeed"
	EventDetail        Screen = "EventDetail"
	OrganizerDashboard Screen = "OrganizerDashboard"
	OrganizerTickets   Screen = "OrganizerTickets"
)

// AuthChecker reports whether a credential is held locally.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// Initial returns the first screen to show: the event feed when a token is
// stored, the login screen otherwise.
func Initial(ctx context.Context, auth AuthChecker) Screen {
	if auth.IsAuthenticated(ctx) {
		return EventFeed
	}
	return Login
}

// Path returns the web path of a screen. EventDetail and OrganizerTickets
// take the event id as their only parameter.
func Path(s Screen, params ...string) string {
	id := ""
	if len(params) > 0 {
		id = url.PathEscape(params[0])
	}

	switch s {
	case Login:
		return "/login"
	case Signup:
		return "/signup"
	case SimpleSignup:
		return "/register"
	case EventFeed:
		return "/events"
	case EventDetail:
		return "/events/" + id
	case OrganizerDashboard:
		return "/organizer"
	case OrganizerTickets:
		return "/organizer/events/" + id + "/tickets"
	default:
		return "/"
	}
}
