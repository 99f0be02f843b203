package handlers

import (
	"net/http"

	"eventpass/internal/models"
	"eventpass/internal/navigation"
)

// FeedViewModel is the data passed to the event feed template.
type FeedViewModel struct {
	Events []models.Event
	// Degraded is set when Events are placeholders. Only a refresh link
	// is shown for it.
	Degraded bool
}

// EventFeed renders the list of events, falling back to placeholder data.
func (h *Handlers) EventFeed(w http.ResponseWriter, r *http.Request) {
	events, err := h.api.Events(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("error loading events")
		h.render(w, r, "events.html", FeedViewModel{Events: models.PlaceholderEvents, Degraded: true})
		return
	}
	h.render(w, r, "events.html", FeedViewModel{Events: events})
}

// EventViewModel is the data passed to the event detail template. Event is
// nil while it could not be loaded.
type EventViewModel struct {
	EventID string
	Event   *models.Event
	Alert   *Alert
}

// EventDetail renders a single event.
func (h *Handlers) EventDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.render(w, r, "event.html", EventViewModel{EventID: id, Event: h.loadEvent(r, id)})
}

func (h *Handlers) loadEvent(r *http.Request, id string) *models.Event {
	ev, err := h.api.Event(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("event_id", id).Msg("failed to load event")
		return nil
	}
	return ev
}

// PurchaseTicket buys a ticket for the event shown on the detail screen.
func (h *Handlers) PurchaseTicket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.navigate(w, r, navigation.EventFeed)
		return
	}

	vm := EventViewModel{EventID: id}
	if _, err := h.api.PurchaseTicket(r.Context(), id); err != nil {
		h.log.Warn().Err(err).Str("event_id", id).Msg("purchase failed")
		vm.Alert = errorAlert("Could not purchase ticket")
	} else {
		vm.Alert = successAlert("Ticket purchased!")
	}
	vm.Event = h.loadEvent(r, id)
	h.render(w, r, "event.html", vm)
}
