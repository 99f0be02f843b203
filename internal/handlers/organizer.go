package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"eventpass/internal/models"
)

// SalesItem is one event's line in the sales summary.
type SalesItem struct {
	Event      models.OrganizerEvent
	Percentage float64
}

// SalesSummary aggregates ticket sales across an organizer's events.
type SalesSummary struct {
	TotalSales int
	Items      []SalesItem
}

// summarizeSales orders events by sales, best seller first, and computes each
// event's share of the total.
func summarizeSales(events []models.OrganizerEvent) SalesSummary {
	var summary SalesSummary
	for _, e := range events {
		summary.TotalSales += e.TicketSales
	}

	summary.Items = make([]SalesItem, 0, len(events))
	for _, e := range events {
		item := SalesItem{Event: e}
		if summary.TotalSales > 0 {
			item.Percentage = float64(e.TicketSales) / float64(summary.TotalSales) * 100
		}
		summary.Items = append(summary.Items, item)
	}
	sort.SliceStable(summary.Items, func(i, j int) bool {
		return summary.Items[i].Event.TicketSales > summary.Items[j].Event.TicketSales
	})

	return summary
}

// DashboardViewModel is the data passed to the organizer dashboard template.
type DashboardViewModel struct {
	Alert   *Alert
	Events  []models.OrganizerEvent
	Summary SalesSummary
	Form    models.EventInput
}

func (h *Handlers) dashboard(r *http.Request, form models.EventInput, alert *Alert) DashboardViewModel {
	events, err := h.api.OrganizerEvents(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load organizer events")
		events = nil
	}
	return DashboardViewModel{
		Alert:   alert,
		Events:  events,
		Summary: summarizeSales(events),
		Form:    form,
	}
}

// OrganizerDashboard renders the organizer's events and the create form.
func (h *Handlers) OrganizerDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "organizer.html", h.dashboard(r, models.EventInput{}, nil))
}

// CreateEvent handles the create event form.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "organizer.html", h.dashboard(r, models.EventInput{}, errorAlert("Invalid form submission")))
		return
	}

	form := models.EventInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Location:    strings.TrimSpace(r.FormValue("location")),
	}
	if form.Title == "" || form.Description == "" || form.Date == "" || form.Location == "" {
		h.render(w, r, "organizer.html", h.dashboard(r, form, errorAlert("Please fill in all fields")))
		return
	}

	if _, err := h.api.CreateEvent(r.Context(), form); err != nil {
		h.log.Warn().Err(err).Msg("create event failed")
		h.render(w, r, "organizer.html", h.dashboard(r, form, errorAlert("Failed to create event")))
		return
	}

	// Success clears the form and reloads the list
	h.render(w, r, "organizer.html", h.dashboard(r, models.EventInput{}, nil))
}

// TicketsViewModel is the data passed to the organizer tickets template.
// Raw holds the backend payload when it is not a ticket list.
type TicketsViewModel struct {
	EventID string
	Alert   *Alert
	Tickets []models.Ticket
	Raw     string
}

// OrganizerTickets lists the tickets sold for one event.
func (h *Handlers) OrganizerTickets(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	vm := TicketsViewModel{EventID: id}

	raw, err := h.api.EventTickets(r.Context(), id)
	if err != nil {
		h.log.Warn().Err(err).Str("event_id", id).Msg("failed to load tickets")
		vm.Alert = errorAlert("Could not load tickets")
		h.render(w, r, "tickets.html", vm)
		return
	}

	if err := json.Unmarshal(raw, &vm.Tickets); err != nil {
		vm.Raw = string(raw)
	}
	h.render(w, r, "tickets.html", vm)
}
