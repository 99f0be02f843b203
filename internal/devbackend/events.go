package devbackend

import (
	"encoding/json"
	"net/http"

	"eventpass/internal/models"
)

func (s *Server) findEvent(id int) (event, bool) {
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return event{}, false
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	events := append([]event{}, s.events...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Event not found")
		return
	}

	s.mu.Lock()
	ev, found := s.findEvent(id)
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if !u.Organizer {
		writeDetail(w, http.StatusForbidden, "Organizer access required")
		return
	}

	var in models.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil ||
		in.Title == "" || in.Description == "" || in.Date == "" || in.Location == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title, description, date and location are required")
		return
	}

	id := s.AddEvent(in, u.ID)

	s.mu.Lock()
	ev, _ := s.findEvent(id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id, ok := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.findEvent(id); !ok || !found {
		writeDetail(w, http.StatusNotFound, "Event not found")
		return
	}

	t := ticket{ID: s.id(), EventID: id, UserID: u.ID}
	s.tickets = append(s.tickets, t)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleOrganizerEvents(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if !u.Organizer {
		writeDetail(w, http.StatusForbidden, "Organizer access required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sales := make(map[int]int)
	for _, t := range s.tickets {
		sales[t.EventID]++
	}

	results := []eventWithSales{}
	for _, ev := range s.events {
		if ev.OrganizerID == u.ID {
			results = append(results, eventWithSales{event: ev, TicketSales: sales[ev.ID]})
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleOrganizerTickets(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if !u.Organizer {
		writeDetail(w, http.StatusForbidden, "Organizer access required")
		return
	}
	id, ok := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	ev, found := s.findEvent(id)
	if !ok || !found || ev.OrganizerID != u.ID {
		writeDetail(w, http.StatusNotFound, "Event not found")
		return
	}

	tickets := []ticket{}
	for _, t := range s.tickets {
		if t.EventID == id {
			tickets = append(tickets, t)
		}
	}
	writeJSON(w, http.StatusOK, tickets)
}
