package store

import (
	"sort"

	"eventdesk/internal/models"
)

// EventView is an event with its UI flags and materialized,
// partitioned ticket lists, ready for rendering.
type EventView struct {
	models.Event
	Flags     Flags           `json:"flags"`
	Tickets   []models.Ticket `json:"tickets"`
	Cancelled []models.Ticket `json:"cancelledTickets"`
}

// Events returns all cached events ordered by start time then id.
func (s *Store) Events() []EventView {
	views := make([]EventView, 0, len(s.events))
	for id := range s.events {
		view, _ := s.EventByID(id)
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].StartsAt.Equal(views[j].StartsAt) {
			return views[i].StartsAt.Before(views[j].StartsAt)
		}
		return views[i].ID < views[j].ID
	})
	return views
}

// EventByID returns one event view.
func (s *Store) EventByID(id string) (EventView, bool) {
	state, ok := s.events[id]
	if !ok {
		return EventView{}, false
	}
	view := EventView{
		Event:     state.entity,
		Flags:     state.flags,
		Tickets:   make([]models.Ticket, 0, len(state.active)),
		Cancelled: make([]models.Ticket, 0, len(state.cancelled)),
	}
	for _, ticketID := range state.active {
		view.Tickets = append(view.Tickets, s.tickets[ticketID])
	}
	for _, ticketID := range state.cancelled {
		view.Cancelled = append(view.Cancelled, s.tickets[ticketID])
	}
	return view, true
}

// Ticket returns one cached ticket.
func (s *Store) Ticket(id string) (models.Ticket, bool) {
	t, ok := s.tickets[id]
	return t, ok
}

// Tickets returns all cached tickets ordered by id.
func (s *Store) Tickets() []models.Ticket {
	out := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Contact returns one cached contact.
func (s *Store) Contact(id string) (models.Contact, bool) {
	c, ok := s.contacts[id]
	return c, ok
}

// Contacts returns all cached contacts ordered by id.
func (s *Store) Contacts() []models.Contact {
	out := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Coupon returns one cached coupon.
func (s *Store) Coupon(id string) (models.Coupon, bool) {
	c, ok := s.coupons[id]
	return c, ok
}

// CouponByCode returns the cached coupon with the given code.
func (s *Store) CouponByCode(code string) (models.Coupon, bool) {
	for _, c := range s.coupons {
		if c.Code == code {
			return c, true
		}
	}
	return models.Coupon{}, false
}

// Coupons returns all cached coupons ordered by id.
func (s *Store) Coupons() []models.Coupon {
	out := make([]models.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Service returns one cached service.
func (s *Store) Service(id string) (models.Service, bool) {
	svc, ok := s.services[id]
	return svc, ok
}

// Services returns all cached services ordered by name then id.
func (s *Store) Services() []models.Service {
	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TicketType returns one cached ticket type.
func (s *Store) TicketType(id string) (models.TicketType, bool) {
	tt, ok := s.types[id]
	return tt, ok
}

// SelectedTicketIDs returns the selection ordered by id.
func (s *Store) SelectedTicketIDs() []string {
	return sortedIDs(s.selected)
}

// HighlightedTicketIDs returns the highlight set ordered by id.
func (s *Store) HighlightedTicketIDs() []string {
	return sortedIDs(s.highlighted)
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
