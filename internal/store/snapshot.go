package store

import "eventdesk/internal/models"

// Snapshot is a structural copy of the whole store, captured by the
// optimistic engine before a mutation and restored on remote failure.
// Entities are value structs, so copying the maps copies the data;
// only the per-event id slices need explicit cloning.
type Snapshot struct {
	services    map[string]models.Service
	types       map[string]models.TicketType
	events      map[string]eventState
	tickets     map[string]models.Ticket
	contacts    map[string]models.Contact
	coupons     map[string]models.Coupon
	selected    map[string]struct{}
	highlighted map[string]struct{}
}

// Snapshot captures the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		services:    make(map[string]models.Service, len(s.services)),
		types:       make(map[string]models.TicketType, len(s.types)),
		events:      make(map[string]eventState, len(s.events)),
		tickets:     make(map[string]models.Ticket, len(s.tickets)),
		contacts:    make(map[string]models.Contact, len(s.contacts)),
		coupons:     make(map[string]models.Coupon, len(s.coupons)),
		selected:    make(map[string]struct{}, len(s.selected)),
		highlighted: make(map[string]struct{}, len(s.highlighted)),
	}
	for id, svc := range s.services {
		svc.TicketTypes = append([]models.TicketType(nil), svc.TicketTypes...)
		snap.services[id] = svc
	}
	for id, tt := range s.types {
		snap.types[id] = tt
	}
	for id, state := range s.events {
		copied := *state
		copied.active = append([]string(nil), state.active...)
		copied.cancelled = append([]string(nil), state.cancelled...)
		snap.events[id] = copied
	}
	for id, t := range s.tickets {
		snap.tickets[id] = t
	}
	for id, c := range s.contacts {
		snap.contacts[id] = c
	}
	for id, c := range s.coupons {
		snap.coupons[id] = c
	}
	for id := range s.selected {
		snap.selected[id] = struct{}{}
	}
	for id := range s.highlighted {
		snap.highlighted[id] = struct{}{}
	}
	return snap
}

// Restore replaces the store's contents with the snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.services = make(map[string]models.Service, len(snap.services))
	for id, svc := range snap.services {
		svc.TicketTypes = append([]models.TicketType(nil), svc.TicketTypes...)
		s.services[id] = svc
	}
	s.types = make(map[string]models.TicketType, len(snap.types))
	for id, tt := range snap.types {
		s.types[id] = tt
	}
	s.events = make(map[string]*eventState, len(snap.events))
	for id, state := range snap.events {
		copied := state
		copied.active = append([]string(nil), state.active...)
		copied.cancelled = append([]string(nil), state.cancelled...)
		s.events[id] = &copied
	}
	s.tickets = make(map[string]models.Ticket, len(snap.tickets))
	for id, t := range snap.tickets {
		s.tickets[id] = t
	}
	s.contacts = make(map[string]models.Contact, len(snap.contacts))
	for id, c := range snap.contacts {
		s.contacts[id] = c
	}
	s.coupons = make(map[string]models.Coupon, len(snap.coupons))
	for id, c := range snap.coupons {
		s.coupons[id] = c
	}
	s.selected = make(map[string]struct{}, len(snap.selected))
	for id := range snap.selected {
		s.selected[id] = struct{}{}
	}
	s.highlighted = make(map[string]struct{}, len(snap.highlighted))
	for id := range snap.highlighted {
		s.highlighted[id] = struct{}{}
	}
}
