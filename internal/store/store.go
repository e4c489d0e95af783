package store

import (
	"fmt"
	"sort"
	"strings"

	"eventdesk/internal/models"
)

// Flags is the per-client UI state of one event. It is never sent to
// the remote store and survives refreshes.
type Flags struct {
	Expanded      bool `json:"expanded"`
	ShowCancelled bool `json:"showCancelled"`
	LockedArrived bool `json:"lockedArrived"`
}

func defaultFlags() Flags {
	return Flags{LockedArrived: true}
}

type eventState struct {
	entity    models.Event
	flags     Flags
	active    []string
	cancelled []string
}

// Store holds the cached entity graph. Not safe for concurrent use.
type Store struct {
	services    map[string]models.Service
	types       map[string]models.TicketType
	events      map[string]*eventState
	tickets     map[string]models.Ticket
	contacts    map[string]models.Contact
	coupons     map[string]models.Coupon
	selected    map[string]struct{}
	highlighted map[string]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		services:    make(map[string]models.Service),
		types:       make(map[string]models.TicketType),
		events:      make(map[string]*eventState),
		tickets:     make(map[string]models.Ticket),
		contacts:    make(map[string]models.Contact),
		coupons:     make(map[string]models.Coupon),
		selected:    make(map[string]struct{}),
		highlighted: make(map[string]struct{}),
	}
}

// ---------------- upserts ----------------

// UpsertServices inserts or replaces services by id, reindexing their
// owned ticket types. Replacing a service drops types it no longer
// declares.
func (s *Store) UpsertServices(services []models.Service) {
	for _, svc := range services {
		for id, tt := range s.types {
			if tt.ServiceID == svc.ID {
				delete(s.types, id)
			}
		}
		s.services[svc.ID] = svc
		for _, tt := range svc.TicketTypes {
			s.types[tt.ID] = tt
		}
	}
	// VIP flags feed the ticket sort order.
	s.rebuildAllEvents()
}

// UpsertEvents inserts or replaces events by id. Incoming rows carry
// no UI flags, so existing flags are kept; an unknown event gets the
// defaults (collapsed, arrivals locked, cancelled hidden).
func (s *Store) UpsertEvents(events []models.Event) {
	for _, ev := range events {
		if state, ok := s.events[ev.ID]; ok {
			state.entity = ev
			continue
		}
		s.events[ev.ID] = &eventState{entity: ev, flags: defaultFlags()}
		s.rebuildEvent(ev.ID)
	}
}

// UpsertTickets inserts or replaces tickets by id and repartitions
// every event they touch (including the event a moved ticket left).
func (s *Store) UpsertTickets(tickets []models.Ticket) {
	dirty := make(map[string]struct{})
	for _, t := range tickets {
		if prev, ok := s.tickets[t.ID]; ok && prev.EventID != t.EventID {
			dirty[prev.EventID] = struct{}{}
		}
		s.tickets[t.ID] = t
		dirty[t.EventID] = struct{}{}
	}
	for eventID := range dirty {
		s.rebuildEvent(eventID)
	}
}

// UpsertContacts inserts or replaces contacts by id. Contact names
// feed the ticket sort order, so referencing events repartition.
func (s *Store) UpsertContacts(contacts []models.Contact) {
	for _, c := range contacts {
		s.contacts[c.ID] = c
	}
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	s.rebuildEventsForContacts(ids)
}

// UpsertCoupons inserts or replaces coupons by id.
func (s *Store) UpsertCoupons(coupons []models.Coupon) {
	for _, c := range coupons {
		s.coupons[c.ID] = c
	}
}

// ---------------- removals ----------------

// RemoveTickets deletes tickets, drops them from the selection and
// highlight sets, and repartitions their events.
func (s *Store) RemoveTickets(ids []string) {
	dirty := make(map[string]struct{})
	for _, id := range ids {
		t, ok := s.tickets[id]
		if !ok {
			continue
		}
		delete(s.tickets, id)
		delete(s.selected, id)
		delete(s.highlighted, id)
		dirty[t.EventID] = struct{}{}
	}
	for eventID := range dirty {
		s.rebuildEvent(eventID)
	}
}

// RemoveEvents deletes events together with their tickets.
func (s *Store) RemoveEvents(ids []string) {
	for _, id := range ids {
		state, ok := s.events[id]
		if !ok {
			continue
		}
		s.RemoveTickets(append(append([]string{}, state.active...), state.cancelled...))
		delete(s.events, id)
	}
}

// RemoveContacts deletes contacts. Dangling ticket/coupon references
// are the caller's responsibility (merge rewrites them first).
func (s *Store) RemoveContacts(ids []string) {
	for _, id := range ids {
		delete(s.contacts, id)
	}
	s.rebuildEventsForContacts(ids)
}

// RemoveCoupons deletes coupons.
func (s *Store) RemoveCoupons(ids []string) {
	for _, id := range ids {
		delete(s.coupons, id)
	}
}

// RemoveServices deletes services and their owned ticket types.
func (s *Store) RemoveServices(ids []string) {
	for _, id := range ids {
		svc, ok := s.services[id]
		if !ok {
			continue
		}
		for _, tt := range svc.TicketTypes {
			delete(s.types, tt.ID)
		}
		delete(s.services, id)
	}
}

// ---------------- patches ----------------

// PatchTicket shallow-merges the patch into the ticket and
// repartitions its event.
func (s *Store) PatchTicket(id string, patch models.TicketPatch) error {
	t, ok := s.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %s not in cache", id)
	}
	patch.Apply(&t)
	s.tickets[id] = t
	s.rebuildEvent(t.EventID)
	return nil
}

// PatchContact shallow-merges the patch into the contact. Tickets and
// coupons reference contacts by id, so every read through them sees
// the new values immediately; referencing events repartition because
// names are sort keys.
func (s *Store) PatchContact(id string, patch models.ContactPatch) error {
	c, ok := s.contacts[id]
	if !ok {
		return fmt.Errorf("contact %s not in cache", id)
	}
	patch.Apply(&c)
	s.contacts[id] = c
	s.rebuildEventsForContacts([]string{id})
	return nil
}

// PatchCoupon shallow-merges the patch into the coupon.
func (s *Store) PatchCoupon(id string, patch models.CouponPatch) error {
	c, ok := s.coupons[id]
	if !ok {
		return fmt.Errorf("coupon %s not in cache", id)
	}
	patch.Apply(&c)
	s.coupons[id] = c
	return nil
}

// PatchEvent shallow-merges the patch into the event entity. Flags
// are untouched.
func (s *Store) PatchEvent(id string, patch models.EventPatch) error {
	state, ok := s.events[id]
	if !ok {
		return fmt.Errorf("event %s not in cache", id)
	}
	patch.Apply(&state.entity)
	return nil
}

// ---------------- ephemeral UI state ----------------

func (s *Store) SetExpanded(eventID string, expanded bool) {
	if state, ok := s.events[eventID]; ok {
		state.flags.Expanded = expanded
	}
}

func (s *Store) SetShowCancelled(eventID string, show bool) {
	if state, ok := s.events[eventID]; ok {
		state.flags.ShowCancelled = show
	}
}

func (s *Store) SetLockedArrived(eventID string, locked bool) {
	if state, ok := s.events[eventID]; ok {
		state.flags.LockedArrived = locked
	}
}

// SelectTickets adds known ticket ids to the selection.
func (s *Store) SelectTickets(ids []string) {
	for _, id := range ids {
		if _, ok := s.tickets[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
}

// DeselectTickets removes ticket ids from the selection.
func (s *Store) DeselectTickets(ids []string) {
	for _, id := range ids {
		delete(s.selected, id)
	}
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.selected = make(map[string]struct{})
}

// SetHighlighted replaces the highlight set with the given ticket ids.
func (s *Store) SetHighlighted(ids []string) {
	s.highlighted = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.highlighted[id] = struct{}{}
	}
}

// ---------------- partition & sort ----------------

// rebuildEvent repartitions and resorts one event's ticket lists.
// Every mutator that can touch payment status, price or identity
// fields routes through here.
func (s *Store) rebuildEvent(eventID string) {
	state, ok := s.events[eventID]
	if !ok {
		return
	}
	var active, cancelled []string
	for id, t := range s.tickets {
		if t.EventID != eventID {
			continue
		}
		if t.PaymentStatus == models.PaymentCancelled {
			cancelled = append(cancelled, id)
		} else {
			active = append(active, id)
		}
	}
	s.sortTicketIDs(active)
	s.sortTicketIDs(cancelled)
	state.active = active
	state.cancelled = cancelled
}

func (s *Store) rebuildAllEvents() {
	for id := range s.events {
		s.rebuildEvent(id)
	}
}

func (s *Store) rebuildEventsForContacts(contactIDs []string) {
	refs := make(map[string]struct{}, len(contactIDs))
	for _, id := range contactIDs {
		refs[id] = struct{}{}
	}
	dirty := make(map[string]struct{})
	for _, t := range s.tickets {
		if _, ok := refs[t.GuestContactID]; ok {
			dirty[t.EventID] = struct{}{}
			continue
		}
		if _, ok := refs[t.BillingContactID]; ok {
			dirty[t.EventID] = struct{}{}
		}
	}
	for eventID := range dirty {
		s.rebuildEvent(eventID)
	}
}

// sortTicketIDs orders ticket ids by billing contact name, VIP types
// before the rest, then guest contact name, with the ticket id as the
// final tiebreak so the order is total.
func (s *Store) sortTicketIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := s.tickets[ids[i]], s.tickets[ids[j]]
		an := s.contactSortName(a.BillingContactID)
		bn := s.contactSortName(b.BillingContactID)
		if an != bn {
			return an < bn
		}
		av, bv := s.types[a.TypeID].IsVIP, s.types[b.TypeID].IsVIP
		if av != bv {
			return av
		}
		ag := s.contactSortName(a.GuestContactID)
		bg := s.contactSortName(b.GuestContactID)
		if ag != bg {
			return ag < bg
		}
		return a.ID < b.ID
	})
}

func (s *Store) contactSortName(contactID string) string {
	return strings.ToLower(strings.TrimSpace(s.contacts[contactID].Name))
}
