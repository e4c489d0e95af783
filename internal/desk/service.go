// Package desk is the application service behind the dashboard: it
// owns the cache, the optimistic engine, and the remote collaborator,
// and exposes the read/mutation surface the UI layer calls. All
// access is serialized through one mutex, matching the single-event-
// loop model the cache is designed for.
package desk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/internal/optimistic"
	"eventdesk/internal/remote"
	"eventdesk/internal/search"
	"eventdesk/internal/store"
	"eventdesk/internal/utils"
)

// Service ties the cache to the remote store.
type Service struct {
	mu      sync.Mutex
	store   *store.Store
	remote  remote.Store
	engine  *optimistic.Engine
	log     *logger.Logger
	matcher search.Matcher

	// Confirm gates destructive mutations. Nil means proceed; the
	// HTTP layer leaves it nil because the browser already asked.
	Confirm func(message string) bool

	now func() time.Time
}

// New wires a desk service over the given collaborators.
func New(s *store.Store, r remote.Store, e *optimistic.Engine, log *logger.Logger) *Service {
	return &Service{
		store:   s,
		remote:  r,
		engine:  e,
		log:     log,
		matcher: search.NewMatcher(),
		now:     time.Now,
	}
}

func (s *Service) confirm(message string) func() bool {
	if s.Confirm == nil {
		return nil
	}
	return func() bool { return s.Confirm(message) }
}

// Refresh pulls every kind from the remote store and reconciles the
// cache: new rows upserted, missing rows dropped, per-event UI flags
// kept as they were.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	services, err := s.remote.FetchServices(ctx)
	if err != nil {
		return err
	}
	events, err := s.remote.FetchEvents(ctx)
	if err != nil {
		return err
	}
	tickets, err := s.remote.FetchTickets(ctx)
	if err != nil {
		return err
	}
	contacts, err := s.remote.FetchContacts(ctx)
	if err != nil {
		return err
	}
	coupons, err := s.remote.FetchCoupons(ctx)
	if err != nil {
		return err
	}

	s.store.UpsertContacts(contacts)
	s.store.UpsertServices(services)
	s.store.UpsertEvents(events)
	s.store.UpsertTickets(tickets)
	s.store.UpsertCoupons(coupons)

	s.store.RemoveTickets(staleIDs(s.store.Tickets(), tickets, func(t models.Ticket) string { return t.ID }))
	s.store.RemoveEvents(staleIDs(eventEntities(s.store.Events()), events, func(e models.Event) string { return e.ID }))
	s.store.RemoveCoupons(staleIDs(s.store.Coupons(), coupons, func(c models.Coupon) string { return c.ID }))
	s.store.RemoveContacts(staleIDs(s.store.Contacts(), contacts, func(c models.Contact) string { return c.ID }))
	s.store.RemoveServices(staleIDs(s.store.Services(), services, func(svc models.Service) string { return svc.ID }))

	s.log.LogRemote("refresh", "all", fmt.Sprintf("%d events, %d tickets, %d contacts, %d coupons",
		len(events), len(tickets), len(contacts), len(coupons)))
	return nil
}

func eventEntities(views []store.EventView) []models.Event {
	out := make([]models.Event, 0, len(views))
	for _, v := range views {
		out = append(out, v.Event)
	}
	return out
}

// staleIDs returns ids of cached rows absent from the fetched set.
func staleIDs[T any](cached, fetched []T, id func(T) string) []string {
	present := make(map[string]struct{}, len(fetched))
	for _, row := range fetched {
		present[id(row)] = struct{}{}
	}
	var stale []string
	for _, row := range cached {
		if _, ok := present[id(row)]; !ok {
			stale = append(stale, id(row))
		}
	}
	return stale
}

// ---------------- reads ----------------

// Events returns all cached event views.
func (s *Service) Events() []store.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Events()
}

// Contacts returns all cached contacts.
func (s *Service) Contacts() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Contacts()
}

// Coupons returns all cached coupons.
func (s *Service) Coupons() []models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Coupons()
}

// Services returns all cached services.
func (s *Service) Services() []models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Services()
}

// Ticket returns one cached ticket.
func (s *Service) Ticket(id string) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Ticket(id)
}

// SelectedTicketIDs returns the current selection.
func (s *Service) SelectedTicketIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SelectedTicketIDs()
}

// HighlightedTicketIDs returns the last search's highlight set.
func (s *Service) HighlightedTicketIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.HighlightedTicketIDs()
}

// Search filters cached events by the query and records the
// highlight set on the store for subsequent reads.
func (s *Service) Search(query string) search.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := search.Search(s.store.Events(), s.store.Contact, query, s.matcher)
	s.store.SetHighlighted(result.HighlightedTicketIDs)
	return result
}

// ---------------- ephemeral UI state ----------------

func (s *Service) SetExpanded(eventID string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetExpanded(eventID, expanded)
}

func (s *Service) SetShowCancelled(eventID string, show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetShowCancelled(eventID, show)
}

func (s *Service) SetLockedArrived(eventID string, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetLockedArrived(eventID, locked)
}

func (s *Service) SelectTickets(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SelectTickets(ids)
}

func (s *Service) DeselectTickets(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.DeselectTickets(ids)
}

func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearSelection()
}

// ---------------- services & events ----------------

// CreateService inserts a new show.
func (s *Service) CreateService(ctx context.Context, name string) (models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return models.Service{}, fmt.Errorf("%w: service name is required", ErrValidation)
	}
	svc := models.Service{ID: utils.NewID(), Name: name}
	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "service.create",
		Kind: "service",
		IDs:  []string{svc.ID},
		Local: func(st *store.Store) error {
			st.UpsertServices([]models.Service{svc})
			return nil
		},
		Remote: func(ctx context.Context) error {
			_, err := s.remote.InsertServices(ctx, []models.Service{svc})
			return err
		},
	})
	if err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

// AddTicketType adds a price category to a service.
func (s *Service) AddTicketType(ctx context.Context, serviceID, label string, price float64, capacity *int, isVIP bool) (models.TicketType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.store.Service(serviceID)
	if !ok {
		return models.TicketType{}, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
	}
	if label == "" {
		return models.TicketType{}, fmt.Errorf("%w: ticket type label is required", ErrValidation)
	}
	if price < 0 {
		return models.TicketType{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	tt := models.TicketType{ID: utils.NewID(), ServiceID: serviceID, Label: label, Price: price, Capacity: capacity, IsVIP: isVIP}
	updated := svc
	updated.TicketTypes = append(append([]models.TicketType(nil), svc.TicketTypes...), tt)

	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "tickettype.create",
		Kind: "ticket_type",
		IDs:  []string{tt.ID},
		Local: func(st *store.Store) error {
			st.UpsertServices([]models.Service{updated})
			return nil
		},
		Remote: func(ctx context.Context) error {
			_, err := s.remote.InsertTicketTypes(ctx, []models.TicketType{tt})
			return err
		},
	})
	if err != nil {
		return models.TicketType{}, err
	}
	return tt, nil
}

// DeleteService removes a show. Rejected locally while any of its
// ticket types is referenced by a ticket.
func (s *Service) DeleteService(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.store.Service(id)
	if !ok {
		return fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	owned := make(map[string]struct{}, len(svc.TicketTypes))
	for _, tt := range svc.TicketTypes {
		owned[tt.ID] = struct{}{}
	}
	for _, t := range s.store.Tickets() {
		if _, ok := owned[t.TypeID]; ok {
			return ErrServiceInUse
		}
	}

	return s.engine.Apply(ctx, optimistic.Mutation{
		Name:    "service.delete",
		Kind:    "service",
		IDs:     []string{id},
		Confirm: s.confirm(fmt.Sprintf("Delete service %q?", svc.Name)),
		Local: func(st *store.Store) error {
			st.RemoveServices([]string{id})
			return nil
		},
		Remote: func(ctx context.Context) error {
			return s.remote.DeleteServices(ctx, []string{id})
		},
	})
}

// CreateEvent inserts a performance of a service.
func (s *Service) CreateEvent(ctx context.Context, serviceID string, startsAt time.Time, isPublic bool) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Service(serviceID); !ok {
		return models.Event{}, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
	}
	if startsAt.IsZero() {
		return models.Event{}, fmt.Errorf("%w: event date is required", ErrValidation)
	}
	ev := models.Event{ID: utils.NewID(), ServiceID: serviceID, StartsAt: startsAt, IsPublic: isPublic}
	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "event.create",
		Kind: "event",
		IDs:  []string{ev.ID},
		Local: func(st *store.Store) error {
			st.UpsertEvents([]models.Event{ev})
			return nil
		},
		Remote: func(ctx context.Context) error {
			_, err := s.remote.InsertEvents(ctx, []models.Event{ev})
			return err
		},
	})
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// PatchEvent applies a partial update to an event.
func (s *Service) PatchEvent(ctx context.Context, id string, patch models.EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.EventByID(id); !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if patch.ServiceID != nil {
		if _, ok := s.store.Service(*patch.ServiceID); !ok {
			return fmt.Errorf("service %s: %w", *patch.ServiceID, ErrNotFound)
		}
	}
	return s.engine.Apply(ctx, optimistic.Mutation{
		Name: "event.update",
		Kind: "event",
		IDs:  []string{id},
		Local: func(st *store.Store) error {
			return st.PatchEvent(id, patch)
		},
		Remote: func(ctx context.Context) error {
			return s.remote.UpdateEvent(ctx, id, patch)
		},
	})
}

// DeleteEvent removes an event. Rejected locally while the event has
// active tickets; leftover cancelled tickets are deleted with it.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.store.EventByID(id)
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if len(view.Tickets) > 0 {
		return ErrEventHasTickets
	}
	cancelled := view.Cancelled

	return s.engine.Apply(ctx, optimistic.Mutation{
		Name:    "event.delete",
		Kind:    "event",
		IDs:     []string{id},
		Confirm: s.confirm("Delete event and its cancelled tickets?"),
		Local: func(st *store.Store) error {
			st.RemoveEvents([]string{id})
			return nil
		},
		Remote: func(ctx context.Context) error {
			ticketIDs := make([]string, 0, len(cancelled))
			for _, t := range cancelled {
				ticketIDs = append(ticketIDs, t.ID)
			}
			if err := s.remote.DeleteTickets(ctx, ticketIDs); err != nil {
				return err
			}
			if err := s.remote.DeleteEvents(ctx, []string{id}); err != nil {
				// Re-insert the tickets deleted in step one so the
				// remote store stays consistent with the restored
				// cache.
				if _, compErr := s.remote.InsertTickets(ctx, cancelled); compErr != nil {
					s.log.Error("REMOTE", fmt.Sprintf("compensation failed for event.delete %s: %v", id, compErr))
				}
				return err
			}
			return nil
		},
	})
}
