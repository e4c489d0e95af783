package desk

import (
	"context"
	"fmt"

	"eventdesk/internal/models"
	"eventdesk/internal/optimistic"
	"eventdesk/internal/store"
	"eventdesk/internal/utils"
)

// CreateTicket validates and inserts a ticket. The id is generated
// locally when empty, the price defaults to the ticket type's price
// when zero, the status defaults to reserved.
func (s *Service) CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.EventByID(t.EventID); !ok {
		return models.Ticket{}, fmt.Errorf("event %s: %w", t.EventID, ErrNotFound)
	}
	tt, ok := s.store.TicketType(t.TypeID)
	if !ok {
		return models.Ticket{}, fmt.Errorf("ticket type %s: %w", t.TypeID, ErrNotFound)
	}
	if _, ok := s.store.Contact(t.GuestContactID); !ok {
		return models.Ticket{}, fmt.Errorf("guest contact %s: %w", t.GuestContactID, ErrNotFound)
	}
	if _, ok := s.store.Contact(t.BillingContactID); !ok {
		return models.Ticket{}, fmt.Errorf("billing contact %s: %w", t.BillingContactID, ErrNotFound)
	}

	if t.ID == "" {
		t.ID = utils.NewID()
	}
	if t.Price == 0 {
		t.Price = tt.Price
	}
	if t.PaymentStatus == "" {
		t.PaymentStatus = models.PaymentReserved
	}
	if !t.PaymentStatus.Valid() {
		return models.Ticket{}, fmt.Errorf("%w: unknown payment status %q", ErrValidation, t.PaymentStatus)
	}

	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "ticket.create",
		Kind: "ticket",
		IDs:  []string{t.ID},
		Local: func(st *store.Store) error {
			st.UpsertTickets([]models.Ticket{t})
			return nil
		},
		Remote: func(ctx context.Context) error {
			_, err := s.remote.InsertTickets(ctx, []models.Ticket{t})
			return err
		},
	})
	if err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// PatchTicket applies a partial update to one ticket.
func (s *Service) PatchTicket(ctx context.Context, id string, patch models.TicketPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Ticket(id); !ok {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, *patch.PaymentStatus)
	}
	if patch.GuestContactID != nil {
		if _, ok := s.store.Contact(*patch.GuestContactID); !ok {
			return fmt.Errorf("guest contact %s: %w", *patch.GuestContactID, ErrNotFound)
		}
	}
	if patch.BillingContactID != nil {
		if _, ok := s.store.Contact(*patch.BillingContactID); !ok {
			return fmt.Errorf("billing contact %s: %w", *patch.BillingContactID, ErrNotFound)
		}
	}
	if patch.TypeID != nil {
		if _, ok := s.store.TicketType(*patch.TypeID); !ok {
			return fmt.Errorf("ticket type %s: %w", *patch.TypeID, ErrNotFound)
		}
	}

	return s.engine.Apply(ctx, optimistic.Mutation{
		Name: "ticket.update",
		Kind: "ticket",
		IDs:  []string{id},
		Local: func(st *store.Store) error {
			return st.PatchTicket(id, patch)
		},
		Remote: func(ctx context.Context) error {
			return s.remote.UpdateTickets(ctx, []string{id}, patch)
		},
	})
}

// SetTicketsStatus changes payment status across a set of tickets in
// one mutation, e.g. marking a whole billing group paid. The touched
// set and the revert set are the same by construction: rollback
// restores the snapshot taken before the bulk change.
func (s *Service) SetTicketsStatus(ctx context.Context, ids []string, status models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}
	for _, id := range ids {
		if _, ok := s.store.Ticket(id); !ok {
			return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
		}
	}

	patch := models.TicketPatch{PaymentStatus: &status}
	return s.engine.Apply(ctx, optimistic.Mutation{
		Name: "ticket.status",
		Kind: "ticket",
		IDs:  ids,
		Local: func(st *store.Store) error {
			for _, id := range ids {
				if err := st.PatchTicket(id, patch); err != nil {
					return err
				}
			}
			return nil
		},
		Remote: func(ctx context.Context) error {
			return s.remote.UpdateTickets(ctx, ids, patch)
		},
	})
}

// SetArrived toggles a ticket's arrival mark.
func (s *Service) SetArrived(ctx context.Context, id string, arrived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Ticket(id); !ok {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	patch := models.TicketPatch{Arrived: &arrived}
	return s.engine.Apply(ctx, optimistic.Mutation{
		Name: "ticket.arrived",
		Kind: "ticket",
		IDs:  []string{id},
		Local: func(st *store.Store) error {
			return st.PatchTicket(id, patch)
		},
		Remote: func(ctx context.Context) error {
			return s.remote.UpdateTickets(ctx, []string{id}, patch)
		},
	})
}

// DeleteTicket removes a ticket optimistically. On remote failure the
// exact prior row is re-inserted by the snapshot restore, including
// price and contact links that a tombstone could not reconstruct.
func (s *Service) DeleteTicket(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Ticket(id); !ok {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	return s.engine.Apply(ctx, optimistic.Mutation{
		Name:    "ticket.delete",
		Kind:    "ticket",
		IDs:     []string{id},
		Confirm: s.confirm("Delete ticket?"),
		Local: func(st *store.Store) error {
			st.RemoveTickets([]string{id})
			return nil
		},
		Remote: func(ctx context.Context) error {
			return s.remote.DeleteTickets(ctx, []string{id})
		},
	})
}
