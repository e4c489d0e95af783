package desk

import (
	"context"
	"fmt"
	"net/mail"

	"eventdesk/internal/identity"
	"eventdesk/internal/models"
	"eventdesk/internal/optimistic"
	"eventdesk/internal/store"
	"eventdesk/internal/utils"
)

// UnlinkRole names which ticket reference an unlink targets.
type UnlinkRole string

const (
	RoleGuest   UnlinkRole = "guest"
	RoleBilling UnlinkRole = "billing"
)

// CreateContact validates and inserts a contact. When an identical
// contact already exists and force is false, the duplicate is
// returned alongside ErrDuplicateContact so the UI can offer to reuse
// or merge instead; force true inserts the duplicate row anyway.
func (s *Service) CreateContact(ctx context.Context, c models.Contact, force bool) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateContact(c.Name, c.Email); err != nil {
		return models.Contact{}, err
	}
	if !force {
		if dup, found := identity.FindDuplicate(s.store.Contacts(), c); found {
			return dup, ErrDuplicateContact
		}
	}

	if c.ID == "" {
		c.ID = utils.NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "contact.create",
		Kind: "contact",
		IDs:  []string{c.ID},
		Local: func(st *store.Store) error {
			st.UpsertContacts([]models.Contact{c})
			return nil
		},
		Remote: func(ctx context.Context) error {
			_, err := s.remote.InsertContacts(ctx, []models.Contact{c})
			return err
		},
	})
	if err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

// UpdateContact applies a partial update to a contact. Every ticket
// and coupon referencing the contact sees the change immediately
// (references are by id).
func (s *Service) UpdateContact(ctx context.Context, id string, patch models.ContactPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Contact(id); !ok {
		return fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	name := ""
	if patch.Name != nil {
		name = *patch.Name
	}
	email := ""
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Name != nil || patch.Email != nil {
		if err := validateContactPatch(patch.Name, name, email); err != nil {
			return err
		}
	}

	return s.engine.Apply(ctx, optimistic.Mutation{
		Name: "contact.update",
		Kind: "contact",
		IDs:  []string{id},
		Local: func(st *store.Store) error {
			return st.PatchContact(id, patch)
		},
		Remote: func(ctx context.Context) error {
			return s.remote.UpdateContact(ctx, id, patch)
		},
	})
}

// ContactUsage counts references to a contact across ticket guest,
// ticket billing and coupon holder relations.
func (s *Service) ContactUsage(contactID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return identity.UsageCount(s.store.Tickets(), s.store.Coupons(), contactID)
}

// FindDuplicateContact returns a cached contact structurally equal to
// the candidate, if any.
func (s *Service) FindDuplicateContact(candidate models.Contact) (models.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return identity.FindDuplicate(s.store.Contacts(), candidate)
}

// MergeContacts rewrites every ticket/coupon reference from the
// source contacts to the target, then deletes the sources. The cache
// change and the remote change are each all-or-nothing: the remote
// collaborator runs the merge as one bulk operation, and any failure
// restores the cache snapshot.
func (s *Service) MergeContacts(ctx context.Context, targetID string, sourceIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Contact(targetID); !ok {
		return fmt.Errorf("contact %s: %w", targetID, ErrNotFound)
	}
	for _, id := range sourceIDs {
		if id == targetID {
			return ErrMergeTargetIsSource
		}
		if _, ok := s.store.Contact(id); !ok {
			return fmt.Errorf("contact %s: %w", id, ErrNotFound)
		}
	}
	plan := identity.PlanMerge(s.store.Tickets(), s.store.Coupons(), sourceIDs)

	return s.engine.Apply(ctx, optimistic.Mutation{
		Name:    "contact.merge",
		Kind:    "contact",
		IDs:     append([]string{targetID}, sourceIDs...),
		Confirm: s.confirm(fmt.Sprintf("Merge %d contacts?", len(sourceIDs)+1)),
		Local: func(st *store.Store) error {
			target := targetID
			for _, ticketID := range plan.GuestTicketIDs {
				if err := st.PatchTicket(ticketID, models.TicketPatch{GuestContactID: &target}); err != nil {
					return err
				}
			}
			for _, ticketID := range plan.BillingTicketIDs {
				if err := st.PatchTicket(ticketID, models.TicketPatch{BillingContactID: &target}); err != nil {
					return err
				}
			}
			for _, couponID := range plan.CouponIDs {
				if err := st.PatchCoupon(couponID, models.CouponPatch{ContactID: &target}); err != nil {
					return err
				}
			}
			st.RemoveContacts(sourceIDs)
			return nil
		},
		Remote: func(ctx context.Context) error {
			return s.remote.MergeContacts(ctx, targetID, sourceIDs)
		},
	})
}

// UnlinkContact splits a shared contact off one ticket reference: the
// contact is cloned under a "(kópia N)" name and only the targeted
// role repoints at the clone. When guest and billing are the same
// contact on that ticket and billing is unlinked, both roles follow
// the clone together; unlinking guest alone never moves billing.
func (s *Service) UnlinkContact(ctx context.Context, ticketID string, role UnlinkRole) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.store.Ticket(ticketID)
	if !ok {
		return models.Contact{}, fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
	}
	var contactID string
	switch role {
	case RoleGuest:
		contactID = t.GuestContactID
	case RoleBilling:
		contactID = t.BillingContactID
	default:
		return models.Contact{}, fmt.Errorf("%w: unknown unlink role %q", ErrValidation, role)
	}
	original, ok := s.store.Contact(contactID)
	if !ok {
		return models.Contact{}, fmt.Errorf("contact %s: %w", contactID, ErrNotFound)
	}
	if identity.UsageCount(s.store.Tickets(), s.store.Coupons(), contactID) < 2 {
		return models.Contact{}, ErrContactNotShared
	}

	names := make([]string, 0)
	for _, c := range s.store.Contacts() {
		names = append(names, c.Name)
	}
	clone := original
	clone.ID = utils.NewID()
	clone.Name = identity.CopyName(names, original.Name)
	clone.CreatedAt = s.now()

	cloneID := clone.ID
	patch := models.TicketPatch{}
	switch role {
	case RoleGuest:
		patch.GuestContactID = &cloneID
	case RoleBilling:
		patch.BillingContactID = &cloneID
		if t.GuestContactID == t.BillingContactID {
			patch.GuestContactID = &cloneID
		}
	}

	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "contact.unlink",
		Kind: "contact",
		IDs:  []string{ticketID, clone.ID},
		Local: func(st *store.Store) error {
			st.UpsertContacts([]models.Contact{clone})
			return st.PatchTicket(ticketID, patch)
		},
		Remote: func(ctx context.Context) error {
			if _, err := s.remote.InsertContacts(ctx, []models.Contact{clone}); err != nil {
				return err
			}
			if err := s.remote.UpdateTickets(ctx, []string{ticketID}, patch); err != nil {
				// Drop the clone inserted in step one so the remote
				// store matches the restored cache.
				if compErr := s.remote.DeleteContacts(ctx, []string{clone.ID}); compErr != nil {
					s.log.Error("REMOTE", fmt.Sprintf("compensation failed for contact.unlink %s: %v", ticketID, compErr))
				}
				return err
			}
			return nil
		},
	})
	if err != nil {
		return models.Contact{}, err
	}
	return clone, nil
}

func validateContact(name, email string) error {
	if name == "" {
		return fmt.Errorf("%w: contact name is required", ErrValidation)
	}
	return validateEmail(email)
}

func validateContactPatch(namePatch *string, name, email string) error {
	if namePatch != nil && name == "" {
		return fmt.Errorf("%w: contact name is required", ErrValidation)
	}
	return validateEmail(email)
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	return nil
}
