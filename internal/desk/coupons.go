package desk

import (
	"context"
	"fmt"
	"time"

	"eventdesk/internal/derive"
	"eventdesk/internal/models"
	"eventdesk/internal/optimistic"
	"eventdesk/internal/store"
	"eventdesk/internal/utils"
)

// CreateCoupon issues a coupon with a fresh unique 8-character code.
func (s *Service) CreateCoupon(ctx context.Context, amount float64, validUntil *time.Time, contactID, note string) (models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return models.Coupon{}, fmt.Errorf("%w: coupon amount must be positive", ErrValidation)
	}
	if contactID != "" {
		if _, ok := s.store.Contact(contactID); !ok {
			return models.Coupon{}, fmt.Errorf("contact %s: %w", contactID, ErrNotFound)
		}
	}

	code, err := s.freshCouponCode()
	if err != nil {
		return models.Coupon{}, err
	}
	coupon := models.Coupon{
		ID:             utils.NewID(),
		Code:           code,
		Amount:         amount,
		OriginalAmount: amount,
		ValidUntil:     validUntil,
		ContactID:      contactID,
		Note:           note,
	}

	err = s.engine.Apply(ctx, optimistic.Mutation{
		Name: "coupon.create",
		Kind: "coupon",
		IDs:  []string{coupon.ID},
		Local: func(st *store.Store) error {
			st.UpsertCoupons([]models.Coupon{coupon})
			return nil
		},
		Remote: func(ctx context.Context) error {
			_, err := s.remote.InsertCoupons(ctx, []models.Coupon{coupon})
			return err
		},
	})
	if err != nil {
		return models.Coupon{}, err
	}
	return coupon, nil
}

// freshCouponCode draws codes until one is unused in the cache. The
// remote unique constraint is the backstop for codes issued by
// another client since the last refresh.
func (s *Service) freshCouponCode() (string, error) {
	for attempt := 0; attempt < 20; attempt++ {
		code := utils.GenerateCouponCode()
		if _, taken := s.store.CouponByCode(code); !taken {
			return code, nil
		}
	}
	return "", ErrDuplicateCouponCode
}

// PatchCoupon applies a partial update to a coupon.
func (s *Service) PatchCoupon(ctx context.Context, id string, patch models.CouponPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Coupon(id); !ok {
		return fmt.Errorf("coupon %s: %w", id, ErrNotFound)
	}
	if patch.Amount != nil && *patch.Amount < 0 {
		return fmt.Errorf("%w: coupon amount must not be negative", ErrValidation)
	}
	if patch.ContactID != nil && *patch.ContactID != "" {
		if _, ok := s.store.Contact(*patch.ContactID); !ok {
			return fmt.Errorf("contact %s: %w", *patch.ContactID, ErrNotFound)
		}
	}

	return s.engine.Apply(ctx, optimistic.Mutation{
		Name: "coupon.update",
		Kind: "coupon",
		IDs:  []string{id},
		Local: func(st *store.Store) error {
			return st.PatchCoupon(id, patch)
		},
		Remote: func(ctx context.Context) error {
			return s.remote.UpdateCoupon(ctx, id, patch)
		},
	})
}

// DeleteCoupon removes a coupon.
func (s *Service) DeleteCoupon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Coupon(id); !ok {
		return fmt.Errorf("coupon %s: %w", id, ErrNotFound)
	}
	return s.engine.Apply(ctx, optimistic.Mutation{
		Name:    "coupon.delete",
		Kind:    "coupon",
		IDs:     []string{id},
		Confirm: s.confirm("Delete coupon?"),
		Local: func(st *store.Store) error {
			st.RemoveCoupons([]string{id})
			return nil
		},
		Remote: func(ctx context.Context) error {
			return s.remote.DeleteCoupons(ctx, []string{id})
		},
	})
}

// RedeemCoupon applies a coupon against the given tickets and returns
// the discount taken. The discount is clamped to both the coupon's
// remaining balance and the tickets' subtotal; the coupon keeps the
// rest, never going negative.
func (s *Service) RedeemCoupon(ctx context.Context, couponID string, ticketIDs []string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coupon, ok := s.store.Coupon(couponID)
	if !ok {
		return 0, fmt.Errorf("coupon %s: %w", couponID, ErrNotFound)
	}
	if !derive.CouponIsValid(coupon, s.now()) {
		return 0, ErrCouponInvalid
	}
	tickets := make([]models.Ticket, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		t, ok := s.store.Ticket(id)
		if !ok {
			return 0, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
		}
		if t.PaymentStatus == models.PaymentCancelled {
			return 0, fmt.Errorf("%w: ticket %s is cancelled", ErrValidation, id)
		}
		tickets = append(tickets, t)
	}

	subtotal := derive.GroupTotal(tickets)
	discount := derive.CouponDiscount(coupon, subtotal)
	newAmount := coupon.Amount - discount
	priorAmount := coupon.Amount

	couponRef := coupon.ID
	ticketPatch := models.TicketPatch{CouponRedeemedID: &couponRef}
	couponPatch := models.CouponPatch{Amount: &newAmount}

	err := s.engine.Apply(ctx, optimistic.Mutation{
		Name: "coupon.redeem",
		Kind: "coupon",
		IDs:  append([]string{couponID}, ticketIDs...),
		Local: func(st *store.Store) error {
			if err := st.PatchCoupon(couponID, couponPatch); err != nil {
				return err
			}
			for _, id := range ticketIDs {
				if err := st.PatchTicket(id, ticketPatch); err != nil {
					return err
				}
			}
			return nil
		},
		Remote: func(ctx context.Context) error {
			if err := s.remote.UpdateCoupon(ctx, couponID, couponPatch); err != nil {
				return err
			}
			if err := s.remote.UpdateTickets(ctx, ticketIDs, ticketPatch); err != nil {
				// Step two failed after step one: put the balance
				// back so the remote coupon matches the restored
				// cache.
				restore := models.CouponPatch{Amount: &priorAmount}
				if compErr := s.remote.UpdateCoupon(ctx, couponID, restore); compErr != nil {
					s.log.Error("REMOTE", fmt.Sprintf("compensation failed for coupon.redeem %s: %v", couponID, compErr))
				}
				return err
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return discount, nil
}

// ConvertTicketsToCoupon cancels the given tickets and issues one
// coupon worth their combined price. The remote sequence is two
// calls; when the coupon insert fails after the cancellation
// succeeded, the prior payment statuses are restored remotely as
// compensation, and the cache snapshot is restored either way. A
// failed compensation leaves the divergence to the next refresh and
// is logged loudly.
func (s *Service) ConvertTicketsToCoupon(ctx context.Context, ticketIDs []string, contactID string, validUntil *time.Time) (models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ticketIDs) == 0 {
		return models.Coupon{}, fmt.Errorf("%w: no tickets given", ErrValidation)
	}
	if contactID != "" {
		if _, ok := s.store.Contact(contactID); !ok {
			return models.Coupon{}, fmt.Errorf("contact %s: %w", contactID, ErrNotFound)
		}
	}
	priorStatus := make(map[string]models.PaymentStatus, len(ticketIDs))
	var subtotal float64
	for _, id := range ticketIDs {
		t, ok := s.store.Ticket(id)
		if !ok {
			return models.Coupon{}, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
		}
		if t.PaymentStatus == models.PaymentCancelled {
			return models.Coupon{}, fmt.Errorf("%w: ticket %s is already cancelled", ErrValidation, id)
		}
		priorStatus[t.ID] = t.PaymentStatus
		subtotal += t.Price
	}
	if subtotal <= 0 {
		return models.Coupon{}, fmt.Errorf("%w: tickets have no value to convert", ErrValidation)
	}

	code, err := s.freshCouponCode()
	if err != nil {
		return models.Coupon{}, err
	}
	coupon := models.Coupon{
		ID:             utils.NewID(),
		Code:           code,
		Amount:         subtotal,
		OriginalAmount: subtotal,
		ValidUntil:     validUntil,
		ContactID:      contactID,
	}

	cancelled := models.PaymentCancelled
	couponRef := coupon.ID
	cancelPatch := models.TicketPatch{PaymentStatus: &cancelled, CouponCreatedID: &couponRef}

	err = s.engine.Apply(ctx, optimistic.Mutation{
		Name:    "ticket.convert",
		Kind:    "conversion",
		IDs:     append([]string{coupon.ID}, ticketIDs...),
		Confirm: s.confirm(fmt.Sprintf("Cancel %d tickets and issue a %.2f coupon?", len(ticketIDs), subtotal)),
		Local: func(st *store.Store) error {
			for _, id := range ticketIDs {
				if err := st.PatchTicket(id, cancelPatch); err != nil {
					return err
				}
			}
			st.UpsertCoupons([]models.Coupon{coupon})
			return nil
		},
		Remote: func(ctx context.Context) error {
			if err := s.remote.UpdateTickets(ctx, ticketIDs, cancelPatch); err != nil {
				return err
			}
			if _, err := s.remote.InsertCoupons(ctx, []models.Coupon{coupon}); err != nil {
				s.compensateConvert(ctx, priorStatus)
				return err
			}
			return nil
		},
	})
	if err != nil {
		return models.Coupon{}, err
	}
	return coupon, nil
}

// compensateConvert restores remotely the payment statuses a failed
// conversion had already overwritten, grouping tickets by their prior
// status to keep the calls bulk.
func (s *Service) compensateConvert(ctx context.Context, priorStatus map[string]models.PaymentStatus) {
	byStatus := make(map[models.PaymentStatus][]string)
	for id, status := range priorStatus {
		byStatus[status] = append(byStatus[status], id)
	}
	empty := ""
	for status, ids := range byStatus {
		restored := status
		patch := models.TicketPatch{PaymentStatus: &restored, CouponCreatedID: &empty}
		if err := s.remote.UpdateTickets(ctx, ids, patch); err != nil {
			s.log.Error("REMOTE", fmt.Sprintf("compensation failed for ticket.convert (%d tickets): %v", len(ids), err))
		}
	}
}
