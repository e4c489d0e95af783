// Package remote defines the persistence collaborator the dashboard
// cache synchronizes against. The contract is single-roundtrip CRUD
// per entity kind plus bulk variants; multi-kind sequences are the
// caller's problem (the desk service defines what rollback means when
// step two fails after step one).
package remote

import (
	"context"

	"eventdesk/internal/models"
)

// Error is a structured remote failure. Its message is shown to the
// operator verbatim; the backend error text is not masked.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Store is the remote persistence API.
type Store interface {
	FetchServices(ctx context.Context) ([]models.Service, error)
	FetchEvents(ctx context.Context) ([]models.Event, error)
	FetchTickets(ctx context.Context) ([]models.Ticket, error)
	FetchContacts(ctx context.Context) ([]models.Contact, error)
	FetchCoupons(ctx context.Context) ([]models.Coupon, error)

	InsertServices(ctx context.Context, rows []models.Service) ([]models.Service, error)
	InsertTicketTypes(ctx context.Context, rows []models.TicketType) ([]models.TicketType, error)
	InsertEvents(ctx context.Context, rows []models.Event) ([]models.Event, error)
	InsertTickets(ctx context.Context, rows []models.Ticket) ([]models.Ticket, error)
	InsertContacts(ctx context.Context, rows []models.Contact) ([]models.Contact, error)
	InsertCoupons(ctx context.Context, rows []models.Coupon) ([]models.Coupon, error)

	UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error
	UpdateTickets(ctx context.Context, ids []string, patch models.TicketPatch) error
	UpdateContact(ctx context.Context, id string, patch models.ContactPatch) error
	UpdateCoupon(ctx context.Context, id string, patch models.CouponPatch) error

	DeleteServices(ctx context.Context, ids []string) error
	DeleteEvents(ctx context.Context, ids []string) error
	DeleteTickets(ctx context.Context, ids []string) error
	DeleteContacts(ctx context.Context, ids []string) error
	DeleteCoupons(ctx context.Context, ids []string) error

	// MergeContacts atomically repoints every ticket/coupon reference
	// from the source contacts to the target and deletes the sources.
	MergeContacts(ctx context.Context, targetID string, sourceIDs []string) error
}
