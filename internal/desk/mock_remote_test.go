package desk

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eventdesk/internal/models"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) FetchServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	return serviceRows(args.Get(0)), args.Error(1)
}

func (m *mockRemote) FetchEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	return eventRows(args.Get(0)), args.Error(1)
}

func (m *mockRemote) FetchTickets(ctx context.Context) ([]models.Ticket, error) {
	args := m.Called(ctx)
	return ticketRows(args.Get(0)), args.Error(1)
}

func (m *mockRemote) FetchContacts(ctx context.Context) ([]models.Contact, error) {
	args := m.Called(ctx)
	return contactRows(args.Get(0)), args.Error(1)
}

func (m *mockRemote) FetchCoupons(ctx context.Context) ([]models.Coupon, error) {
	args := m.Called(ctx)
	return couponRows(args.Get(0)), args.Error(1)
}

func (m *mockRemote) InsertServices(ctx context.Context, rows []models.Service) ([]models.Service, error) {
	args := m.Called(ctx, rows)
	return rows, args.Error(1)
}

func (m *mockRemote) InsertTicketTypes(ctx context.Context, rows []models.TicketType) ([]models.TicketType, error) {
	args := m.Called(ctx, rows)
	return rows, args.Error(1)
}

func (m *mockRemote) InsertEvents(ctx context.Context, rows []models.Event) ([]models.Event, error) {
	args := m.Called(ctx, rows)
	return rows, args.Error(1)
}

func (m *mockRemote) InsertTickets(ctx context.Context, rows []models.Ticket) ([]models.Ticket, error) {
	args := m.Called(ctx, rows)
	return rows, args.Error(1)
}

func (m *mockRemote) InsertContacts(ctx context.Context, rows []models.Contact) ([]models.Contact, error) {
	args := m.Called(ctx, rows)
	return rows, args.Error(1)
}

func (m *mockRemote) InsertCoupons(ctx context.Context, rows []models.Coupon) ([]models.Coupon, error) {
	args := m.Called(ctx, rows)
	return rows, args.Error(1)
}

func (m *mockRemote) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockRemote) UpdateTickets(ctx context.Context, ids []string, patch models.TicketPatch) error {
	return m.Called(ctx, ids, patch).Error(0)
}

func (m *mockRemote) UpdateContact(ctx context.Context, id string, patch models.ContactPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockRemote) UpdateCoupon(ctx context.Context, id string, patch models.CouponPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockRemote) DeleteServices(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockRemote) DeleteEvents(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockRemote) DeleteTickets(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockRemote) DeleteContacts(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockRemote) DeleteCoupons(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockRemote) MergeContacts(ctx context.Context, targetID string, sourceIDs []string) error {
	return m.Called(ctx, targetID, sourceIDs).Error(0)
}

func serviceRows(v interface{}) []models.Service {
	if v == nil {
		return nil
	}
	return v.([]models.Service)
}

func eventRows(v interface{}) []models.Event {
	if v == nil {
		return nil
	}
	return v.([]models.Event)
}

func ticketRows(v interface{}) []models.Ticket {
	if v == nil {
		return nil
	}
	return v.([]models.Ticket)
}

func contactRows(v interface{}) []models.Contact {
	if v == nil {
		return nil
	}
	return v.([]models.Contact)
}

func couponRows(v interface{}) []models.Coupon {
	if v == nil {
		return nil
	}
	return v.([]models.Coupon)
}
