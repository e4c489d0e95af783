package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/models"
)

func seeded() *Store {
	s := New()
	s.UpsertContacts([]models.Contact{
		{ID: "anna", Name: "Anna"},
		{ID: "bela", Name: "béla"},
		{ID: "cyril", Name: "Cyril"},
	})
	s.UpsertServices([]models.Service{{
		ID:   "svc",
		Name: "Evening Gala",
		TicketTypes: []models.TicketType{
			{ID: "std", ServiceID: "svc", Label: "Standard", Price: 30},
			{ID: "vip", ServiceID: "svc", Label: "VIP", Price: 80, IsVIP: true},
		},
	}})
	s.UpsertEvents([]models.Event{{ID: "ev1", ServiceID: "svc", StartsAt: time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)}})
	s.UpsertTickets([]models.Ticket{
		{ID: "t1", EventID: "ev1", TypeID: "std", GuestContactID: "anna", BillingContactID: "anna", Price: 30, PaymentStatus: models.PaymentPaid},
		{ID: "t2", EventID: "ev1", TypeID: "vip", GuestContactID: "bela", BillingContactID: "anna", Price: 80, PaymentStatus: models.PaymentReserved},
		{ID: "t3", EventID: "ev1", TypeID: "std", GuestContactID: "cyril", BillingContactID: "bela", Price: 30, PaymentStatus: models.PaymentCancelled},
	})
	return s
}

func TestPartitionSplitsCancelled(t *testing.T) {
	s := seeded()
	view, ok := s.EventByID("ev1")
	require.True(t, ok)

	active := ticketIDs(view.Tickets)
	assert.ElementsMatch(t, []string{"t1", "t2"}, active)
	assert.Equal(t, []string{"t3"}, ticketIDs(view.Cancelled))
}

func TestTicketSortOrder(t *testing.T) {
	s := seeded()

	// Same billing contact ("anna"): the VIP ticket sorts first even
	// though its guest name comes later.
	view, _ := s.EventByID("ev1")
	assert.Equal(t, []string{"t2", "t1"}, ticketIDs(view.Tickets))

	// Billing names compare case-insensitively: "béla" groups after
	// "Anna", not after lowercase letters.
	s.UpsertTickets([]models.Ticket{
		{ID: "t4", EventID: "ev1", TypeID: "std", GuestContactID: "bela", BillingContactID: "bela", Price: 30, PaymentStatus: models.PaymentPaid},
	})
	view, _ = s.EventByID("ev1")
	assert.Equal(t, []string{"t2", "t1", "t4"}, ticketIDs(view.Tickets))
}

func TestStatusChangeRepartitions(t *testing.T) {
	s := seeded()
	cancelled := models.PaymentCancelled
	require.NoError(t, s.PatchTicket("t1", models.TicketPatch{PaymentStatus: &cancelled}))

	view, _ := s.EventByID("ev1")
	assert.Equal(t, []string{"t2"}, ticketIDs(view.Tickets))
	assert.ElementsMatch(t, []string{"t1", "t3"}, ticketIDs(view.Cancelled))

	paid := models.PaymentPaid
	require.NoError(t, s.PatchTicket("t3", models.TicketPatch{PaymentStatus: &paid}))
	view, _ = s.EventByID("ev1")
	assert.ElementsMatch(t, []string{"t2", "t3"}, ticketIDs(view.Tickets))
	assert.Equal(t, []string{"t1"}, ticketIDs(view.Cancelled))
}

func TestUpsertEventKeepsFlags(t *testing.T) {
	s := seeded()
	s.SetExpanded("ev1", true)
	s.SetShowCancelled("ev1", true)

	// A refresh re-upserts the entity; UI flags must survive.
	s.UpsertEvents([]models.Event{{ID: "ev1", ServiceID: "svc", StartsAt: time.Date(2026, 5, 2, 19, 0, 0, 0, time.UTC), IsPublic: true}})

	view, _ := s.EventByID("ev1")
	assert.True(t, view.Flags.Expanded)
	assert.True(t, view.Flags.ShowCancelled)
	assert.True(t, view.IsPublic)
	assert.Equal(t, 2, view.StartsAt.Day())
}

func TestNewEventGetsDefaultFlags(t *testing.T) {
	s := seeded()
	s.UpsertEvents([]models.Event{{ID: "ev2", ServiceID: "svc", StartsAt: time.Now()}})

	view, _ := s.EventByID("ev2")
	assert.Equal(t, Flags{LockedArrived: true}, view.Flags)
}

func TestRemoveEventCascades(t *testing.T) {
	s := seeded()
	s.SelectTickets([]string{"t1"})
	s.SetHighlighted([]string{"t2"})

	s.RemoveEvents([]string{"ev1"})

	_, ok := s.EventByID("ev1")
	assert.False(t, ok)
	assert.Empty(t, s.Tickets())
	assert.Empty(t, s.SelectedTicketIDs())
	assert.Empty(t, s.HighlightedTicketIDs())
}

func TestRemoveTicketDropsSelection(t *testing.T) {
	s := seeded()
	s.SelectTickets([]string{"t1", "t2"})

	s.RemoveTickets([]string{"t1"})

	assert.Equal(t, []string{"t2"}, s.SelectedTicketIDs())
	view, _ := s.EventByID("ev1")
	assert.Equal(t, []string{"t2"}, ticketIDs(view.Tickets))
}

func TestSelectionIgnoresUnknownTickets(t *testing.T) {
	s := seeded()
	s.SelectTickets([]string{"t1", "ghost"})
	assert.Equal(t, []string{"t1"}, s.SelectedTicketIDs())

	s.ClearSelection()
	assert.Empty(t, s.SelectedTicketIDs())
}

func TestTicketMovedBetweenEvents(t *testing.T) {
	s := seeded()
	s.UpsertEvents([]models.Event{{ID: "ev2", ServiceID: "svc", StartsAt: time.Now()}})

	moved, _ := s.Ticket("t1")
	moved.EventID = "ev2"
	s.UpsertTickets([]models.Ticket{moved})

	// Both the old and the new event repartition.
	old, _ := s.EventByID("ev1")
	assert.Equal(t, []string{"t2"}, ticketIDs(old.Tickets))
	neu, _ := s.EventByID("ev2")
	assert.Equal(t, []string{"t1"}, ticketIDs(neu.Tickets))
}

func TestContactRenameResorts(t *testing.T) {
	s := seeded()
	s.UpsertTickets([]models.Ticket{
		{ID: "t4", EventID: "ev1", TypeID: "std", GuestContactID: "cyril", BillingContactID: "cyril", Price: 30, PaymentStatus: models.PaymentPaid},
	})
	view, _ := s.EventByID("ev1")
	assert.Equal(t, []string{"t2", "t1", "t4"}, ticketIDs(view.Tickets))

	// Renaming the billing contact moves its whole group behind
	// "Cyril"; the VIP ticket stays first within the group.
	name := "Zuzana"
	require.NoError(t, s.PatchContact("anna", models.ContactPatch{Name: &name}))
	view, _ = s.EventByID("ev1")
	assert.Equal(t, []string{"t4", "t2", "t1"}, ticketIDs(view.Tickets))
}

func TestSnapshotRestore(t *testing.T) {
	s := seeded()
	s.SetExpanded("ev1", true)
	s.SelectTickets([]string{"t1"})
	snap := s.Snapshot()

	// Mutate everything the snapshot covers.
	cancelled := models.PaymentCancelled
	require.NoError(t, s.PatchTicket("t2", models.TicketPatch{PaymentStatus: &cancelled}))
	s.RemoveContacts([]string{"cyril"})
	s.UpsertCoupons([]models.Coupon{{ID: "k1", Code: "ABCDEFGH", Amount: 10}})
	s.SetExpanded("ev1", false)
	s.ClearSelection()

	s.Restore(snap)

	view, _ := s.EventByID("ev1")
	assert.Equal(t, []string{"t2", "t1"}, ticketIDs(view.Tickets))
	assert.True(t, view.Flags.Expanded)
	_, ok := s.Contact("cyril")
	assert.True(t, ok)
	assert.Empty(t, s.Coupons())
	assert.Equal(t, []string{"t1"}, s.SelectedTicketIDs())
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := seeded()
	snap := s.Snapshot()

	// Post-snapshot mutations must not leak into the captured state.
	s.RemoveTickets([]string{"t1", "t2", "t3"})
	s.Restore(snap)

	assert.Len(t, s.Tickets(), 3)
}

func TestUpsertServiceReplacesTicketTypes(t *testing.T) {
	s := seeded()
	s.UpsertServices([]models.Service{{
		ID:          "svc",
		Name:        "Evening Gala",
		TicketTypes: []models.TicketType{{ID: "std", ServiceID: "svc", Label: "Standard", Price: 35}},
	}})

	_, ok := s.TicketType("vip")
	assert.False(t, ok, "dropped type should leave the index")
	tt, ok := s.TicketType("std")
	require.True(t, ok)
	assert.Equal(t, 35.0, tt.Price)
}

func TestEventsSortedByStart(t *testing.T) {
	s := seeded()
	s.UpsertEvents([]models.Event{
		{ID: "ev0", ServiceID: "svc", StartsAt: time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)},
		{ID: "ev2", ServiceID: "svc", StartsAt: time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)},
	})

	var ids []string
	for _, view := range s.Events() {
		ids = append(ids, view.ID)
	}
	assert.Equal(t, []string{"ev0", "ev1", "ev2"}, ids)
}

func ticketIDs(tickets []models.Ticket) []string {
	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	return ids
}
