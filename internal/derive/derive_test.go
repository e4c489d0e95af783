package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventdesk/internal/models"
)

func TestSoldCountIgnoresCancelled(t *testing.T) {
	tickets := []models.Ticket{
		{ID: "t1", TypeID: "vip", PaymentStatus: models.PaymentPaid},
		{ID: "t2", TypeID: "vip", PaymentStatus: models.PaymentReserved},
		{ID: "t3", TypeID: "vip", PaymentStatus: models.PaymentCancelled},
		{ID: "t4", TypeID: "std", PaymentStatus: models.PaymentPaid},
	}
	assert.Equal(t, 2, SoldCount(tickets, "vip"))
	assert.Equal(t, 1, SoldCount(tickets, "std"))
	assert.Equal(t, 0, SoldCount(tickets, "missing"))
}

func TestIsOverCapacity(t *testing.T) {
	ten := 10
	limited := models.TicketType{ID: "vip", Capacity: &ten}
	unlimited := models.TicketType{ID: "std"}

	assert.False(t, IsOverCapacity(limited, 10))
	assert.True(t, IsOverCapacity(limited, 11))
	assert.False(t, IsOverCapacity(unlimited, 100000))
}

func TestGroupTotalSkipsCancelled(t *testing.T) {
	group := []models.Ticket{
		{ID: "t1", Price: 25, PaymentStatus: models.PaymentPaid},
		{ID: "t2", Price: 40, PaymentStatus: models.PaymentReserved},
		{ID: "t3", Price: 99, PaymentStatus: models.PaymentCancelled},
	}
	assert.Equal(t, 65.0, GroupTotal(group))
	assert.Equal(t, 0.0, GroupTotal(nil))
}

func TestBillingGroupsStableOrder(t *testing.T) {
	tickets := []models.Ticket{
		{ID: "t1", BillingContactID: "anna"},
		{ID: "t2", BillingContactID: "bela"},
		{ID: "t3", BillingContactID: "anna"},
		{ID: "t4", BillingContactID: "cyril"},
	}
	groups := BillingGroups(tickets)

	assert.Len(t, groups, 3)
	// Group order follows first appearance; in-group order stays.
	assert.Equal(t, "t1", groups[0][0].ID)
	assert.Equal(t, "t3", groups[0][1].ID)
	assert.Equal(t, "t2", groups[1][0].ID)
	assert.Equal(t, "t4", groups[2][0].ID)
}

func TestCouponDiscountClamps(t *testing.T) {
	coupon := models.Coupon{Amount: 100}

	// Subtotal larger than the balance: the whole balance is taken.
	assert.Equal(t, 100.0, CouponDiscount(coupon, 150))
	// Subtotal smaller than the balance: only the subtotal is taken.
	assert.Equal(t, 60.0, CouponDiscount(coupon, 60))
	assert.Equal(t, 0.0, CouponDiscount(coupon, 0))
	assert.Equal(t, 0.0, CouponDiscount(models.Coupon{Amount: -5}, 60))
}

func TestCouponIsValid(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	assert.True(t, CouponIsValid(models.Coupon{Amount: 10}, now))
	assert.False(t, CouponIsValid(models.Coupon{Amount: 0}, now), "spent coupon")

	// Expiry is inclusive of the whole ValidUntil day.
	sameDay := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, CouponIsValid(models.Coupon{Amount: 10, ValidUntil: &sameDay}, now))

	yesterday := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	assert.False(t, CouponIsValid(models.Coupon{Amount: 10, ValidUntil: &yesterday}, now))
}
