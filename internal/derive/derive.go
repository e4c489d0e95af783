// Package derive holds the pure aggregate computations over cached
// entities: sold counts, capacity checks, billing-group totals and
// coupon math. Everything here is recomputed from current cache state
// on read; nothing is stored.
package derive

import (
	"time"

	"eventdesk/internal/models"
)

// SoldCount counts active (non-cancelled) tickets of the given type.
func SoldCount(tickets []models.Ticket, typeID string) int {
	count := 0
	for _, t := range tickets {
		if t.TypeID == typeID && t.PaymentStatus != models.PaymentCancelled {
			count++
		}
	}
	return count
}

// IsOverCapacity reports whether sold exceeds the ticket type's
// capacity. Unlimited types (nil capacity) are never over.
func IsOverCapacity(tt models.TicketType, sold int) bool {
	return tt.Capacity != nil && sold > *tt.Capacity
}

// GroupTotal sums the prices of active tickets in a billing group.
func GroupTotal(group []models.Ticket) float64 {
	var total float64
	for _, t := range group {
		if t.PaymentStatus != models.PaymentCancelled {
			total += t.Price
		}
	}
	return total
}

// BillingGroups splits tickets into groups sharing a billing contact,
// preserving the incoming ticket order both across and within groups.
// The first ticket of each group owns the rendered billing editor, so
// group order must be stable.
func BillingGroups(tickets []models.Ticket) [][]models.Ticket {
	index := make(map[string]int)
	var groups [][]models.Ticket
	for _, t := range tickets {
		i, ok := index[t.BillingContactID]
		if !ok {
			i = len(groups)
			index[t.BillingContactID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}

// CouponDiscount is the amount a coupon takes off a subtotal: never
// more than the remaining balance, never more than the subtotal,
// never negative.
func CouponDiscount(c models.Coupon, subtotal float64) float64 {
	discount := c.Amount
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		return 0
	}
	return discount
}

// CouponIsValid reports whether the coupon still has balance and has
// not expired. Expiry is inclusive of the whole ValidUntil day.
func CouponIsValid(c models.Coupon, now time.Time) bool {
	if c.Amount <= 0 {
		return false
	}
	if c.ValidUntil == nil {
		return true
	}
	return !endOfDay(*c.ValidUntil).Before(now)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}
