package models

import (
	"github.com/uptrace/bun"
)

// PaymentStatus is the manually tracked payment state of a ticket.
type PaymentStatus string

const (
	PaymentReserved  PaymentStatus = "reserved"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentReserved, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

// Ticket is one admission to an event. Every ticket references
// exactly one guest contact and one billing contact (which may be the
// same row). A cancelled ticket is excluded from all active
// aggregates and listed separately.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID               string        `bun:"id,pk" json:"id"`
	EventID          string        `bun:"event_id,notnull" json:"eventId"`
	TypeID           string        `bun:"type_id,notnull" json:"typeId"`
	GuestContactID   string        `bun:"guest_contact_id,notnull" json:"guestContactId"`
	BillingContactID string        `bun:"billing_contact_id,notnull" json:"billingContactId"`
	Price            float64       `bun:"price,notnull" json:"price"`
	PaymentStatus    PaymentStatus `bun:"payment_status,notnull" json:"paymentStatus"`
	Arrived          bool          `bun:"arrived,notnull" json:"arrived"`
	Note             string        `bun:"note" json:"note,omitempty"`
	CouponRedeemedID string        `bun:"coupon_redeemed_id" json:"couponRedeemedId,omitempty"`
	CouponCreatedID  string        `bun:"coupon_created_id" json:"couponCreatedId,omitempty"`
}

// TicketPatch is a partial update to a Ticket.
type TicketPatch struct {
	TypeID           *string        `json:"typeId,omitempty"`
	GuestContactID   *string        `json:"guestContactId,omitempty"`
	BillingContactID *string        `json:"billingContactId,omitempty"`
	Price            *float64       `json:"price,omitempty"`
	PaymentStatus    *PaymentStatus `json:"paymentStatus,omitempty"`
	Arrived          *bool          `json:"arrived,omitempty"`
	Note             *string        `json:"note,omitempty"`
	CouponRedeemedID *string        `json:"couponRedeemedId,omitempty"`
	CouponCreatedID  *string        `json:"couponCreatedId,omitempty"`
}

func (p TicketPatch) Apply(t *Ticket) {
	if p.TypeID != nil {
		t.TypeID = *p.TypeID
	}
	if p.GuestContactID != nil {
		t.GuestContactID = *p.GuestContactID
	}
	if p.BillingContactID != nil {
		t.BillingContactID = *p.BillingContactID
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.PaymentStatus != nil {
		t.PaymentStatus = *p.PaymentStatus
	}
	if p.Arrived != nil {
		t.Arrived = *p.Arrived
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.CouponRedeemedID != nil {
		t.CouponRedeemedID = *p.CouponRedeemedID
	}
	if p.CouponCreatedID != nil {
		t.CouponCreatedID = *p.CouponCreatedID
	}
}

func (p TicketPatch) Columns() []string {
	var cols []string
	if p.TypeID != nil {
		cols = append(cols, "type_id")
	}
	if p.GuestContactID != nil {
		cols = append(cols, "guest_contact_id")
	}
	if p.BillingContactID != nil {
		cols = append(cols, "billing_contact_id")
	}
	if p.Price != nil {
		cols = append(cols, "price")
	}
	if p.PaymentStatus != nil {
		cols = append(cols, "payment_status")
	}
	if p.Arrived != nil {
		cols = append(cols, "arrived")
	}
	if p.Note != nil {
		cols = append(cols, "note")
	}
	if p.CouponRedeemedID != nil {
		cols = append(cols, "coupon_redeemed_id")
	}
	if p.CouponCreatedID != nil {
		cols = append(cols, "coupon_created_id")
	}
	return cols
}
