package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Coupon is a prepaid credit with an 8-character unique code. Amount
// is the remaining balance, OriginalAmount the balance at issue time.
// A nil ValidUntil never expires.
type Coupon struct {
	bun.BaseModel `bun:"table:coupons"`

	ID             string     `bun:"id,pk" json:"id"`
	Code           string     `bun:"code,unique,notnull" json:"code"`
	Amount         float64    `bun:"amount,notnull" json:"amount"`
	OriginalAmount float64    `bun:"original_amount,notnull" json:"originalAmount"`
	ValidUntil     *time.Time `bun:"valid_until" json:"validUntil,omitempty"`
	ContactID      string     `bun:"contact_id" json:"contactId,omitempty"`
	Note           string     `bun:"note" json:"note,omitempty"`
}

// CouponPatch is a partial update to a Coupon. ClearValidUntil drops
// the expiry; it wins over ValidUntil when both are set.
type CouponPatch struct {
	Amount          *float64   `json:"amount,omitempty"`
	ValidUntil      *time.Time `json:"validUntil,omitempty"`
	ClearValidUntil bool       `json:"clearValidUntil,omitempty"`
	ContactID       *string    `json:"contactId,omitempty"`
	Note            *string    `json:"note,omitempty"`
}

func (p CouponPatch) Apply(c *Coupon) {
	if p.Amount != nil {
		c.Amount = *p.Amount
	}
	if p.ClearValidUntil {
		c.ValidUntil = nil
	} else if p.ValidUntil != nil {
		until := *p.ValidUntil
		c.ValidUntil = &until
	}
	if p.ContactID != nil {
		c.ContactID = *p.ContactID
	}
	if p.Note != nil {
		c.Note = *p.Note
	}
}

func (p CouponPatch) Columns() []string {
	var cols []string
	if p.Amount != nil {
		cols = append(cols, "amount")
	}
	if p.ClearValidUntil || p.ValidUntil != nil {
		cols = append(cols, "valid_until")
	}
	if p.ContactID != nil {
		cols = append(cols, "contact_id")
	}
	if p.Note != nil {
		cols = append(cols, "note")
	}
	return cols
}
