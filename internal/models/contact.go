package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Contact is a person appearing on tickets (guest or biller) or
// coupons. There is no uniqueness constraint on (name, email, phone)
// in the backing store; duplicate rows are resolved by the identity
// package.
type Contact struct {
	bun.BaseModel `bun:"table:contacts"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email" json:"email,omitempty"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// ContactPatch is a partial update to a Contact. Nil fields are left
// untouched.
type ContactPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
}

// Columns lists the column names the patch touches, for remote
// updates that must name an explicit column set.
func (p ContactPatch) Columns() []string {
	var cols []string
	if p.Name != nil {
		cols = append(cols, "name")
	}
	if p.Email != nil {
		cols = append(cols, "email")
	}
	if p.Phone != nil {
		cols = append(cols, "phone")
	}
	return cols
}
