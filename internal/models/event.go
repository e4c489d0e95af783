package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event is a single performance of a service on a date. Per-client UI
// flags (expansion, cancelled visibility, arrival lock) are not part
// of this struct; the store keeps them and merges them back onto
// refreshed rows.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID        string    `bun:"id,pk" json:"id"`
	ServiceID string    `bun:"service_id,notnull" json:"serviceId"`
	StartsAt  time.Time `bun:"starts_at,notnull" json:"startsAt"`
	IsPublic  bool      `bun:"is_public,notnull" json:"isPublic"`
}

// EventPatch is a partial update to an Event.
type EventPatch struct {
	ServiceID *string    `json:"serviceId,omitempty"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	IsPublic  *bool      `json:"isPublic,omitempty"`
}

func (p EventPatch) Apply(e *Event) {
	if p.ServiceID != nil {
		e.ServiceID = *p.ServiceID
	}
	if p.StartsAt != nil {
		e.StartsAt = *p.StartsAt
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}
}

func (p EventPatch) Columns() []string {
	var cols []string
	if p.ServiceID != nil {
		cols = append(cols, "service_id")
	}
	if p.StartsAt != nil {
		cols = append(cols, "starts_at")
	}
	if p.IsPublic != nil {
		cols = append(cols, "is_public")
	}
	return cols
}
