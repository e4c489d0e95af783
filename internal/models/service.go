package models

import (
	"github.com/uptrace/bun"
)

// Service is a show. It owns its ticket types; a service cannot be
// deleted while any owned ticket type is referenced by a ticket.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID          string       `bun:"id,pk" json:"id"`
	Name        string       `bun:"name,notnull" json:"name"`
	TicketTypes []TicketType `bun:"rel:has-many,join:id=service_id" json:"ticketTypes"`
}

// TicketType is a price category within a service. A nil Capacity
// means unlimited.
type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types"`

	ID        string  `bun:"id,pk" json:"id"`
	ServiceID string  `bun:"service_id,notnull" json:"serviceId"`
	Label     string  `bun:"label,notnull" json:"label"`
	Price     float64 `bun:"price,notnull" json:"price"`
	Capacity  *int    `bun:"capacity" json:"capacity,omitempty"`
	IsVIP     bool    `bun:"is_vip,notnull" json:"isVip"`
}
