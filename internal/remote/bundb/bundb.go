// Package bundb implements the remote persistence contract on a
// sqlite database through bun.
package bundb

import (
	"context"

	"github.com/uptrace/bun"

	"eventdesk/internal/models"
	"eventdesk/internal/remote"
)

type DB struct {
	Bun *bun.DB
}

var _ remote.Store = (*DB)(nil)

// Init creates the schema if it does not exist.
func (d *DB) Init(ctx context.Context) error {
	tables := []interface{}{
		(*models.Service)(nil),
		(*models.TicketType)(nil),
		(*models.Event)(nil),
		(*models.Ticket)(nil),
		(*models.Contact)(nil),
		(*models.Coupon)(nil),
	}
	for _, table := range tables {
		if _, err := d.Bun.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return wrap("init", err)
		}
	}
	return nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &remote.Error{Op: op, Message: err.Error()}
}

// ---------------- fetch ----------------

func (d *DB) FetchServices(ctx context.Context) ([]models.Service, error) {
	var rows []models.Service
	err := d.Bun.NewSelect().Model(&rows).Relation("TicketTypes").Scan(ctx)
	return rows, wrap("fetch services", err)
}

func (d *DB) FetchEvents(ctx context.Context) ([]models.Event, error) {
	var rows []models.Event
	err := d.Bun.NewSelect().Model(&rows).Scan(ctx)
	return rows, wrap("fetch events", err)
}

func (d *DB) FetchTickets(ctx context.Context) ([]models.Ticket, error) {
	var rows []models.Ticket
	err := d.Bun.NewSelect().Model(&rows).Scan(ctx)
	return rows, wrap("fetch tickets", err)
}

func (d *DB) FetchContacts(ctx context.Context) ([]models.Contact, error) {
	var rows []models.Contact
	err := d.Bun.NewSelect().Model(&rows).Scan(ctx)
	return rows, wrap("fetch contacts", err)
}

func (d *DB) FetchCoupons(ctx context.Context) ([]models.Coupon, error) {
	var rows []models.Coupon
	err := d.Bun.NewSelect().Model(&rows).Scan(ctx)
	return rows, wrap("fetch coupons", err)
}

// ---------------- insert ----------------

func (d *DB) InsertServices(ctx context.Context, rows []models.Service) ([]models.Service, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := d.Bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, wrap("insert services", err)
	}
	return rows, nil
}

func (d *DB) InsertTicketTypes(ctx context.Context, rows []models.TicketType) ([]models.TicketType, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := d.Bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, wrap("insert ticket types", err)
	}
	return rows, nil
}

func (d *DB) InsertEvents(ctx context.Context, rows []models.Event) ([]models.Event, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := d.Bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, wrap("insert events", err)
	}
	return rows, nil
}

func (d *DB) InsertTickets(ctx context.Context, rows []models.Ticket) ([]models.Ticket, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := d.Bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, wrap("insert tickets", err)
	}
	return rows, nil
}

func (d *DB) InsertContacts(ctx context.Context, rows []models.Contact) ([]models.Contact, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := d.Bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, wrap("insert contacts", err)
	}
	return rows, nil
}

func (d *DB) InsertCoupons(ctx context.Context, rows []models.Coupon) ([]models.Coupon, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := d.Bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, wrap("insert coupons", err)
	}
	return rows, nil
}

// ---------------- update ----------------

func (d *DB) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	var row models.Event
	patch.Apply(&row)
	row.ID = id
	_, err := d.Bun.NewUpdate().Model(&row).Column(cols...).Where("id = ?", id).Exec(ctx)
	return wrap("update event", err)
}

func (d *DB) UpdateTickets(ctx context.Context, ids []string, patch models.TicketPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 || len(ids) == 0 {
		return nil
	}
	var row models.Ticket
	patch.Apply(&row)
	_, err := d.Bun.NewUpdate().Model(&row).Column(cols...).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return wrap("update tickets", err)
}

func (d *DB) UpdateContact(ctx context.Context, id string, patch models.ContactPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	var row models.Contact
	patch.Apply(&row)
	row.ID = id
	_, err := d.Bun.NewUpdate().Model(&row).Column(cols...).Where("id = ?", id).Exec(ctx)
	return wrap("update contact", err)
}

func (d *DB) UpdateCoupon(ctx context.Context, id string, patch models.CouponPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	var row models.Coupon
	patch.Apply(&row)
	row.ID = id
	_, err := d.Bun.NewUpdate().Model(&row).Column(cols...).Where("id = ?", id).Exec(ctx)
	return wrap("update coupon", err)
}

// ---------------- delete ----------------

func (d *DB) DeleteServices(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := d.Bun.NewDelete().Model((*models.TicketType)(nil)).Where("service_id IN (?)", bun.In(ids)).Exec(ctx); err != nil {
		return wrap("delete ticket types", err)
	}
	_, err := d.Bun.NewDelete().Model((*models.Service)(nil)).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return wrap("delete services", err)
}

func (d *DB) DeleteEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Bun.NewDelete().Model((*models.Event)(nil)).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return wrap("delete events", err)
}

func (d *DB) DeleteTickets(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Bun.NewDelete().Model((*models.Ticket)(nil)).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return wrap("delete tickets", err)
}

func (d *DB) DeleteContacts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Bun.NewDelete().Model((*models.Contact)(nil)).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return wrap("delete contacts", err)
}

func (d *DB) DeleteCoupons(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Bun.NewDelete().Model((*models.Coupon)(nil)).Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return wrap("delete coupons", err)
}

// ---------------- merge ----------------

// MergeContacts rewrites every reference from the source contacts to
// the target and deletes the sources, in one transaction.
func (d *DB) MergeContacts(ctx context.Context, targetID string, sourceIDs []string) error {
	if len(sourceIDs) == 0 {
		return nil
	}
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().Model((*models.Ticket)(nil)).
			Set("guest_contact_id = ?", targetID).
			Where("guest_contact_id IN (?)", bun.In(sourceIDs)).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model((*models.Ticket)(nil)).
			Set("billing_contact_id = ?", targetID).
			Where("billing_contact_id IN (?)", bun.In(sourceIDs)).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model((*models.Coupon)(nil)).
			Set("contact_id = ?", targetID).
			Where("contact_id IN (?)", bun.In(sourceIDs)).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*models.Contact)(nil)).
			Where("id IN (?)", bun.In(sourceIDs)).
			Exec(ctx)
		return err
	})
	return wrap("merge contacts", err)
}
