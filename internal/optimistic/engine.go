// Package optimistic applies user-facing mutations to the cache
// first and to the remote store second, rolling the cache back when
// the remote call fails. Success needs no reconciliation: the
// optimistic state is the final state, there is no forced re-fetch.
package optimistic

import (
	"context"
	"errors"
	"fmt"

	"eventdesk/internal/logger"
	"eventdesk/internal/store"
)

// ErrDeclined is returned when a mutation's confirmation hook says
// no. Nothing has been touched in that case.
var ErrDeclined = errors.New("mutation declined")

// Publisher receives a record of every committed mutation.
type Publisher interface {
	Publish(action, kind string, ids []string) error
}

// Mutation is one optimistic change. Local runs synchronously against
// the store; Remote persists it and may fail. Revert, when set,
// replaces the default whole-store snapshot restore with a narrower
// rollback.
type Mutation struct {
	// Name identifies the mutation in logs and the audit trail.
	Name string
	// Kind and IDs describe the touched entity set. The revert set is
	// always identical to the touched set: rollback restores the
	// snapshot taken before Local ran.
	Kind string
	IDs  []string

	Confirm func() bool
	Local   func(*store.Store) error
	Remote  func(context.Context) error
	Revert  func(*store.Store)
}

// Engine owns the store reference and the rollback machinery. All
// writes to the store go through Apply; writing around it would skip
// the revert snapshot.
type Engine struct {
	store *store.Store
	log   *logger.Logger
	audit Publisher
}

// New creates an engine over the given store. audit may be nil.
func New(s *store.Store, log *logger.Logger, audit Publisher) *Engine {
	return &Engine{store: s, log: log, audit: audit}
}

// Store exposes the underlying store for reads.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Apply runs one mutation. The local step is synchronous, so the UI
// sees the change on its next read; the remote step may fail, in
// which case the store is restored to the exact pre-mutation state
// and the remote error is returned verbatim.
//
// Concurrent mutations are not coalesced: each Apply captures its own
// snapshot at call time. Two racing mutations on the same entity can
// stomp each other on revert; that is the accepted cost of a single
// mutable cache without per-field versioning.
func (e *Engine) Apply(ctx context.Context, m Mutation) error {
	if m.Confirm != nil && !m.Confirm() {
		return ErrDeclined
	}

	snap := e.store.Snapshot()

	if err := m.Local(e.store); err != nil {
		e.store.Restore(snap)
		return err
	}

	if m.Remote != nil {
		if err := m.Remote(ctx); err != nil {
			if m.Revert != nil {
				m.Revert(e.store)
			} else {
				e.store.Restore(snap)
			}
			e.log.LogMutation(m.Name, "rolled back", err.Error())
			return err
		}
	}

	e.log.LogMutation(m.Name, "committed", fmt.Sprintf("%s %v", m.Kind, m.IDs))
	if e.audit != nil {
		if err := e.audit.Publish(m.Name, m.Kind, m.IDs); err != nil {
			// The mutation already committed; audit loss is logged,
			// not surfaced.
			e.log.Error("AUDIT", fmt.Sprintf("publish %s: %v", m.Name, err))
		}
	}
	return nil
}
