package optimistic

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/internal/store"
)

type recordingPublisher struct {
	actions []string
	kinds   []string
	err     error
}

func (p *recordingPublisher) Publish(action, kind string, ids []string) error {
	p.actions = append(p.actions, action)
	p.kinds = append(p.kinds, kind)
	return p.err
}

func newEngine(t *testing.T) (*Engine, *store.Store, *recordingPublisher) {
	t.Helper()
	s := store.New()
	s.UpsertContacts([]models.Contact{{ID: "c1", Name: "Ana"}})
	s.UpsertCoupons([]models.Coupon{{ID: "k1", Code: "AAAABBBB", Amount: 50}})
	pub := &recordingPublisher{}
	return New(s, logger.New(io.Discard, false), pub), s, pub
}

func TestApplyCommits(t *testing.T) {
	engine, s, pub := newEngine(t)

	err := engine.Apply(context.Background(), Mutation{
		Name: "contact.create",
		Kind: "contact",
		IDs:  []string{"c2"},
		Local: func(st *store.Store) error {
			st.UpsertContacts([]models.Contact{{ID: "c2", Name: "Bela"}})
			return nil
		},
		Remote: func(ctx context.Context) error { return nil },
	})

	require.NoError(t, err)
	_, ok := s.Contact("c2")
	assert.True(t, ok)
	assert.Equal(t, []string{"contact.create"}, pub.actions)
}

func TestApplyRollsBackOnRemoteFailure(t *testing.T) {
	engine, s, pub := newEngine(t)
	remoteErr := errors.New("connection refused")

	err := engine.Apply(context.Background(), Mutation{
		Name: "coupon.update",
		Kind: "coupon",
		IDs:  []string{"k1"},
		Local: func(st *store.Store) error {
			amount := 0.0
			return st.PatchCoupon("k1", models.CouponPatch{Amount: &amount})
		},
		Remote: func(ctx context.Context) error { return remoteErr },
	})

	// The remote error surfaces verbatim and the cache holds the
	// exact pre-mutation state.
	assert.Same(t, remoteErr, err)
	coupon, _ := s.Coupon("k1")
	assert.Equal(t, 50.0, coupon.Amount)
	assert.Empty(t, pub.actions, "rolled-back mutations are not audited")
}

func TestApplyRollsBackOnLocalFailure(t *testing.T) {
	engine, s, _ := newEngine(t)
	localErr := errors.New("bad patch")

	err := engine.Apply(context.Background(), Mutation{
		Name: "contact.update",
		Kind: "contact",
		IDs:  []string{"c1"},
		Local: func(st *store.Store) error {
			st.RemoveContacts([]string{"c1"})
			return localErr
		},
	})

	assert.Same(t, localErr, err)
	_, ok := s.Contact("c1")
	assert.True(t, ok, "partial local work is undone")
}

func TestApplyDeclined(t *testing.T) {
	engine, s, _ := newEngine(t)
	localRan := false

	err := engine.Apply(context.Background(), Mutation{
		Name:    "coupon.delete",
		Kind:    "coupon",
		IDs:     []string{"k1"},
		Confirm: func() bool { return false },
		Local: func(st *store.Store) error {
			localRan = true
			st.RemoveCoupons([]string{"k1"})
			return nil
		},
	})

	assert.ErrorIs(t, err, ErrDeclined)
	assert.False(t, localRan)
	_, ok := s.Coupon("k1")
	assert.True(t, ok)
}

func TestApplyCustomRevert(t *testing.T) {
	engine, s, _ := newEngine(t)
	reverted := false

	err := engine.Apply(context.Background(), Mutation{
		Name: "coupon.update",
		Kind: "coupon",
		IDs:  []string{"k1"},
		Local: func(st *store.Store) error {
			amount := 10.0
			return st.PatchCoupon("k1", models.CouponPatch{Amount: &amount})
		},
		Remote: func(ctx context.Context) error { return errors.New("boom") },
		Revert: func(st *store.Store) {
			reverted = true
			amount := 50.0
			_ = st.PatchCoupon("k1", models.CouponPatch{Amount: &amount})
		},
	})

	require.Error(t, err)
	assert.True(t, reverted, "Revert replaces the snapshot restore")
	coupon, _ := s.Coupon("k1")
	assert.Equal(t, 50.0, coupon.Amount)
}

func TestAuditFailureDoesNotSurface(t *testing.T) {
	engine, _, pub := newEngine(t)
	pub.err = errors.New("broker down")

	err := engine.Apply(context.Background(), Mutation{
		Name:  "contact.create",
		Kind:  "contact",
		IDs:   []string{"c9"},
		Local: func(st *store.Store) error { return nil },
	})

	assert.NoError(t, err, "a committed mutation stays committed")
	assert.Len(t, pub.actions, 1)
}
