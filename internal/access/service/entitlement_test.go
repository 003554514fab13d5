package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
)

func TestEntitlementService_Get(t *testing.T) {
	st := newTestStore(t)
	svc := &service.EntitlementService{Store: st, Now: fixedClock(testEpoch)}
	ctx := context.Background()

	t.Run("unknown user yields a zero record, not an error", func(t *testing.T) {
		e, err := svc.Get(ctx, "ghost")
		require.NoError(t, err)
		require.Equal(t, "ghost", e.UserID)
		require.Equal(t, domain.StatusNone, e.Status)
		require.Nil(t, e.ExpiresAt)
		require.Zero(t, e.IssuanceQuota)
	})

	t.Run("persisted record round-trips", func(t *testing.T) {
		_, err := svc.Approve(ctx, "alice", 0)
		require.NoError(t, err)

		e, err := svc.Get(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, e.Status)
		require.NotNil(t, e.ExpiresAt)
		require.Equal(t, 1, e.IssuanceQuota)
	})
}

func TestEntitlementService_Approve_RenewalRule(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	window := 30 * 24 * time.Hour

	svc := &service.EntitlementService{Store: st, Window: window, Now: fixedClock(testEpoch)}

	t.Run("fresh approval starts the window from now", func(t *testing.T) {
		e, err := svc.Approve(ctx, "alice", 0)
		require.NoError(t, err)
		require.NotNil(t, e.ExpiresAt)
		require.Equal(t, testEpoch.Add(window), *e.ExpiresAt)
	})

	t.Run("renewing before expiry appends to the current expiry", func(t *testing.T) {
		// 10 days in, with 20 days of paid time left.
		svc.Now = fixedClock(testEpoch.Add(10 * 24 * time.Hour))

		e, err := svc.Approve(ctx, "alice", 0)
		require.NoError(t, err)
		// 20 remaining + 30 new = expiry at day 60, none of the paid
		// time was lost.
		require.Equal(t, testEpoch.Add(60*24*time.Hour), *e.ExpiresAt)
	})

	t.Run("renewing after expiry starts a fresh window from now", func(t *testing.T) {
		lateNow := testEpoch.Add(90 * 24 * time.Hour)
		svc.Now = fixedClock(lateNow)

		e, err := svc.Approve(ctx, "alice", 0)
		require.NoError(t, err)
		require.Equal(t, lateNow.Add(window), *e.ExpiresAt)
	})

	t.Run("repeated approval resets quota to one, never stacks", func(t *testing.T) {
		e, err := svc.Approve(ctx, "alice", 0)
		require.NoError(t, err)
		require.Equal(t, 1, e.IssuanceQuota)

		e, err = svc.Approve(ctx, "alice", 0)
		require.NoError(t, err)
		require.Equal(t, 1, e.IssuanceQuota)
	})
}

func TestEntitlementService_LazyExpiry(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	svc := &service.EntitlementService{Store: st, Now: fixedClock(testEpoch)}

	_, err := svc.Approve(ctx, "bob", 0)
	require.NoError(t, err)

	t.Run("active within the window", func(t *testing.T) {
		active, err := svc.IsActive(ctx, "bob")
		require.NoError(t, err)
		require.True(t, active)

		left, err := svc.Remaining(ctx, "bob")
		require.NoError(t, err)
		require.Equal(t, 30*24*time.Hour, left)
	})

	t.Run("inactive the moment the window passes, no write needed", func(t *testing.T) {
		svc.Now = fixedClock(testEpoch.Add(31 * 24 * time.Hour))

		active, err := svc.IsActive(ctx, "bob")
		require.NoError(t, err)
		require.False(t, active)

		left, err := svc.Remaining(ctx, "bob")
		require.NoError(t, err)
		require.Zero(t, left)

		// Stored status still says active; only the read-side view expired.
		e, err := st.Entitlements().GetEntitlement(ctx, "bob")
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, e.Status)
	})
}

func TestEntitlementService_Reject(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	svc := &service.EntitlementService{Store: st, Now: fixedClock(testEpoch)}

	_, err := svc.Approve(ctx, "carol", 0)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, "carol"))

	e, err := svc.Get(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, domain.StatusNone, e.Status)
	require.Nil(t, e.ExpiresAt)
	require.Zero(t, e.IssuanceQuota)

	active, err := svc.IsActive(ctx, "carol")
	require.NoError(t, err)
	require.False(t, active)
}

func TestEntitlementService_List(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	svc := &service.EntitlementService{Store: st, Now: fixedClock(testEpoch)}

	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := svc.Approve(ctx, id, 0)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page, 3)

	empty, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, empty)
}
