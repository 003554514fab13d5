package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
)

const adminID = "admin-1"

func newApprovalService(t *testing.T) *service.ApprovalService {
	t.Helper()
	return &service.ApprovalService{
		Store:   newTestStore(t),
		AdminID: adminID,
		Now:     fixedClock(testEpoch),
	}
}

func TestApprovalService_RequestAccess(t *testing.T) {
	svc := newApprovalService(t)
	ctx := context.Background()

	t.Run("moves an unknown user into pending", func(t *testing.T) {
		require.NoError(t, svc.RequestAccess(ctx, "alice"))

		e, err := svc.Store.Entitlements().GetEntitlement(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, e.Status)
	})

	t.Run("repeat request is a no-op", func(t *testing.T) {
		require.NoError(t, svc.RequestAccess(ctx, "alice"))

		e, err := svc.Store.Entitlements().GetEntitlement(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, e.Status)
	})

	t.Run("active user re-enters pending without losing expiry", func(t *testing.T) {
		result, err := svc.Decide(ctx, adminID, "alice", service.DecisionApprove)
		require.NoError(t, err)
		require.NotNil(t, result.ExpiresAt)
		paid := *result.ExpiresAt

		require.NoError(t, svc.RequestAccess(ctx, "alice"))

		e, err := svc.Store.Entitlements().GetEntitlement(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, e.Status)
		require.NotNil(t, e.ExpiresAt)
		require.Equal(t, paid, *e.ExpiresAt)
	})
}

func TestApprovalService_SubmitProof(t *testing.T) {
	svc := newApprovalService(t)
	ctx := context.Background()

	t.Run("rejected while not pending", func(t *testing.T) {
		err := svc.SubmitProof(ctx, "bob", "receipt-123", "")
		require.ErrorIs(t, err, service.ErrNotPending)
	})

	t.Run("recorded while pending", func(t *testing.T) {
		require.NoError(t, svc.RequestAccess(ctx, "bob"))
		require.NoError(t, svc.SubmitProof(ctx, "bob", "receipt-123", "march invoice"))

		// Proof submission does not change the entitlement itself.
		e, err := svc.Store.Entitlements().GetEntitlement(ctx, "bob")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, e.Status)
		require.Zero(t, e.IssuanceQuota)
	})
}

func TestApprovalService_Decide_Authorization(t *testing.T) {
	svc := newApprovalService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestAccess(ctx, "alice"))

	t.Run("non-administrator is refused with no state change", func(t *testing.T) {
		_, err := svc.Decide(ctx, "alice", "alice", service.DecisionApprove)
		require.ErrorIs(t, err, service.ErrNotAuthorized)

		e, err := svc.Store.Entitlements().GetEntitlement(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, e.Status)
		require.Zero(t, e.IssuanceQuota)
	})

	t.Run("invalid decision is refused", func(t *testing.T) {
		_, err := svc.Decide(ctx, adminID, "alice", service.Decision("maybe"))
		require.ErrorIs(t, err, service.ErrInvalidDecision)
	})
}

func TestApprovalService_Decide_Approve(t *testing.T) {
	svc := newApprovalService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestAccess(ctx, "alice"))

	e, err := svc.Decide(ctx, adminID, "alice", service.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, e.Status)
	require.Equal(t, 1, e.IssuanceQuota)
	require.NotNil(t, e.ExpiresAt)
	require.Equal(t, testEpoch.Add(service.DefaultAccessWindow), *e.ExpiresAt)

	t.Run("duplicate approve extends time but never stacks quota", func(t *testing.T) {
		again, err := svc.Decide(ctx, adminID, "alice", service.DecisionApprove)
		require.NoError(t, err)
		require.Equal(t, 1, again.IssuanceQuota)
		require.Equal(t, testEpoch.Add(2*service.DefaultAccessWindow), *again.ExpiresAt)
	})
}

func TestApprovalService_Decide_Reject(t *testing.T) {
	svc := newApprovalService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestAccess(ctx, "carol"))
	_, err := svc.Decide(ctx, adminID, "carol", service.DecisionApprove)
	require.NoError(t, err)

	e, err := svc.Decide(ctx, adminID, "carol", service.DecisionReject)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNone, e.Status)
	require.Nil(t, e.ExpiresAt)
	require.Zero(t, e.IssuanceQuota)

	t.Run("duplicate reject is a harmless no-op", func(t *testing.T) {
		e, err := svc.Decide(ctx, adminID, "carol", service.DecisionReject)
		require.NoError(t, err)
		require.Equal(t, domain.StatusNone, e.Status)
	})
}

func TestApprovalService_Decide_ResolvesProofs(t *testing.T) {
	svc := newApprovalService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestAccess(ctx, "dave"))
	require.NoError(t, svc.SubmitProof(ctx, "dave", "txn-9f", ""))

	_, err := svc.Decide(ctx, adminID, "dave", service.DecisionApprove)
	require.NoError(t, err)

	// Resolved proofs are eligible for pruning; the retention cutoff here
	// is in the future so everything just resolved is swept.
	cutoff := testEpoch.Add(time.Hour)
	require.NoError(t, svc.Store.Proofs().DeleteResolvedProofsBefore(ctx, cutoff))
}
