package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/pkg/slugx"
)

func newIssuanceFixture(t *testing.T) (*service.IssuanceService, *service.EntitlementService) {
	t.Helper()
	st := newTestStore(t)
	return &service.IssuanceService{Store: st, Now: fixedClock(testEpoch)},
		&service.EntitlementService{Store: st, Now: fixedClock(testEpoch)}
}

func TestIssuanceService_Issue_Gating(t *testing.T) {
	issuance, entitlements := newIssuanceFixture(t)
	ctx := context.Background()

	t.Run("unknown user cannot mint", func(t *testing.T) {
		_, err := issuance.Issue(ctx, "ghost", "ghost")
		require.ErrorIs(t, err, service.ErrNotEntitled)
	})

	t.Run("expired user cannot mint", func(t *testing.T) {
		_, err := entitlements.Approve(ctx, "late", 0)
		require.NoError(t, err)

		issuance.Now = fixedClock(testEpoch.Add(31 * 24 * time.Hour))
		_, err = issuance.Issue(ctx, "late", "late")
		require.ErrorIs(t, err, service.ErrNotEntitled)
		issuance.Now = fixedClock(testEpoch)
	})

	t.Run("spent quota cannot mint again", func(t *testing.T) {
		_, err := entitlements.Approve(ctx, "alice", 0)
		require.NoError(t, err)

		_, err = issuance.Issue(ctx, "alice", "alice")
		require.NoError(t, err)

		_, err = issuance.Issue(ctx, "alice", "alice-two")
		require.ErrorIs(t, err, service.ErrQuotaExhausted)
	})
}

func TestIssuanceService_Issue_SpendsQuotaExactlyOnce(t *testing.T) {
	issuance, entitlements := newIssuanceFixture(t)
	ctx := context.Background()

	_, err := entitlements.Approve(ctx, "bob", 0)
	require.NoError(t, err)

	b, err := issuance.Issue(ctx, "bob", "Bob's Channel!")
	require.NoError(t, err)
	require.Equal(t, "bob-s-channel", b.Slug)
	require.Equal(t, "bob", b.OwnerUserID)
	require.Equal(t, "bob", b.CreatedBy)

	e, err := entitlements.Get(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, e.IssuanceQuota)

	// Re-approval restores exactly one grant again.
	_, err = entitlements.Approve(ctx, "bob", 0)
	require.NoError(t, err)

	b2, err := issuance.Issue(ctx, "bob", "Bob's Channel!")
	require.NoError(t, err)
	require.NotEqual(t, b.Slug, b2.Slug, "second mint must not collide with the first")
	require.True(t, strings.HasPrefix(b2.Slug, "bob-s-channel-"), "collision retry keeps the base")
}

func TestIssuanceService_Issue_CollisionSuffixes(t *testing.T) {
	issuance, entitlements := newIssuanceFixture(t)
	ctx := context.Background()

	// Take the bare candidate so every later mint with the same hint has
	// to fall back to suffixed forms.
	_, err := entitlements.Approve(ctx, "first", 0)
	require.NoError(t, err)
	taken, err := issuance.Issue(ctx, "first", "studio")
	require.NoError(t, err)
	require.Equal(t, "studio", taken.Slug)

	seen := map[string]bool{taken.Slug: true}
	for _, user := range []string{"second", "third", "fourth"} {
		_, err := entitlements.Approve(ctx, user, 0)
		require.NoError(t, err)

		b, err := issuance.Issue(ctx, user, "studio")
		require.NoError(t, err)
		require.False(t, seen[b.Slug], "slug %q issued twice", b.Slug)
		require.True(t, slugx.Valid(b.Slug))
		seen[b.Slug] = true
	}
}

func TestIssuanceService_Issue_EmptyHint(t *testing.T) {
	issuance, entitlements := newIssuanceFixture(t)
	ctx := context.Background()

	_, err := entitlements.Approve(ctx, "nameless", 0)
	require.NoError(t, err)

	b, err := issuance.Issue(ctx, "nameless", "!!!")
	require.NoError(t, err)
	require.True(t, slugx.Valid(b.Slug), "generated slug %q must be well-formed", b.Slug)
}

func TestIssuanceService_Claim(t *testing.T) {
	issuance, entitlements := newIssuanceFixture(t)
	ctx := context.Background()

	_, err := entitlements.Approve(ctx, "owner", 0)
	require.NoError(t, err)
	minted, err := issuance.Issue(ctx, "owner", "weekly-digest")
	require.NoError(t, err)

	refs := map[string]string{
		"bare slug":      minted.Slug,
		"delivery path":  "https://example.com/r/" + minted.Slug,
		"query slug":     "https://example.com/start?slug=" + minted.Slug,
		"query code":     "https://example.com/start?code=" + minted.Slug,
		"surrounding ws": "  " + minted.Slug + "  ",
	}
	for name, ref := range refs {
		t.Run(name+" resolves to the same binding", func(t *testing.T) {
			b, err := issuance.Claim(ctx, ref, "new-owner")
			require.NoError(t, err)
			require.Equal(t, minted.Slug, b.Slug)
			require.Equal(t, "new-owner", b.OwnerUserID)
		})
	}

	t.Run("last claim wins", func(t *testing.T) {
		b, err := issuance.Claim(ctx, minted.Slug, "final-owner")
		require.NoError(t, err)
		require.Equal(t, "final-owner", b.OwnerUserID)

		stored, err := issuance.Store.Bindings().GetBinding(ctx, minted.Slug)
		require.NoError(t, err)
		require.Equal(t, "final-owner", stored.OwnerUserID)
		// Creator attribution never changes across claims.
		require.Equal(t, "owner", stored.CreatedBy)
	})

	t.Run("claim does not require entitlement", func(t *testing.T) {
		b, err := issuance.Claim(ctx, minted.Slug, "no-entitlement-user")
		require.NoError(t, err)
		require.Equal(t, "no-entitlement-user", b.OwnerUserID)
	})

	t.Run("unregistered slug", func(t *testing.T) {
		_, err := issuance.Claim(ctx, "never-minted", "anyone")
		require.ErrorIs(t, err, service.ErrSlugNotFound)
	})

	t.Run("unparseable reference", func(t *testing.T) {
		_, err := issuance.Claim(ctx, "!!!", "anyone")
		require.ErrorIs(t, err, service.ErrInvalidReference)
	})
}

func TestIssuanceService_Issue_RollsBackBindingWhenQuotaGone(t *testing.T) {
	st := newTestStore(t)
	issuance := &service.IssuanceService{Store: st, Now: fixedClock(testEpoch)}
	ctx := context.Background()

	// Active status with no quota left: the gate catches it up front.
	expiry := testEpoch.Add(30 * 24 * time.Hour)
	err := st.Entitlements().UpsertEntitlement(ctx, domain.Entitlement{
		UserID:        "drained",
		Status:        domain.StatusActive,
		ExpiresAt:     &expiry,
		IssuanceQuota: 0,
		CreatedAt:     testEpoch,
		UpdatedAt:     testEpoch,
	})
	require.NoError(t, err)

	_, err = issuance.Issue(ctx, "drained", "drained")
	require.ErrorIs(t, err, service.ErrQuotaExhausted)

	_, err = st.Bindings().GetBinding(ctx, "drained")
	require.ErrorIs(t, err, store.ErrNotFound, "no binding may survive a failed mint")
}
