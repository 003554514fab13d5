package service

import (
	"context"
	"errors"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

// DefaultAccessWindow is the access period granted per approval unless
// configured otherwise.
const DefaultAccessWindow = 30 * 24 * time.Hour

// ListPageSize is the page size for the administrator entitlement listing.
const ListPageSize = 20

// EntitlementService owns the per-user subscription record: approval grants,
// rejections, and the lazy expiry reads every other component relies on.
type EntitlementService struct {
	Store  store.Store
	Window time.Duration // access window per approval; DefaultAccessWindow when zero

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *EntitlementService) clock() time.Time {
	return nowOrDefault(s.Now)
}

func (s *EntitlementService) window() time.Duration {
	if s.Window > 0 {
		return s.Window
	}
	return DefaultAccessWindow
}

// Get returns the stored record for a user, or a fresh zero-value record
// when the user has never been persisted. Absence is not an error.
func (s *EntitlementService) Get(ctx context.Context, userID string) (domain.Entitlement, error) {
	e, err := s.Store.Entitlements().GetEntitlement(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return zeroEntitlement(userID, s.clock()), nil
	}
	if err != nil {
		return domain.Entitlement{}, err
	}
	return e, nil
}

// Approve grants (or extends) access for a user and resets the issuance
// quota to a single grant. Expiry follows the renewal rule: time is appended
// to whichever is later, the current future expiry or now, so a renewing
// user never loses already-paid-for time. A window of zero uses the
// configured default.
func (s *EntitlementService) Approve(ctx context.Context, userID string, window time.Duration) (domain.Entitlement, error) {
	log := slogx.FromContext(ctx)

	if window <= 0 {
		window = s.window()
	}

	var approved domain.Entitlement
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		approved, err = applyApproval(ctx, tx, userID, window, s.clock())
		return err
	})
	if err != nil {
		log.Error("failed to approve entitlement", "user_id", userID, "error", err)
		return domain.Entitlement{}, err
	}

	log.Info("entitlement approved",
		"user_id", userID,
		"expires_at", approved.ExpiresAt,
	)
	return approved, nil
}

// Reject clears a user's access and issuance quota.
func (s *EntitlementService) Reject(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := applyRejection(ctx, tx, userID, s.clock())
		return err
	})
	if err != nil {
		log.Error("failed to reject entitlement", "user_id", userID, "error", err)
		return err
	}

	log.Info("entitlement rejected", "user_id", userID)
	return nil
}

// IsActive reports whether the user currently holds valid access. The
// expiry timestamp is always consulted; a stale active status alone grants
// nothing.
func (s *EntitlementService) IsActive(ctx context.Context, userID string) (bool, error) {
	e, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return e.ActiveAt(s.clock()), nil
}

// Remaining returns the paid time left for a user, zero when inactive.
func (s *EntitlementService) Remaining(ctx context.Context, userID string) (time.Duration, error) {
	e, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !e.ActiveAt(s.clock()) {
		return 0, nil
	}
	return e.RemainingAt(s.clock()), nil
}

// List returns one page of entitlement records for the administrator
// listing. Pages are 1-based.
func (s *EntitlementService) List(ctx context.Context, page int) ([]domain.Entitlement, error) {
	if page < 1 {
		page = 1
	}
	return s.Store.Entitlements().ListEntitlements(ctx, ListPageSize, (page-1)*ListPageSize)
}

// renewedExpiry implements the renewal rule: append the window to the
// current expiry when it is still in the future, otherwise start a fresh
// window from now.
func renewedExpiry(current *time.Time, now time.Time, window time.Duration) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.Add(window)
}

// applyApproval mutates a user's record inside the caller's transaction.
// Quota is set to one grant, never incremented, so repeated approvals can
// extend time but can never stack mintable slugs.
func applyApproval(ctx context.Context, tx store.Tx, userID string, window time.Duration, now time.Time) (domain.Entitlement, error) {
	e, err := tx.Entitlements().GetEntitlement(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		e = zeroEntitlement(userID, now)
	} else if err != nil {
		return domain.Entitlement{}, err
	}

	expiry := renewedExpiry(e.ExpiresAt, now, window)
	e.Status = domain.StatusActive
	e.ExpiresAt = &expiry
	e.IssuanceQuota = 1
	e.UpdatedAt = now

	if err := tx.Entitlements().UpsertEntitlement(ctx, e); err != nil {
		return domain.Entitlement{}, err
	}
	return e, nil
}

// applyRejection clears access inside the caller's transaction.
func applyRejection(ctx context.Context, tx store.Tx, userID string, now time.Time) (domain.Entitlement, error) {
	e, err := tx.Entitlements().GetEntitlement(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		e = zeroEntitlement(userID, now)
	} else if err != nil {
		return domain.Entitlement{}, err
	}

	e.Status = domain.StatusNone
	e.ExpiresAt = nil
	e.IssuanceQuota = 0
	e.UpdatedAt = now

	if err := tx.Entitlements().UpsertEntitlement(ctx, e); err != nil {
		return domain.Entitlement{}, err
	}
	return e, nil
}

func zeroEntitlement(userID string, now time.Time) domain.Entitlement {
	return domain.Entitlement{
		UserID:    userID,
		Status:    domain.StatusNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func nowOrDefault(f func() time.Time) time.Time {
	if f != nil {
		return f().UTC()
	}
	return time.Now().UTC()
}
