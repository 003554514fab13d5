package domain

import "time"

// Status is the approval-workflow state of an entitlement. It drives the
// moderation flow only; authorization decisions always check ExpiresAt as
// well, never the enum alone.
type Status string

const (
	// StatusNone means no access and nothing pending.
	StatusNone Status = "none"
	// StatusPending means a payment proof is awaiting the administrator.
	StatusPending Status = "pending"
	// StatusActive means access was granted; validity still depends on ExpiresAt.
	StatusActive Status = "active"
)

// Entitlement is the durable per-user record of subscription state. Records
// are created lazily on first interaction and never deleted.
type Entitlement struct {
	UserID        string
	Status        Status
	ExpiresAt     *time.Time // set iff the record has ever been active
	IssuanceQuota int        // slugs the user may still mint; reset to 1 on approval
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActiveAt reports whether the entitlement grants access at the given
// instant. Expiry is evaluated lazily here; there is no background sweep.
func (e Entitlement) ActiveAt(now time.Time) bool {
	return e.Status == StatusActive && e.ExpiresAt != nil && e.ExpiresAt.After(now)
}

// RemainingAt returns how much paid time is left at the given instant,
// clamped at zero.
func (e Entitlement) RemainingAt(now time.Time) time.Duration {
	if e.ExpiresAt == nil {
		return 0
	}
	if d := e.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
