package domain

import "time"

// Binding maps an issued slug to the user it currently routes to. Slugs are
// globally unique and immutable once created; only the owner may change, via
// an explicit claim.
type Binding struct {
	Slug        string
	OwnerUserID string
	CreatedBy   string // user who originally minted the slug
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
