package store

import (
	"context"
	"errors"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Entitlements() Entitlements
	Bindings() Bindings
	Proofs() Proofs

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Entitlements interface {
	// GetEntitlement returns the record for a user, or ErrNotFound when the
	// user has never been persisted.
	GetEntitlement(ctx context.Context, userID string) (domain.Entitlement, error)

	// UpsertEntitlement inserts or replaces the full record for a user.
	UpsertEntitlement(ctx context.Context, e domain.Entitlement) error

	// DecrementQuota atomically decrements issuance_quota when it is still
	// positive. Returns ErrNotFound when no quota remained to consume, so a
	// plain read-check-write race can never double-spend.
	DecrementQuota(ctx context.Context, userID string) error

	// ListEntitlements returns records ordered by creation date (newest
	// first), for the administrator listing.
	ListEntitlements(ctx context.Context, limit, offset int) ([]domain.Entitlement, error)
}

type Bindings interface {
	// CreateBinding registers a new slug. Returns ErrAlreadyExists when the
	// slug is taken; slugs are never reused.
	CreateBinding(ctx context.Context, b domain.Binding) error

	// GetBinding returns the binding for a slug.
	GetBinding(ctx context.Context, slug string) (domain.Binding, error)

	// SetBindingOwner re-assigns the owner of an existing slug (claim).
	SetBindingOwner(ctx context.Context, slug, ownerUserID string) error

	// GetNewestBindingByOwner returns the most recently created binding the
	// user owns, or ErrNotFound.
	GetNewestBindingByOwner(ctx context.Context, ownerUserID string) (domain.Binding, error)
}

type Proofs interface {
	// CreateProof appends a proof submission record.
	CreateProof(ctx context.Context, p domain.ProofSubmission) error

	// ResolveOpenProofs stamps resolved_at on every unresolved submission
	// for a user. Called when the administrator decides.
	ResolveOpenProofs(ctx context.Context, userID string, at time.Time) error

	// DeleteResolvedProofsBefore removes resolved submissions older than the
	// cutoff (housekeeping).
	DeleteResolvedProofsBefore(ctx context.Context, cutoff time.Time) error
}
