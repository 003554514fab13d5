package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/notify"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
	"github.com/oneclicklabs/oneclick-access/pkg/slugx"
)

// ErrCodeOwnedByOther reports that the requested code is already bound to a
// different user.
var ErrCodeOwnedByOther = errors.New("code is bound to another user")

// StatusProjection is the read-only view returned to the trusted backend.
type StatusProjection struct {
	Exists    bool
	Slug      string
	ExpiresAt *time.Time
	DaysLeft  int
}

// RegistrationService is the trusted external surface: a delivery backend
// that performed its own verification can register or extend entitlements
// directly, bypassing the approval workflow.
type RegistrationService struct {
	Store      store.Store
	Window     time.Duration // default window when the caller sends no days
	Dispatcher *notify.Dispatcher

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *RegistrationService) clock() time.Time {
	return nowOrDefault(s.Now)
}

// RegisterOrExtend ensures a binding exists for the given code (creating it
// owned by the user when missing) and applies the renewal rule to the
// user's entitlement. A fresh code hint is normalized like any slug; an
// empty hint gets a generated code. Quota is left untouched: the code
// already exists, so there is nothing left to mint.
func (s *RegistrationService) RegisterOrExtend(ctx context.Context, codeOrHint, userID string, window time.Duration) (domain.Binding, domain.Entitlement, error) {
	log := slogx.FromContext(ctx)
	now := s.clock()

	if window <= 0 {
		if s.Window > 0 {
			window = s.Window
		} else {
			window = DefaultAccessWindow
		}
	}

	code := slugx.Normalize(codeOrHint)
	if code == "" {
		code = slugx.Generate("")
	}

	var (
		binding     domain.Binding
		entitlement domain.Entitlement
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		b, err := tx.Bindings().GetBinding(ctx, code)
		switch {
		case errors.Is(err, store.ErrNotFound):
			b = domain.Binding{
				Slug:        code,
				OwnerUserID: userID,
				CreatedBy:   userID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Bindings().CreateBinding(ctx, b); err != nil {
				return err
			}
		case err != nil:
			return err
		case b.OwnerUserID != userID:
			return ErrCodeOwnedByOther
		}
		binding = b

		prior, err := tx.Entitlements().GetEntitlement(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		entitlement, err = applyApproval(ctx, tx, userID, window, now)
		if err != nil {
			return err
		}
		// The approval helper grants a mint; this path registers the code
		// itself, so keep whatever quota the user had instead.
		entitlement.IssuanceQuota = prior.IssuanceQuota
		return tx.Entitlements().UpsertEntitlement(ctx, entitlement)
	})
	if err != nil {
		if !errors.Is(err, ErrCodeOwnedByOther) {
			log.Error("failed to register or extend",
				"user_id", userID,
				"code", code,
				"error", err,
			)
		}
		return domain.Binding{}, domain.Entitlement{}, err
	}

	log.Info("entitlement registered",
		"user_id", userID,
		"code", binding.Slug,
		"expires_at", entitlement.ExpiresAt,
	)
	s.dispatch(notify.Event{
		Kind:     notify.KindApproved,
		UserID:   userID,
		Slug:     binding.Slug,
		Expires:  entitlement.ExpiresAt,
		Occurred: now,
	})
	return binding, entitlement, nil
}

// QueryStatus projects a user's entitlement plus any bound code for the
// trusted backend. Unknown users yield Exists=false, not an error.
func (s *RegistrationService) QueryStatus(ctx context.Context, userID string) (StatusProjection, error) {
	now := s.clock()

	e, err := s.Store.Entitlements().GetEntitlement(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return StatusProjection{}, nil
	}
	if err != nil {
		return StatusProjection{}, err
	}

	proj := StatusProjection{Exists: true, ExpiresAt: e.ExpiresAt}
	if e.ActiveAt(now) {
		proj.DaysLeft = int(math.Ceil(e.RemainingAt(now).Hours() / 24))
	}

	b, err := s.Store.Bindings().GetNewestBindingByOwner(ctx, userID)
	if err == nil {
		proj.Slug = b.Slug
	} else if !errors.Is(err, store.ErrNotFound) {
		return StatusProjection{}, err
	}

	return proj, nil
}

// LookupBinding returns the binding for a slug, for delivery routing.
func (s *RegistrationService) LookupBinding(ctx context.Context, slug string) (domain.Binding, error) {
	b, err := s.Store.Bindings().GetBinding(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Binding{}, ErrSlugNotFound
	}
	if err != nil {
		return domain.Binding{}, err
	}
	return b, nil
}

func (s *RegistrationService) dispatch(ev notify.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ev)
	}
}
