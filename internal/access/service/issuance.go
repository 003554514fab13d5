package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/metrics"
	"github.com/oneclicklabs/oneclick-access/internal/access/notify"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
	"github.com/oneclicklabs/oneclick-access/pkg/slugx"
)

var (
	ErrNotEntitled      = errors.New("active access required")
	ErrQuotaExhausted   = errors.New("no issuance quota remaining")
	ErrIssuanceFailed   = errors.New("could not allocate a unique slug")
	ErrInvalidReference = errors.New("reference does not contain a slug")
	ErrSlugNotFound     = errors.New("slug is not registered")
)

// maxIssueAttempts bounds the collision retries when minting a slug.
const maxIssueAttempts = 3

// IssuanceService mints slugs for entitled users and re-assigns existing
// ones. Minting consumes exactly one unit of issuance quota: the binding
// insert and the conditional quota decrement run in a single transaction,
// and the quota is only spent once the registration is durable.
type IssuanceService struct {
	Store      store.Store
	Dispatcher *notify.Dispatcher
	Metrics    *metrics.Metrics

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *IssuanceService) clock() time.Time {
	return nowOrDefault(s.Now)
}

// Issue mints a new slug for a user. The hint (a desired name or the user's
// public handle) is normalized into the slug base; a random suffix is
// appended only when a bare candidate collides or no usable hint was given.
func (s *IssuanceService) Issue(ctx context.Context, userID, hint string) (domain.Binding, error) {
	log := slogx.FromContext(ctx)
	now := s.clock()

	var issued domain.Binding
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.Entitlements().GetEntitlement(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotEntitled
		} else if err != nil {
			return err
		}
		if !e.ActiveAt(now) {
			return ErrNotEntitled
		}
		if e.IssuanceQuota <= 0 {
			return ErrQuotaExhausted
		}

		base := slugx.Normalize(hint)
		for attempt := range maxIssueAttempts {
			candidate := base
			if candidate == "" || attempt > 0 {
				candidate = slugx.Generate(base)
			}

			b := domain.Binding{
				Slug:        candidate,
				OwnerUserID: userID, // self-claim: route to the issuer immediately
				CreatedBy:   userID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			err := tx.Bindings().CreateBinding(ctx, b)
			if errors.Is(err, store.ErrAlreadyExists) {
				log.Debug("slug collision, retrying",
					slog.String("candidate", candidate),
					slog.Int("attempt", attempt+1),
				)
				continue
			}
			if err != nil {
				return err
			}

			// Registration is durable within this tx; now spend the quota.
			// A concurrent spend makes the decrement miss and rolls the
			// whole mint back, so one quota can never yield two slugs.
			if err := tx.Entitlements().DecrementQuota(ctx, userID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrQuotaExhausted
				}
				return err
			}

			issued = b
			return nil
		}

		return ErrIssuanceFailed
	})
	if err != nil {
		s.Metrics.IncrementIssuance(issueOutcome(err))
		return domain.Binding{}, err
	}

	s.Metrics.IncrementIssuance("issued")
	log.Info("slug issued", "user_id", userID, "slug", issued.Slug)
	s.dispatch(notify.Event{
		Kind:     notify.KindSlugIssued,
		UserID:   userID,
		Slug:     issued.Slug,
		Occurred: now,
	})
	return issued, nil
}

// Claim re-assigns an existing slug to a user. The reference may be the
// bare slug or a delivery URL carrying it; extraction is deterministic
// (path, then query parameter, then bare form). Last claim wins, with no
// check on the previous owner: that is what lets an operator hand a
// pre-existing slug to someone else.
func (s *IssuanceService) Claim(ctx context.Context, reference, userID string) (domain.Binding, error) {
	log := slogx.FromContext(ctx)
	now := s.clock()

	slug, err := slugx.ExtractFromReference(reference)
	if err != nil {
		return domain.Binding{}, ErrInvalidReference
	}

	var claimed domain.Binding
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Bindings().SetBindingOwner(ctx, slug, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSlugNotFound
			}
			return err
		}

		var err error
		claimed, err = tx.Bindings().GetBinding(ctx, slug)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrSlugNotFound) {
			log.Error("failed to claim slug", "slug", slug, "user_id", userID, "error", err)
		}
		return domain.Binding{}, err
	}

	log.Info("slug claimed", "user_id", userID, "slug", slug)
	s.dispatch(notify.Event{
		Kind:     notify.KindSlugClaimed,
		UserID:   userID,
		Slug:     slug,
		Occurred: now,
	})
	return claimed, nil
}

func issueOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNotEntitled):
		return "not_entitled"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	default:
		return "failed"
	}
}

func (s *IssuanceService) dispatch(ev notify.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ev)
	}
}
