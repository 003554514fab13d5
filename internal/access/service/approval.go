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
	"github.com/oneclicklabs/oneclick-access/pkg/idx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

var (
	ErrNotAuthorized   = errors.New("caller is not the administrator")
	ErrNotPending      = errors.New("no pending request for user")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
)

// Decision is the administrator's verdict on a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ApprovalService orchestrates the moderation flow: a user requests access,
// submits an out-of-band payment proof, and the single configured
// administrator approves or rejects. Notifications go out after commit and
// are never allowed to fail the transition.
type ApprovalService struct {
	Store      store.Store
	AdminID    string
	Window     time.Duration // passed through to the approval grant
	Dispatcher *notify.Dispatcher
	Metrics    *metrics.Metrics

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *ApprovalService) clock() time.Time {
	return nowOrDefault(s.Now)
}

// RequestAccess moves a user into the pending state, awaiting proof and an
// administrator decision. Already-pending users are left untouched; an
// active user may re-enter pending (repeat purchase) without losing their
// current expiry.
func (s *ApprovalService) RequestAccess(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)
	now := s.clock()

	var changed bool
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.Entitlements().GetEntitlement(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			e = zeroEntitlement(userID, now)
		} else if err != nil {
			return err
		}

		if e.Status == domain.StatusPending {
			return nil
		}

		e.Status = domain.StatusPending
		e.UpdatedAt = now
		changed = true
		return tx.Entitlements().UpsertEntitlement(ctx, e)
	})
	if err != nil {
		log.Error("failed to record access request", "user_id", userID, "error", err)
		return err
	}

	if changed {
		log.Info("access requested", "user_id", userID)
		s.dispatch(notify.Event{Kind: notify.KindAccessRequested, UserID: userID, Occurred: now})
	}
	return nil
}

// SubmitProof records a payment artifact for administrator review. Valid
// only while the user is pending; the entitlement itself is not changed.
func (s *ApprovalService) SubmitProof(ctx context.Context, userID, artifact, note string) error {
	log := slogx.FromContext(ctx)
	now := s.clock()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.Entitlements().GetEntitlement(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotPending
			}
			return err
		}
		if e.Status != domain.StatusPending {
			return ErrNotPending
		}

		return tx.Proofs().CreateProof(ctx, domain.ProofSubmission{
			ID:        idx.New().String(),
			UserID:    userID,
			Artifact:  artifact,
			Note:      note,
			CreatedAt: now,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNotPending) {
			log.Error("failed to record proof submission", "user_id", userID, "error", err)
		}
		return err
	}

	log.Info("proof submitted", "user_id", userID)
	// Routed to the administrator with the approve/reject affordance.
	s.dispatch(notify.Event{
		Kind:     notify.KindProofSubmitted,
		UserID:   userID,
		Artifact: artifact,
		Occurred: now,
	})
	return nil
}

// Decide applies the administrator's verdict. Only the configured admin
// identity may call it; anyone else gets ErrNotAuthorized and no state
// change. The decision operates on current stored state, so a stale
// duplicate approve is a second full grant of time (renewal rule) but never
// stacks quota, and a duplicate reject is a no-op.
func (s *ApprovalService) Decide(ctx context.Context, actorID, userID string, decision Decision) (domain.Entitlement, error) {
	log := slogx.FromContext(ctx)

	if actorID != s.AdminID {
		log.Warn("decision attempted by non-administrator",
			slog.String("actor_id", actorID),
			slog.String("user_id", userID),
		)
		return domain.Entitlement{}, ErrNotAuthorized
	}

	now := s.clock()
	window := s.Window
	if window <= 0 {
		window = DefaultAccessWindow
	}

	var result domain.Entitlement
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		switch decision {
		case DecisionApprove:
			result, err = applyApproval(ctx, tx, userID, window, now)
		case DecisionReject:
			result, err = applyRejection(ctx, tx, userID, now)
		default:
			return ErrInvalidDecision
		}
		if err != nil {
			return err
		}
		return tx.Proofs().ResolveOpenProofs(ctx, userID, now)
	})
	if err != nil {
		log.Error("failed to apply decision",
			"user_id", userID,
			"decision", string(decision),
			"error", err,
		)
		return domain.Entitlement{}, err
	}

	s.Metrics.IncrementDecision(string(decision))

	switch decision {
	case DecisionApprove:
		log.Info("user approved", "user_id", userID, "expires_at", result.ExpiresAt)
		s.dispatch(notify.Event{
			Kind:     notify.KindApproved,
			UserID:   userID,
			Expires:  result.ExpiresAt,
			Occurred: now,
		})
	case DecisionReject:
		log.Info("user rejected", "user_id", userID)
		s.dispatch(notify.Event{Kind: notify.KindRejected, UserID: userID, Occurred: now})
	}

	return result, nil
}

func (s *ApprovalService) dispatch(ev notify.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ev)
	}
}
