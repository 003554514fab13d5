// Package notify delivers best-effort state-change notifications to the
// user and the administrator. Events are emitted after the owning
// transaction has committed and are consumed on an independent path, so a
// delivery failure can never unwind a completed state transition.
package notify

import (
	"context"
	"log/slog"
	"time"
)

type Kind string

const (
	KindAccessRequested Kind = "access_requested"
	KindProofSubmitted  Kind = "proof_submitted"
	KindApproved        Kind = "approved"
	KindRejected        Kind = "rejected"
	KindSlugIssued      Kind = "slug_issued"
	KindSlugClaimed     Kind = "slug_claimed"
)

// Event describes a committed state change worth telling someone about.
type Event struct {
	Kind     Kind
	UserID   string
	Slug     string     // set for issuance/claim events
	Artifact string     // set for proof submissions
	Expires  *time.Time // set for approvals
	Occurred time.Time
}

// Notifier delivers a single event to its audience. Implementations wrap a
// messaging transport; delivery failures are reported as errors but are
// never retried by the dispatcher.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// LogNotifier writes events to the structured log. It is the default sink
// and the one used in tests; a messaging-platform notifier satisfies the
// same interface.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, ev Event) error {
	n.Logger.Info("notification",
		"kind", string(ev.Kind),
		"user_id", ev.UserID,
		"slug", ev.Slug,
	)
	return nil
}
