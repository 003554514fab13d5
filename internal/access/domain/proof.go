package domain

import "time"

// ProofSubmission is the audit record of a payment artifact forwarded to the
// administrator. Verification is always a human decision; the record only
// tracks that a proof was submitted and when it was resolved.
type ProofSubmission struct {
	ID         string
	UserID     string
	Artifact   string // opaque reference to the receipt (file id, URL)
	Note       string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
