package sqlite

import (
	"context"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
)

type proofsRepo struct {
	db dbtx
}

func (r *proofsRepo) CreateProof(ctx context.Context, p domain.ProofSubmission) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO proof_submissions (id, user_id, artifact, note, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.Artifact,
		p.Note,
		p.CreatedAt.Unix(),
		mapOptionalUnix(p.ResolvedAt),
	)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *proofsRepo) ResolveOpenProofs(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE proof_submissions
		SET resolved_at = ?
		WHERE user_id = ? AND resolved_at IS NULL`, at.Unix(), userID)
	return err
}

func (r *proofsRepo) DeleteResolvedProofsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM proof_submissions
		WHERE resolved_at IS NOT NULL AND resolved_at < ?`, cutoff.Unix())
	return err
}
