package sqlite

import (
	"context"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
)

type bindingsRepo struct {
	db dbtx
}

func (r *bindingsRepo) CreateBinding(ctx context.Context, b domain.Binding) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bindings (slug, owner_user_id, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.Slug,
		b.OwnerUserID,
		b.CreatedBy,
		b.CreatedAt.Unix(),
		b.UpdatedAt.Unix(),
	)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *bindingsRepo) GetBinding(ctx context.Context, slug string) (domain.Binding, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT slug, owner_user_id, created_by, created_at, updated_at
		FROM bindings
		WHERE slug = ?`, slug)

	b, err := scanBinding(row)
	if err != nil {
		return domain.Binding{}, mapNotFound(err)
	}
	return b, nil
}

func (r *bindingsRepo) SetBindingOwner(ctx context.Context, slug, ownerUserID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bindings
		SET owner_user_id = ?,
		    updated_at = unixepoch()
		WHERE slug = ?`, ownerUserID, slug)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *bindingsRepo) GetNewestBindingByOwner(ctx context.Context, ownerUserID string) (domain.Binding, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT slug, owner_user_id, created_by, created_at, updated_at
		FROM bindings
		WHERE owner_user_id = ?
		ORDER BY created_at DESC, slug
		LIMIT 1`, ownerUserID)

	b, err := scanBinding(row)
	if err != nil {
		return domain.Binding{}, mapNotFound(err)
	}
	return b, nil
}

func scanBinding(row rowScanner) (domain.Binding, error) {
	var (
		b         domain.Binding
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&b.Slug, &b.OwnerUserID, &b.CreatedBy, &createdAt, &updatedAt); err != nil {
		return domain.Binding{}, err
	}

	b.CreatedAt = unixUTC(createdAt)
	b.UpdatedAt = unixUTC(updatedAt)
	return b, nil
}
