package sqlite

import (
	"context"
	"database/sql"

	"github.com/oneclicklabs/oneclick-access/internal/access/domain"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
)

type entitlementsRepo struct {
	db dbtx
}

func (r *entitlementsRepo) GetEntitlement(ctx context.Context, userID string) (domain.Entitlement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, status, expires_at, issuance_quota, created_at, updated_at
		FROM entitlements
		WHERE user_id = ?`, userID)

	e, err := scanEntitlement(row)
	if err != nil {
		return domain.Entitlement{}, mapNotFound(err)
	}
	return e, nil
}

func (r *entitlementsRepo) UpsertEntitlement(ctx context.Context, e domain.Entitlement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entitlements (user_id, status, expires_at, issuance_quota, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			status = excluded.status,
			expires_at = excluded.expires_at,
			issuance_quota = excluded.issuance_quota,
			updated_at = excluded.updated_at`,
		e.UserID,
		string(e.Status),
		mapOptionalUnix(e.ExpiresAt),
		e.IssuanceQuota,
		e.CreatedAt.Unix(),
		e.UpdatedAt.Unix(),
	)
	return err
}

func (r *entitlementsRepo) DecrementQuota(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE entitlements
		SET issuance_quota = issuance_quota - 1,
		    updated_at = unixepoch()
		WHERE user_id = ? AND issuance_quota > 0`, userID)
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

func (r *entitlementsRepo) ListEntitlements(ctx context.Context, limit, offset int) ([]domain.Entitlement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, status, expires_at, issuance_quota, created_at, updated_at
		FROM entitlements
		ORDER BY created_at DESC, user_id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Entitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntitlement(row rowScanner) (domain.Entitlement, error) {
	var (
		e         domain.Entitlement
		status    string
		expires   sql.NullInt64
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&e.UserID, &status, &expires, &e.IssuanceQuota, &createdAt, &updatedAt); err != nil {
		return domain.Entitlement{}, err
	}

	e.Status = domain.Status(status)
	e.ExpiresAt = mapNullUnix(expires)
	e.CreatedAt = unixUTC(createdAt)
	e.UpdatedAt = unixUTC(updatedAt)
	return e, nil
}
