package database

import (
	"context"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"
)

// CreateGrants inserts one granted=true row per capability for the share.
// Used for tier seeding at share creation and for the replace step of an
// assignment; the caller is responsible for running it inside ExecTx when
// it follows a delete.
func (q *Queries) CreateGrants(ctx context.Context, shareID int64, caps []permission.Capability, grantedBy int64) ([]models.PermissionGrant, error) {
	query := `
		INSERT INTO permission_grants (share_id, capability, granted, granted_by, granted_at, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $4, $4, $4)
		RETURNING id, share_id, capability, granted, granted_by, granted_at, created_at, updated_at
	`
	now := time.Now()

	grants := make([]models.PermissionGrant, 0, len(caps))
	for _, c := range caps {
		var grant models.PermissionGrant
		err := q.db.QueryRow(ctx, query, shareID, c, grantedBy, now).Scan(
			&grant.ID,
			&grant.ShareID,
			&grant.Capability,
			&grant.Granted,
			&grant.GrantedBy,
			&grant.GrantedAt,
			&grant.CreatedAt,
			&grant.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		grant.Label = grant.Capability.Label()
		grants = append(grants, grant)
	}

	return grants, nil
}

func (q *Queries) DeleteGrantsForShare(ctx context.Context, shareID int64) error {
	query := `DELETE FROM permission_grants WHERE share_id = $1`
	_, err := q.db.Exec(ctx, query, shareID)
	return err
}

// ListGrantedForShare returns only the rows currently in effect.
func (q *Queries) ListGrantedForShare(ctx context.Context, shareID int64) ([]models.PermissionGrant, error) {
	return q.listGrants(ctx, shareID, true)
}

// ListGrantsForShare returns every grant row including revoked ones.
func (q *Queries) ListGrantsForShare(ctx context.Context, shareID int64) ([]models.PermissionGrant, error) {
	return q.listGrants(ctx, shareID, false)
}

func (q *Queries) listGrants(ctx context.Context, shareID int64, grantedOnly bool) ([]models.PermissionGrant, error) {
	query := `
		SELECT id, share_id, capability, granted, granted_by, granted_at, created_at, updated_at
		FROM permission_grants
		WHERE share_id = $1 AND (granted OR NOT $2)
		ORDER BY id
	`
	rows, err := q.db.Query(ctx, query, shareID, grantedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []models.PermissionGrant
	for rows.Next() {
		var grant models.PermissionGrant
		err := rows.Scan(
			&grant.ID,
			&grant.ShareID,
			&grant.Capability,
			&grant.Granted,
			&grant.GrantedBy,
			&grant.GrantedAt,
			&grant.CreatedAt,
			&grant.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		grant.Label = grant.Capability.Label()
		grants = append(grants, grant)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if grants == nil {
		return []models.PermissionGrant{}, nil
	}

	return grants, nil
}

// RevokeGrant flips a single capability's granted flag to false, keeping
// the row for audit. Returns false when no in-effect grant matched.
func (q *Queries) RevokeGrant(ctx context.Context, shareID int64, capability permission.Capability) (bool, error) {
	query := `
		UPDATE permission_grants
		SET granted = FALSE, updated_at = $1
		WHERE share_id = $2 AND capability = $3 AND granted
	`
	res, err := q.db.Exec(ctx, query, time.Now(), shareID, capability)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

// HasGrantedCapability reports whether an active share for the pair carries
// an in-effect grant for exactly this capability. There is no tier fallback
// and no implication between capabilities.
func (q *Queries) HasGrantedCapability(ctx context.Context, walletID string, granteeID int64, capability permission.Capability) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM permission_grants g
			JOIN shares s ON g.share_id = s.id
			WHERE s.wallet_id = $1 AND s.grantee_id = $2 AND s.active
			  AND g.capability = $3 AND g.granted
		)
	`
	var has bool
	err := q.db.QueryRow(ctx, query, walletID, granteeID, capability).Scan(&has)
	return has, err
}
