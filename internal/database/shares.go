package database

import (
	"context"
	"errors"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrShareAlreadyExists = errors.New("this wallet is already shared with the recipient")
var ErrGranteeNotFound = errors.New("grantee user not found")

type CreateShareParams struct {
	WalletID  string
	OwnerID   int64
	GranteeID int64
	Tier      permission.Tier
}

func (q *Queries) CreateShare(ctx context.Context, arg CreateShareParams) (*models.Share, error) {
	query := `
		INSERT INTO shares (wallet_id, owner_id, grantee_id, tier, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, wallet_id, owner_id, grantee_id, tier, active, created_at, updated_at
	`
	row := q.db.QueryRow(ctx, query, arg.WalletID, arg.OwnerID, arg.GranteeID, arg.Tier)

	var share models.Share
	err := row.Scan(
		&share.ID,
		&share.WalletID,
		&share.OwnerID,
		&share.GranteeID,
		&share.Tier,
		&share.Active,
		&share.CreatedAt,
		&share.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrShareAlreadyExists
		}
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrGranteeNotFound
		}
		return nil, err
	}

	return &share, nil
}

// GetActiveShare returns the unique active share for the pair, or nil.
// Inactive shares are invisible here on purpose: for authorization a
// revoked share must behave exactly like no share at all.
func (q *Queries) GetActiveShare(ctx context.Context, walletID string, granteeID int64) (*models.Share, error) {
	query := `
		SELECT id, wallet_id, owner_id, grantee_id, tier, active, created_at, updated_at
		FROM shares
		WHERE wallet_id = $1 AND grantee_id = $2 AND active
	`
	var share models.Share
	err := q.db.QueryRow(ctx, query, walletID, granteeID).Scan(
		&share.ID,
		&share.WalletID,
		&share.OwnerID,
		&share.GranteeID,
		&share.Tier,
		&share.Active,
		&share.CreatedAt,
		&share.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &share, nil
}

// GetLatestShare returns the most recent share for the pair regardless of
// its active flag, so callers can tell "never shared" apart from
// "shared, then revoked".
func (q *Queries) GetLatestShare(ctx context.Context, walletID string, granteeID int64) (*models.Share, error) {
	query := `
		SELECT id, wallet_id, owner_id, grantee_id, tier, active, created_at, updated_at
		FROM shares
		WHERE wallet_id = $1 AND grantee_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var share models.Share
	err := q.db.QueryRow(ctx, query, walletID, granteeID).Scan(
		&share.ID,
		&share.WalletID,
		&share.OwnerID,
		&share.GranteeID,
		&share.Tier,
		&share.Active,
		&share.CreatedAt,
		&share.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &share, nil
}

func (q *Queries) GetShareByID(ctx context.Context, shareID int64) (*models.Share, error) {
	query := `
		SELECT id, wallet_id, owner_id, grantee_id, tier, active, created_at, updated_at
		FROM shares
		WHERE id = $1
	`
	var share models.Share
	err := q.db.QueryRow(ctx, query, shareID).Scan(
		&share.ID,
		&share.WalletID,
		&share.OwnerID,
		&share.GranteeID,
		&share.Tier,
		&share.Active,
		&share.CreatedAt,
		&share.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &share, nil
}

// IncomingShare is a share seen from the grantee's side, with the owner's
// display info for the "shared with me" summary.
type IncomingShare struct {
	models.Share
	OwnerEmail       string  `json:"owner_email"`
	OwnerDisplayName *string `json:"owner_display_name"`
	WalletName       string  `json:"wallet_name"`
}

func (q *Queries) ListActiveSharesForGrantee(ctx context.Context, granteeID int64) ([]IncomingShare, error) {
	query := `
		SELECT
			s.id, s.wallet_id, s.owner_id, s.grantee_id, s.tier, s.active, s.created_at, s.updated_at,
			u.email AS owner_email,
			u.display_name AS owner_display_name,
			w.name AS wallet_name
		FROM shares s
		JOIN users u ON s.owner_id = u.id
		JOIN wallets w ON s.wallet_id = w.id
		WHERE s.grantee_id = $1 AND s.active
		ORDER BY s.created_at DESC
	`
	rows, err := q.db.Query(ctx, query, granteeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []IncomingShare
	for rows.Next() {
		var share IncomingShare
		err := rows.Scan(
			&share.ID, &share.WalletID, &share.OwnerID, &share.GranteeID, &share.Tier,
			&share.Active, &share.CreatedAt, &share.UpdatedAt,
			&share.OwnerEmail, &share.OwnerDisplayName, &share.WalletName,
		)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if shares == nil {
		return []IncomingShare{}, nil
	}

	return shares, nil
}

// OutgoingShare is a share seen from the owner's side.
type OutgoingShare struct {
	models.Share
	GranteeEmail       string  `json:"grantee_email"`
	GranteeDisplayName *string `json:"grantee_display_name"`
	WalletName         string  `json:"wallet_name"`
}

func (q *Queries) ListActiveSharesForOwner(ctx context.Context, ownerID int64) ([]OutgoingShare, error) {
	query := `
		SELECT
			s.id, s.wallet_id, s.owner_id, s.grantee_id, s.tier, s.active, s.created_at, s.updated_at,
			u.email AS grantee_email,
			u.display_name AS grantee_display_name,
			w.name AS wallet_name
		FROM shares s
		JOIN users u ON s.grantee_id = u.id
		JOIN wallets w ON s.wallet_id = w.id
		WHERE s.owner_id = $1 AND s.active
		ORDER BY s.created_at DESC
	`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []OutgoingShare
	for rows.Next() {
		var share OutgoingShare
		err := rows.Scan(
			&share.ID, &share.WalletID, &share.OwnerID, &share.GranteeID, &share.Tier,
			&share.Active, &share.CreatedAt, &share.UpdatedAt,
			&share.GranteeEmail, &share.GranteeDisplayName, &share.WalletName,
		)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if shares == nil {
		return []OutgoingShare{}, nil
	}

	return shares, nil
}

// DeactivateShare flips the share to inactive. The row is kept; shares are
// never reactivated, a fresh share is created instead.
func (q *Queries) DeactivateShare(ctx context.Context, shareID int64) (bool, error) {
	query := `
		UPDATE shares
		SET active = FALSE, updated_at = $1
		WHERE id = $2 AND active
	`
	res, err := q.db.Exec(ctx, query, time.Now(), shareID)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}
