package database

import (
	"context"
	"errors"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"

	"github.com/jackc/pgx/v5"
)

type CreateWalletParams struct {
	ID           string
	OwnerID      int64
	Name         string
	Currency     string
	BalanceMinor int64
	Description  *string
}

func (q *Queries) CreateWallet(ctx context.Context, arg CreateWalletParams) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (id, owner_id, name, currency, balance_minor, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, owner_id, name, currency, balance_minor, description, created_at, updated_at
	`
	now := time.Now()

	var wallet models.Wallet
	err := q.db.QueryRow(ctx, query,
		arg.ID, arg.OwnerID, arg.Name, arg.Currency, arg.BalanceMinor, arg.Description, now,
	).Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.Name,
		&wallet.Currency,
		&wallet.BalanceMinor,
		&wallet.Description,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (q *Queries) GetWalletByID(ctx context.Context, id string) (*models.Wallet, error) {
	query := `
		SELECT id, owner_id, name, currency, balance_minor, description, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`
	var wallet models.Wallet
	err := q.db.QueryRow(ctx, query, id).Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.Name,
		&wallet.Currency,
		&wallet.BalanceMinor,
		&wallet.Description,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &wallet, nil
}

// IsWalletOwner answers whether userID owns the wallet. A missing wallet
// counts as not owned.
func (q *Queries) IsWalletOwner(ctx context.Context, walletID string, userID int64) (bool, error) {
	var isOwner bool
	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1 AND owner_id = $2)`
	err := q.db.QueryRow(ctx, query, walletID, userID).Scan(&isOwner)
	return isOwner, err
}

type UpdateWalletParams struct {
	Name        *string
	Description *string
}

func (q *Queries) UpdateWallet(ctx context.Context, id string, arg UpdateWalletParams) (bool, error) {
	query := `
		UPDATE wallets
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    updated_at = $3
		WHERE id = $4
	`
	res, err := q.db.Exec(ctx, query, arg.Name, arg.Description, time.Now(), id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

// DeleteWallet removes the wallet; its transactions, shares, and grants go
// with it through the schema's cascades.
func (q *Queries) DeleteWallet(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM wallets WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) AdjustWalletBalance(ctx context.Context, id string, deltaMinor int64) error {
	query := `
		UPDATE wallets
		SET balance_minor = balance_minor + $1, updated_at = $2
		WHERE id = $3
	`
	_, err := q.db.Exec(ctx, query, deltaMinor, time.Now(), id)
	return err
}

func (q *Queries) ListWalletsForOwner(ctx context.Context, ownerID int64) ([]models.Wallet, error) {
	query := `
		SELECT id, owner_id, name, currency, balance_minor, description, created_at, updated_at
		FROM wallets
		WHERE owner_id = $1
		ORDER BY name
	`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var wallet models.Wallet
		err := rows.Scan(
			&wallet.ID,
			&wallet.OwnerID,
			&wallet.Name,
			&wallet.Currency,
			&wallet.BalanceMinor,
			&wallet.Description,
			&wallet.CreatedAt,
			&wallet.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if wallets == nil {
		return []models.Wallet{}, nil
	}

	return wallets, nil
}

// ListSharedWallets returns the wallets currently shared to granteeID
// through an active share.
func (q *Queries) ListSharedWallets(ctx context.Context, granteeID int64) ([]models.Wallet, error) {
	query := `
		SELECT w.id, w.owner_id, w.name, w.currency, w.balance_minor, w.description, w.created_at, w.updated_at
		FROM wallets w
		JOIN shares s ON w.id = s.wallet_id
		WHERE s.grantee_id = $1 AND s.active
		ORDER BY w.name
	`
	rows, err := q.db.Query(ctx, query, granteeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var wallet models.Wallet
		err := rows.Scan(
			&wallet.ID,
			&wallet.OwnerID,
			&wallet.Name,
			&wallet.Currency,
			&wallet.BalanceMinor,
			&wallet.Description,
			&wallet.CreatedAt,
			&wallet.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if wallets == nil {
		return []models.Wallet{}, nil
	}

	return wallets, nil
}
