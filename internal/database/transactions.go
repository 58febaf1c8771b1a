package database

import (
	"context"
	"errors"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"

	"github.com/jackc/pgx/v5"
)

type CreateTransactionParams struct {
	ID          string
	WalletID    string
	CreatedBy   int64
	AmountMinor int64
	TxType      string
	Category    *string
	Note        *string
	OccurredAt  time.Time
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, wallet_id, created_by, amount_minor, tx_type, category, note, occurred_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, wallet_id, created_by, amount_minor, tx_type, category, note, receipt_id, occurred_at, created_at, updated_at
	`
	now := time.Now()

	var txn models.Transaction
	err := q.db.QueryRow(ctx, query,
		arg.ID, arg.WalletID, arg.CreatedBy, arg.AmountMinor, arg.TxType, arg.Category, arg.Note, arg.OccurredAt, now,
	).Scan(
		&txn.ID,
		&txn.WalletID,
		&txn.CreatedBy,
		&txn.AmountMinor,
		&txn.TxType,
		&txn.Category,
		&txn.Note,
		&txn.ReceiptID,
		&txn.OccurredAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

func (q *Queries) GetTransactionByID(ctx context.Context, id string, walletID string) (*models.Transaction, error) {
	query := `
		SELECT id, wallet_id, created_by, amount_minor, tx_type, category, note, receipt_id, occurred_at, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND wallet_id = $2
	`
	var txn models.Transaction
	err := q.db.QueryRow(ctx, query, id, walletID).Scan(
		&txn.ID,
		&txn.WalletID,
		&txn.CreatedBy,
		&txn.AmountMinor,
		&txn.TxType,
		&txn.Category,
		&txn.Note,
		&txn.ReceiptID,
		&txn.OccurredAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (q *Queries) ListTransactions(ctx context.Context, walletID string, limit int, offset int) ([]models.Transaction, error) {
	query := `
		SELECT id, wallet_id, created_by, amount_minor, tx_type, category, note, receipt_id, occurred_at, created_at, updated_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.WalletID,
			&txn.CreatedBy,
			&txn.AmountMinor,
			&txn.TxType,
			&txn.Category,
			&txn.Note,
			&txn.ReceiptID,
			&txn.OccurredAt,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if txns == nil {
		return []models.Transaction{}, nil
	}

	return txns, nil
}

type UpdateTransactionParams struct {
	AmountMinor *int64
	TxType      *string
	Category    *string
	Note        *string
	OccurredAt  *time.Time
}

func (q *Queries) UpdateTransaction(ctx context.Context, id string, walletID string, arg UpdateTransactionParams) (bool, error) {
	query := `
		UPDATE transactions
		SET amount_minor = COALESCE($1, amount_minor),
		    tx_type = COALESCE($2, tx_type),
		    category = COALESCE($3, category),
		    note = COALESCE($4, note),
		    occurred_at = COALESCE($5, occurred_at),
		    updated_at = $6
		WHERE id = $7 AND wallet_id = $8
	`
	res, err := q.db.Exec(ctx, query, arg.AmountMinor, arg.TxType, arg.Category, arg.Note, arg.OccurredAt, time.Now(), id, walletID)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteTransaction(ctx context.Context, id string, walletID string) (bool, error) {
	query := `DELETE FROM transactions WHERE id = $1 AND wallet_id = $2`
	res, err := q.db.Exec(ctx, query, id, walletID)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) SetTransactionReceipt(ctx context.Context, id string, walletID string, receiptID *string) (bool, error) {
	query := `
		UPDATE transactions
		SET receipt_id = $1, updated_at = $2
		WHERE id = $3 AND wallet_id = $4
	`
	res, err := q.db.Exec(ctx, query, receiptID, time.Now(), id, walletID)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

type CategorySummary struct {
	Category   *string `json:"category"`
	TxType     string  `json:"tx_type"`
	TotalMinor int64   `json:"total_minor"`
	Count      int64   `json:"count"`
}

// SummarizeByCategory aggregates a wallet's transactions per category and
// direction for the spending report.
func (q *Queries) SummarizeByCategory(ctx context.Context, walletID string, from time.Time, to time.Time) ([]CategorySummary, error) {
	query := `
		SELECT category, tx_type, COALESCE(SUM(amount_minor), 0), COUNT(*)
		FROM transactions
		WHERE wallet_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		GROUP BY category, tx_type
		ORDER BY tx_type, category NULLS LAST
	`
	rows, err := q.db.Query(ctx, query, walletID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []CategorySummary
	for rows.Next() {
		var s CategorySummary
		if err := rows.Scan(&s.Category, &s.TxType, &s.TotalMinor, &s.Count); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if summaries == nil {
		return []CategorySummary{}, nil
	}

	return summaries, nil
}
