package models

import "time"

type Transaction struct {
	ID          string    `json:"id"`
	WalletID    string    `json:"wallet_id"`
	CreatedBy   int64     `json:"created_by"`
	AmountMinor int64     `json:"amount_minor"`
	TxType      string    `json:"tx_type"`
	Category    *string   `json:"category,omitempty"`
	Note        *string   `json:"note,omitempty"`
	ReceiptID   *string   `json:"receipt_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
