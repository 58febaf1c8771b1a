package models

import (
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"
)

// Share is a directed sharing relation: the wallet's owner grants a
// single other user access at a coarse tier. Revoked shares are kept
// with active=false; a share is never reactivated.
type Share struct {
	ID        int64           `json:"id"`
	WalletID  string          `json:"wallet_id"`
	OwnerID   int64           `json:"owner_id"`
	GranteeID int64           `json:"grantee_id"`
	Tier      permission.Tier `json:"tier"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
