package models

import (
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"
)

// PermissionGrant records whether one capability is in effect for one
// share. A capability counts as granted only while Granted is true;
// revoked rows stay behind for audit.
type PermissionGrant struct {
	ID         int64                 `json:"id"`
	ShareID    int64                 `json:"share_id"`
	Capability permission.Capability `json:"capability"`
	Label      string                `json:"label"`
	Granted    bool                  `json:"granted"`
	GrantedBy  int64                 `json:"granted_by"`
	GrantedAt  time.Time             `json:"granted_at"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}
