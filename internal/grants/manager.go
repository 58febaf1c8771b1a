// Package grants owns the lifecycle of wallet shares and their capability
// grants: tier-seeded defaults at share time, owner-gated assignment and
// revocation, and the capability checks the HTTP layer enforces.
package grants

import (
	"context"
	"errors"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/database"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"
)

var ErrNotAuthorized = errors.New("caller is not the wallet owner")
var ErrShareNotFound = errors.New("no share exists for this wallet and user")
var ErrShareInactive = errors.New("the share for this wallet and user has been revoked")
var ErrCapabilityNotGranted = errors.New("this capability is not granted on the share")
var ErrCannotShareWithSelf = errors.New("cannot share a wallet with its owner")

type Manager struct {
	store *database.Store
}

func NewManager(store *database.Store) *Manager {
	return &Manager{store: store}
}

// requireOwner gates every management operation: only the wallet's true
// owner may touch its shares or grants. Checked before any store write.
func (m *Manager) requireOwner(ctx context.Context, walletID string, actingOwnerID int64) error {
	isOwner, err := m.store.IsWalletOwner(ctx, walletID, actingOwnerID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrNotAuthorized
	}
	return nil
}

// ShareWallet creates an active share at the given tier and seeds one
// granted row per default capability of that tier, in one transaction.
func (m *Manager) ShareWallet(ctx context.Context, walletID string, granteeID int64, tier permission.Tier, actingOwnerID int64) (*models.Share, []models.PermissionGrant, error) {
	if err := m.requireOwner(ctx, walletID, actingOwnerID); err != nil {
		return nil, nil, err
	}
	if granteeID == actingOwnerID {
		return nil, nil, ErrCannotShareWithSelf
	}

	var share *models.Share
	var seeded []models.PermissionGrant

	txErr := m.store.ExecTx(ctx, func(q *database.Queries) error {
		var err error
		share, err = q.CreateShare(ctx, database.CreateShareParams{
			WalletID:  walletID,
			OwnerID:   actingOwnerID,
			GranteeID: granteeID,
			Tier:      tier,
		})
		if err != nil {
			return err
		}

		seeded, err = q.CreateGrants(ctx, share.ID, permission.DefaultCapabilities(tier), actingOwnerID)
		return err
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	return share, seeded, nil
}

// AssignPermissions replaces the share's grant set with exactly the given
// capabilities. A capability missing from the new set is no longer granted
// even if it was before. Delete and insert run in a single transaction so
// a concurrent capability check never observes the emptied middle state.
func (m *Manager) AssignPermissions(ctx context.Context, walletID string, granteeID int64, caps []permission.Capability, actingOwnerID int64) ([]models.PermissionGrant, error) {
	if err := m.requireOwner(ctx, walletID, actingOwnerID); err != nil {
		return nil, err
	}

	share, err := m.store.GetLatestShare(ctx, walletID, granteeID)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}
	if !share.Active {
		return nil, ErrShareInactive
	}

	var grants []models.PermissionGrant
	txErr := m.store.ExecTx(ctx, func(q *database.Queries) error {
		if err := q.DeleteGrantsForShare(ctx, share.ID); err != nil {
			return err
		}
		var err error
		grants, err = q.CreateGrants(ctx, share.ID, dedupe(caps), actingOwnerID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	return grants, nil
}

// GetGrantsForShareAndGrantee returns the in-effect grants on the active
// share, or an empty list when no active share exists.
func (m *Manager) GetGrantsForShareAndGrantee(ctx context.Context, walletID string, granteeID int64) ([]models.PermissionGrant, error) {
	share, err := m.store.GetActiveShare(ctx, walletID, granteeID)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return []models.PermissionGrant{}, nil
	}

	return m.store.ListGrantedForShare(ctx, share.ID)
}

// WalletAccess is one entry of a grantee's "what can I access" summary.
type WalletAccess struct {
	Share  database.IncomingShare   `json:"share"`
	Grants []models.PermissionGrant `json:"grants"`
}

func (m *Manager) GetAllGrantsForGrantee(ctx context.Context, granteeID int64) ([]WalletAccess, error) {
	shares, err := m.store.ListActiveSharesForGrantee(ctx, granteeID)
	if err != nil {
		return nil, err
	}

	access := make([]WalletAccess, 0, len(shares))
	for _, share := range shares {
		grantList, err := m.store.ListGrantedForShare(ctx, share.ID)
		if err != nil {
			return nil, err
		}
		access = append(access, WalletAccess{Share: share, Grants: grantList})
	}

	return access, nil
}

// RevokeCapability flips one capability off on the active share, leaving
// the other grants untouched and the row behind for audit.
func (m *Manager) RevokeCapability(ctx context.Context, walletID string, granteeID int64, capability permission.Capability, actingOwnerID int64) error {
	if err := m.requireOwner(ctx, walletID, actingOwnerID); err != nil {
		return err
	}

	share, err := m.store.GetActiveShare(ctx, walletID, granteeID)
	if err != nil {
		return err
	}
	if share == nil {
		return ErrShareNotFound
	}

	revoked, err := m.store.RevokeGrant(ctx, share.ID, capability)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrCapabilityNotGranted
	}

	return nil
}

// HasCapability is the single authorization question the enforcement layer
// asks. Ownership implies every capability without any grant row existing;
// anyone else needs an active share carrying an in-effect grant for exactly
// this capability.
func (m *Manager) HasCapability(ctx context.Context, walletID string, granteeID int64, capability permission.Capability) (bool, error) {
	isOwner, err := m.store.IsWalletOwner(ctx, walletID, granteeID)
	if err != nil {
		return false, err
	}
	if isOwner {
		return true, nil
	}

	return m.store.HasGrantedCapability(ctx, walletID, granteeID, capability)
}

// RevokeShare deactivates the share and deletes its grant rows in one
// transaction. The share row itself is kept, inactive, and never comes
// back; re-sharing creates a fresh share.
func (m *Manager) RevokeShare(ctx context.Context, shareID int64, actingOwnerID int64) (*models.Share, error) {
	share, err := m.store.GetShareByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}
	if err := m.requireOwner(ctx, share.WalletID, actingOwnerID); err != nil {
		return nil, err
	}
	if !share.Active {
		return nil, ErrShareInactive
	}

	txErr := m.store.ExecTx(ctx, func(q *database.Queries) error {
		if _, err := q.DeactivateShare(ctx, shareID); err != nil {
			return err
		}
		return q.DeleteGrantsForShare(ctx, shareID)
	})
	if txErr != nil {
		return nil, txErr
	}

	share.Active = false
	return share, nil
}

// DeleteAllGrantsForShare is the unconditional cascade used when a parent
// operation (share revocation, wallet deletion) has already been
// authorized. Not owner-gated on purpose.
func (m *Manager) DeleteAllGrantsForShare(ctx context.Context, shareID int64) error {
	return m.store.DeleteGrantsForShare(ctx, shareID)
}

func dedupe(caps []permission.Capability) []permission.Capability {
	seen := make(map[permission.Capability]bool, len(caps))
	out := make([]permission.Capability, 0, len(caps))
	for _, c := range caps {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
