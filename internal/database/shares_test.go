package database

import (
	"context"
	"testing"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"

	"github.com/stretchr/testify/require"
)

func createTestShare(t *testing.T, params CreateShareParams) *models.Share {
	share, err := testStore.CreateShare(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, share)
	return share
}

func TestCreateShare(t *testing.T) {
	owner := createTestUser(t, "share_owner@example.com")
	grantee := createTestUser(t, "share_grantee@example.com")
	createTestWallet(t, "w_share_1", owner.ID, "Shared Wallet")

	params := CreateShareParams{
		WalletID:  "w_share_1",
		OwnerID:   owner.ID,
		GranteeID: grantee.ID,
		Tier:      permission.TierEdit,
	}

	share := createTestShare(t, params)
	require.NotZero(t, share.ID)
	require.Equal(t, params.WalletID, share.WalletID)
	require.Equal(t, params.GranteeID, share.GranteeID)
	require.Equal(t, permission.TierEdit, share.Tier)
	require.True(t, share.Active)
	require.NotZero(t, share.CreatedAt)

	_, err := testStore.CreateShare(context.Background(), params)
	require.ErrorIs(t, err, ErrShareAlreadyExists)

	params.GranteeID = 9999999
	_, err = testStore.CreateShare(context.Background(), params)
	require.ErrorIs(t, err, ErrGranteeNotFound)
}

func TestGetActiveShare(t *testing.T) {
	owner := createTestUser(t, "active_share_owner@example.com")
	grantee := createTestUser(t, "active_share_grantee@example.com")
	createTestWallet(t, "w_active_share", owner.ID, "Wallet")

	none, err := testStore.GetActiveShare(context.Background(), "w_active_share", grantee.ID)
	require.NoError(t, err)
	require.Nil(t, none)

	share := createTestShare(t, CreateShareParams{
		WalletID: "w_active_share", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierView,
	})

	found, err := testStore.GetActiveShare(context.Background(), "w_active_share", grantee.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, share.ID, found.ID)

	ok, err := testStore.DeactivateShare(context.Background(), share.ID)
	require.NoError(t, err)
	require.True(t, ok)

	found, err = testStore.GetActiveShare(context.Background(), "w_active_share", grantee.ID)
	require.NoError(t, err)
	require.Nil(t, found, "a deactivated share must look like no share at all")
}

func TestGetLatestShare(t *testing.T) {
	owner := createTestUser(t, "latest_share_owner@example.com")
	grantee := createTestUser(t, "latest_share_grantee@example.com")
	createTestWallet(t, "w_latest_share", owner.ID, "Wallet")

	none, err := testStore.GetLatestShare(context.Background(), "w_latest_share", grantee.ID)
	require.NoError(t, err)
	require.Nil(t, none)

	share := createTestShare(t, CreateShareParams{
		WalletID: "w_latest_share", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierView,
	})

	ok, err := testStore.DeactivateShare(context.Background(), share.ID)
	require.NoError(t, err)
	require.True(t, ok)

	latest, err := testStore.GetLatestShare(context.Background(), "w_latest_share", grantee.ID)
	require.NoError(t, err)
	require.NotNil(t, latest, "the revoked share must still be visible here")
	require.False(t, latest.Active)
}

func TestDeactivateShare(t *testing.T) {
	owner := createTestUser(t, "deactivate_owner@example.com")
	grantee := createTestUser(t, "deactivate_grantee@example.com")
	createTestWallet(t, "w_deactivate", owner.ID, "Wallet")

	share := createTestShare(t, CreateShareParams{
		WalletID: "w_deactivate", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierAdmin,
	})

	ok, err := testStore.DeactivateShare(context.Background(), share.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = testStore.DeactivateShare(context.Background(), share.ID)
	require.NoError(t, err)
	require.False(t, ok, "deactivating twice matches no row")

	found, err := testStore.GetShareByID(context.Background(), share.ID)
	require.NoError(t, err)
	require.NotNil(t, found, "the row itself is kept for audit")
	require.False(t, found.Active)
}

func TestReshareAfterDeactivation(t *testing.T) {
	owner := createTestUser(t, "reshare_owner@example.com")
	grantee := createTestUser(t, "reshare_grantee@example.com")
	createTestWallet(t, "w_reshare", owner.ID, "Wallet")

	first := createTestShare(t, CreateShareParams{
		WalletID: "w_reshare", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierView,
	})
	ok, err := testStore.DeactivateShare(context.Background(), first.ID)
	require.NoError(t, err)
	require.True(t, ok)

	second := createTestShare(t, CreateShareParams{
		WalletID: "w_reshare", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierEdit,
	})
	require.NotEqual(t, first.ID, second.ID, "re-sharing creates a fresh share, the old one never comes back")
	require.True(t, second.Active)
	require.Equal(t, permission.TierEdit, second.Tier)
}

func TestListActiveSharesForGrantee(t *testing.T) {
	owner := createTestUser(t, "incoming_owner@example.com")
	grantee := createTestUser(t, "incoming_grantee@example.com")
	createTestWallet(t, "w_incoming_1", owner.ID, "First")
	createTestWallet(t, "w_incoming_2", owner.ID, "Second")

	createTestShare(t, CreateShareParams{WalletID: "w_incoming_1", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierView})
	revoked := createTestShare(t, CreateShareParams{WalletID: "w_incoming_2", OwnerID: owner.ID, GranteeID: grantee.ID, Tier: permission.TierView})
	ok, err := testStore.DeactivateShare(context.Background(), revoked.ID)
	require.NoError(t, err)
	require.True(t, ok)

	shares, err := testStore.ListActiveSharesForGrantee(context.Background(), grantee.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	require.Equal(t, "w_incoming_1", shares[0].WalletID)
	require.Equal(t, "First", shares[0].WalletName)
	require.Equal(t, "incoming_owner@example.com", shares[0].OwnerEmail)
}

func TestListActiveSharesForOwner(t *testing.T) {
	owner := createTestUser(t, "outgoing_owner@example.com")
	grantee1 := createTestUser(t, "outgoing_grantee1@example.com")
	grantee2 := createTestUser(t, "outgoing_grantee2@example.com")
	createTestWallet(t, "w_outgoing_1", owner.ID, "Wallet One")

	createTestShare(t, CreateShareParams{WalletID: "w_outgoing_1", OwnerID: owner.ID, GranteeID: grantee1.ID, Tier: permission.TierView})
	createTestShare(t, CreateShareParams{WalletID: "w_outgoing_1", OwnerID: owner.ID, GranteeID: grantee2.ID, Tier: permission.TierEdit})

	shares, err := testStore.ListActiveSharesForOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, shares, 2)

	byGrantee := make(map[string]OutgoingShare)
	for _, s := range shares {
		byGrantee[s.GranteeEmail] = s
	}
	require.Equal(t, permission.TierView, byGrantee["outgoing_grantee1@example.com"].Tier)
	require.Equal(t, permission.TierEdit, byGrantee["outgoing_grantee2@example.com"].Tier)
	require.Equal(t, "Wallet One", byGrantee["outgoing_grantee1@example.com"].WalletName)
}
