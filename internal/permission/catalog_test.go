package permission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 13)

	seen := make(map[Capability]bool)
	for _, c := range catalog {
		require.True(t, c.Valid(), "catalog entry %q should be valid", c)
		require.NotEmpty(t, c.Label(), "catalog entry %q should have a label", c)
		require.False(t, seen[c], "catalog entry %q appears twice", c)
		seen[c] = true
	}
}

func TestCatalogOrderIsStable(t *testing.T) {
	first := Catalog()
	second := Catalog()
	require.Equal(t, first, second)
	require.Equal(t, ViewWallet, first[0])
	require.Equal(t, ExportData, first[len(first)-1])
}

func TestCapabilityLabels(t *testing.T) {
	require.Equal(t, "View wallet", ViewWallet.Label())
	require.Equal(t, "Add transaction", AddTransaction.Label())
	require.Equal(t, "Manage permissions", ManagePermissions.Label())
	require.Equal(t, "Transfer ownership", TransferOwnership.Label())
}

func TestParse(t *testing.T) {
	c, err := Parse("VIEW_BALANCE")
	require.NoError(t, err)
	require.Equal(t, ViewBalance, c)

	_, err = Parse("DO_EVERYTHING")
	require.Error(t, err)

	_, err = Parse("view_balance")
	require.Error(t, err, "capability ids are case sensitive")

	_, err = Parse("")
	require.Error(t, err)
}
