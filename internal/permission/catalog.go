package permission

import "fmt"

// Capability is one fine-grained action that can be granted on a wallet.
// The set is closed: values outside the catalog never reach the store.
type Capability string

const (
	ViewWallet        Capability = "VIEW_WALLET"
	ViewBalance       Capability = "VIEW_BALANCE"
	ViewTransactions  Capability = "VIEW_TRANSACTIONS"
	EditWallet        Capability = "EDIT_WALLET"
	AddTransaction    Capability = "ADD_TRANSACTION"
	EditTransaction   Capability = "EDIT_TRANSACTION"
	DeleteTransaction Capability = "DELETE_TRANSACTION"
	ManagePermissions Capability = "MANAGE_PERMISSIONS"
	ShareWallet       Capability = "SHARE_WALLET"
	DeleteWallet      Capability = "DELETE_WALLET"
	TransferOwnership Capability = "TRANSFER_OWNERSHIP"
	ViewReports       Capability = "VIEW_REPORTS"
	ExportData        Capability = "EXPORT_DATA"
)

var labels = map[Capability]string{
	ViewWallet:        "View wallet",
	ViewBalance:       "View balance",
	ViewTransactions:  "View transactions",
	EditWallet:        "Edit wallet",
	AddTransaction:    "Add transaction",
	EditTransaction:   "Edit transaction",
	DeleteTransaction: "Delete transaction",
	ManagePermissions: "Manage permissions",
	ShareWallet:       "Share wallet",
	DeleteWallet:      "Delete wallet",
	TransferOwnership: "Transfer ownership",
	ViewReports:       "View reports",
	ExportData:        "Export data",
}

// Catalog returns every capability in a stable order.
func Catalog() []Capability {
	return []Capability{
		ViewWallet,
		ViewBalance,
		ViewTransactions,
		EditWallet,
		AddTransaction,
		EditTransaction,
		DeleteTransaction,
		ManagePermissions,
		ShareWallet,
		DeleteWallet,
		TransferOwnership,
		ViewReports,
		ExportData,
	}
}

func (c Capability) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Label returns the human-readable name shown in denial messages and
// grant listings.
func (c Capability) Label() string {
	return labels[c]
}

// Parse converts a machine id from a request or a database row into a
// Capability, rejecting anything outside the catalog.
func Parse(id string) (Capability, error) {
	c := Capability(id)
	if !c.Valid() {
		return "", fmt.Errorf("unknown capability %q", id)
	}
	return c, nil
}
