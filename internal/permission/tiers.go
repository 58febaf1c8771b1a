package permission

import "fmt"

// Tier is the coarse access level picked when a wallet is first shared.
// It only decides the initial grant set; the owner can customize the
// grants afterwards and the tier is not re-derived from them.
type Tier string

const (
	TierView  Tier = "VIEW"
	TierEdit  Tier = "EDIT"
	TierAdmin Tier = "ADMIN"
)

func (t Tier) Valid() bool {
	switch t {
	case TierView, TierEdit, TierAdmin:
		return true
	}
	return false
}

func ParseTier(id string) (Tier, error) {
	t := Tier(id)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", id)
	}
	return t, nil
}

// DefaultCapabilities expands a tier into the capability set seeded when
// a share is created.
func DefaultCapabilities(t Tier) []Capability {
	switch t {
	case TierView:
		return []Capability{ViewWallet, ViewBalance, ViewTransactions}
	case TierEdit:
		return []Capability{
			ViewWallet,
			ViewBalance,
			ViewTransactions,
			EditWallet,
			AddTransaction,
			EditTransaction,
			DeleteTransaction,
			ViewReports,
		}
	case TierAdmin:
		return Catalog()
	}
	return nil
}
