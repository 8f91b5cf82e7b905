package domain

// CategoryType is the accounting type of a category in the chart of accounts.
type CategoryType string

const (
	Income    CategoryType = "INCOME"
	Expense   CategoryType = "EXPENSE"
	Asset     CategoryType = "ASSET"
	Liability CategoryType = "LIABILITY"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case Income, Expense, Asset, Liability:
		return true
	}
	return false
}

// Category is an account in a seller's chart of accounts.
// (SellerID, Type, Name) is unique.
type Category struct {
	CategoryID string       `json:"categoryID"`
	SellerID   string       `json:"sellerID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	ParentID   *string      `json:"parentID,omitempty"`
	AuditFields
}

// Well-known categories used by the posting helpers.
const (
	CategoryAccountsReceivable = "Accounts Receivable"
	CategoryCash               = "Cash"
	CategoryPotentialIncome    = "Potential Income"
	CategorySalesIncome        = "Sales Income"
	CategoryInvoiceRevenue     = "Invoice Revenue"
)
