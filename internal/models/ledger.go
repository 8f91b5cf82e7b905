package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a row of the categories table.
type Category struct {
	CategoryID string  `db:"category_id"`
	SellerID   string  `db:"seller_id"`
	Name       string  `db:"name"`
	Type       string  `db:"type"`
	ParentID   *string `db:"parent_id"` // Nullable self reference
	AuditFields
}

// LedgerEntry represents a row of the append-only ledger_entries table.
type LedgerEntry struct {
	EntryID            string          `db:"entry_id"`
	SellerID           string          `db:"seller_id"`
	Debit              decimal.Decimal `db:"debit"`
	Credit             decimal.Decimal `db:"credit"`
	CategoryID         string          `db:"category_id"`
	SourceType         string          `db:"source_type"`
	SourceID           string          `db:"source_id"`
	TransactionGroupID string          `db:"transaction_group_id"`
	Description        string          `db:"description"`
	CreatedAt          time.Time       `db:"created_at"`
}
