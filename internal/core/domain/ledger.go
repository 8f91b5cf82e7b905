package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies the document or event a ledger entry was posted for.
type SourceType string

const (
	SourceQuote      SourceType = "QUOTE"
	SourceOrder      SourceType = "ORDER"
	SourceInvoice    SourceType = "INVOICE"
	SourcePayment    SourceType = "PAYMENT"
	SourceAdjustment SourceType = "ADJUSTMENT"
	SourceExpense    SourceType = "EXPENSE"
)

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceQuote, SourceOrder, SourceInvoice, SourcePayment, SourceAdjustment, SourceExpense:
		return true
	}
	return false
}

// LedgerEntry is one half of a balanced accounting record. Entries are append-only.
// Exactly one of Debit and Credit is non-zero for entries written by the posting engine.
type LedgerEntry struct {
	EntryID            string          `json:"entryID"`
	SellerID           string          `json:"sellerID"`
	Debit              decimal.Decimal `json:"debit"`
	Credit             decimal.Decimal `json:"credit"`
	CategoryID         string          `json:"categoryID"`
	SourceType         SourceType      `json:"sourceType"`
	SourceID           string          `json:"sourceID"`
	TransactionGroupID string          `json:"transactionGroupID"`
	Description        string          `json:"description"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// LedgerFilter narrows a ledger listing.
type LedgerFilter struct {
	DateRange
	CategoryID *string
	SourceType *SourceType
	SourceID   *string
	Limit      int
	NextToken  *string
}

// ReportLine is a ledger entry joined with its category, the unit the reports accumulate over.
type ReportLine struct {
	CategoryID         string
	CategoryName       string
	CategoryType       CategoryType
	TransactionGroupID string
	Debit              decimal.Decimal
	Credit             decimal.Decimal
	CreatedAt          time.Time
}
