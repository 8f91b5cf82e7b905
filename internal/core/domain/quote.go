package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "DRAFT"
	QuoteSent     QuoteStatus = "SENT"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteRejected QuoteStatus = "REJECTED"
	QuoteExpired  QuoteStatus = "EXPIRED"
)

// quoteTransitions lists the statuses reachable from each status by an explicit update.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft: {QuoteSent, QuoteRejected, QuoteExpired},
	QuoteSent:  {QuoteAccepted, QuoteRejected, QuoteExpired},
}

// Valid reports whether s is a known quote status.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether an update may move a quote from s to next.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Convertible reports whether a quote in status s may be turned into an order.
func (s QuoteStatus) Convertible() bool {
	return s == QuoteAccepted || s == QuoteSent
}

// Quote is a price estimate given to a customer. Once OrderID is set it never changes.
type Quote struct {
	QuoteID       string          `json:"quoteID"`
	SellerID      string          `json:"sellerID"`
	CustomerID    string          `json:"customerID"`
	OrderID       *string         `json:"orderID,omitempty"`
	TotalEstimate decimal.Decimal `json:"totalEstimate"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
	Status        QuoteStatus     `json:"status"`
	AuditFields
}

// Linked reports whether the quote has been consumed by an order.
func (q Quote) Linked() bool {
	return q.OrderID != nil && *q.OrderID != ""
}
