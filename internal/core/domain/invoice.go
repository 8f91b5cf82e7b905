package domain

import (
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "DRAFT"
	InvoiceIssued InvoiceStatus = "ISSUED"
	InvoicePaid   InvoiceStatus = "PAID"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether an invoice may move from s to next.
// PAID is terminal and an ISSUED invoice may only become PAID.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case InvoiceDraft:
		return next.Valid()
	case InvoiceIssued:
		return next == InvoicePaid
	default:
		return false
	}
}

// Deletable reports whether an invoice in status s may be deleted.
func (s InvoiceStatus) Deletable() bool {
	return s == InvoiceDraft
}

// Invoice is a bill sent to a customer, optionally generated from an order.
type Invoice struct {
	InvoiceID          string          `json:"invoiceID"`
	SellerID           string          `json:"sellerID"`
	CustomerID         string          `json:"customerID"`
	OrderID            *string         `json:"orderID,omitempty"`
	Language           *string         `json:"language,omitempty"`
	GovernmentTemplate *string         `json:"governmentTemplate,omitempty"`
	Status             InvoiceStatus   `json:"status"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	AuditFields
}
