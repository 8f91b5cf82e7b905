package dto

import (
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertOrderToInvoiceRequest carries the presentation settings of a new invoice.
type ConvertOrderToInvoiceRequest struct {
	Language           *string `json:"language" binding:"omitempty,max=16"`
	GovernmentTemplate *string `json:"governmentTemplate" binding:"omitempty,max=64"`
}

// UpdateInvoiceRequest defines the fields that can be updated on an invoice.
type UpdateInvoiceRequest struct {
	Status             *domain.InvoiceStatus `json:"status" binding:"omitempty,oneof=DRAFT ISSUED PAID"`
	Language           *string               `json:"language" binding:"omitempty,max=16"`
	GovernmentTemplate *string               `json:"governmentTemplate" binding:"omitempty,max=64"`
	CustomerID         *string               `json:"customerID" binding:"omitempty,min=1"`
	CartItems          []CartItemRequest     `json:"cartItems" binding:"dive"`
}

// OnlyStatus reports whether the request changes nothing but the status.
func (r UpdateInvoiceRequest) OnlyStatus() bool {
	return r.Language == nil && r.GovernmentTemplate == nil && r.CustomerID == nil && r.CartItems == nil
}

// InvoiceResponse is the API view of an invoice.
type InvoiceResponse struct {
	InvoiceID          string               `json:"invoiceID"`
	CustomerID         string               `json:"customerID"`
	OrderID            *string              `json:"orderID,omitempty"`
	Language           *string              `json:"language,omitempty"`
	GovernmentTemplate *string              `json:"governmentTemplate,omitempty"`
	Status             domain.InvoiceStatus `json:"status"`
	TotalAmount        decimal.Decimal      `json:"totalAmount"`
	CreatedAt          time.Time            `json:"createdAt"`
	LastUpdatedAt      time.Time            `json:"lastUpdatedAt"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:          inv.InvoiceID,
		CustomerID:         inv.CustomerID,
		OrderID:            inv.OrderID,
		Language:           inv.Language,
		GovernmentTemplate: inv.GovernmentTemplate,
		Status:             inv.Status,
		TotalAmount:        inv.TotalAmount,
		CreatedAt:          inv.CreatedAt,
		LastUpdatedAt:      inv.LastUpdatedAt,
	}
}

func ToListInvoicesResponse(invoices []domain.Invoice) ListInvoicesResponse {
	resp := ListInvoicesResponse{Invoices: make([]InvoiceResponse, len(invoices))}
	for i := range invoices {
		resp.Invoices[i] = ToInvoiceResponse(&invoices[i])
	}
	return resp
}
