package dto

import (
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest defines the data needed to create a quote.
type CreateQuoteRequest struct {
	CustomerID    string          `json:"customerID" binding:"required"`
	TotalEstimate decimal.Decimal `json:"totalEstimate"`
	ExpiresAt     *time.Time      `json:"expiresAt"`
}

// UpdateQuoteRequest defines the fields that can be updated on a quote.
type UpdateQuoteRequest struct {
	Status        *domain.QuoteStatus `json:"status" binding:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED EXPIRED"`
	CustomerID    *string             `json:"customerID" binding:"omitempty,min=1"`
	TotalEstimate *decimal.Decimal    `json:"totalEstimate"`
	ExpiresAt     *time.Time          `json:"expiresAt"`
}

// QuoteResponse is the API view of a quote.
type QuoteResponse struct {
	QuoteID       string             `json:"quoteID"`
	CustomerID    string             `json:"customerID"`
	OrderID       *string            `json:"orderID,omitempty"`
	TotalEstimate decimal.Decimal    `json:"totalEstimate"`
	ExpiresAt     *time.Time         `json:"expiresAt,omitempty"`
	Status        domain.QuoteStatus `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ListQuotesResponse wraps a page of quotes.
type ListQuotesResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
}

func ToQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		QuoteID:       q.QuoteID,
		CustomerID:    q.CustomerID,
		OrderID:       q.OrderID,
		TotalEstimate: q.TotalEstimate,
		ExpiresAt:     q.ExpiresAt,
		Status:        q.Status,
		CreatedAt:     q.CreatedAt,
		LastUpdatedAt: q.LastUpdatedAt,
	}
}

func ToListQuotesResponse(quotes []domain.Quote) ListQuotesResponse {
	resp := ListQuotesResponse{Quotes: make([]QuoteResponse, len(quotes))}
	for i := range quotes {
		resp.Quotes[i] = ToQuoteResponse(&quotes[i])
	}
	return resp
}
