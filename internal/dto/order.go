package dto

import (
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CartItemRequest is one cart line in an order request.
// Without a productID the line must carry its own name.
type CartItemRequest struct {
	ProductID   *string         `json:"productID" binding:"omitempty,min=1"`
	SKU         string          `json:"sku" binding:"max=64"`
	Name        string          `json:"name" binding:"required_without=ProductID,max=255"`
	Description string          `json:"description" binding:"max=2000"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateOrderRequest defines the data needed to create an order.
// A nil CartItems means no cart; an empty, non-nil slice is rejected.
type CreateOrderRequest struct {
	CustomerID         string            `json:"customerID" binding:"required"`
	PaymentTypeID      *string           `json:"paymentTypeID"`
	TotalAmount        decimal.Decimal   `json:"totalAmount"`
	CartItems          []CartItemRequest `json:"cartItems" binding:"dive"`
	CreateQuote        bool              `json:"createQuote"`
	CreateInvoice      bool              `json:"createInvoice"`
	Language           *string           `json:"language" binding:"omitempty,max=16"`
	GovernmentTemplate *string           `json:"governmentTemplate" binding:"omitempty,max=64"`
}

// CreateOrderFromQuoteRequest defines the data needed to convert a quote into an order.
type CreateOrderFromQuoteRequest struct {
	PaymentTypeID *string           `json:"paymentTypeID"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	CartItems     []CartItemRequest `json:"cartItems" binding:"dive"`
	CreateInvoice bool              `json:"createInvoice"`
}

// UpdateOrderRequest defines the fields that can be updated on an order.
// A non-nil CartItems replaces every existing cart line.
type UpdateOrderRequest struct {
	CustomerID    *string           `json:"customerID" binding:"omitempty,min=1"`
	PaymentTypeID *string           `json:"paymentTypeID"`
	TotalAmount   *decimal.Decimal  `json:"totalAmount"`
	CartItems     []CartItemRequest `json:"cartItems" binding:"dive"`
}

// ListParams defines offset pagination query parameters for document listings.
type ListParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// CartItemResponse is the API view of a cart line.
type CartItemResponse struct {
	CartItemID  string          `json:"cartItemID"`
	ProductID   *string         `json:"productID,omitempty"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxCodeID   *string         `json:"taxCodeID,omitempty"`
}

// OrderResponse is the API view of an order graph.
type OrderResponse struct {
	OrderID       string             `json:"orderID"`
	CustomerID    string             `json:"customerID"`
	PaymentTypeID *string            `json:"paymentTypeID,omitempty"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	CartItems     []CartItemResponse `json:"cartItems"`
	Quote         *QuoteResponse     `json:"quote,omitempty"`
	Invoice       *InvoiceResponse   `json:"invoice,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ListOrdersResponse wraps a page of orders.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// ToCartItemInputs converts request lines into core inputs, preserving nil.
func ToCartItemInputs(items []CartItemRequest) []domain.CartItemInput {
	if items == nil {
		return nil
	}
	inputs := make([]domain.CartItemInput, len(items))
	for i, item := range items {
		inputs[i] = domain.CartItemInput{
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return inputs
}

// ToOrderResponse converts a domain Order graph to its API view.
func ToOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:       o.OrderID,
		CustomerID:    o.CustomerID,
		PaymentTypeID: o.PaymentTypeID,
		TotalAmount:   o.TotalAmount,
		CartItems:     make([]CartItemResponse, 0, len(o.CartItems)),
		CreatedAt:     o.CreatedAt,
		LastUpdatedAt: o.LastUpdatedAt,
	}
	for _, item := range o.CartItems {
		resp.CartItems = append(resp.CartItems, CartItemResponse{
			CartItemID:  item.CartItemID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			TaxRate:     item.TaxRate,
			TaxCodeID:   item.TaxCodeID,
		})
	}
	if o.Quote != nil {
		q := ToQuoteResponse(o.Quote)
		resp.Quote = &q
	}
	if o.Invoice != nil {
		inv := ToInvoiceResponse(o.Invoice)
		resp.Invoice = &inv
	}
	return resp
}

// ToListOrdersResponse converts a slice of orders.
func ToListOrdersResponse(orders []domain.Order) ListOrdersResponse {
	resp := ListOrdersResponse{Orders: make([]OrderResponse, len(orders))}
	for i := range orders {
		resp.Orders[i] = ToOrderResponse(&orders[i])
	}
	return resp
}
