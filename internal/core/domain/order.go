package domain

import (
	"github.com/shopspring/decimal"
)

// Order is a customer's confirmed purchase. TotalAmount equals the sum of the
// cart line totals whenever cart items exist.
type Order struct {
	OrderID       string          `json:"orderID"`
	SellerID      string          `json:"sellerID"`
	CustomerID    string          `json:"customerID"`
	PaymentTypeID *string         `json:"paymentTypeID,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AuditFields

	// Loaded relations
	CartItems []OrderCartItem `json:"cartItems"`
	Quote     *Quote          `json:"quote,omitempty"`
	Invoice   *Invoice        `json:"invoice,omitempty"`
}

// OrderCartItem is a line of an order.
// It either references a catalog product or carries its own sku, name and description.
type OrderCartItem struct {
	CartItemID  string          `json:"cartItemID"`
	OrderID     string          `json:"orderID"`
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

// CartItemInput is a requested cart line before product resolution.
type CartItemInput struct {
	ProductID   *string
	SKU         string
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// SumLineTotals returns the sum of the items' line totals.
func SumLineTotals(items []OrderCartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total
}
