package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents a row of the quotes table.
type Quote struct {
	QuoteID       string          `db:"quote_id"`
	SellerID      string          `db:"seller_id"`
	CustomerID    string          `db:"customer_id"`
	OrderID       *string         `db:"order_id"` // Unique when set
	TotalEstimate decimal.Decimal `db:"total_estimate"`
	ExpiresAt     *time.Time      `db:"expires_at"`
	Status        string          `db:"status"`
	AuditFields
}

// Order represents a row of the orders table.
type Order struct {
	OrderID       string          `db:"order_id"`
	SellerID      string          `db:"seller_id"`
	CustomerID    string          `db:"customer_id"`
	PaymentTypeID *string         `db:"payment_type_id"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	AuditFields
}

// OrderCartItem represents a row of the order_cart_items table.
type OrderCartItem struct {
	CartItemID  string          `db:"cart_item_id"`
	OrderID     string          `db:"order_id"`
	ProductID   *string         `db:"product_id"`
	SKU         string          `db:"sku"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	TaxCodeID   *string         `db:"tax_code_id"`
	Position    int             `db:"position"`
}

// Invoice represents a row of the invoices table.
type Invoice struct {
	InvoiceID          string          `db:"invoice_id"`
	SellerID           string          `db:"seller_id"`
	CustomerID         string          `db:"customer_id"`
	OrderID            *string         `db:"order_id"` // Unique when set
	Language           *string         `db:"language"`
	GovernmentTemplate *string         `db:"government_template"`
	Status             string          `db:"status"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	AuditFields
}

// Product is the catalog projection read from products joined with tax_codes.
type Product struct {
	ProductID   string              `db:"product_id"`
	SellerID    string              `db:"seller_id"`
	SKU         string              `db:"sku"`
	Name        string              `db:"name"`
	Description string              `db:"description"`
	TaxCodeID   *string             `db:"tax_code_id"`
	TaxRate     decimal.NullDecimal `db:"rate"`
}
