package domain

import "github.com/shopspring/decimal"

// TaxCode is a seller's tax rate, read from the catalog.
type TaxCode struct {
	TaxCodeID string          `json:"taxCodeID"`
	Rate      decimal.Decimal `json:"rate"`
}

// Product is the catalog view of a product, as far as cart items need it.
type Product struct {
	ProductID   string   `json:"productID"`
	SellerID    string   `json:"sellerID"`
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TaxCode     *TaxCode `json:"taxCode,omitempty"`
}
