package mapping

import (
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelQuote converts a domain Quote to a model Quote
func ToModelQuote(d domain.Quote) models.Quote {
	return models.Quote{
		QuoteID:       d.QuoteID,
		SellerID:      d.SellerID,
		CustomerID:    d.CustomerID,
		OrderID:       d.OrderID,
		TotalEstimate: d.TotalEstimate,
		ExpiresAt:     d.ExpiresAt,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainQuote converts a model Quote to a domain Quote
func ToDomainQuote(m models.Quote) domain.Quote {
	return domain.Quote{
		QuoteID:       m.QuoteID,
		SellerID:      m.SellerID,
		CustomerID:    m.CustomerID,
		OrderID:       m.OrderID,
		TotalEstimate: m.TotalEstimate,
		ExpiresAt:     m.ExpiresAt,
		Status:        domain.QuoteStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelOrder converts a domain Order to a model Order. Relations are not mapped.
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:       d.OrderID,
		SellerID:      d.SellerID,
		CustomerID:    d.CustomerID,
		PaymentTypeID: d.PaymentTypeID,
		TotalAmount:   d.TotalAmount,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model Order to a domain Order without relations
func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:       m.OrderID,
		SellerID:      m.SellerID,
		CustomerID:    m.CustomerID,
		PaymentTypeID: m.PaymentTypeID,
		TotalAmount:   m.TotalAmount,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCartItem converts a domain OrderCartItem to a model OrderCartItem at the given position
func ToModelCartItem(d domain.OrderCartItem, position int) models.OrderCartItem {
	return models.OrderCartItem{
		CartItemID:  d.CartItemID,
		OrderID:     d.OrderID,
		ProductID:   d.ProductID,
		SKU:         d.SKU,
		Name:        d.Name,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		LineTotal:   d.LineTotal,
		TaxRate:     d.TaxRate,
		TaxCodeID:   d.TaxCodeID,
		Position:    position,
	}
}

// ToDomainCartItem converts a model OrderCartItem to a domain OrderCartItem
func ToDomainCartItem(m models.OrderCartItem) domain.OrderCartItem {
	return domain.OrderCartItem{
		CartItemID:  m.CartItemID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		TaxRate:     m.TaxRate,
		TaxCodeID:   m.TaxCodeID,
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:          d.InvoiceID,
		SellerID:           d.SellerID,
		CustomerID:         d.CustomerID,
		OrderID:            d.OrderID,
		Language:           d.Language,
		GovernmentTemplate: d.GovernmentTemplate,
		Status:             string(d.Status),
		TotalAmount:        d.TotalAmount,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:          m.InvoiceID,
		SellerID:           m.SellerID,
		CustomerID:         m.CustomerID,
		OrderID:            m.OrderID,
		Language:           m.Language,
		GovernmentTemplate: m.GovernmentTemplate,
		Status:             domain.InvoiceStatus(m.Status),
		TotalAmount:        m.TotalAmount,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProduct converts a catalog row to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	p := domain.Product{
		ProductID:   m.ProductID,
		SellerID:    m.SellerID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
	}
	if m.TaxCodeID != nil {
		rate := decimal.Zero
		if m.TaxRate.Valid {
			rate = m.TaxRate.Decimal
		}
		p.TaxCode = &domain.TaxCode{TaxCodeID: *m.TaxCodeID, Rate: rate}
	}
	return p
}
