package services

import (
	"context"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// OrderReaderSvc defines read operations for orders
type OrderReaderSvc interface {
	// GetOrder loads the order with its cart items, quote and invoice.
	GetOrder(ctx context.Context, sellerID, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, sellerID string, limit, offset int) ([]domain.Order, error)
}

// OrderWriterSvc defines the order lifecycle operations. Each runs as one unit of work.
type OrderWriterSvc interface {
	CreateOrder(ctx context.Context, sellerID string, req dto.CreateOrderRequest) (*domain.Order, error)
	CreateOrderFromQuote(ctx context.Context, sellerID, quoteID string, req dto.CreateOrderFromQuoteRequest) (*domain.Order, error)
	UpdateOrder(ctx context.Context, sellerID, orderID string, req dto.UpdateOrderRequest) (*domain.Order, error)
	DeleteOrder(ctx context.Context, sellerID, orderID string) error
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, sellerID string, limit, offset int) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines the invoice lifecycle operations. Each runs as one unit of work.
type InvoiceWriterSvc interface {
	// ConvertOrderToInvoice creates a DRAFT invoice for an order that has none.
	ConvertOrderToInvoice(ctx context.Context, sellerID, orderID string, req dto.ConvertOrderToInvoiceRequest) (*domain.Invoice, error)

	// UpdateInvoice applies field changes and status transitions, posting to the ledger on ISSUED and PAID.
	UpdateInvoice(ctx context.Context, sellerID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)

	DeleteInvoice(ctx context.Context, sellerID, invoiceID string) error
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}

// QuoteReaderSvc defines read operations for quotes
type QuoteReaderSvc interface {
	GetQuote(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, sellerID string, limit, offset int) ([]domain.Quote, error)
}

// QuoteWriterSvc defines the quote lifecycle operations
type QuoteWriterSvc interface {
	CreateQuote(ctx context.Context, sellerID string, req dto.CreateQuoteRequest) (*domain.Quote, error)
	UpdateQuote(ctx context.Context, sellerID, quoteID string, req dto.UpdateQuoteRequest) (*domain.Quote, error)
	DeleteQuote(ctx context.Context, sellerID, quoteID string) error
}

// QuoteSvcFacade combines all quote-related service interfaces
type QuoteSvcFacade interface {
	QuoteReaderSvc
	QuoteWriterSvc
}
