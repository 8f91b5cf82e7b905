package repositories

import (
	"context"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
)

// QuoteRepository persists quotes.
type QuoteRepository interface {
	SaveQuote(ctx context.Context, quote domain.Quote) error
	FindQuoteByID(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error)

	// FindQuoteByIDForUpdate loads the quote and holds a row lock on it until the unit of work ends.
	FindQuoteByIDForUpdate(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error)

	FindQuoteByOrderID(ctx context.Context, sellerID, orderID string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, sellerID string, limit, offset int) ([]domain.Quote, error)

	// UpdateQuote writes customer, estimate, expiry and status. It never touches order_id.
	UpdateQuote(ctx context.Context, quote domain.Quote) error

	// LinkQuoteToOrder sets order_id and status ACCEPTED only while order_id is still unset.
	// It returns ErrConflict when the quote is already linked.
	LinkQuoteToOrder(ctx context.Context, sellerID, quoteID, orderID string, updatedAt time.Time) error

	DeleteQuote(ctx context.Context, sellerID, quoteID string) error
}

// OrderRepository persists orders without their relations.
type OrderRepository interface {
	SaveOrder(ctx context.Context, order domain.Order) error
	FindOrderByID(ctx context.Context, sellerID, orderID string) (*domain.Order, error)
	FindOrderByIDForUpdate(ctx context.Context, sellerID, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, sellerID string, limit, offset int) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) error
	DeleteOrder(ctx context.Context, sellerID, orderID string) error
}

// CartItemRepository persists order cart lines.
type CartItemRepository interface {
	SaveCartItems(ctx context.Context, items []domain.OrderCartItem) error
	FindCartItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderCartItem, error)
	FindCartItemsByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]domain.OrderCartItem, error)
	DeleteCartItemsByOrderID(ctx context.Context, orderID string) error
}

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	// SaveInvoice returns ErrDuplicate when the order already has an invoice.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error)
	FindInvoiceByIDForUpdate(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error)
	FindInvoiceByOrderID(ctx context.Context, sellerID, orderID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, sellerID string, limit, offset int) ([]domain.Invoice, error)
	// UpdateInvoice writes the invoice only while its stored status is still expected.
	// It returns ErrConflict when another unit of work moved the status first.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, expected domain.InvoiceStatus) error

	// DeleteDraftInvoice removes the invoice only while it is DRAFT, else ErrConflict.
	DeleteDraftInvoice(ctx context.Context, sellerID, invoiceID string) error
}

// CatalogReader resolves products for cart items. It is read-only.
type CatalogReader interface {
	// FindProduct returns ErrNotFound when the product does not exist for the seller.
	FindProduct(ctx context.Context, sellerID, productID string) (*domain.Product, error)
}
