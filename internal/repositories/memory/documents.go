package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
)

// newestFirst orders records the way the SQL listings do: created_at DESC, id DESC.
func newestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ai, idI := key(items[i])
		aj, idJ := key(items[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return idI > idJ
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return make([]T, 0)
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Quotes

func (u *unitOfWork) SaveQuote(_ context.Context, quote domain.Quote) error {
	if _, exists := u.st.quotes[quote.QuoteID]; exists {
		return apperrors.ErrDuplicate
	}
	if quote.OrderID != nil {
		if _, err := u.quoteByOrder(quote.SellerID, *quote.OrderID); err == nil {
			return apperrors.ErrDuplicate
		}
	}
	u.st.quotes[quote.QuoteID] = quote
	return nil
}

func (u *unitOfWork) FindQuoteByID(_ context.Context, sellerID, quoteID string) (*domain.Quote, error) {
	q, ok := u.st.quotes[quoteID]
	if !ok || q.SellerID != sellerID {
		return nil, notFound("quote", quoteID)
	}
	return &q, nil
}

// FindQuoteByIDForUpdate needs no lock: units of work are already serialised.
func (u *unitOfWork) FindQuoteByIDForUpdate(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error) {
	return u.FindQuoteByID(ctx, sellerID, quoteID)
}

func (u *unitOfWork) quoteByOrder(sellerID, orderID string) (*domain.Quote, error) {
	for _, q := range u.st.quotes {
		if q.SellerID == sellerID && q.OrderID != nil && *q.OrderID == orderID {
			return &q, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("no quote linked to order %s", orderID))
}

func (u *unitOfWork) FindQuoteByOrderID(_ context.Context, sellerID, orderID string) (*domain.Quote, error) {
	return u.quoteByOrder(sellerID, orderID)
}

func (u *unitOfWork) ListQuotes(_ context.Context, sellerID string, limit, offset int) ([]domain.Quote, error) {
	result := make([]domain.Quote, 0)
	for _, q := range u.st.quotes {
		if q.SellerID == sellerID {
			result = append(result, q)
		}
	}
	newestFirst(result, func(q domain.Quote) (time.Time, string) { return q.CreatedAt, q.QuoteID })
	return page(result, limit, offset), nil
}

func (u *unitOfWork) UpdateQuote(_ context.Context, quote domain.Quote) error {
	existing, ok := u.st.quotes[quote.QuoteID]
	if !ok || existing.SellerID != quote.SellerID {
		return notFound("quote", quote.QuoteID)
	}
	quote.OrderID = existing.OrderID
	quote.CreatedAt = existing.CreatedAt
	u.st.quotes[quote.QuoteID] = quote
	return nil
}

func (u *unitOfWork) LinkQuoteToOrder(_ context.Context, sellerID, quoteID, orderID string, updatedAt time.Time) error {
	q, ok := u.st.quotes[quoteID]
	if !ok || q.SellerID != sellerID {
		return notFound("quote", quoteID)
	}
	if q.OrderID != nil {
		return apperrors.NewConflictError(fmt.Sprintf("quote %s is already linked", quoteID))
	}
	if _, err := u.quoteByOrder(sellerID, orderID); err == nil {
		return apperrors.ErrDuplicate
	}
	q.OrderID = &orderID
	q.Status = domain.QuoteAccepted
	q.LastUpdatedAt = updatedAt
	u.st.quotes[quoteID] = q
	return nil
}

func (u *unitOfWork) DeleteQuote(_ context.Context, sellerID, quoteID string) error {
	q, ok := u.st.quotes[quoteID]
	if !ok || q.SellerID != sellerID {
		return notFound("quote", quoteID)
	}
	delete(u.st.quotes, quoteID)
	return nil
}

// Orders

func bareOrder(order domain.Order) domain.Order {
	order.CartItems = nil
	order.Quote = nil
	order.Invoice = nil
	return order
}

func (u *unitOfWork) SaveOrder(_ context.Context, order domain.Order) error {
	if _, exists := u.st.orders[order.OrderID]; exists {
		return apperrors.ErrDuplicate
	}
	u.st.orders[order.OrderID] = bareOrder(order)
	return nil
}

func (u *unitOfWork) FindOrderByID(_ context.Context, sellerID, orderID string) (*domain.Order, error) {
	o, ok := u.st.orders[orderID]
	if !ok || o.SellerID != sellerID {
		return nil, notFound("order", orderID)
	}
	return &o, nil
}

func (u *unitOfWork) FindOrderByIDForUpdate(ctx context.Context, sellerID, orderID string) (*domain.Order, error) {
	return u.FindOrderByID(ctx, sellerID, orderID)
}

func (u *unitOfWork) ListOrders(_ context.Context, sellerID string, limit, offset int) ([]domain.Order, error) {
	result := make([]domain.Order, 0)
	for _, o := range u.st.orders {
		if o.SellerID == sellerID {
			result = append(result, o)
		}
	}
	newestFirst(result, func(o domain.Order) (time.Time, string) { return o.CreatedAt, o.OrderID })
	return page(result, limit, offset), nil
}

func (u *unitOfWork) UpdateOrder(_ context.Context, order domain.Order) error {
	existing, ok := u.st.orders[order.OrderID]
	if !ok || existing.SellerID != order.SellerID {
		return notFound("order", order.OrderID)
	}
	order.CreatedAt = existing.CreatedAt
	u.st.orders[order.OrderID] = bareOrder(order)
	return nil
}

func (u *unitOfWork) DeleteOrder(_ context.Context, sellerID, orderID string) error {
	o, ok := u.st.orders[orderID]
	if !ok || o.SellerID != sellerID {
		return notFound("order", orderID)
	}
	delete(u.st.orders, orderID)
	delete(u.st.cartItems, orderID)
	return nil
}

// Cart items

func (u *unitOfWork) SaveCartItems(_ context.Context, items []domain.OrderCartItem) error {
	for _, item := range items {
		if _, ok := u.st.orders[item.OrderID]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("cart item %s references unknown order %s", item.CartItemID, item.OrderID))
		}
	}
	for _, item := range items {
		u.st.cartItems[item.OrderID] = append(u.st.cartItems[item.OrderID], item)
	}
	return nil
}

func (u *unitOfWork) FindCartItemsByOrderID(_ context.Context, orderID string) ([]domain.OrderCartItem, error) {
	return append(make([]domain.OrderCartItem, 0), u.st.cartItems[orderID]...), nil
}

func (u *unitOfWork) FindCartItemsByOrderIDs(_ context.Context, orderIDs []string) (map[string][]domain.OrderCartItem, error) {
	result := make(map[string][]domain.OrderCartItem, len(orderIDs))
	for _, id := range orderIDs {
		result[id] = append(make([]domain.OrderCartItem, 0), u.st.cartItems[id]...)
	}
	return result, nil
}

func (u *unitOfWork) DeleteCartItemsByOrderID(_ context.Context, orderID string) error {
	delete(u.st.cartItems, orderID)
	return nil
}

// Invoices

func (u *unitOfWork) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	if _, exists := u.st.invoices[invoice.InvoiceID]; exists {
		return apperrors.ErrDuplicate
	}
	if invoice.OrderID != nil {
		if _, err := u.invoiceByOrder(invoice.SellerID, *invoice.OrderID); err == nil {
			return apperrors.ErrDuplicate
		}
	}
	u.st.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (u *unitOfWork) FindInvoiceByID(_ context.Context, sellerID, invoiceID string) (*domain.Invoice, error) {
	inv, ok := u.st.invoices[invoiceID]
	if !ok || inv.SellerID != sellerID {
		return nil, notFound("invoice", invoiceID)
	}
	return &inv, nil
}

func (u *unitOfWork) FindInvoiceByIDForUpdate(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error) {
	return u.FindInvoiceByID(ctx, sellerID, invoiceID)
}

func (u *unitOfWork) invoiceByOrder(sellerID, orderID string) (*domain.Invoice, error) {
	for _, inv := range u.st.invoices {
		if inv.SellerID == sellerID && inv.OrderID != nil && *inv.OrderID == orderID {
			return &inv, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("no invoice for order %s", orderID))
}

func (u *unitOfWork) FindInvoiceByOrderID(_ context.Context, sellerID, orderID string) (*domain.Invoice, error) {
	return u.invoiceByOrder(sellerID, orderID)
}

func (u *unitOfWork) ListInvoices(_ context.Context, sellerID string, limit, offset int) ([]domain.Invoice, error) {
	result := make([]domain.Invoice, 0)
	for _, inv := range u.st.invoices {
		if inv.SellerID == sellerID {
			result = append(result, inv)
		}
	}
	newestFirst(result, func(inv domain.Invoice) (time.Time, string) { return inv.CreatedAt, inv.InvoiceID })
	return page(result, limit, offset), nil
}

func (u *unitOfWork) UpdateInvoice(_ context.Context, invoice domain.Invoice, expected domain.InvoiceStatus) error {
	existing, ok := u.st.invoices[invoice.InvoiceID]
	if !ok || existing.SellerID != invoice.SellerID {
		return notFound("invoice", invoice.InvoiceID)
	}
	if existing.Status != expected {
		return invoiceMoved(existing, expected)
	}
	invoice.OrderID = existing.OrderID
	invoice.CreatedAt = existing.CreatedAt
	u.st.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (u *unitOfWork) DeleteDraftInvoice(_ context.Context, sellerID, invoiceID string) error {
	inv, ok := u.st.invoices[invoiceID]
	if !ok || inv.SellerID != sellerID {
		return notFound("invoice", invoiceID)
	}
	if inv.Status != domain.InvoiceDraft {
		return invoiceMoved(inv, domain.InvoiceDraft)
	}
	delete(u.st.invoices, invoiceID)
	return nil
}

func invoiceMoved(inv domain.Invoice, expected domain.InvoiceStatus) error {
	return apperrors.NewAppError(apperrors.KindConflict,
		fmt.Sprintf("invoice %s is %s, expected %s", inv.InvoiceID, inv.Status, expected), apperrors.ErrDuplicate)
}
