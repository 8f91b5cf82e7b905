package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// orderService implements the OrderSvcFacade interface
type orderService struct {
	BaseService
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerPosterSvc
}

// NewOrderService creates a new order service
func NewOrderService(txManager portsrepo.TransactionManager, ledger portssvc.LedgerPosterSvc) portssvc.OrderSvcFacade {
	return &orderService{
		txManager: txManager,
		ledger:    ledger,
	}
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// optional turns a NotFound lookup into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func (s *orderService) CreateOrder(ctx context.Context, sellerID string, req dto.CreateOrderRequest) (*domain.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("create_order", err)
	}
	if req.TotalAmount.IsNegative() {
		return nil, s.Observe("create_order", apperrors.NewValidationError("totalAmount must not be negative"))
	}

	var order domain.Order
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		now := s.Now()
		order = domain.Order{
			OrderID:       uuid.NewString(),
			SellerID:      sellerID,
			CustomerID:    req.CustomerID,
			PaymentTypeID: normalizeOptional(req.PaymentTypeID),
			TotalAmount:   req.TotalAmount,
			AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}

		if req.CartItems != nil {
			items, err := buildCartItems(ctx, uow, sellerID, order.OrderID, dto.ToCartItemInputs(req.CartItems))
			if err != nil {
				return err
			}
			order.CartItems = items
			if sum := domain.SumLineTotals(items); !sum.Equal(order.TotalAmount) {
				order.TotalAmount = sum
			}
		}

		if err := uow.Orders().SaveOrder(ctx, order); err != nil {
			return err
		}
		if len(order.CartItems) > 0 {
			if err := uow.CartItems().SaveCartItems(ctx, order.CartItems); err != nil {
				return err
			}
		}

		if req.CreateQuote {
			orderID := order.OrderID
			quote := domain.Quote{
				QuoteID:       uuid.NewString(),
				SellerID:      sellerID,
				CustomerID:    order.CustomerID,
				OrderID:       &orderID,
				TotalEstimate: order.TotalAmount,
				Status:        domain.QuoteAccepted,
				AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
			}
			if err := uow.Quotes().SaveQuote(ctx, quote); err != nil {
				return err
			}
			order.Quote = &quote
		}

		if req.CreateInvoice {
			invoice, err := s.createDraftInvoice(ctx, uow, &order, req.Language, req.GovernmentTemplate, now)
			if err != nil {
				return err
			}
			order.Invoice = invoice
		}

		_, err := s.ledger.PostOrder(ctx, uow, sellerID, order.OrderID, order.TotalAmount)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create order",
			slog.String("seller_id", sellerID),
			slog.String("customer_id", req.CustomerID))
		return nil, s.Observe("create_order", err)
	}

	s.LogInfo(ctx, "Order created successfully",
		slog.String("seller_id", sellerID),
		slog.String("order_id", order.OrderID),
		slog.String("total_amount", order.TotalAmount.String()),
		slog.Bool("with_quote", order.Quote != nil),
		slog.Bool("with_invoice", order.Invoice != nil))
	s.Observe("create_order", nil)
	return &order, nil
}

// CreateOrderFromQuote converts a SENT or ACCEPTED quote into an order. The quote row
// stays locked until the unit of work ends and is linked with a compare-and-swap, so
// a quote is converted at most once.
func (s *orderService) CreateOrderFromQuote(ctx context.Context, sellerID, quoteID string, req dto.CreateOrderFromQuoteRequest) (*domain.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("create_order_from_quote", err)
	}
	if req.TotalAmount.IsNegative() {
		return nil, s.Observe("create_order_from_quote", apperrors.NewValidationError("totalAmount must not be negative"))
	}

	var order domain.Order
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		quote, err := uow.Quotes().FindQuoteByIDForUpdate(ctx, sellerID, quoteID)
		if err != nil {
			return err
		}
		if quote.Linked() {
			return apperrors.NewConflictError(fmt.Sprintf("quote %s is already linked to order %s", quoteID, *quote.OrderID))
		}
		if !quote.Status.Convertible() {
			return apperrors.NewConflictError(fmt.Sprintf("quote %s is %s; only SENT or ACCEPTED quotes can be converted", quoteID, quote.Status))
		}

		now := s.Now()
		order = domain.Order{
			OrderID:       uuid.NewString(),
			SellerID:      sellerID,
			CustomerID:    quote.CustomerID,
			PaymentTypeID: normalizeOptional(req.PaymentTypeID),
			TotalAmount:   req.TotalAmount,
			AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if req.CartItems != nil {
			items, err := buildCartItems(ctx, uow, sellerID, order.OrderID, dto.ToCartItemInputs(req.CartItems))
			if err != nil {
				return err
			}
			order.CartItems = items
			order.TotalAmount = domain.SumLineTotals(items)
		} else if order.TotalAmount.IsZero() {
			order.TotalAmount = quote.TotalEstimate
		}

		if err := uow.Orders().SaveOrder(ctx, order); err != nil {
			return err
		}
		if len(order.CartItems) > 0 {
			if err := uow.CartItems().SaveCartItems(ctx, order.CartItems); err != nil {
				return err
			}
		}

		if err := uow.Quotes().LinkQuoteToOrder(ctx, sellerID, quoteID, order.OrderID, now); err != nil {
			if apperrors.KindOf(err) == apperrors.KindConflict {
				return apperrors.NewAppError(apperrors.KindConflict, fmt.Sprintf("quote %s is already linked to an order", quoteID), err)
			}
			return err
		}
		orderID := order.OrderID
		quote.OrderID = &orderID
		quote.Status = domain.QuoteAccepted
		quote.LastUpdatedAt = now
		order.Quote = quote

		if req.CreateInvoice {
			invoice, err := s.createDraftInvoice(ctx, uow, &order, nil, nil, now)
			if err != nil {
				return err
			}
			order.Invoice = invoice
		}

		_, err = s.ledger.PostOrder(ctx, uow, sellerID, order.OrderID, order.TotalAmount)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create order from quote",
			slog.String("seller_id", sellerID),
			slog.String("quote_id", quoteID))
		return nil, s.Observe("create_order_from_quote", err)
	}

	s.LogInfo(ctx, "Order created from quote successfully",
		slog.String("seller_id", sellerID),
		slog.String("quote_id", quoteID),
		slog.String("order_id", order.OrderID))
	s.Observe("create_order_from_quote", nil)
	return &order, nil
}

func (s *orderService) createDraftInvoice(ctx context.Context, uow portsrepo.UnitOfWork, order *domain.Order, language, template *string, now time.Time) (*domain.Invoice, error) {
	orderID := order.OrderID
	invoice := domain.Invoice{
		InvoiceID:          uuid.NewString(),
		SellerID:           order.SellerID,
		CustomerID:         order.CustomerID,
		OrderID:            &orderID,
		Language:           normalizeOptional(language),
		GovernmentTemplate: normalizeOptional(template),
		Status:             domain.InvoiceDraft,
		TotalAmount:        order.TotalAmount,
		AuditFields:        domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := uow.Invoices().SaveInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateOrder applies field changes and cart replacement. A changed total flows to the
// linked quote and to the linked invoice while that invoice is still a draft.
func (s *orderService) UpdateOrder(ctx context.Context, sellerID, orderID string, req dto.UpdateOrderRequest) (*domain.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("update_order", err)
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, s.Observe("update_order", apperrors.NewValidationError("totalAmount must not be negative"))
	}

	var order *domain.Order
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		order, err = uow.Orders().FindOrderByIDForUpdate(ctx, sellerID, orderID)
		if err != nil {
			return err
		}
		now := s.Now()

		if req.CustomerID != nil {
			order.CustomerID = *req.CustomerID
		}
		if req.PaymentTypeID != nil {
			order.PaymentTypeID = normalizeOptional(req.PaymentTypeID)
		}

		newTotal := order.TotalAmount
		if req.CartItems != nil {
			items, total, err := replaceCartItems(ctx, uow, sellerID, orderID, dto.ToCartItemInputs(req.CartItems))
			if err != nil {
				return err
			}
			order.CartItems = items
			newTotal = total
		} else {
			order.CartItems, err = uow.CartItems().FindCartItemsByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			if req.TotalAmount != nil {
				if len(order.CartItems) > 0 && !req.TotalAmount.Equal(domain.SumLineTotals(order.CartItems)) {
					return apperrors.NewValidationError("totalAmount of an order with cart items is the sum of its line totals")
				}
				newTotal = *req.TotalAmount
			}
		}

		totalChanged := !newTotal.Equal(order.TotalAmount)
		order.TotalAmount = newTotal
		order.LastUpdatedAt = now
		if err := uow.Orders().UpdateOrder(ctx, *order); err != nil {
			return err
		}

		if totalChanged {
			if err := syncQuoteEstimate(ctx, uow, sellerID, orderID, newTotal, now); err != nil {
				return err
			}
			if err := syncDraftInvoiceTotal(ctx, uow, sellerID, orderID, newTotal, now); err != nil {
				return err
			}
		}
		return loadOrderRelations(ctx, uow, order, false)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update order",
			slog.String("seller_id", sellerID),
			slog.String("order_id", orderID))
		return nil, s.Observe("update_order", err)
	}

	s.LogInfo(ctx, "Order updated successfully",
		slog.String("seller_id", sellerID),
		slog.String("order_id", orderID),
		slog.String("total_amount", order.TotalAmount.String()))
	s.Observe("update_order", nil)
	return order, nil
}

// DeleteOrder removes the order with its cart items and draft invoice.
// Orders whose invoice has been issued or paid cannot be deleted.
func (s *orderService) DeleteOrder(ctx context.Context, sellerID, orderID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, err := uow.Orders().FindOrderByIDForUpdate(ctx, sellerID, orderID); err != nil {
			return err
		}
		invoice, err := optional(uow.Invoices().FindInvoiceByOrderID(ctx, sellerID, orderID))
		if err != nil {
			return err
		}
		if invoice != nil {
			if !invoice.Status.Deletable() {
				return apperrors.NewConflictError(fmt.Sprintf("order %s has an %s invoice and cannot be deleted", orderID, invoice.Status))
			}
			// The read above is unlocked; the guarded delete refuses an invoice issued since.
			if err := uow.Invoices().DeleteDraftInvoice(ctx, sellerID, invoice.InvoiceID); err != nil {
				return err
			}
		}
		if err := uow.CartItems().DeleteCartItemsByOrderID(ctx, orderID); err != nil {
			return err
		}
		return uow.Orders().DeleteOrder(ctx, sellerID, orderID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete order",
			slog.String("seller_id", sellerID),
			slog.String("order_id", orderID))
		return s.Observe("delete_order", err)
	}

	s.LogInfo(ctx, "Order deleted successfully",
		slog.String("seller_id", sellerID),
		slog.String("order_id", orderID))
	s.Observe("delete_order", nil)
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, sellerID, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		order, err = uow.Orders().FindOrderByID(ctx, sellerID, orderID)
		if err != nil {
			return err
		}
		return loadOrderRelations(ctx, uow, order, true)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get order",
			slog.String("seller_id", sellerID),
			slog.String("order_id", orderID))
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, sellerID string, limit, offset int) ([]domain.Order, error) {
	limit, offset = clampPage(limit, offset)

	var orders []domain.Order
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		orders, err = uow.Orders().ListOrders(ctx, sellerID, limit, offset)
		if err != nil || len(orders) == 0 {
			return err
		}

		ids := make([]string, len(orders))
		for i := range orders {
			ids[i] = orders[i].OrderID
		}
		itemsByOrder, err := uow.CartItems().FindCartItemsByOrderIDs(ctx, ids)
		if err != nil {
			return err
		}
		for i := range orders {
			orders[i].CartItems = itemsByOrder[orders[i].OrderID]
			if err := loadOrderRelations(ctx, uow, &orders[i], false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders", slog.String("seller_id", sellerID))
		return nil, err
	}
	return orders, nil
}

// loadOrderRelations attaches the quote and invoice of the order, and its cart items when withItems is set.
func loadOrderRelations(ctx context.Context, uow portsrepo.UnitOfWork, order *domain.Order, withItems bool) error {
	if withItems {
		items, err := uow.CartItems().FindCartItemsByOrderID(ctx, order.OrderID)
		if err != nil {
			return err
		}
		order.CartItems = items
	}
	quote, err := optional(uow.Quotes().FindQuoteByOrderID(ctx, order.SellerID, order.OrderID))
	if err != nil {
		return err
	}
	order.Quote = quote
	invoice, err := optional(uow.Invoices().FindInvoiceByOrderID(ctx, order.SellerID, order.OrderID))
	if err != nil {
		return err
	}
	order.Invoice = invoice
	return nil
}

// syncQuoteEstimate copies an order total onto the quote linked to the order, if any.
func syncQuoteEstimate(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, orderID string, total decimal.Decimal, now time.Time) error {
	quote, err := optional(uow.Quotes().FindQuoteByOrderID(ctx, sellerID, orderID))
	if err != nil || quote == nil || quote.TotalEstimate.Equal(total) {
		return err
	}
	quote.TotalEstimate = total
	quote.LastUpdatedAt = now
	return uow.Quotes().UpdateQuote(ctx, *quote)
}

// syncDraftInvoiceTotal copies an order total onto the order's invoice while it is a draft.
// Issued and paid invoices keep their total; one issued since the read fails with a conflict.
func syncDraftInvoiceTotal(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, orderID string, total decimal.Decimal, now time.Time) error {
	invoice, err := optional(uow.Invoices().FindInvoiceByOrderID(ctx, sellerID, orderID))
	if err != nil || invoice == nil || invoice.Status != domain.InvoiceDraft {
		return err
	}
	invoice.TotalAmount = total
	invoice.LastUpdatedAt = now
	return uow.Invoices().UpdateInvoice(ctx, *invoice, domain.InvoiceDraft)
}
