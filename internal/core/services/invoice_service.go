package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerPosterSvc
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(txManager portsrepo.TransactionManager, ledger portssvc.LedgerPosterSvc) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		txManager: txManager,
		ledger:    ledger,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// ConvertOrderToInvoice creates a DRAFT invoice at the order's current total.
// Nothing is posted to the ledger until the invoice is issued.
func (s *invoiceService) ConvertOrderToInvoice(ctx context.Context, sellerID, orderID string, req dto.ConvertOrderToInvoiceRequest) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("convert_order_to_invoice", err)
	}

	var invoice domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		order, err := uow.Orders().FindOrderByIDForUpdate(ctx, sellerID, orderID)
		if err != nil {
			return err
		}
		existing, err := optional(uow.Invoices().FindInvoiceByOrderID(ctx, sellerID, orderID))
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError(fmt.Sprintf("order %s already has invoice %s", orderID, existing.InvoiceID))
		}

		now := s.Now()
		invoice = domain.Invoice{
			InvoiceID:          uuid.NewString(),
			SellerID:           sellerID,
			CustomerID:         order.CustomerID,
			OrderID:            &order.OrderID,
			Language:           normalizeOptional(req.Language),
			GovernmentTemplate: normalizeOptional(req.GovernmentTemplate),
			Status:             domain.InvoiceDraft,
			TotalAmount:        order.TotalAmount,
			AuditFields:        domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := uow.Invoices().SaveInvoice(ctx, invoice); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.NewAppError(apperrors.KindConflict, fmt.Sprintf("order %s already has an invoice", orderID), err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to convert order to invoice",
			slog.String("seller_id", sellerID),
			slog.String("order_id", orderID))
		return nil, s.Observe("convert_order_to_invoice", err)
	}

	s.LogInfo(ctx, "Order converted to invoice successfully",
		slog.String("seller_id", sellerID),
		slog.String("order_id", orderID),
		slog.String("invoice_id", invoice.InvoiceID))
	s.Observe("convert_order_to_invoice", nil)
	return &invoice, nil
}

// UpdateInvoice applies field changes and a status transition.
//
// PAID invoices are frozen. An ISSUED invoice accepts nothing but status=PAID.
// Issuing posts receivable against invoice revenue; paying posts cash against receivable.
func (s *invoiceService) UpdateInvoice(ctx context.Context, sellerID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("update_invoice", err)
	}

	var invoice *domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		order, err := lockInvoiceOrder(ctx, uow, sellerID, invoiceID)
		if err != nil {
			return err
		}
		if req.CartItems != nil && order == nil {
			return apperrors.NewValidationError(fmt.Sprintf("invoice %s has no order to hold cart items", invoiceID))
		}

		invoice, err = uow.Invoices().FindInvoiceByIDForUpdate(ctx, sellerID, invoiceID)
		if err != nil {
			return err
		}

		previous := invoice.Status
		target := previous
		if req.Status != nil {
			target = *req.Status
		}
		switch previous {
		case domain.InvoicePaid:
			return apperrors.NewConflictError(fmt.Sprintf("invoice %s is paid and can no longer change", invoiceID))
		case domain.InvoiceIssued:
			if target != domain.InvoicePaid || !req.OnlyStatus() {
				return apperrors.NewConflictError(fmt.Sprintf("invoice %s is issued; only a transition to PAID is allowed", invoiceID))
			}
		}
		if !previous.CanTransitionTo(target) {
			return apperrors.NewConflictError(fmt.Sprintf("invoice %s cannot move from %s to %s", invoiceID, previous, target))
		}

		now := s.Now()
		if req.Language != nil {
			invoice.Language = normalizeOptional(req.Language)
		}
		if req.GovernmentTemplate != nil {
			invoice.GovernmentTemplate = normalizeOptional(req.GovernmentTemplate)
		}
		if req.CustomerID != nil {
			invoice.CustomerID = *req.CustomerID
		}

		if req.CartItems != nil {
			_, total, err := replaceCartItems(ctx, uow, sellerID, order.OrderID, dto.ToCartItemInputs(req.CartItems))
			if err != nil {
				return err
			}
			if !total.Equal(order.TotalAmount) {
				order.TotalAmount = total
				order.LastUpdatedAt = now
				if err := uow.Orders().UpdateOrder(ctx, *order); err != nil {
					return err
				}
				if err := syncQuoteEstimate(ctx, uow, sellerID, order.OrderID, total, now); err != nil {
					return err
				}
			}
			invoice.TotalAmount = total
		}

		invoice.Status = target
		invoice.LastUpdatedAt = now
		if err := uow.Invoices().UpdateInvoice(ctx, *invoice, previous); err != nil {
			return err
		}

		if previous == domain.InvoiceDraft && target == domain.InvoiceIssued {
			if _, err := s.ledger.PostInvoice(ctx, uow, sellerID, invoiceID, invoice.TotalAmount); err != nil {
				return err
			}
		}
		if previous != domain.InvoicePaid && target == domain.InvoicePaid {
			if _, err := s.ledger.PostPayment(ctx, uow, sellerID, invoiceID, invoice.TotalAmount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update invoice",
			slog.String("seller_id", sellerID),
			slog.String("invoice_id", invoiceID))
		return nil, s.Observe("update_invoice", err)
	}

	s.LogInfo(ctx, "Invoice updated successfully",
		slog.String("seller_id", sellerID),
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(invoice.Status)))
	s.Observe("update_invoice", nil)
	return invoice, nil
}

// DeleteInvoice removes a DRAFT invoice.
func (s *invoiceService) DeleteInvoice(ctx context.Context, sellerID, invoiceID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, err := lockInvoiceOrder(ctx, uow, sellerID, invoiceID); err != nil {
			return err
		}
		invoice, err := uow.Invoices().FindInvoiceByIDForUpdate(ctx, sellerID, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.Status.Deletable() {
			return apperrors.NewConflictError(fmt.Sprintf("invoice %s is %s and cannot be deleted", invoiceID, invoice.Status))
		}
		return uow.Invoices().DeleteDraftInvoice(ctx, sellerID, invoiceID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete invoice",
			slog.String("seller_id", sellerID),
			slog.String("invoice_id", invoiceID))
		return s.Observe("delete_invoice", err)
	}

	s.LogInfo(ctx, "Invoice deleted successfully",
		slog.String("seller_id", sellerID),
		slog.String("invoice_id", invoiceID))
	s.Observe("delete_invoice", nil)
	return nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error) {
	var invoice *domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		invoice, err = uow.Invoices().FindInvoiceByID(ctx, sellerID, invoiceID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get invoice",
			slog.String("seller_id", sellerID),
			slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, sellerID string, limit, offset int) ([]domain.Invoice, error) {
	limit, offset = clampPage(limit, offset)
	var invoices []domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		invoices, err = uow.Invoices().ListInvoices(ctx, sellerID, limit, offset)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("seller_id", sellerID))
		return nil, err
	}
	return invoices, nil
}

// lockInvoiceOrder locks the invoice's order ahead of the invoice itself, the
// order UpdateOrder and DeleteOrder take them in. It returns nil for an unlinked invoice.
func lockInvoiceOrder(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, invoiceID string) (*domain.Order, error) {
	current, err := uow.Invoices().FindInvoiceByID(ctx, sellerID, invoiceID)
	if err != nil || current.OrderID == nil {
		return nil, err
	}
	return uow.Orders().FindOrderByIDForUpdate(ctx, sellerID, *current.OrderID)
}
