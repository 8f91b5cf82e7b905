package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// quoteService implements the QuoteSvcFacade interface
type quoteService struct {
	BaseService
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerPosterSvc
}

// NewQuoteService creates a new quote service
func NewQuoteService(txManager portsrepo.TransactionManager, ledger portssvc.LedgerPosterSvc) portssvc.QuoteSvcFacade {
	return &quoteService{
		txManager: txManager,
		ledger:    ledger,
	}
}

var _ portssvc.QuoteSvcFacade = (*quoteService)(nil)

// CreateQuote stores a DRAFT quote and records its estimate as potential income.
func (s *quoteService) CreateQuote(ctx context.Context, sellerID string, req dto.CreateQuoteRequest) (*domain.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("create_quote", err)
	}
	if req.TotalEstimate.IsNegative() {
		return nil, s.Observe("create_quote", apperrors.NewValidationError("totalEstimate must not be negative"))
	}

	var quote domain.Quote
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		now := s.Now()
		quote = domain.Quote{
			QuoteID:       uuid.NewString(),
			SellerID:      sellerID,
			CustomerID:    req.CustomerID,
			TotalEstimate: req.TotalEstimate,
			ExpiresAt:     req.ExpiresAt,
			Status:        domain.QuoteDraft,
			AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := uow.Quotes().SaveQuote(ctx, quote); err != nil {
			return err
		}
		if quote.TotalEstimate.IsPositive() {
			if _, err := s.ledger.PostQuote(ctx, uow, sellerID, quote.QuoteID, quote.TotalEstimate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create quote",
			slog.String("seller_id", sellerID),
			slog.String("customer_id", req.CustomerID))
		return nil, s.Observe("create_quote", err)
	}

	s.LogInfo(ctx, "Quote created successfully",
		slog.String("seller_id", sellerID),
		slog.String("quote_id", quote.QuoteID))
	s.Observe("create_quote", nil)
	return &quote, nil
}

// UpdateQuote applies field changes and a status transition to an unlinked quote.
func (s *quoteService) UpdateQuote(ctx context.Context, sellerID, quoteID string, req dto.UpdateQuoteRequest) (*domain.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("update_quote", err)
	}
	if req.TotalEstimate != nil && req.TotalEstimate.IsNegative() {
		return nil, s.Observe("update_quote", apperrors.NewValidationError("totalEstimate must not be negative"))
	}

	var quote *domain.Quote
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		quote, err = uow.Quotes().FindQuoteByIDForUpdate(ctx, sellerID, quoteID)
		if err != nil {
			return err
		}
		if quote.Linked() {
			return apperrors.NewConflictError(fmt.Sprintf("quote %s is linked to order %s and can no longer change", quoteID, *quote.OrderID))
		}
		if quote.Status == domain.QuoteRejected || quote.Status == domain.QuoteExpired {
			return apperrors.NewConflictError(fmt.Sprintf("quote %s is %s and can no longer change", quoteID, quote.Status))
		}
		if req.Status != nil && *req.Status != quote.Status {
			if !quote.Status.CanTransitionTo(*req.Status) {
				return apperrors.NewConflictError(fmt.Sprintf("quote %s cannot move from %s to %s", quoteID, quote.Status, *req.Status))
			}
			quote.Status = *req.Status
		}
		if req.CustomerID != nil {
			quote.CustomerID = *req.CustomerID
		}
		if req.TotalEstimate != nil && !req.TotalEstimate.Equal(quote.TotalEstimate) {
			// Potential Income follows the estimate of an unlinked quote.
			delta := req.TotalEstimate.Sub(quote.TotalEstimate)
			if _, err := s.ledger.PostQuoteRevision(ctx, uow, sellerID, quoteID, delta); err != nil {
				return err
			}
			quote.TotalEstimate = *req.TotalEstimate
		}
		if req.ExpiresAt != nil {
			expiresAt := req.ExpiresAt.UTC()
			quote.ExpiresAt = &expiresAt
		}
		quote.LastUpdatedAt = s.Now()
		return uow.Quotes().UpdateQuote(ctx, *quote)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update quote",
			slog.String("seller_id", sellerID),
			slog.String("quote_id", quoteID))
		return nil, s.Observe("update_quote", err)
	}

	s.LogInfo(ctx, "Quote updated successfully",
		slog.String("seller_id", sellerID),
		slog.String("quote_id", quoteID),
		slog.String("status", string(quote.Status)))
	s.Observe("update_quote", nil)
	return quote, nil
}

// DeleteQuote removes a quote that has not been converted into an order.
func (s *quoteService) DeleteQuote(ctx context.Context, sellerID, quoteID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		quote, err := uow.Quotes().FindQuoteByIDForUpdate(ctx, sellerID, quoteID)
		if err != nil {
			return err
		}
		if quote.Linked() {
			return apperrors.NewConflictError(fmt.Sprintf("quote %s is linked to order %s and cannot be deleted", quoteID, *quote.OrderID))
		}
		return uow.Quotes().DeleteQuote(ctx, sellerID, quoteID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete quote",
			slog.String("seller_id", sellerID),
			slog.String("quote_id", quoteID))
		return s.Observe("delete_quote", err)
	}

	s.LogInfo(ctx, "Quote deleted successfully",
		slog.String("seller_id", sellerID),
		slog.String("quote_id", quoteID))
	s.Observe("delete_quote", nil)
	return nil
}

func (s *quoteService) GetQuote(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error) {
	var quote *domain.Quote
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		quote, err = uow.Quotes().FindQuoteByID(ctx, sellerID, quoteID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get quote",
			slog.String("seller_id", sellerID),
			slog.String("quote_id", quoteID))
		return nil, err
	}
	return quote, nil
}

func (s *quoteService) ListQuotes(ctx context.Context, sellerID string, limit, offset int) ([]domain.Quote, error) {
	limit, offset = clampPage(limit, offset)
	var quotes []domain.Quote
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		quotes, err = uow.Quotes().ListQuotes(ctx, sellerID, limit, offset)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list quotes", slog.String("seller_id", sellerID))
		return nil, err
	}
	return quotes, nil
}
