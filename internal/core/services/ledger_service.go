package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/pagination"
)

const (
	defaultEntriesLimit = 50
	maxEntriesLimit     = 500
)

// categoryRef names a well-known category the posting helpers resolve on demand.
type categoryRef struct {
	categoryType domain.CategoryType
	name         string
}

var (
	accountsReceivable = categoryRef{domain.Asset, domain.CategoryAccountsReceivable}
	cash               = categoryRef{domain.Asset, domain.CategoryCash}
	potentialIncome    = categoryRef{domain.Income, domain.CategoryPotentialIncome}
	salesIncome        = categoryRef{domain.Income, domain.CategorySalesIncome}
	invoiceRevenue     = categoryRef{domain.Income, domain.CategoryInvoiceRevenue}
)

// ledgerService posts balanced entry pairs and lists them.
type ledgerService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	categories portssvc.CategoryRegistrySvc
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock overrides the clock used to stamp entries.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service. txManager backs the standalone
// operations; postings made inside a document transaction use the caller's unit of work.
func NewLedgerService(txManager portsrepo.TransactionManager, categories portssvc.CategoryRegistrySvc, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		txManager:  txManager,
		categories: categories,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostPair writes one debit and one credit entry for the same amount under a new transaction group.
func (s *ledgerService) PostPair(ctx context.Context, uow portsrepo.UnitOfWork, params portssvc.PostPairParams) ([2]domain.LedgerEntry, error) {
	var pair [2]domain.LedgerEntry
	if params.Amount.IsNegative() {
		return pair, apperrors.NewValidationError(fmt.Sprintf("ledger amount must not be negative, got %s", params.Amount))
	}
	if params.DebitCategoryID == "" || params.CreditCategoryID == "" {
		return pair, apperrors.NewValidationError("debit and credit categories are required")
	}

	groupID := uuid.NewString()
	now := s.Now()
	pair[0] = domain.LedgerEntry{
		EntryID:            uuid.NewString(),
		SellerID:           params.SellerID,
		Debit:              params.Amount,
		Credit:             decimal.Zero,
		CategoryID:         params.DebitCategoryID,
		SourceType:         params.SourceType,
		SourceID:           params.SourceID,
		TransactionGroupID: groupID,
		Description:        params.Description,
		CreatedAt:          now,
	}
	pair[1] = domain.LedgerEntry{
		EntryID:            uuid.NewString(),
		SellerID:           params.SellerID,
		Debit:              decimal.Zero,
		Credit:             params.Amount,
		CategoryID:         params.CreditCategoryID,
		SourceType:         params.SourceType,
		SourceID:           params.SourceID,
		TransactionGroupID: groupID,
		Description:        params.Description,
		CreatedAt:          now,
	}

	if err := uow.Ledger().SaveEntries(ctx, pair[:]); err != nil {
		return [2]domain.LedgerEntry{}, err
	}

	s.LogDebug(ctx, "Ledger pair posted",
		slog.String("seller_id", params.SellerID),
		slog.String("source_type", string(params.SourceType)),
		slog.String("source_id", params.SourceID),
		slog.String("transaction_group_id", groupID),
		slog.String("amount", params.Amount.String()))
	return pair, nil
}

func (s *ledgerService) postBetween(ctx context.Context, uow portsrepo.UnitOfWork, sellerID string, sourceType domain.SourceType, sourceID string, amount decimal.Decimal, debit, credit categoryRef, description string) ([2]domain.LedgerEntry, error) {
	debitCategory, err := s.categories.FindOrCreate(ctx, uow, sellerID, debit.categoryType, debit.name)
	if err != nil {
		return [2]domain.LedgerEntry{}, err
	}
	creditCategory, err := s.categories.FindOrCreate(ctx, uow, sellerID, credit.categoryType, credit.name)
	if err != nil {
		return [2]domain.LedgerEntry{}, err
	}
	return s.PostPair(ctx, uow, portssvc.PostPairParams{
		SellerID:         sellerID,
		SourceType:       sourceType,
		SourceID:         sourceID,
		Amount:           amount,
		DebitCategoryID:  debitCategory.CategoryID,
		CreditCategoryID: creditCategory.CategoryID,
		Description:      description,
	})
}

func (s *ledgerService) PostQuote(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, quoteID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error) {
	return s.postBetween(ctx, uow, sellerID, domain.SourceQuote, quoteID, amount,
		accountsReceivable, potentialIncome, "Quote "+quoteID)
}

func (s *ledgerService) PostQuoteRevision(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, quoteID string, delta decimal.Decimal) ([2]domain.LedgerEntry, error) {
	description := "Quote " + quoteID + " estimate revised"
	if delta.IsNegative() {
		return s.postBetween(ctx, uow, sellerID, domain.SourceQuote, quoteID, delta.Neg(),
			potentialIncome, accountsReceivable, description)
	}
	return s.postBetween(ctx, uow, sellerID, domain.SourceQuote, quoteID, delta,
		accountsReceivable, potentialIncome, description)
}

func (s *ledgerService) PostOrder(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, orderID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error) {
	return s.postBetween(ctx, uow, sellerID, domain.SourceOrder, orderID, amount,
		accountsReceivable, salesIncome, "Order "+orderID)
}

func (s *ledgerService) PostInvoice(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, invoiceID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error) {
	return s.postBetween(ctx, uow, sellerID, domain.SourceInvoice, invoiceID, amount,
		accountsReceivable, invoiceRevenue, "Invoice "+invoiceID+" issued")
}

func (s *ledgerService) PostPayment(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, invoiceID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error) {
	return s.postBetween(ctx, uow, sellerID, domain.SourcePayment, invoiceID, amount,
		cash, accountsReceivable, "Payment for invoice "+invoiceID)
}

// PostManual posts a caller-described adjustment or expense between two existing categories.
func (s *ledgerService) PostManual(ctx context.Context, sellerID string, req dto.CreateManualEntryRequest) ([2]domain.LedgerEntry, error) {
	var pair [2]domain.LedgerEntry
	if err := validateRequest(req); err != nil {
		return pair, s.Observe("post_manual", err)
	}
	if !req.DebitAmount.Equal(req.CreditAmount) {
		return pair, s.Observe("post_manual", apperrors.NewValidationError(
			fmt.Sprintf("debit amount %s does not match credit amount %s", req.DebitAmount, req.CreditAmount)))
	}
	if !req.DebitAmount.IsPositive() {
		return pair, s.Observe("post_manual", apperrors.NewValidationError("amount must be greater than zero"))
	}
	if req.SourceType != domain.SourceAdjustment && req.SourceType != domain.SourceExpense {
		return pair, s.Observe("post_manual", apperrors.NewValidationError(
			fmt.Sprintf("manual entries must be %s or %s", domain.SourceAdjustment, domain.SourceExpense)))
	}

	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		categories := uow.Categories()
		if _, err := categories.FindCategoryByID(ctx, sellerID, req.DebitCategoryID); err != nil {
			return err
		}
		if _, err := categories.FindCategoryByID(ctx, sellerID, req.CreditCategoryID); err != nil {
			return err
		}
		var err error
		pair, err = s.PostPair(ctx, uow, portssvc.PostPairParams{
			SellerID:         sellerID,
			SourceType:       req.SourceType,
			SourceID:         sourceID,
			Amount:           req.DebitAmount,
			DebitCategoryID:  req.DebitCategoryID,
			CreditCategoryID: req.CreditCategoryID,
			Description:      req.Description,
		})
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post manual entry",
			slog.String("seller_id", sellerID),
			slog.String("source_type", string(req.SourceType)))
		return [2]domain.LedgerEntry{}, s.Observe("post_manual", err)
	}

	s.LogInfo(ctx, "Manual entry posted successfully",
		slog.String("seller_id", sellerID),
		slog.String("transaction_group_id", pair[0].TransactionGroupID))
	s.Observe("post_manual", nil)
	return pair, nil
}

// GetEntries lists ledger entries newest first.
func (s *ledgerService) GetEntries(ctx context.Context, sellerID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultEntriesLimit
	}
	if filter.Limit > maxEntriesLimit {
		filter.Limit = maxEntriesLimit
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, nil, apperrors.NewValidationError("'from' must not be after 'to'")
	}
	if filter.SourceType != nil && !filter.SourceType.Valid() {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown source type '%s'", *filter.SourceType))
	}
	filter.NextToken = normalizeOptional(filter.NextToken)
	if filter.NextToken != nil {
		if _, _, err := pagination.DecodeToken(*filter.NextToken); err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
	}

	var (
		entries   []domain.LedgerEntry
		nextToken *string
	)
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		entries, nextToken, err = uow.Ledger().ListEntries(ctx, sellerID, filter)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("seller_id", sellerID))
		return nil, nil, err
	}
	return entries, nextToken, nil
}
