package services

import (
	"context"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
	"github.com/shopspring/decimal"
)

// CategoryRegistrySvc resolves chart-of-accounts entries inside a caller's unit of work.
type CategoryRegistrySvc interface {
	// FindOrCreate returns the (seller, type, name) category, creating it when absent.
	FindOrCreate(ctx context.Context, uow portsrepo.UnitOfWork, sellerID string, categoryType domain.CategoryType, name string) (*domain.Category, error)
}

// CategorySvcFacade combines the registry with the standalone category operations.
type CategorySvcFacade interface {
	CategoryRegistrySvc

	// CreateCategory adds a category to the seller's chart of accounts.
	CreateCategory(ctx context.Context, sellerID string, req dto.CreateCategoryRequest) (*domain.Category, error)

	// ListCategories lists the seller's categories, optionally by type.
	ListCategories(ctx context.Context, sellerID string, categoryType *domain.CategoryType) ([]domain.Category, error)
}

// PostPairParams describes one balanced debit/credit posting.
type PostPairParams struct {
	SellerID         string
	SourceType       domain.SourceType
	SourceID         string
	Amount           decimal.Decimal
	DebitCategoryID  string
	CreditCategoryID string
	Description      string
}

// LedgerPosterSvc posts balanced entry pairs inside a caller's unit of work.
// None of its methods commit.
type LedgerPosterSvc interface {
	PostPair(ctx context.Context, uow portsrepo.UnitOfWork, params PostPairParams) ([2]domain.LedgerEntry, error)

	// PostQuote debits Accounts Receivable and credits Potential Income.
	PostQuote(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, quoteID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error)

	// PostQuoteRevision moves a quote's Potential Income by delta. A negative delta
	// debits Potential Income and credits Accounts Receivable.
	PostQuoteRevision(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, quoteID string, delta decimal.Decimal) ([2]domain.LedgerEntry, error)

	// PostOrder debits Accounts Receivable and credits Sales Income.
	PostOrder(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, orderID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error)

	// PostInvoice debits Accounts Receivable and credits Invoice Revenue.
	PostInvoice(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, invoiceID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error)

	// PostPayment debits Cash and credits Accounts Receivable.
	PostPayment(ctx context.Context, uow portsrepo.UnitOfWork, sellerID, invoiceID string, amount decimal.Decimal) ([2]domain.LedgerEntry, error)
}

// LedgerSvcFacade combines posting with the standalone ledger operations.
type LedgerSvcFacade interface {
	LedgerPosterSvc

	// PostManual posts a caller-described adjustment or expense in its own unit of work.
	PostManual(ctx context.Context, sellerID string, req dto.CreateManualEntryRequest) ([2]domain.LedgerEntry, error)

	// GetEntries lists ledger entries newest first.
	GetEntries(ctx context.Context, sellerID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error)
}

// ReportingService defines the financial reports computed from the ledger
type ReportingService interface {
	FinancialSummary(ctx context.Context, sellerID string, dateRange domain.DateRange) (*domain.FinancialSummary, error)
	ProfitAndLoss(ctx context.Context, sellerID string, from, to time.Time) (*domain.PAndLReport, error)
	BalanceSheet(ctx context.Context, sellerID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, sellerID string, from, to time.Time, groupBy domain.PeriodGrouping) (*domain.IncomeStatement, error)
	TrialBalance(ctx context.Context, sellerID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// UnbalancedGroups returns every transaction group whose debits and credits differ.
	UnbalancedGroups(ctx context.Context, sellerID string) ([]domain.UnbalancedGroup, error)
}
