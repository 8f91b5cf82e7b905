package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewReportingService creates a new reporting service
func NewReportingService(txManager portsrepo.TransactionManager) portssvc.ReportingService {
	return &reportingService{txManager: txManager}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// loadLines reads every report line of the seller inside dateRange.
func (s *reportingService) loadLines(ctx context.Context, sellerID string, dateRange domain.DateRange) ([]domain.ReportLine, error) {
	if dateRange.From != nil && dateRange.To != nil && dateRange.From.After(*dateRange.To) {
		return nil, apperrors.NewValidationError("'from' must not be after 'to'")
	}
	var lines []domain.ReportLine
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		lines, err = uow.Reporting().ListReportLines(ctx, sellerID, dateRange)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func accumulationError(err error) error {
	return apperrors.NewInternalError("failed to accumulate ledger entries", err)
}

// FinancialSummary totals the seller's books by category type.
func (s *reportingService) FinancialSummary(ctx context.Context, sellerID string, dateRange domain.DateRange) (*domain.FinancialSummary, error) {
	lines, err := s.loadLines(ctx, sellerID, dateRange)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to retrieve financial summary data", slog.String("seller_id", sellerID))
		return nil, err
	}

	summary, err := accounting.Summarize(lines)
	if err != nil {
		return nil, accumulationError(err)
	}

	s.LogInfo(ctx, "Financial summary generated successfully",
		slog.String("seller_id", sellerID),
		slog.Int("line_count", len(lines)))
	return &summary, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, sellerID string, from, to time.Time) (*domain.PAndLReport, error) {
	lines, err := s.loadLines(ctx, sellerID, domain.DateRange{From: &from, To: &to})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to retrieve profit and loss data",
			slog.String("seller_id", sellerID),
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, err
	}

	income, totalIncome, err := accounting.GroupByCategory(lines, domain.Income)
	if err != nil {
		return nil, accumulationError(err)
	}
	expenses, totalExpenses, err := accounting.GroupByCategory(lines, domain.Expense)
	if err != nil {
		return nil, accumulationError(err)
	}

	report := &domain.PAndLReport{
		Income:        income,
		Expenses:      expenses,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetProfit:     totalIncome.Sub(totalExpenses),
	}

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("seller_id", sellerID),
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("income_categories", len(income)),
		slog.Int("expense_categories", len(expenses)))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, sellerID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	lines, err := s.loadLines(ctx, sellerID, domain.DateRange{To: &asOf})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to retrieve balance sheet data",
			slog.String("seller_id", sellerID),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, err
	}

	assets, totalAssets, err := accounting.GroupByCategory(lines, domain.Asset)
	if err != nil {
		return nil, accumulationError(err)
	}
	liabilities, totalLiabilities, err := accounting.GroupByCategory(lines, domain.Liability)
	if err != nil {
		return nil, accumulationError(err)
	}

	report := &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		Equity:           totalAssets.Sub(totalLiabilities),
	}

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("seller_id", sellerID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("asset_categories", len(assets)),
		slog.Int("liability_categories", len(liabilities)))
	return report, nil
}

// IncomeStatement groups income and expenses into calendar buckets.
func (s *reportingService) IncomeStatement(ctx context.Context, sellerID string, from, to time.Time, groupBy domain.PeriodGrouping) (*domain.IncomeStatement, error) {
	if !groupBy.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("groupBy must be one of day, month or year, got '%s'", groupBy))
	}
	lines, err := s.loadLines(ctx, sellerID, domain.DateRange{From: &from, To: &to})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to retrieve income statement data",
			slog.String("seller_id", sellerID),
			slog.String("group_by", string(groupBy)))
		return nil, err
	}

	buckets, err := accounting.IncomeStatementBuckets(lines, groupBy)
	if err != nil {
		return nil, accumulationError(err)
	}

	s.LogInfo(ctx, "Income statement generated successfully",
		slog.String("seller_id", sellerID),
		slog.String("group_by", string(groupBy)),
		slog.Int("bucket_count", len(buckets)))
	return &domain.IncomeStatement{GroupBy: groupBy, Buckets: buckets}, nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, sellerID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	lines, err := s.loadLines(ctx, sellerID, domain.DateRange{To: &asOf})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to retrieve trial balance data",
			slog.String("seller_id", sellerID),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, err
	}

	rows := accounting.TrialBalance(lines)
	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("seller_id", sellerID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

// UnbalancedGroups returns every transaction group whose debits and credits differ.
func (s *reportingService) UnbalancedGroups(ctx context.Context, sellerID string) ([]domain.UnbalancedGroup, error) {
	lines, err := s.loadLines(ctx, sellerID, domain.DateRange{})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to retrieve ledger integrity data", slog.String("seller_id", sellerID))
		return nil, err
	}

	groups := accounting.UnbalancedGroups(lines)
	if len(groups) > 0 {
		s.LogWarn(ctx, fmt.Errorf("%d unbalanced transaction groups", len(groups)),
			"Ledger integrity check found unbalanced groups",
			slog.String("seller_id", sellerID))
	}
	return groups, nil
}
