package dto

import (
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// FinancialSummaryResponse represents the financial summary response
type FinancialSummaryResponse struct {
	FromDate         string          `json:"fromDate,omitempty"`
	ToDate           string          `json:"toDate,omitempty"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
}

// CategoryAmountResponse represents a category with its amount in a financial report
type CategoryAmountResponse struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                   `json:"fromDate"`
	ToDate   string                   `json:"toDate"`
	Income   []CategoryAmountResponse `json:"income"`
	Expenses []CategoryAmountResponse `json:"expenses"`
	Summary  struct {
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                   `json:"asOf"`
	Assets      []CategoryAmountResponse `json:"assets"`
	Liabilities []CategoryAmountResponse `json:"liabilities"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		Equity           decimal.Decimal `json:"equity"`
	} `json:"summary"`
}

// IncomeStatementResponse represents an income statement grouped by period
type IncomeStatementResponse struct {
	FromDate string                         `json:"fromDate"`
	ToDate   string                         `json:"toDate"`
	GroupBy  domain.PeriodGrouping          `json:"groupBy"`
	Periods  []domain.IncomeStatementBucket `json:"periods"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                   `json:"asOf"`
	Rows   []domain.TrialBalanceRow `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// IntegrityResponse lists transaction groups whose debits and credits differ.
type IntegrityResponse struct {
	Balanced   bool                     `json:"balanced"`
	Unbalanced []domain.UnbalancedGroup `json:"unbalanced"`
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(reportDateLayout)
}

func toCategoryAmountResponses(amounts []domain.CategoryAmount) []CategoryAmountResponse {
	out := make([]CategoryAmountResponse, len(amounts))
	for i, a := range amounts {
		out[i] = CategoryAmountResponse{CategoryID: a.CategoryID, Name: a.Name, Amount: a.NetAmount}
	}
	return out
}

// ToFinancialSummaryResponse converts a domain FinancialSummary to a response DTO
func ToFinancialSummaryResponse(s *domain.FinancialSummary, dateRange domain.DateRange) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		FromDate:         formatOptionalDate(dateRange.From),
		ToDate:           formatOptionalDate(dateRange.To),
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		NetProfit:        s.NetProfit,
		TotalAssets:      s.TotalAssets,
		TotalLiabilities: s.TotalLiabilities,
	}
}

// ToProfitAndLossResponse converts a domain PAndLReport to a response DTO
func ToProfitAndLossResponse(report *domain.PAndLReport, from, to time.Time) ProfitAndLossResponse {
	resp := ProfitAndLossResponse{
		FromDate: from.Format(reportDateLayout),
		ToDate:   to.Format(reportDateLayout),
		Income:   toCategoryAmountResponses(report.Income),
		Expenses: toCategoryAmountResponses(report.Expenses),
	}
	resp.Summary.TotalIncome = report.TotalIncome
	resp.Summary.TotalExpenses = report.TotalExpenses
	resp.Summary.NetProfit = report.NetProfit
	return resp
}

// ToBalanceSheetResponse converts a domain BalanceSheetReport to a response DTO
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, asOf time.Time) BalanceSheetResponse {
	resp := BalanceSheetResponse{
		AsOf:        asOf.Format(reportDateLayout),
		Assets:      toCategoryAmountResponses(report.Assets),
		Liabilities: toCategoryAmountResponses(report.Liabilities),
	}
	resp.Summary.TotalAssets = report.TotalAssets
	resp.Summary.TotalLiabilities = report.TotalLiabilities
	resp.Summary.Equity = report.Equity
	return resp
}

// ToIncomeStatementResponse converts a domain IncomeStatement to a response DTO
func ToIncomeStatementResponse(statement *domain.IncomeStatement, from, to time.Time) IncomeStatementResponse {
	return IncomeStatementResponse{
		FromDate: from.Format(reportDateLayout),
		ToDate:   to.Format(reportDateLayout),
		GroupBy:  statement.GroupBy,
		Periods:  statement.Buckets,
	}
}

// ToTrialBalanceResponse converts trial balance rows to a response DTO
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow, asOf time.Time) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf: asOf.Format(reportDateLayout),
		Rows: rows,
	}
	resp.Totals.Debit = decimal.Zero
	resp.Totals.Credit = decimal.Zero
	for _, row := range rows {
		resp.Totals.Debit = resp.Totals.Debit.Add(row.Debit)
		resp.Totals.Credit = resp.Totals.Credit.Add(row.Credit)
	}
	return resp
}
