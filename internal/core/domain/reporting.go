package domain

import (
	"github.com/shopspring/decimal"
)

// FinancialSummary is the headline view of a seller's books.
type FinancialSummary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
}

// CategoryAmount is a category with its net amount for financial reports.
type CategoryAmount struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	NetAmount  decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	Income        []CategoryAmount `json:"income"`
	Expenses      []CategoryAmount `json:"expenses"`
	TotalIncome   decimal.Decimal  `json:"totalIncome"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetProfit     decimal.Decimal  `json:"netProfit"`
}

// BalanceSheetReport represents a balance sheet report.
// Equity is derived as TotalAssets - TotalLiabilities.
type BalanceSheetReport struct {
	Assets           []CategoryAmount `json:"assets"`
	Liabilities      []CategoryAmount `json:"liabilities"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	Equity           decimal.Decimal  `json:"equity"`
}

// PeriodGrouping is the calendar granularity of an income statement.
type PeriodGrouping string

const (
	GroupByDay   PeriodGrouping = "day"
	GroupByMonth PeriodGrouping = "month"
	GroupByYear  PeriodGrouping = "year"
)

// Valid reports whether g is a supported grouping.
func (g PeriodGrouping) Valid() bool {
	return g == GroupByDay || g == GroupByMonth || g == GroupByYear
}

// IncomeStatementBucket is one calendar period of an income statement.
type IncomeStatementBucket struct {
	Period    string          `json:"period"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// IncomeStatement is an income statement grouped by calendar period, oldest first.
type IncomeStatement struct {
	GroupBy PeriodGrouping          `json:"groupBy"`
	Buckets []IncomeStatementBucket `json:"buckets"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	CategoryType CategoryType    `json:"categoryType"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// UnbalancedGroup is a transaction group whose debits and credits differ.
type UnbalancedGroup struct {
	TransactionGroupID string          `json:"transactionGroupID"`
	Debit              decimal.Decimal `json:"debit"`
	Credit             decimal.Decimal `json:"credit"`
}
