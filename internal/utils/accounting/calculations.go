package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the net effect of a debit/credit pair on a category of the given type.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/INCOME -> Positive (+)
func SignedAmount(categoryType domain.CategoryType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch categoryType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Income:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown category type '%s'", categoryType)
	}
}

// Summarize accumulates report lines into a FinancialSummary.
func Summarize(lines []domain.ReportLine) (domain.FinancialSummary, error) {
	summary := domain.FinancialSummary{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for _, line := range lines {
		amount, err := SignedAmount(line.CategoryType, line.Debit, line.Credit)
		if err != nil {
			return domain.FinancialSummary{}, err
		}
		switch line.CategoryType {
		case domain.Income:
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		case domain.Expense:
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		case domain.Asset:
			summary.TotalAssets = summary.TotalAssets.Add(amount)
		case domain.Liability:
			summary.TotalLiabilities = summary.TotalLiabilities.Add(amount)
		}
	}
	summary.NetProfit = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary, nil
}

// GroupByCategory nets the lines of one category type per category, sorted by name.
// The second return value is the total across the returned categories.
func GroupByCategory(lines []domain.ReportLine, categoryType domain.CategoryType) ([]domain.CategoryAmount, decimal.Decimal, error) {
	byID := make(map[string]*domain.CategoryAmount)
	total := decimal.Zero
	for _, line := range lines {
		if line.CategoryType != categoryType {
			continue
		}
		amount, err := SignedAmount(line.CategoryType, line.Debit, line.Credit)
		if err != nil {
			return nil, decimal.Zero, err
		}
		entry, ok := byID[line.CategoryID]
		if !ok {
			entry = &domain.CategoryAmount{CategoryID: line.CategoryID, Name: line.CategoryName, NetAmount: decimal.Zero}
			byID[line.CategoryID] = entry
		}
		entry.NetAmount = entry.NetAmount.Add(amount)
		total = total.Add(amount)
	}

	result := make([]domain.CategoryAmount, 0, len(byID))
	for _, entry := range byID {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].CategoryID < result[j].CategoryID
	})
	return result, total, nil
}

// PeriodLabel truncates t (in UTC) to the grouping and formats it as a sortable label.
func PeriodLabel(t time.Time, groupBy domain.PeriodGrouping) (string, error) {
	t = t.UTC()
	switch groupBy {
	case domain.GroupByDay:
		return t.Format("2006-01-02"), nil
	case domain.GroupByMonth:
		return t.Format("2006-01"), nil
	case domain.GroupByYear:
		return t.Format("2006"), nil
	default:
		return "", fmt.Errorf("unsupported grouping '%s'", groupBy)
	}
}

// IncomeStatementBuckets groups INCOME and EXPENSE lines into calendar buckets, ascending by label.
// Buckets with no income or expense lines are omitted.
func IncomeStatementBuckets(lines []domain.ReportLine, groupBy domain.PeriodGrouping) ([]domain.IncomeStatementBucket, error) {
	buckets := make(map[string]*domain.IncomeStatementBucket)
	for _, line := range lines {
		if line.CategoryType != domain.Income && line.CategoryType != domain.Expense {
			continue
		}
		label, err := PeriodLabel(line.CreatedAt, groupBy)
		if err != nil {
			return nil, err
		}
		amount, err := SignedAmount(line.CategoryType, line.Debit, line.Credit)
		if err != nil {
			return nil, err
		}
		bucket, ok := buckets[label]
		if !ok {
			bucket = &domain.IncomeStatementBucket{Period: label, Income: decimal.Zero, Expenses: decimal.Zero}
			buckets[label] = bucket
		}
		if line.CategoryType == domain.Income {
			bucket.Income = bucket.Income.Add(amount)
		} else {
			bucket.Expenses = bucket.Expenses.Add(amount)
		}
	}

	result := make([]domain.IncomeStatementBucket, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.NetProfit = bucket.Income.Sub(bucket.Expenses)
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Period < result[j].Period })
	return result, nil
}

// TrialBalance sums raw debits and credits per category, ordered by type then name.
func TrialBalance(lines []domain.ReportLine) []domain.TrialBalanceRow {
	byID := make(map[string]*domain.TrialBalanceRow)
	for _, line := range lines {
		row, ok := byID[line.CategoryID]
		if !ok {
			row = &domain.TrialBalanceRow{
				CategoryID:   line.CategoryID,
				CategoryName: line.CategoryName,
				CategoryType: line.CategoryType,
				Debit:        decimal.Zero,
				Credit:       decimal.Zero,
			}
			byID[line.CategoryID] = row
		}
		row.Debit = row.Debit.Add(line.Debit)
		row.Credit = row.Credit.Add(line.Credit)
	}

	rows := make([]domain.TrialBalanceRow, 0, len(byID))
	for _, row := range byID {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CategoryType != rows[j].CategoryType {
			return rows[i].CategoryType < rows[j].CategoryType
		}
		return rows[i].CategoryName < rows[j].CategoryName
	})
	return rows
}

// UnbalancedGroups returns the transaction groups whose debits and credits differ.
func UnbalancedGroups(lines []domain.ReportLine) []domain.UnbalancedGroup {
	type sums struct{ debit, credit decimal.Decimal }
	groups := make(map[string]*sums)
	order := make([]string, 0)
	for _, line := range lines {
		g, ok := groups[line.TransactionGroupID]
		if !ok {
			g = &sums{debit: decimal.Zero, credit: decimal.Zero}
			groups[line.TransactionGroupID] = g
			order = append(order, line.TransactionGroupID)
		}
		g.debit = g.debit.Add(line.Debit)
		g.credit = g.credit.Add(line.Credit)
	}

	unbalanced := make([]domain.UnbalancedGroup, 0)
	for _, id := range order {
		g := groups[id]
		if !g.debit.Equal(g.credit) {
			unbalanced = append(unbalanced, domain.UnbalancedGroup{TransactionGroupID: id, Debit: g.debit, Credit: g.credit})
		}
	}
	return unbalanced
}
