package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/pagination"
)

func (u *unitOfWork) FindCategoryByID(_ context.Context, sellerID, categoryID string) (*domain.Category, error) {
	c, ok := u.st.categories[categoryID]
	if !ok || c.SellerID != sellerID {
		return nil, notFound("category", categoryID)
	}
	return &c, nil
}

func (u *unitOfWork) FindCategoryByName(_ context.Context, sellerID string, categoryType domain.CategoryType, name string) (*domain.Category, error) {
	for _, c := range u.st.categories {
		if c.SellerID == sellerID && c.Type == categoryType && c.Name == name {
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s category '%s' not found", categoryType, name))
}

func (u *unitOfWork) ListCategories(_ context.Context, sellerID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	result := make([]domain.Category, 0)
	for _, c := range u.st.categories {
		if c.SellerID != sellerID {
			continue
		}
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (u *unitOfWork) SaveCategory(_ context.Context, category domain.Category) error {
	for _, c := range u.st.categories {
		if c.SellerID == category.SellerID && c.Type == category.Type && c.Name == category.Name {
			return apperrors.ErrDuplicate
		}
	}
	if _, exists := u.st.categories[category.CategoryID]; exists {
		return apperrors.ErrDuplicate
	}
	u.st.categories[category.CategoryID] = category
	return nil
}

func (u *unitOfWork) SaveEntries(_ context.Context, entries []domain.LedgerEntry) error {
	for _, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return apperrors.NewValidationError(fmt.Sprintf("ledger entry %s has a negative amount", e.EntryID))
		}
		c, ok := u.st.categories[e.CategoryID]
		if !ok || c.SellerID != e.SellerID {
			return apperrors.NewValidationError(fmt.Sprintf("ledger entry %s references unknown category %s", e.EntryID, e.CategoryID))
		}
	}
	u.st.entries = append(u.st.entries, entries...)
	return nil
}

// ListEntries lists entries by (created_at DESC, entry_id DESC).
func (u *unitOfWork) ListEntries(_ context.Context, sellerID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	var (
		cursorAt  time.Time
		cursorID  string
		hasCursor bool
	)
	if filter.NextToken != nil {
		at, id, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.KindValidation, "invalid nextToken", err)
		}
		cursorAt, cursorID, hasCursor = at, id, true
	}

	matched := make([]domain.LedgerEntry, 0)
	for _, e := range u.st.entries {
		if e.SellerID != sellerID || !filter.DateRange.Contains(e.CreatedAt) {
			continue
		}
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.SourceType != nil && e.SourceType != *filter.SourceType {
			continue
		}
		if filter.SourceID != nil && e.SourceID != *filter.SourceID {
			continue
		}
		if hasCursor && !pagination.After(e.CreatedAt, e.EntryID, cursorAt, cursorID) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	if filter.Limit <= 0 || len(matched) <= filter.Limit {
		return matched, nil, nil
	}
	first := matched[:filter.Limit]
	last := first[len(first)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
	return first, &token, nil
}

// ListReportLines joins entries with their categories, oldest first.
func (u *unitOfWork) ListReportLines(_ context.Context, sellerID string, dateRange domain.DateRange) ([]domain.ReportLine, error) {
	lines := make([]domain.ReportLine, 0)
	for _, e := range u.st.entries {
		if e.SellerID != sellerID || !dateRange.Contains(e.CreatedAt) {
			continue
		}
		c, ok := u.st.categories[e.CategoryID]
		if !ok {
			return nil, apperrors.NewInternalError(fmt.Sprintf("ledger entry %s references missing category %s", e.EntryID, e.CategoryID), nil)
		}
		lines = append(lines, domain.ReportLine{
			CategoryID:         c.CategoryID,
			CategoryName:       c.Name,
			CategoryType:       c.Type,
			TransactionGroupID: e.TransactionGroupID,
			Debit:              e.Debit,
			Credit:             e.Credit,
			CreatedAt:          e.CreatedAt,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].CreatedAt.Before(lines[j].CreatedAt) })
	return lines, nil
}
