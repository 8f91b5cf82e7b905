package repositories

import (
	"context"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
)

// CategoryReader defines read operations for the chart of accounts
type CategoryReader interface {
	// FindCategoryByID returns ErrNotFound when the category does not belong to the seller.
	FindCategoryByID(ctx context.Context, sellerID, categoryID string) (*domain.Category, error)

	// FindCategoryByName looks a category up by its unique (seller, type, name) key.
	FindCategoryByName(ctx context.Context, sellerID string, categoryType domain.CategoryType, name string) (*domain.Category, error)

	// ListCategories lists a seller's categories ordered by type then name; a nil type lists all.
	ListCategories(ctx context.Context, sellerID string, categoryType *domain.CategoryType) ([]domain.Category, error)
}

// CategoryWriter defines write operations for the chart of accounts
type CategoryWriter interface {
	// SaveCategory inserts a category. It returns ErrDuplicate without aborting
	// the surrounding transaction when (seller, type, name) already exists.
	SaveCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepository combines category reads and writes.
type CategoryRepository interface {
	CategoryReader
	CategoryWriter
}

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// ListEntries lists entries newest first. The returned token, when non-nil, fetches the next page.
	ListEntries(ctx context.Context, sellerID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter appends ledger entries. There is no update or delete.
type LedgerWriter interface {
	SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error
}

// LedgerRepository combines ledger reads and writes.
type LedgerRepository interface {
	LedgerReader
	LedgerWriter
}
