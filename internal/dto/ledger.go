package dto

import (
	"time"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest defines the data needed to add a category to the chart of accounts.
type CreateCategoryRequest struct {
	Name     string              `json:"name" binding:"required,max=255"`
	Type     domain.CategoryType `json:"type" binding:"required,oneof=INCOME EXPENSE ASSET LIABILITY"`
	ParentID *string             `json:"parentID" binding:"omitempty,min=1"`
}

// ListCategoriesParams filters a category listing.
type ListCategoriesParams struct {
	Type *domain.CategoryType `form:"type" binding:"omitempty,oneof=INCOME EXPENSE ASSET LIABILITY"`
}

// CategoryResponse is the API view of a category.
type CategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Name       string              `json:"name"`
	Type       domain.CategoryType `json:"type"`
	ParentID   *string             `json:"parentID,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Type:       c.Type,
		ParentID:   c.ParentID,
		CreatedAt:  c.CreatedAt,
	}
}

func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}

// CreateManualEntryRequest defines a manually posted adjustment or expense.
// DebitAmount and CreditAmount must be equal.
type CreateManualEntryRequest struct {
	DebitCategoryID  string            `json:"debitCategoryID" binding:"required"`
	CreditCategoryID string            `json:"creditCategoryID" binding:"required,nefield=DebitCategoryID"`
	DebitAmount      decimal.Decimal   `json:"debitAmount"`
	CreditAmount     decimal.Decimal   `json:"creditAmount"`
	SourceType       domain.SourceType `json:"sourceType" binding:"required,oneof=ADJUSTMENT EXPENSE"`
	SourceID         string            `json:"sourceID" binding:"max=64"`
	Description      string            `json:"description" binding:"required,max=500"`
}

// ListEntriesParams defines query parameters for listing ledger entries.
type ListEntriesParams struct {
	From       string             `form:"from"`
	To         string             `form:"to"`
	CategoryID *string            `form:"categoryID"`
	SourceType *domain.SourceType `form:"sourceType" binding:"omitempty,oneof=QUOTE ORDER INVOICE PAYMENT ADJUSTMENT EXPENSE"`
	SourceID   *string            `form:"sourceID"`
	Limit      int                `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken  *string            `form:"nextToken"`
}

// LedgerEntryResponse is the API view of a ledger entry.
type LedgerEntryResponse struct {
	EntryID            string            `json:"entryID"`
	Debit              decimal.Decimal   `json:"debit"`
	Credit             decimal.Decimal   `json:"credit"`
	CategoryID         string            `json:"categoryID"`
	SourceType         domain.SourceType `json:"sourceType"`
	SourceID           string            `json:"sourceID"`
	TransactionGroupID string            `json:"transactionGroupID"`
	Description        string            `json:"description"`
	CreatedAt          time.Time         `json:"createdAt"`
}

// ListEntriesResponse wraps a page of ledger entries.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:            e.EntryID,
		Debit:              e.Debit,
		Credit:             e.Credit,
		CategoryID:         e.CategoryID,
		SourceType:         e.SourceType,
		SourceID:           e.SourceID,
		TransactionGroupID: e.TransactionGroupID,
		Description:        e.Description,
		CreatedAt:          e.CreatedAt,
	}
}

func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out
}
