package mapping

import (
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/models"
)

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		SellerID:    d.SellerID,
		Name:        d.Name,
		Type:        string(d.Type),
		ParentID:    d.ParentID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		SellerID:    m.SellerID,
		Name:        m.Name,
		Type:        domain.CategoryType(m.Type),
		ParentID:    m.ParentID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:            d.EntryID,
		SellerID:           d.SellerID,
		Debit:              d.Debit,
		Credit:             d.Credit,
		CategoryID:         d.CategoryID,
		SourceType:         string(d.SourceType),
		SourceID:           d.SourceID,
		TransactionGroupID: d.TransactionGroupID,
		Description:        d.Description,
		CreatedAt:          d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:            m.EntryID,
		SellerID:           m.SellerID,
		Debit:              m.Debit,
		Credit:             m.Credit,
		CategoryID:         m.CategoryID,
		SourceType:         domain.SourceType(m.SourceType),
		SourceID:           m.SourceID,
		TransactionGroupID: m.TransactionGroupID,
		Description:        m.Description,
		CreatedAt:          m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
