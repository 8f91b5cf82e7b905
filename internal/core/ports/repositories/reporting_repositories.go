package repositories

import (
	"context"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// ListReportLines returns every ledger entry of the seller inside the range,
	// joined with its category, oldest first.
	ListReportLines(ctx context.Context, sellerID string, dateRange domain.DateRange) ([]domain.ReportLine, error)
}
