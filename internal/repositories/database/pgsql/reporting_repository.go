package pgsql

import (
	"context"
	"strconv"
	"strings"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
)

// PgxReportingRepository implements the ReportingRepository interface
type PgxReportingRepository struct {
	BaseRepository
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// ListReportLines retrieves the seller's ledger entries joined with their categories
func (r *PgxReportingRepository) ListReportLines(ctx context.Context, sellerID string, dateRange domain.DateRange) ([]domain.ReportLine, error) {
	conditions := []string{"e.seller_id = $1"}
	args := []any{sellerID}
	if dateRange.From != nil {
		args = append(args, *dateRange.From)
		conditions = append(conditions, "e.created_at >= $"+strconv.Itoa(len(args)))
	}
	if dateRange.To != nil {
		args = append(args, *dateRange.To)
		conditions = append(conditions, "e.created_at <= $"+strconv.Itoa(len(args)))
	}

	query := `
		SELECT
			c.category_id,
			c.name,
			c.type,
			e.transaction_group_id,
			e.debit,
			e.credit,
			e.created_at
		FROM ledger_entries e
		JOIN categories c ON c.category_id = e.category_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY e.created_at, e.entry_id;
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query report lines")
	}
	defer rows.Close()

	lines := make([]domain.ReportLine, 0)
	for rows.Next() {
		var (
			line         domain.ReportLine
			categoryType string
		)
		if err := rows.Scan(
			&line.CategoryID,
			&line.CategoryName,
			&categoryType,
			&line.TransactionGroupID,
			&line.Debit,
			&line.Credit,
			&line.CreatedAt,
		); err != nil {
			return nil, mapError(err, "scan report line")
		}
		line.CategoryType = domain.CategoryType(categoryType)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate report lines")
	}
	return lines, nil
}
