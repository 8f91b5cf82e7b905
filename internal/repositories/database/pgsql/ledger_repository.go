package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/models"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/mapping"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/pagination"
)

type PgxCategoryRepository struct {
	BaseRepository
}

var _ portsrepo.CategoryRepository = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, seller_id, name, type, parent_id, created_at, last_updated_at`

func scanCategory(row pgx.Row) (models.Category, error) {
	var m models.Category
	err := row.Scan(&m.CategoryID, &m.SellerID, &m.Name, &m.Type, &m.ParentID, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, sellerID, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND seller_id = $2;`
	m, err := scanCategory(r.db.QueryRow(ctx, query, categoryID, sellerID))
	if err != nil {
		return nil, mapError(err, "find category "+categoryID)
	}
	c := mapping.ToDomainCategory(m)
	return &c, nil
}

func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, sellerID string, categoryType domain.CategoryType, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE seller_id = $1 AND type = $2 AND name = $3;`
	m, err := scanCategory(r.db.QueryRow(ctx, query, sellerID, string(categoryType), name))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find %s category '%s'", categoryType, name))
	}
	c := mapping.ToDomainCategory(m)
	return &c, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, sellerID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE seller_id = $1`
	args := []any{sellerID}
	if categoryType != nil {
		query += ` AND type = $2`
		args = append(args, string(*categoryType))
	}
	query += ` ORDER BY type, name;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list categories")
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, mapError(err, "scan category row")
		}
		categories = append(categories, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate category rows")
	}
	return categories, nil
}

// SaveCategory inserts with ON CONFLICT DO NOTHING so a lost race leaves the
// transaction usable; the caller re-reads the winning row.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO categories (category_id, seller_id, name, type, parent_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (seller_id, type, name) DO NOTHING;
	`
	tag, err := r.db.Exec(ctx, query, m.CategoryID, m.SellerID, m.Name, m.Type, m.ParentID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return mapError(err, "insert category "+m.Name)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDuplicate
	}
	return nil
}

type PgxLedgerRepository struct {
	BaseRepository
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// SaveEntries inserts entries in one batch.
func (r *PgxLedgerRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO ledger_entries (entry_id, seller_id, debit, credit, category_id, source_type, source_id, transaction_group_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(query,
			m.EntryID,
			m.SellerID,
			m.Debit,
			m.Credit,
			m.CategoryID,
			m.SourceType,
			m.SourceID,
			m.TransactionGroupID,
			m.Description,
			m.CreatedAt,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapError(err, "insert ledger entries for group "+entries[0].TransactionGroupID)
	}
	return nil
}

// ListEntries lists entries ordered by (created_at DESC, entry_id DESC). One extra row is
// fetched to decide whether a next page exists.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, sellerID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var (
		conditions = []string{"seller_id = $1"}
		args       = []any{sellerID}
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.To))
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = "+arg(*filter.CategoryID))
	}
	if filter.SourceType != nil {
		conditions = append(conditions, "source_type = "+arg(string(*filter.SourceType)))
	}
	if filter.SourceID != nil {
		conditions = append(conditions, "source_id = "+arg(*filter.SourceID))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.KindValidation, "invalid nextToken", err)
		}
		// Tuple comparison keeps the cursor stable for entries sharing a timestamp.
		conditions = append(conditions, fmt.Sprintf("(created_at, entry_id) < (%s, %s)", arg(cursorAt), arg(cursorID)))
	}

	query := `
		SELECT entry_id, seller_id, debit, credit, category_id, source_type, source_id, transaction_group_id, description, created_at
		FROM ledger_entries
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, entry_id DESC
		LIMIT ` + arg(limit+1) + `;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "list ledger entries")
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, limit+1)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.SellerID,
			&m.Debit,
			&m.Credit,
			&m.CategoryID,
			&m.SourceType,
			&m.SourceID,
			&m.TransactionGroupID,
			&m.Description,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, mapError(err, "scan ledger entry row")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "iterate ledger entry rows")
	}

	var nextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextToken = &token
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nextToken, nil
}
