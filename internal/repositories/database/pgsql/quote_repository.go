package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/models"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/mapping"
)

type PgxQuoteRepository struct {
	BaseRepository
}

var _ portsrepo.QuoteRepository = (*PgxQuoteRepository)(nil)

const quoteColumns = `quote_id, seller_id, customer_id, order_id, total_estimate, expires_at, status, created_at, last_updated_at`

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var m models.Quote
	if err := row.Scan(
		&m.QuoteID,
		&m.SellerID,
		&m.CustomerID,
		&m.OrderID,
		&m.TotalEstimate,
		&m.ExpiresAt,
		&m.Status,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	); err != nil {
		return nil, err
	}
	q := mapping.ToDomainQuote(m)
	return &q, nil
}

func (r *PgxQuoteRepository) SaveQuote(ctx context.Context, quote domain.Quote) error {
	m := mapping.ToModelQuote(quote)
	query := `
		INSERT INTO quotes (quote_id, seller_id, customer_id, order_id, total_estimate, expires_at, status, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		m.QuoteID,
		m.SellerID,
		m.CustomerID,
		m.OrderID,
		m.TotalEstimate,
		m.ExpiresAt,
		m.Status,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	return mapError(err, "insert quote "+m.QuoteID)
}

func (r *PgxQuoteRepository) FindQuoteByID(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE quote_id = $1 AND seller_id = $2;`
	q, err := scanQuote(r.db.QueryRow(ctx, query, quoteID, sellerID))
	if err != nil {
		return nil, mapError(err, "find quote "+quoteID)
	}
	return q, nil
}

func (r *PgxQuoteRepository) FindQuoteByIDForUpdate(ctx context.Context, sellerID, quoteID string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE quote_id = $1 AND seller_id = $2 FOR UPDATE;`
	q, err := scanQuote(r.db.QueryRow(ctx, query, quoteID, sellerID))
	if err != nil {
		return nil, mapError(err, "lock quote "+quoteID)
	}
	return q, nil
}

func (r *PgxQuoteRepository) FindQuoteByOrderID(ctx context.Context, sellerID, orderID string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE order_id = $1 AND seller_id = $2;`
	q, err := scanQuote(r.db.QueryRow(ctx, query, orderID, sellerID))
	if err != nil {
		return nil, mapError(err, "find quote of order "+orderID)
	}
	return q, nil
}

func (r *PgxQuoteRepository) ListQuotes(ctx context.Context, sellerID string, limit, offset int) ([]domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE seller_id = $1 ORDER BY created_at DESC, quote_id DESC LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, mapError(err, "list quotes")
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, mapError(err, "scan quote row")
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate quote rows")
	}
	return quotes, nil
}

func (r *PgxQuoteRepository) UpdateQuote(ctx context.Context, quote domain.Quote) error {
	m := mapping.ToModelQuote(quote)
	query := `
		UPDATE quotes
		SET customer_id = $1, total_estimate = $2, expires_at = $3, status = $4, last_updated_at = $5
		WHERE quote_id = $6 AND seller_id = $7;
	`
	tag, err := r.db.Exec(ctx, query, m.CustomerID, m.TotalEstimate, m.ExpiresAt, m.Status, m.LastUpdatedAt, m.QuoteID, m.SellerID)
	if err != nil {
		return mapError(err, "update quote "+m.QuoteID)
	}
	return expectOne(tag, "update quote "+m.QuoteID)
}

// LinkQuoteToOrder is a compare-and-swap on order_id: it only matches while the quote is unlinked.
func (r *PgxQuoteRepository) LinkQuoteToOrder(ctx context.Context, sellerID, quoteID, orderID string, updatedAt time.Time) error {
	query := `
		UPDATE quotes
		SET order_id = $1, status = $2, last_updated_at = $3
		WHERE quote_id = $4 AND seller_id = $5 AND order_id IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, orderID, string(domain.QuoteAccepted), updatedAt, quoteID, sellerID)
	if err != nil {
		return mapError(err, "link quote "+quoteID)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindQuoteByID(ctx, sellerID, quoteID); err != nil {
			return err
		}
		return apperrors.NewConflictError("quote " + quoteID + " is already linked")
	}
	return nil
}

func (r *PgxQuoteRepository) DeleteQuote(ctx context.Context, sellerID, quoteID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE quote_id = $1 AND seller_id = $2;`, quoteID, sellerID)
	if err != nil {
		return mapError(err, "delete quote "+quoteID)
	}
	return expectOne(tag, "delete quote "+quoteID)
}
