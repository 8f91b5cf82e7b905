package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/models"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/mapping"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

var _ portsrepo.InvoiceRepository = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, seller_id, customer_id, order_id, language, government_template, status, total_amount, created_at, last_updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var m models.Invoice
	if err := row.Scan(
		&m.InvoiceID,
		&m.SellerID,
		&m.CustomerID,
		&m.OrderID,
		&m.Language,
		&m.GovernmentTemplate,
		&m.Status,
		&m.TotalAmount,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	); err != nil {
		return nil, err
	}
	inv := mapping.ToDomainInvoice(m)
	return &inv, nil
}

// SaveInvoice inserts an invoice. The unique index on order_id turns a second
// invoice for the same order into ErrDuplicate.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (invoice_id, seller_id, customer_id, order_id, language, government_template, status, total_amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.InvoiceID,
		m.SellerID,
		m.CustomerID,
		m.OrderID,
		m.Language,
		m.GovernmentTemplate,
		m.Status,
		m.TotalAmount,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	return mapError(err, "insert invoice "+m.InvoiceID)
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 AND seller_id = $2;`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceID, sellerID))
	if err != nil {
		return nil, mapError(err, "find invoice "+invoiceID)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 AND seller_id = $2 FOR UPDATE;`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceID, sellerID))
	if err != nil {
		return nil, mapError(err, "lock invoice "+invoiceID)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByOrderID(ctx context.Context, sellerID, orderID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1 AND seller_id = $2;`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, orderID, sellerID))
	if err != nil {
		return nil, mapError(err, "find invoice of order "+orderID)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, sellerID string, limit, offset int) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE seller_id = $1 ORDER BY created_at DESC, invoice_id DESC LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, mapError(err, "list invoices")
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, mapError(err, "scan invoice row")
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate invoice rows")
	}
	return invoices, nil
}

// UpdateInvoice writes every mutable column. order_id never changes.
// The status guard makes a write based on a stale read affect no rows.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, expected domain.InvoiceStatus) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET customer_id = $1, language = $2, government_template = $3, status = $4, total_amount = $5, last_updated_at = $6
		WHERE invoice_id = $7 AND seller_id = $8 AND status = $9;
	`
	tag, err := r.db.Exec(ctx, query,
		m.CustomerID,
		m.Language,
		m.GovernmentTemplate,
		m.Status,
		m.TotalAmount,
		m.LastUpdatedAt,
		m.InvoiceID,
		m.SellerID,
		string(expected),
	)
	if err != nil {
		return mapError(err, "update invoice "+m.InvoiceID)
	}
	if tag.RowsAffected() == 0 {
		return r.statusMoved(ctx, m.SellerID, m.InvoiceID, expected)
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteDraftInvoice(ctx context.Context, sellerID, invoiceID string) error {
	query := `DELETE FROM invoices WHERE invoice_id = $1 AND seller_id = $2 AND status = $3;`
	tag, err := r.db.Exec(ctx, query, invoiceID, sellerID, string(domain.InvoiceDraft))
	if err != nil {
		return mapError(err, "delete invoice "+invoiceID)
	}
	if tag.RowsAffected() == 0 {
		return r.statusMoved(ctx, sellerID, invoiceID, domain.InvoiceDraft)
	}
	return nil
}

// statusMoved explains a guarded write that matched no row: NotFound when the
// invoice is gone, Conflict when its status is no longer expected.
func (r *PgxInvoiceRepository) statusMoved(ctx context.Context, sellerID, invoiceID string, expected domain.InvoiceStatus) error {
	current, err := r.FindInvoiceByID(ctx, sellerID, invoiceID)
	if err != nil {
		return err
	}
	return apperrors.NewAppError(apperrors.KindConflict,
		fmt.Sprintf("invoice %s is %s, expected %s", invoiceID, current.Status, expected), apperrors.ErrDuplicate)
}
