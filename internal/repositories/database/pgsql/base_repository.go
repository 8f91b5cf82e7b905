package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/platform/metrics"
)

const storeLabel = "postgres"

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db pgxQuerier
}

// TransactionManager opens units of work on a pgx pool.
type TransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a TransactionManager over pool.
func NewTransactionManager(pool *pgxpool.Pool) *TransactionManager {
	return &TransactionManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*TransactionManager)(nil)

// WithinTransaction runs fn in a READ COMMITTED transaction. Rows that must not change
// underneath fn are locked explicitly by the FOR UPDATE finders.
func (m *TransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			metrics.UnitsOfWork.WithLabelValues(storeLabel, "rollback").Inc()
			panic(p)
		}
	}()

	if err = fn(ctx, newUnitOfWork(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, apperrors.NewInternalError("failed to rollback transaction", rbErr))
		}
		metrics.UnitsOfWork.WithLabelValues(storeLabel, "rollback").Inc()
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		metrics.UnitsOfWork.WithLabelValues(storeLabel, "rollback").Inc()
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	metrics.UnitsOfWork.WithLabelValues(storeLabel, "commit").Inc()
	return nil
}

// unitOfWork hands out repositories bound to one transaction.
type unitOfWork struct {
	categories *PgxCategoryRepository
	ledger     *PgxLedgerRepository
	reporting  *PgxReportingRepository
	quotes     *PgxQuoteRepository
	orders     *PgxOrderRepository
	cartItems  *PgxCartItemRepository
	invoices   *PgxInvoiceRepository
	catalog    *PgxCatalogRepository
}

func newUnitOfWork(db pgxQuerier) *unitOfWork {
	base := BaseRepository{db: db}
	return &unitOfWork{
		categories: &PgxCategoryRepository{BaseRepository: base},
		ledger:     &PgxLedgerRepository{BaseRepository: base},
		reporting:  &PgxReportingRepository{BaseRepository: base},
		quotes:     &PgxQuoteRepository{BaseRepository: base},
		orders:     &PgxOrderRepository{BaseRepository: base},
		cartItems:  &PgxCartItemRepository{BaseRepository: base},
		invoices:   &PgxInvoiceRepository{BaseRepository: base},
		catalog:    &PgxCatalogRepository{BaseRepository: base},
	}
}

var _ portsrepo.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Categories() portsrepo.CategoryRepository { return u.categories }
func (u *unitOfWork) Ledger() portsrepo.LedgerRepository { return u.ledger }
func (u *unitOfWork) Reporting() portsrepo.ReportingRepository { return u.reporting }
func (u *unitOfWork) Quotes() portsrepo.QuoteRepository { return u.quotes }
func (u *unitOfWork) Orders() portsrepo.OrderRepository { return u.orders }
func (u *unitOfWork) CartItems() portsrepo.CartItemRepository { return u.cartItems }
func (u *unitOfWork) Invoices() portsrepo.InvoiceRepository { return u.invoices }
func (u *unitOfWork) Catalog() portsrepo.CatalogReader { return u.catalog }

// mapError converts a pgx error into the application error taxonomy.
// what describes the failed operation, e.g. "find quote q1".
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(what + ": not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperrors.NewAppError(apperrors.KindConflict, what+": already exists", fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName))
		case "23503": // foreign_key_violation
			return apperrors.NewAppError(apperrors.KindValidation, what+": references a missing record", err)
		case "23514": // check_violation
			return apperrors.NewAppError(apperrors.KindValidation, what+": violates "+pgErr.ConstraintName, err)
		}
	}
	return apperrors.NewInternalError("failed to "+what, err)
}

// expectOne turns a zero-row command into NotFound.
func expectOne(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(what + ": not found")
	}
	return nil
}
