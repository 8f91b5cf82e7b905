package repositories

import (
	"context"
)

// UnitOfWork is the set of repositories bound to one open transaction.
// Every write made through it commits or rolls back together.
type UnitOfWork interface {
	Categories() CategoryRepository
	Ledger() LedgerRepository
	Reporting() ReportingRepository
	Quotes() QuoteRepository
	Orders() OrderRepository
	CartItems() CartItemRepository
	Invoices() InvoiceRepository
	Catalog() CatalogReader
}

// TransactionManager opens units of work.
type TransactionManager interface {
	// WithinTransaction runs fn inside a single transaction. Any error returned by fn,
	// or a panic, rolls back every write made through the UnitOfWork; the error is
	// then returned unchanged. A nil return commits.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
