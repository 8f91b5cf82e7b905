package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/repositories/memory"
)

const sellerID = "seller-1"

func newQuote(status domain.QuoteStatus) domain.Quote {
	now := time.Now().UTC()
	return domain.Quote{
		QuoteID:       uuid.NewString(),
		SellerID:      sellerID,
		CustomerID:    "C1",
		TotalEstimate: decimal.NewFromInt(10),
		Status:        status,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func newOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		OrderID:     uuid.NewString(),
		SellerID:    sellerID,
		CustomerID:  "C1",
		TotalAmount: decimal.NewFromInt(10),
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func TestWithinTransaction_ErrorRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	order := newOrder()
	failure := errors.New("later step failed")

	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		require.NoError(t, uow.Orders().SaveOrder(ctx, order))
		require.NoError(t, uow.CartItems().SaveCartItems(ctx, []domain.OrderCartItem{{
			CartItemID: uuid.NewString(), OrderID: order.OrderID, Name: "Line", Quantity: 1,
		}}))
		return failure
	})
	require.ErrorIs(t, err, failure)

	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		_, err := uow.Orders().FindOrderByID(ctx, sellerID, order.OrderID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		items, err := uow.CartItems().FindCartItemsByOrderID(ctx, order.OrderID)
		require.NoError(t, err)
		assert.Empty(t, items)
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTransaction_PanicRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	order := newOrder()

	assert.Panics(t, func() {
		_ = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
			require.NoError(t, uow.Orders().SaveOrder(ctx, order))
			panic("boom")
		})
	})

	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		_, err := uow.Orders().FindOrderByID(ctx, sellerID, order.OrderID)
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTransaction_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := memory.New().WithinTransaction(ctx, func(context.Context, portsrepo.UnitOfWork) error {
		called = true
		return nil
	})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.False(t, called)
}

func TestLinkQuoteToOrder_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	quote := newQuote(domain.QuoteSent)
	first, second := newOrder(), newOrder()

	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		require.NoError(t, uow.Quotes().SaveQuote(ctx, quote))
		require.NoError(t, uow.Orders().SaveOrder(ctx, first))
		require.NoError(t, uow.Orders().SaveOrder(ctx, second))
		return uow.Quotes().LinkQuoteToOrder(ctx, sellerID, quote.QuoteID, first.OrderID, time.Now())
	})
	require.NoError(t, err)

	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return uow.Quotes().LinkQuoteToOrder(ctx, sellerID, quote.QuoteID, second.OrderID, time.Now())
	})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		linked, err := uow.Quotes().FindQuoteByOrderID(ctx, sellerID, first.OrderID)
		require.NoError(t, err)
		assert.Equal(t, quote.QuoteID, linked.QuoteID)
		assert.Equal(t, domain.QuoteAccepted, linked.Status)

		// UpdateQuote never rewrites the link.
		linked.OrderID = nil
		require.NoError(t, uow.Quotes().UpdateQuote(ctx, *linked))
		reloaded, err := uow.Quotes().FindQuoteByID(ctx, sellerID, quote.QuoteID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.OrderID)
		assert.Equal(t, first.OrderID, *reloaded.OrderID)

		err = uow.Quotes().LinkQuoteToOrder(ctx, sellerID, uuid.NewString(), second.OrderID, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestSaveInvoice_OnePerOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	order := newOrder()

	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		require.NoError(t, uow.Orders().SaveOrder(ctx, order))
		invoice := domain.Invoice{InvoiceID: uuid.NewString(), SellerID: sellerID, OrderID: &order.OrderID, Status: domain.InvoiceDraft}
		require.NoError(t, uow.Invoices().SaveInvoice(ctx, invoice))
		invoice.InvoiceID = uuid.NewString()
		return uow.Invoices().SaveInvoice(ctx, invoice)
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestCategoriesAndLedger(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cash := domain.Category{CategoryID: uuid.NewString(), SellerID: sellerID, Name: "Cash", Type: domain.Asset}
	sales := domain.Category{CategoryID: uuid.NewString(), SellerID: sellerID, Name: "Sales Income", Type: domain.Income}

	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		require.NoError(t, uow.Categories().SaveCategory(ctx, cash))
		require.NoError(t, uow.Categories().SaveCategory(ctx, sales))

		dup := cash
		dup.CategoryID = uuid.NewString()
		assert.ErrorIs(t, uow.Categories().SaveCategory(ctx, dup), apperrors.ErrDuplicate)

		found, err := uow.Categories().FindCategoryByName(ctx, sellerID, domain.Asset, "Cash")
		require.NoError(t, err)
		assert.Equal(t, cash.CategoryID, found.CategoryID)
		_, err = uow.Categories().FindCategoryByID(ctx, "other-seller", cash.CategoryID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		group := uuid.NewString()
		now := time.Now().UTC()
		require.NoError(t, uow.Ledger().SaveEntries(ctx, []domain.LedgerEntry{
			{EntryID: uuid.NewString(), SellerID: sellerID, CategoryID: cash.CategoryID, Debit: decimal.NewFromInt(5), Credit: decimal.Zero, SourceType: domain.SourceOrder, SourceID: "o1", TransactionGroupID: group, CreatedAt: now},
			{EntryID: uuid.NewString(), SellerID: sellerID, CategoryID: sales.CategoryID, Debit: decimal.Zero, Credit: decimal.NewFromInt(5), SourceType: domain.SourceOrder, SourceID: "o1", TransactionGroupID: group, CreatedAt: now},
		}))

		err = uow.Ledger().SaveEntries(ctx, []domain.LedgerEntry{
			{EntryID: uuid.NewString(), SellerID: sellerID, CategoryID: uuid.NewString(), Debit: decimal.NewFromInt(1)},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		err = uow.Ledger().SaveEntries(ctx, []domain.LedgerEntry{
			{EntryID: uuid.NewString(), SellerID: sellerID, CategoryID: cash.CategoryID, Debit: decimal.NewFromInt(-1)},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		lines, err := uow.Reporting().ListReportLines(ctx, sellerID, domain.DateRange{})
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Cash", lines[0].CategoryName)

		bad := "%%%"
		_, _, err = uow.Ledger().ListEntries(ctx, sellerID, domain.LedgerFilter{NextToken: &bad})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		return nil
	})
	require.NoError(t, err)
}

func TestInvoiceWrites_GuardedByStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	order := newOrder()
	draft := domain.Invoice{InvoiceID: uuid.NewString(), SellerID: sellerID, OrderID: &order.OrderID, Status: domain.InvoiceDraft, TotalAmount: decimal.NewFromInt(10)}

	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		require.NoError(t, uow.Orders().SaveOrder(ctx, order))
		require.NoError(t, uow.Invoices().SaveInvoice(ctx, draft))
		issued := draft
		issued.Status = domain.InvoiceIssued
		return uow.Invoices().UpdateInvoice(ctx, issued, domain.InvoiceDraft)
	})
	require.NoError(t, err)

	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		stale := draft
		stale.TotalAmount = decimal.NewFromInt(99)
		err := uow.Invoices().UpdateInvoice(ctx, stale, domain.InvoiceDraft)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

		err = uow.Invoices().DeleteDraftInvoice(ctx, sellerID, draft.InvoiceID)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

		err = uow.Invoices().DeleteDraftInvoice(ctx, sellerID, uuid.NewString())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		stored, err := uow.Invoices().FindInvoiceByID(ctx, sellerID, draft.InvoiceID)
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceIssued, stored.Status)
		assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(10)))
		return nil
	})
	require.NoError(t, err)
}
