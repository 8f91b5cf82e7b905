package services_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// staleReads hands out a fixed snapshot of an invoice whenever it is looked up by order,
// the way an unlocked read can race a concurrent issue.
type staleReads struct {
	portsrepo.TransactionManager
	stale domain.Invoice
}

func (s staleReads) WithinTransaction(ctx context.Context, fn func(context.Context, portsrepo.UnitOfWork) error) error {
	return s.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return fn(ctx, staleUnitOfWork{UnitOfWork: uow, stale: s.stale})
	})
}

type staleUnitOfWork struct {
	portsrepo.UnitOfWork
	stale domain.Invoice
}

func (u staleUnitOfWork) Invoices() portsrepo.InvoiceRepository {
	return staleInvoices{InvoiceRepository: u.UnitOfWork.Invoices(), stale: u.stale}
}

type staleInvoices struct {
	portsrepo.InvoiceRepository
	stale domain.Invoice
}

func (r staleInvoices) FindInvoiceByOrderID(ctx context.Context, sellerID, orderID string) (*domain.Invoice, error) {
	if r.stale.OrderID == nil || *r.stale.OrderID != orderID {
		return r.InvoiceRepository.FindInvoiceByOrderID(ctx, sellerID, orderID)
	}
	snapshot := r.stale
	return &snapshot, nil
}

// lockRecorder notes which documents were row-locked, in order.
type lockRecorder struct {
	portsrepo.TransactionManager
	locks []string
}

func (l *lockRecorder) WithinTransaction(ctx context.Context, fn func(context.Context, portsrepo.UnitOfWork) error) error {
	return l.TransactionManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return fn(ctx, recordingUnitOfWork{UnitOfWork: uow, rec: l})
	})
}

type recordingUnitOfWork struct {
	portsrepo.UnitOfWork
	rec *lockRecorder
}

func (u recordingUnitOfWork) Orders() portsrepo.OrderRepository {
	return recordingOrders{OrderRepository: u.UnitOfWork.Orders(), rec: u.rec}
}

func (u recordingUnitOfWork) Invoices() portsrepo.InvoiceRepository {
	return recordingInvoices{InvoiceRepository: u.UnitOfWork.Invoices(), rec: u.rec}
}

type recordingOrders struct {
	portsrepo.OrderRepository
	rec *lockRecorder
}

func (r recordingOrders) FindOrderByIDForUpdate(ctx context.Context, sellerID, orderID string) (*domain.Order, error) {
	r.rec.locks = append(r.rec.locks, "order")
	return r.OrderRepository.FindOrderByIDForUpdate(ctx, sellerID, orderID)
}

type recordingInvoices struct {
	portsrepo.InvoiceRepository
	rec *lockRecorder
}

func (r recordingInvoices) FindInvoiceByIDForUpdate(ctx context.Context, sellerID, invoiceID string) (*domain.Invoice, error) {
	r.rec.locks = append(r.rec.locks, "invoice")
	return r.InvoiceRepository.FindInvoiceByIDForUpdate(ctx, sellerID, invoiceID)
}

// issueAfterRead returns a full order whose invoice has been issued, and the DRAFT
// copy of that invoice as it looked before the issue.
func (suite *DocumentLifecycleTestSuite) issueAfterRead() (*domain.Order, domain.Invoice) {
	order := suite.createFullOrder()
	suite.Require().NotNil(order.Invoice)
	draft := *order.Invoice
	suite.Require().Equal(domain.InvoiceDraft, draft.Status)

	_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, draft.InvoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().NoError(err)
	return order, draft
}

func (suite *DocumentLifecycleTestSuite) TestDeleteOrder_InvoiceIssuedSinceReadIsConflict() {
	order, draft := suite.issueAfterRead()
	racing := services.NewServiceContainer(staleReads{TransactionManager: suite.store, stale: draft})

	err := racing.Order.DeleteOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	loaded, err := suite.svc.Order.GetOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().NoError(err)
	suite.Len(loaded.CartItems, 1)
	suite.Require().NotNil(loaded.Invoice)
	suite.Equal(domain.InvoiceIssued, loaded.Invoice.Status)
	suite.Len(suite.entries(domain.SourceInvoice, draft.InvoiceID), 2)
}

func (suite *DocumentLifecycleTestSuite) TestUpdateOrder_InvoiceIssuedSinceReadIsConflict() {
	order, draft := suite.issueAfterRead()
	racing := services.NewServiceContainer(staleReads{TransactionManager: suite.store, stale: draft})

	_, err := racing.Order.UpdateOrder(suite.ctx, suite.sellerID, order.OrderID, dto.UpdateOrderRequest{
		CartItems: []dto.CartItemRequest{{Name: "Extra", Quantity: 1, UnitPrice: decimal.NewFromInt(99)}},
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	invoice, err := suite.svc.Invoice.GetInvoice(suite.ctx, suite.sellerID, draft.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceIssued, invoice.Status)
	suite.True(invoice.TotalAmount.Equal(decimal.NewFromInt(20)))

	loaded, err := suite.svc.Order.GetOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().NoError(err)
	suite.True(loaded.TotalAmount.Equal(decimal.NewFromInt(20)))
}

func (suite *DocumentLifecycleTestSuite) TestInvoiceWrites_LockOrderBeforeInvoice() {
	issued := suite.createFullOrder()
	deleted := suite.createFullOrder()
	rec := &lockRecorder{TransactionManager: suite.store}
	recorded := services.NewServiceContainer(rec)

	_, err := recorded.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, issued.Invoice.InvoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().NoError(err)
	suite.Require().GreaterOrEqual(len(rec.locks), 2)
	suite.Equal([]string{"order", "invoice"}, rec.locks[:2])

	rec.locks = nil
	suite.Require().NoError(recorded.Invoice.DeleteInvoice(suite.ctx, suite.sellerID, deleted.Invoice.InvoiceID))
	suite.Require().GreaterOrEqual(len(rec.locks), 2)
	suite.Equal([]string{"order", "invoice"}, rec.locks[:2])
}
