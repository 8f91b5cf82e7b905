package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/repositories/memory"
)

func strPtr(s string) *string { return &s }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func statusPtr(s domain.InvoiceStatus) *domain.InvoiceStatus { return &s }

func quoteStatusPtr(s domain.QuoteStatus) *domain.QuoteStatus { return &s }

// --- Test Suite Setup ---
type DocumentLifecycleTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	svc       *portssvc.ServiceContainer
	sellerID  string
	productID string
}

func (suite *DocumentLifecycleTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.New()
	suite.svc = services.NewServiceContainer(suite.store)
	suite.sellerID = uuid.NewString()
	suite.productID = "P1"

	suite.store.PutProduct(domain.Product{
		ProductID:   suite.productID,
		SellerID:    suite.sellerID,
		SKU:         "SKU-P1",
		Name:        "Widget",
		Description: "A widget",
		TaxCode:     &domain.TaxCode{TaxCodeID: "VAT10", Rate: decimal.RequireFromString("0.10")},
	})
}

// entries returns every ledger entry posted for a source document.
func (suite *DocumentLifecycleTestSuite) entries(sourceType domain.SourceType, sourceID string) []domain.LedgerEntry {
	entries, next, err := suite.svc.Ledger.GetEntries(suite.ctx, suite.sellerID, domain.LedgerFilter{
		SourceType: &sourceType,
		SourceID:   &sourceID,
		Limit:      500,
	})
	suite.Require().NoError(err)
	suite.Nil(next)
	return entries
}

func (suite *DocumentLifecycleTestSuite) allEntries() []domain.LedgerEntry {
	entries, _, err := suite.svc.Ledger.GetEntries(suite.ctx, suite.sellerID, domain.LedgerFilter{Limit: 500})
	suite.Require().NoError(err)
	return entries
}

// assertPair checks one balanced debit/credit pair for amount against the named categories.
func (suite *DocumentLifecycleTestSuite) assertPair(entries []domain.LedgerEntry, amount decimal.Decimal, debitName, creditName string) {
	suite.Require().Len(entries, 2)
	suite.Equal(entries[0].TransactionGroupID, entries[1].TransactionGroupID)

	var debit, credit *domain.LedgerEntry
	for i := range entries {
		if entries[i].Debit.IsPositive() {
			debit = &entries[i]
		} else {
			credit = &entries[i]
		}
	}
	suite.Require().NotNil(debit)
	suite.Require().NotNil(credit)
	suite.True(debit.Debit.Equal(amount), "debit %s", debit.Debit)
	suite.True(debit.Credit.IsZero())
	suite.True(credit.Credit.Equal(amount), "credit %s", credit.Credit)
	suite.True(credit.Debit.IsZero())

	categories, err := suite.svc.Category.ListCategories(suite.ctx, suite.sellerID, nil)
	suite.Require().NoError(err)
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}
	suite.Equal(debitName, names[debit.CategoryID])
	suite.Equal(creditName, names[credit.CategoryID])
}

func (suite *DocumentLifecycleTestSuite) assertBalanced() {
	groups, err := suite.svc.Reporting.UnbalancedGroups(suite.ctx, suite.sellerID)
	suite.Require().NoError(err)
	suite.Empty(groups)
}

func (suite *DocumentLifecycleTestSuite) createFullOrder() *domain.Order {
	order, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID: "C1",
		CartItems: []dto.CartItemRequest{
			{ProductID: strPtr(suite.productID), Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		},
		CreateQuote:   true,
		CreateInvoice: true,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	return order
}

func (suite *DocumentLifecycleTestSuite) sentQuote(estimate int64) *domain.Quote {
	quote, err := suite.svc.Quote.CreateQuote(suite.ctx, suite.sellerID, dto.CreateQuoteRequest{
		CustomerID:    "C2",
		TotalEstimate: decimal.NewFromInt(estimate),
	})
	suite.Require().NoError(err)
	quote, err = suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		Status: quoteStatusPtr(domain.QuoteSent),
	})
	suite.Require().NoError(err)
	return quote
}

// --- Test Cases ---

func (suite *DocumentLifecycleTestSuite) TestCreateOrder_FullGraph() {
	order := suite.createFullOrder()
	twenty := decimal.NewFromInt(20)

	suite.True(order.TotalAmount.Equal(twenty))
	suite.Require().Len(order.CartItems, 1)
	item := order.CartItems[0]
	suite.Equal("SKU-P1", item.SKU)
	suite.Equal("Widget", item.Name)
	suite.True(item.LineTotal.Equal(twenty))
	suite.True(item.TaxRate.Equal(decimal.RequireFromString("0.10")))
	suite.Require().NotNil(item.TaxCodeID)
	suite.Equal("VAT10", *item.TaxCodeID)

	suite.Require().NotNil(order.Quote)
	suite.Equal(domain.QuoteAccepted, order.Quote.Status)
	suite.True(order.Quote.TotalEstimate.Equal(twenty))
	suite.Require().NotNil(order.Quote.OrderID)
	suite.Equal(order.OrderID, *order.Quote.OrderID)

	suite.Require().NotNil(order.Invoice)
	suite.Equal(domain.InvoiceDraft, order.Invoice.Status)
	suite.True(order.Invoice.TotalAmount.Equal(twenty))

	suite.assertPair(suite.entries(domain.SourceOrder, order.OrderID), twenty, domain.CategoryAccountsReceivable, domain.CategorySalesIncome)
	suite.Len(suite.allEntries(), 2)
	suite.assertBalanced()

	loaded, err := suite.svc.Order.GetOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().NoError(err)
	suite.Len(loaded.CartItems, 1)
	suite.NotNil(loaded.Quote)
	suite.NotNil(loaded.Invoice)
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrder_CartTotalOverridesSuppliedTotal() {
	order, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID:  "C1",
		TotalAmount: decimal.NewFromInt(999),
		CartItems: []dto.CartItemRequest{
			{Name: "Consulting", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")},
			{ProductID: strPtr(suite.productID), Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		},
	})
	suite.Require().NoError(err)
	suite.True(order.TotalAmount.Equal(decimal.RequireFromString("42.50")))
	suite.True(order.TotalAmount.Equal(domain.SumLineTotals(order.CartItems)))
	suite.Nil(order.Quote)
	suite.Nil(order.Invoice)
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrder_EmptyCartIsValidation() {
	_, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID: "C1",
		CartItems:  []dto.CartItemRequest{},
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))
	suite.Empty(suite.allEntries())
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrder_CustomItemWithoutNameIsValidation() {
	_, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID: "C1",
		CartItems:  []dto.CartItemRequest{{Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrder_UnknownProductRollsBack() {
	_, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID: "C1",
		CartItems: []dto.CartItemRequest{
			{Name: "Custom", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
			{ProductID: strPtr("missing"), Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		},
		CreateQuote:   true,
		CreateInvoice: true,
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))

	orders, err := suite.svc.Order.ListOrders(suite.ctx, suite.sellerID, 0, 0)
	suite.Require().NoError(err)
	suite.Empty(orders)
	quotes, err := suite.svc.Quote.ListQuotes(suite.ctx, suite.sellerID, 0, 0)
	suite.Require().NoError(err)
	suite.Empty(quotes)
	suite.Empty(suite.allEntries())
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrder_ProductOfAnotherSellerIsNotFound() {
	_, err := suite.svc.Order.CreateOrder(suite.ctx, uuid.NewString(), dto.CreateOrderRequest{
		CustomerID: "C1",
		CartItems:  []dto.CartItemRequest{{ProductID: strPtr(suite.productID), Quantity: 1}},
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *DocumentLifecycleTestSuite) TestInvoiceLifecycle_IssueThenPay() {
	order := suite.createFullOrder()
	invoiceID := order.Invoice.InvoiceID
	twenty := decimal.NewFromInt(20)

	issued, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceIssued, issued.Status)
	suite.assertPair(suite.entries(domain.SourceInvoice, invoiceID), twenty, domain.CategoryAccountsReceivable, domain.CategoryInvoiceRevenue)
	suite.Len(suite.allEntries(), 4)

	paid, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoicePaid),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, paid.Status)
	suite.assertPair(suite.entries(domain.SourcePayment, invoiceID), twenty, domain.CategoryCash, domain.CategoryAccountsReceivable)
	suite.Len(suite.allEntries(), 6)
	suite.assertBalanced()
}

func (suite *DocumentLifecycleTestSuite) TestInvoiceLifecycle_DraftStraightToPaid() {
	order := suite.createFullOrder()
	invoiceID := order.Invoice.InvoiceID

	_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoicePaid),
	})
	suite.Require().NoError(err)
	suite.Empty(suite.entries(domain.SourceInvoice, invoiceID))
	suite.Len(suite.entries(domain.SourcePayment, invoiceID), 2)
	suite.assertBalanced()
}

func (suite *DocumentLifecycleTestSuite) TestUpdateInvoice_IssuedIsFrozen() {
	order := suite.createFullOrder()
	invoiceID := order.Invoice.InvoiceID
	_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().NoError(err)

	_, err = suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Language: strPtr("fr"),
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	_, err = suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status:   statusPtr(domain.InvoicePaid),
		Language: strPtr("fr"),
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	_, err = suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	suite.Len(suite.allEntries(), 4)
}

func (suite *DocumentLifecycleTestSuite) TestUpdateInvoice_PaidIsTerminal() {
	order := suite.createFullOrder()
	invoiceID := order.Invoice.InvoiceID
	_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoicePaid),
	})
	suite.Require().NoError(err)

	_, err = suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoicePaid),
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))
	suite.Len(suite.entries(domain.SourcePayment, invoiceID), 2)
}

func (suite *DocumentLifecycleTestSuite) TestUpdateInvoice_DraftCartReplacementSyncsTotals() {
	order := suite.createFullOrder()
	invoiceID := order.Invoice.InvoiceID

	invoice, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{
		Language: strPtr("km"),
		CartItems: []dto.CartItemRequest{
			{Name: "Service", Quantity: 4, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	suite.Require().NoError(err)
	sixty := decimal.NewFromInt(60)
	suite.True(invoice.TotalAmount.Equal(sixty))
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Require().NotNil(invoice.Language)
	suite.Equal("km", *invoice.Language)

	loaded, err := suite.svc.Order.GetOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().NoError(err)
	suite.True(loaded.TotalAmount.Equal(sixty))
	suite.Require().Len(loaded.CartItems, 1)
	suite.Equal("Service", loaded.CartItems[0].Name)
	suite.True(loaded.Quote.TotalEstimate.Equal(sixty))
}

func (suite *DocumentLifecycleTestSuite) TestDeleteOrder_IssuedInvoiceIsConflict() {
	order := suite.createFullOrder()
	_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, order.Invoice.InvoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().NoError(err)

	err = suite.svc.Order.DeleteOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	loaded, err := suite.svc.Order.GetOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Require().NoError(err)
	suite.Len(loaded.CartItems, 1)
	suite.Require().NotNil(loaded.Invoice)
	suite.Equal(domain.InvoiceIssued, loaded.Invoice.Status)
}

func (suite *DocumentLifecycleTestSuite) TestDeleteOrder_DraftInvoiceIsRemoved() {
	order := suite.createFullOrder()

	suite.Require().NoError(suite.svc.Order.DeleteOrder(suite.ctx, suite.sellerID, order.OrderID))

	_, err := suite.svc.Order.GetOrder(suite.ctx, suite.sellerID, order.OrderID)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = suite.svc.Invoice.GetInvoice(suite.ctx, suite.sellerID, order.Invoice.InvoiceID)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))

	// Ledger entries are append-only.
	suite.Len(suite.entries(domain.SourceOrder, order.OrderID), 2)
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrderFromQuote_ConvertsOnce() {
	quote := suite.sentQuote(75)
	suite.assertPair(suite.entries(domain.SourceQuote, quote.QuoteID), decimal.NewFromInt(75), domain.CategoryAccountsReceivable, domain.CategoryPotentialIncome)

	order, err := suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{
		CreateInvoice: true,
	})
	suite.Require().NoError(err)
	suite.Equal("C2", order.CustomerID)
	suite.True(order.TotalAmount.Equal(decimal.NewFromInt(75)))
	suite.Require().NotNil(order.Quote)
	suite.Equal(domain.QuoteAccepted, order.Quote.Status)
	suite.Require().NotNil(order.Invoice)
	suite.Equal(domain.InvoiceDraft, order.Invoice.Status)
	suite.Len(suite.entries(domain.SourceOrder, order.OrderID), 2)

	_, err = suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	orders, err := suite.svc.Order.ListOrders(suite.ctx, suite.sellerID, 0, 0)
	suite.Require().NoError(err)
	suite.Len(orders, 1)
	suite.assertBalanced()
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrderFromQuote_AcceptedQuote() {
	quote := suite.sentQuote(10)
	_, err := suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		Status: quoteStatusPtr(domain.QuoteAccepted),
	})
	suite.Require().NoError(err)

	order, err := suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{
		CartItems: []dto.CartItemRequest{{ProductID: strPtr(suite.productID), Quantity: 3, UnitPrice: decimal.NewFromInt(7)}},
	})
	suite.Require().NoError(err)
	suite.True(order.TotalAmount.Equal(decimal.NewFromInt(21)))
	suite.Nil(order.Invoice)

	_, err = suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{})
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrderFromQuote_DraftQuoteIsConflict() {
	quote, err := suite.svc.Quote.CreateQuote(suite.ctx, suite.sellerID, dto.CreateQuoteRequest{CustomerID: "C2"})
	suite.Require().NoError(err)
	suite.Empty(suite.entries(domain.SourceQuote, quote.QuoteID))

	_, err = suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrderFromQuote_UnknownQuoteIsNotFound() {
	_, err := suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, uuid.NewString(), dto.CreateOrderFromQuoteRequest{})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *DocumentLifecycleTestSuite) TestCreateOrderFromQuote_RollbackLeavesQuoteUnlinked() {
	quote := suite.sentQuote(30)

	_, err := suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{
		CartItems: []dto.CartItemRequest{{ProductID: strPtr("missing"), Quantity: 1}},
	})
	suite.Require().Error(err)

	reloaded, err := suite.svc.Quote.GetQuote(suite.ctx, suite.sellerID, quote.QuoteID)
	suite.Require().NoError(err)
	suite.False(reloaded.Linked())
	suite.Equal(domain.QuoteSent, reloaded.Status)

	_, err = suite.svc.Order.CreateOrderFromQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.CreateOrderFromQuoteRequest{})
	suite.Require().NoError(err)
}

func (suite *DocumentLifecycleTestSuite) TestConvertOrderToInvoice() {
	order, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID:  "C3",
		TotalAmount: decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)

	invoice, err := suite.svc.Invoice.ConvertOrderToInvoice(suite.ctx, suite.sellerID, order.OrderID, dto.ConvertOrderToInvoiceRequest{
		Language: strPtr("en"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.True(invoice.TotalAmount.Equal(decimal.NewFromInt(50)))
	suite.Equal("C3", invoice.CustomerID)
	suite.Empty(suite.entries(domain.SourceInvoice, invoice.InvoiceID))

	_, err = suite.svc.Invoice.ConvertOrderToInvoice(suite.ctx, suite.sellerID, order.OrderID, dto.ConvertOrderToInvoiceRequest{})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))
}

func (suite *DocumentLifecycleTestSuite) TestUpdateOrder_TotalFlowsToQuoteAndDraftInvoice() {
	order, err := suite.svc.Order.CreateOrder(suite.ctx, suite.sellerID, dto.CreateOrderRequest{
		CustomerID:    "C1",
		TotalAmount:   decimal.NewFromInt(40),
		CreateQuote:   true,
		CreateInvoice: true,
	})
	suite.Require().NoError(err)

	updated, err := suite.svc.Order.UpdateOrder(suite.ctx, suite.sellerID, order.OrderID, dto.UpdateOrderRequest{
		TotalAmount: decimalPtr(decimal.NewFromInt(45)),
	})
	suite.Require().NoError(err)
	fortyFive := decimal.NewFromInt(45)
	suite.True(updated.TotalAmount.Equal(fortyFive))
	suite.True(updated.Quote.TotalEstimate.Equal(fortyFive))
	suite.True(updated.Invoice.TotalAmount.Equal(fortyFive))
	suite.Len(suite.entries(domain.SourceOrder, order.OrderID), 2)
}

func (suite *DocumentLifecycleTestSuite) TestUpdateOrder_TotalMustMatchCart() {
	order := suite.createFullOrder()

	_, err := suite.svc.Order.UpdateOrder(suite.ctx, suite.sellerID, order.OrderID, dto.UpdateOrderRequest{
		TotalAmount: decimalPtr(decimal.NewFromInt(21)),
	})
	suite.Require().Error(err)
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))

	updated, err := suite.svc.Order.UpdateOrder(suite.ctx, suite.sellerID, order.OrderID, dto.UpdateOrderRequest{
		CustomerID: strPtr("C9"),
		CartItems: []dto.CartItemRequest{
			{ProductID: strPtr(suite.productID), Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
		},
	})
	suite.Require().NoError(err)
	suite.Equal("C9", updated.CustomerID)
	suite.True(updated.TotalAmount.Equal(decimal.NewFromInt(50)))
	suite.True(updated.TotalAmount.Equal(domain.SumLineTotals(updated.CartItems)))
}

func (suite *DocumentLifecycleTestSuite) TestUpdateOrder_IssuedInvoiceKeepsItsTotal() {
	order := suite.createFullOrder()
	_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, order.Invoice.InvoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Require().NoError(err)

	updated, err := suite.svc.Order.UpdateOrder(suite.ctx, suite.sellerID, order.OrderID, dto.UpdateOrderRequest{
		CartItems: []dto.CartItemRequest{{Name: "Extra", Quantity: 1, UnitPrice: decimal.NewFromInt(99)}},
	})
	suite.Require().NoError(err)
	suite.True(updated.TotalAmount.Equal(decimal.NewFromInt(99)))
	suite.True(updated.Invoice.TotalAmount.Equal(decimal.NewFromInt(20)))
}

func (suite *DocumentLifecycleTestSuite) TestQuoteUpdateRules() {
	quote, err := suite.svc.Quote.CreateQuote(suite.ctx, suite.sellerID, dto.CreateQuoteRequest{
		CustomerID:    "C2",
		TotalEstimate: decimal.NewFromInt(10),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.QuoteDraft, quote.Status)

	_, err = suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		Status: quoteStatusPtr(domain.QuoteAccepted),
	})
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	expires := time.Now().Add(48 * time.Hour)
	updated, err := suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		Status:        quoteStatusPtr(domain.QuoteRejected),
		TotalEstimate: decimalPtr(decimal.NewFromInt(12)),
		ExpiresAt:     &expires,
	})
	suite.Require().NoError(err)
	suite.Equal(domain.QuoteRejected, updated.Status)
	suite.True(updated.TotalEstimate.Equal(decimal.NewFromInt(12)))

	_, err = suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		CustomerID: strPtr("C3"),
	})
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	_, err = suite.svc.Quote.CreateQuote(suite.ctx, suite.sellerID, dto.CreateQuoteRequest{
		CustomerID:    "C2",
		TotalEstimate: decimal.NewFromInt(-1),
	})
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))
}

// potentialIncome returns the net Potential Income credited for a quote.
func (suite *DocumentLifecycleTestSuite) potentialIncome(quoteID string) decimal.Decimal {
	categories, err := suite.svc.Category.ListCategories(suite.ctx, suite.sellerID, nil)
	suite.Require().NoError(err)
	var incomeID string
	for _, c := range categories {
		if c.Name == domain.CategoryPotentialIncome {
			incomeID = c.CategoryID
		}
	}
	net := decimal.Zero
	for _, e := range suite.entries(domain.SourceQuote, quoteID) {
		if e.CategoryID == incomeID {
			net = net.Add(e.Credit).Sub(e.Debit)
		}
	}
	return net
}

func (suite *DocumentLifecycleTestSuite) TestUpdateQuote_EstimateRevisionFollowsLedger() {
	quote := suite.sentQuote(75)

	updated, err := suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		TotalEstimate: decimalPtr(decimal.NewFromInt(90)),
	})
	suite.Require().NoError(err)
	suite.True(updated.TotalEstimate.Equal(decimal.NewFromInt(90)))
	suite.Len(suite.entries(domain.SourceQuote, quote.QuoteID), 4)
	suite.True(suite.potentialIncome(quote.QuoteID).Equal(decimal.NewFromInt(90)))

	_, err = suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		TotalEstimate: decimalPtr(decimal.NewFromInt(60)),
	})
	suite.Require().NoError(err)
	suite.Len(suite.entries(domain.SourceQuote, quote.QuoteID), 6)
	suite.True(suite.potentialIncome(quote.QuoteID).Equal(decimal.NewFromInt(60)))

	// An unchanged estimate posts nothing.
	_, err = suite.svc.Quote.UpdateQuote(suite.ctx, suite.sellerID, quote.QuoteID, dto.UpdateQuoteRequest{
		TotalEstimate: decimalPtr(decimal.NewFromInt(60)),
	})
	suite.Require().NoError(err)
	suite.Len(suite.entries(domain.SourceQuote, quote.QuoteID), 6)
	suite.assertBalanced()
}

func (suite *DocumentLifecycleTestSuite) TestDeleteQuote_LinkedIsConflict() {
	order := suite.createFullOrder()

	err := suite.svc.Quote.DeleteQuote(suite.ctx, suite.sellerID, order.Quote.QuoteID)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))

	unlinked, err := suite.svc.Quote.CreateQuote(suite.ctx, suite.sellerID, dto.CreateQuoteRequest{CustomerID: "C2"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.svc.Quote.DeleteQuote(suite.ctx, suite.sellerID, unlinked.QuoteID))
}

func (suite *DocumentLifecycleTestSuite) TestSellerIsolation() {
	order := suite.createFullOrder()
	other := uuid.NewString()

	_, err := suite.svc.Order.GetOrder(suite.ctx, other, order.OrderID)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = suite.svc.Invoice.UpdateInvoice(suite.ctx, other, order.Invoice.InvoiceID, dto.UpdateInvoiceRequest{
		Status: statusPtr(domain.InvoiceIssued),
	})
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))

	entries, _, err := suite.svc.Ledger.GetEntries(suite.ctx, other, domain.LedgerFilter{})
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *DocumentLifecycleTestSuite) TestReportsAfterFullCycle() {
	order := suite.createFullOrder()
	invoiceID := order.Invoice.InvoiceID
	for _, status := range []domain.InvoiceStatus{domain.InvoiceIssued, domain.InvoicePaid} {
		_, err := suite.svc.Invoice.UpdateInvoice(suite.ctx, suite.sellerID, invoiceID, dto.UpdateInvoiceRequest{Status: statusPtr(status)})
		suite.Require().NoError(err)
	}

	summary, err := suite.svc.Reporting.FinancialSummary(suite.ctx, suite.sellerID, domain.DateRange{})
	suite.Require().NoError(err)
	suite.True(summary.TotalIncome.Equal(decimal.NewFromInt(40)))
	suite.True(summary.TotalExpenses.IsZero())
	suite.True(summary.NetProfit.Equal(summary.TotalIncome.Sub(summary.TotalExpenses)))
	// Receivable: +20 +20 -20, cash: +20.
	suite.True(summary.TotalAssets.Equal(decimal.NewFromInt(40)))

	rows, err := suite.svc.Reporting.TrialBalance(suite.ctx, suite.sellerID, time.Now().Add(time.Hour))
	suite.Require().NoError(err)
	debits, credits := decimal.Zero, decimal.Zero
	for _, row := range rows {
		debits = debits.Add(row.Debit)
		credits = credits.Add(row.Credit)
	}
	suite.True(debits.Equal(credits), "trial balance %s != %s", debits, credits)

	sheet, err := suite.svc.Reporting.BalanceSheet(suite.ctx, suite.sellerID, time.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.True(sheet.Equity.Equal(sheet.TotalAssets.Sub(sheet.TotalLiabilities)))

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	pnl, err := suite.svc.Reporting.ProfitAndLoss(suite.ctx, suite.sellerID, from, to)
	suite.Require().NoError(err)
	suite.True(pnl.NetProfit.Equal(decimal.NewFromInt(40)))
	suite.Len(pnl.Income, 2)

	statement, err := suite.svc.Reporting.IncomeStatement(suite.ctx, suite.sellerID, from, to, domain.GroupByDay)
	suite.Require().NoError(err)
	suite.NotEmpty(statement.Buckets)

	_, err = suite.svc.Reporting.IncomeStatement(suite.ctx, suite.sellerID, from, to, domain.PeriodGrouping("week"))
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))
	_, err = suite.svc.Reporting.ProfitAndLoss(suite.ctx, suite.sellerID, to, from)
	suite.Equal(apperrors.KindValidation, apperrors.KindOf(err))
}

// --- Run Test Suite ---
func TestDocumentLifecycle(t *testing.T) {
	suite.Run(t, new(DocumentLifecycleTestSuite))
}
