package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/repositories/memory"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/pagination"
)

// --- Mock CategoryRegistry ---
type MockCategoryRegistry struct {
	mock.Mock
}

var _ portssvc.CategoryRegistrySvc = (*MockCategoryRegistry)(nil)

func (m *MockCategoryRegistry) FindOrCreate(ctx context.Context, uow portsrepo.UnitOfWork, sellerID string, categoryType domain.CategoryType, name string) (*domain.Category, error) {
	args := m.Called(ctx, uow, sellerID, categoryType, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, sellerID string, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.String(1)
		next = &token
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

// ledgerOnlyUnitOfWork exposes a mocked ledger; the other repositories are not used by the ledger engine.
type ledgerOnlyUnitOfWork struct {
	portsrepo.UnitOfWork
	ledger *MockLedgerRepository
}

func (u *ledgerOnlyUnitOfWork) Ledger() portsrepo.LedgerRepository { return u.ledger }

// --- Mock TransactionManager ---
type MockTransactionManager struct {
	mock.Mock
	uow portsrepo.UnitOfWork
}

var _ portsrepo.TransactionManager = (*MockTransactionManager)(nil)

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.uow)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockCategories *MockCategoryRegistry
	mockLedger     *MockLedgerRepository
	mockTx         *MockTransactionManager
	uow            *ledgerOnlyUnitOfWork
	service        portssvc.LedgerSvcFacade
	sellerID       string
	now            time.Time
	receivable     domain.Category
	cash           domain.Category
	salesIncome    domain.Category
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockCategories = new(MockCategoryRegistry)
	suite.mockLedger = new(MockLedgerRepository)
	suite.uow = &ledgerOnlyUnitOfWork{ledger: suite.mockLedger}
	suite.mockTx = &MockTransactionManager{uow: suite.uow}
	suite.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewLedgerService(suite.mockTx, suite.mockCategories,
		services.WithLedgerClock(func() time.Time { return suite.now }),
	)

	suite.sellerID = uuid.NewString()
	suite.receivable = domain.Category{CategoryID: uuid.NewString(), SellerID: suite.sellerID, Name: domain.CategoryAccountsReceivable, Type: domain.Asset}
	suite.cash = domain.Category{CategoryID: uuid.NewString(), SellerID: suite.sellerID, Name: domain.CategoryCash, Type: domain.Asset}
	suite.salesIncome = domain.Category{CategoryID: uuid.NewString(), SellerID: suite.sellerID, Name: domain.CategorySalesIncome, Type: domain.Income}
}

func (suite *LedgerServiceTestSuite) expectCategory(category domain.Category) {
	suite.mockCategories.On("FindOrCreate", mock.Anything, suite.uow, suite.sellerID, category.Type, category.Name).
		Return(&category, nil).Once()
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestPostOrder_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(20)
	suite.expectCategory(suite.receivable)
	suite.expectCategory(suite.salesIncome)
	suite.mockLedger.On("SaveEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 2 &&
			entries[0].CategoryID == suite.receivable.CategoryID &&
			entries[1].CategoryID == suite.salesIncome.CategoryID
	})).Return(nil).Once()

	pair, err := suite.service.PostOrder(ctx, suite.uow, suite.sellerID, "order-1", amount)

	suite.Require().NoError(err)
	suite.True(pair[0].Debit.Equal(amount))
	suite.True(pair[0].Credit.IsZero())
	suite.True(pair[1].Credit.Equal(amount))
	suite.True(pair[1].Debit.IsZero())
	suite.Equal(pair[0].TransactionGroupID, pair[1].TransactionGroupID)
	suite.NotEqual(pair[0].EntryID, pair[1].EntryID)
	for _, e := range pair {
		suite.Equal(domain.SourceOrder, e.SourceType)
		suite.Equal("order-1", e.SourceID)
		suite.Equal("Order order-1", e.Description)
		suite.Equal(suite.now, e.CreatedAt)
		suite.Equal(suite.sellerID, e.SellerID)
	}

	suite.mockCategories.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostPayment_DebitsCash() {
	ctx := context.Background()
	suite.expectCategory(suite.cash)
	suite.expectCategory(suite.receivable)
	suite.mockLedger.On("SaveEntries", ctx, mock.Anything).Return(nil).Once()

	pair, err := suite.service.PostPayment(ctx, suite.uow, suite.sellerID, "inv-1", decimal.NewFromInt(5))

	suite.Require().NoError(err)
	suite.Equal(suite.cash.CategoryID, pair[0].CategoryID)
	suite.Equal(suite.receivable.CategoryID, pair[1].CategoryID)
	suite.Equal(domain.SourcePayment, pair[0].SourceType)
	suite.Equal("Payment for invoice inv-1", pair[0].Description)
}

func (suite *LedgerServiceTestSuite) TestPostPair_NegativeAmount() {
	_, err := suite.service.PostPair(context.Background(), suite.uow, portssvc.PostPairParams{
		SellerID:         suite.sellerID,
		SourceType:       domain.SourceAdjustment,
		Amount:           decimal.NewFromInt(-1),
		DebitCategoryID:  suite.cash.CategoryID,
		CreditCategoryID: suite.receivable.CategoryID,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostPair_MissingCategory() {
	_, err := suite.service.PostPair(context.Background(), suite.uow, portssvc.PostPairParams{
		SellerID:        suite.sellerID,
		SourceType:      domain.SourceAdjustment,
		Amount:          decimal.NewFromInt(1),
		DebitCategoryID: suite.cash.CategoryID,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostInvoice_CategoryError() {
	ctx := context.Background()
	dbErr := apperrors.NewInternalError("db down", errors.New("connection refused"))
	suite.mockCategories.On("FindOrCreate", mock.Anything, suite.uow, suite.sellerID, domain.Asset, domain.CategoryAccountsReceivable).
		Return(nil, dbErr).Once()

	_, err := suite.service.PostInvoice(ctx, suite.uow, suite.sellerID, "inv-1", decimal.NewFromInt(5))

	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.mockLedger.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostQuote_SaveError() {
	ctx := context.Background()
	saveErr := apperrors.NewInternalError("insert failed", errors.New("boom"))
	suite.mockCategories.On("FindOrCreate", mock.Anything, suite.uow, suite.sellerID, mock.Anything, mock.Anything).
		Return(&suite.receivable, nil).Twice()
	suite.mockLedger.On("SaveEntries", ctx, mock.Anything).Return(saveErr).Once()

	pair, err := suite.service.PostQuote(ctx, suite.uow, suite.sellerID, "quote-1", decimal.NewFromInt(5))

	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.Empty(pair[0].EntryID)
}

func (suite *LedgerServiceTestSuite) TestPostManual_Validation() {
	ctx := context.Background()
	base := dto.CreateManualEntryRequest{
		DebitCategoryID:  suite.cash.CategoryID,
		CreditCategoryID: suite.receivable.CategoryID,
		DebitAmount:      decimal.NewFromInt(10),
		CreditAmount:     decimal.NewFromInt(10),
		SourceType:       domain.SourceAdjustment,
		Description:      "Correction",
	}

	mismatched := base
	mismatched.CreditAmount = decimal.NewFromInt(9)
	zero := base
	zero.DebitAmount, zero.CreditAmount = decimal.Zero, decimal.Zero
	wrongSource := base
	wrongSource.SourceType = domain.SourceOrder
	sameCategory := base
	sameCategory.CreditCategoryID = base.DebitCategoryID
	noDescription := base
	noDescription.Description = ""

	for name, req := range map[string]dto.CreateManualEntryRequest{
		"mismatched amounts":  mismatched,
		"zero amount":         zero,
		"document source":     wrongSource,
		"same category":       sameCategory,
		"missing description": noDescription,
	} {
		_, err := suite.service.PostManual(ctx, suite.sellerID, req)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}
	suite.mockTx.AssertNotCalled(suite.T(), "WithinTransaction", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetEntries_ClampsLimit() {
	ctx := context.Background()
	suite.mockTx.On("WithinTransaction", ctx).Return(nil).Once()
	suite.mockLedger.On("ListEntries", ctx, suite.sellerID, mock.MatchedBy(func(f domain.LedgerFilter) bool {
		return f.Limit == 500
	})).Return([]domain.LedgerEntry{}, "next", nil).Once()

	entries, next, err := suite.service.GetEntries(ctx, suite.sellerID, domain.LedgerFilter{Limit: 10000})

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.Require().NotNil(next)
	suite.Equal("next", *next)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetEntries_DefaultLimit() {
	ctx := context.Background()
	suite.mockTx.On("WithinTransaction", ctx).Return(nil).Once()
	suite.mockLedger.On("ListEntries", ctx, suite.sellerID, mock.MatchedBy(func(f domain.LedgerFilter) bool {
		return f.Limit == 50
	})).Return([]domain.LedgerEntry{}, nil, nil).Once()

	_, next, err := suite.service.GetEntries(ctx, suite.sellerID, domain.LedgerFilter{})

	suite.Require().NoError(err)
	suite.Nil(next)
}

func (suite *LedgerServiceTestSuite) TestGetEntries_InvalidInput() {
	ctx := context.Background()
	from := suite.now
	to := suite.now.Add(-time.Hour)
	_, _, err := suite.service.GetEntries(ctx, suite.sellerID, domain.LedgerFilter{DateRange: domain.DateRange{From: &from, To: &to}})
	suite.ErrorIs(err, apperrors.ErrValidation)

	bogus := domain.SourceType("REFUND")
	_, _, err = suite.service.GetEntries(ctx, suite.sellerID, domain.LedgerFilter{SourceType: &bogus})
	suite.ErrorIs(err, apperrors.ErrValidation)

	token := "not-a-token"
	_, _, err = suite.service.GetEntries(ctx, suite.sellerID, domain.LedgerFilter{NextToken: &token})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockTx.AssertNotCalled(suite.T(), "WithinTransaction", mock.Anything)
}

// --- Run Test Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func TestCategoryRegistry_FindOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	registry := services.NewCategoryService(store)
	sellerID := uuid.NewString()

	var first, second *domain.Category
	err := store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		first, err = registry.FindOrCreate(ctx, uow, sellerID, domain.Asset, domain.CategoryCash)
		if err != nil {
			return err
		}
		second, err = registry.FindOrCreate(ctx, uow, sellerID, domain.Asset, "  "+domain.CategoryCash+" ")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, first.CategoryID, second.CategoryID)

	// Same name under another type is a different category.
	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		other, err := registry.FindOrCreate(ctx, uow, sellerID, domain.Liability, domain.CategoryCash)
		if err != nil {
			return err
		}
		assert.NotEqual(t, first.CategoryID, other.CategoryID)
		return nil
	})
	require.NoError(t, err)

	categories, err := registry.ListCategories(ctx, sellerID, nil)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		_, err := registry.FindOrCreate(ctx, uow, sellerID, domain.CategoryType("EQUITY"), "Capital")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCategoryService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := services.NewCategoryService(store)
	sellerID := uuid.NewString()

	parent, err := svc.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Operating Expenses", Type: domain.Expense})
	require.NoError(t, err)

	child, err := svc.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Rent", Type: domain.Expense, ParentID: &parent.CategoryID})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.CategoryID, *child.ParentID)

	_, err = svc.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Rent", Type: domain.Expense})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = svc.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Fees", Type: domain.Income, ParentID: &parent.CategoryID})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	missing := uuid.NewString()
	_, err = svc.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Power", Type: domain.Expense, ParentID: &missing})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	expenseType := domain.Expense
	expenses, err := svc.ListCategories(ctx, sellerID, &expenseType)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestLedgerService_PostManualAndPaginate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	container := services.NewServiceContainer(store)
	sellerID := uuid.NewString()

	cash, err := container.Category.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Cash", Type: domain.Asset})
	require.NoError(t, err)
	rent, err := container.Category.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Rent", Type: domain.Expense})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		pair, err := container.Ledger.PostManual(ctx, sellerID, dto.CreateManualEntryRequest{
			DebitCategoryID:  rent.CategoryID,
			CreditCategoryID: cash.CategoryID,
			DebitAmount:      decimal.NewFromInt(100),
			CreditAmount:     decimal.NewFromInt(100),
			SourceType:       domain.SourceExpense,
			Description:      "Monthly rent",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, pair[0].SourceID)
		assert.Equal(t, pair[0].SourceID, pair[1].SourceID)
	}

	_, err = container.Ledger.PostManual(ctx, sellerID, dto.CreateManualEntryRequest{
		DebitCategoryID:  uuid.NewString(),
		CreditCategoryID: cash.CategoryID,
		DebitAmount:      decimal.NewFromInt(1),
		CreditAmount:     decimal.NewFromInt(1),
		SourceType:       domain.SourceAdjustment,
		Description:      "Unknown debit category",
	})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	seen := make(map[string]bool)
	var token *string
	pages := 0
	for {
		entries, next, err := container.Ledger.GetEntries(ctx, sellerID, domain.LedgerFilter{Limit: 4, NextToken: token})
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, seen[e.EntryID], "entry %s returned twice", e.EntryID)
			seen[e.EntryID] = true
		}
		pages++
		if next == nil {
			break
		}
		_, _, err = pagination.DecodeToken(*next)
		require.NoError(t, err)
		token = next
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, 2, pages)

	summary, err := container.Reporting.FinancialSummary(ctx, sellerID, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.TotalAssets.Equal(decimal.NewFromInt(-300)))
	assert.True(t, summary.NetProfit.Equal(summary.TotalIncome.Sub(summary.TotalExpenses)))
}

func TestNewLedgerService_StandaloneWithoutOptions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	categories := services.NewCategoryService(store)
	ledger := services.NewLedgerService(store, categories)
	sellerID := uuid.NewString()

	cash, err := categories.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Cash", Type: domain.Asset})
	require.NoError(t, err)
	fees, err := categories.CreateCategory(ctx, sellerID, dto.CreateCategoryRequest{Name: "Bank Fees", Type: domain.Expense})
	require.NoError(t, err)

	pair, err := ledger.PostManual(ctx, sellerID, dto.CreateManualEntryRequest{
		DebitCategoryID:  fees.CategoryID,
		CreditCategoryID: cash.CategoryID,
		DebitAmount:      decimal.NewFromInt(7),
		CreditAmount:     decimal.NewFromInt(7),
		SourceType:       domain.SourceExpense,
		Description:      "Card fee",
	})
	require.NoError(t, err)
	assert.False(t, pair[0].CreatedAt.IsZero())

	entries, next, err := ledger.GetEntries(ctx, sellerID, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, entries, 2)
}

// failingLedger fails every posting after the document writes have been made.
type failingLedger struct {
	portssvc.LedgerPosterSvc
}

func (failingLedger) PostOrder(context.Context, portsrepo.UnitOfWork, string, string, decimal.Decimal) ([2]domain.LedgerEntry, error) {
	return [2]domain.LedgerEntry{}, apperrors.NewInternalError("ledger unavailable", errors.New("disk full"))
}

func TestOrderService_LedgerFailureRollsBackEveryWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sellerID := uuid.NewString()
	orders := services.NewOrderService(store, failingLedger{})

	_, err := orders.CreateOrder(ctx, sellerID, dto.CreateOrderRequest{
		CustomerID:    "C1",
		CartItems:     []dto.CartItemRequest{{Name: "Custom", Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
		CreateQuote:   true,
		CreateInvoice: true,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	err = store.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		listed, err := uow.Orders().ListOrders(ctx, sellerID, 100, 0)
		require.NoError(t, err)
		assert.Empty(t, listed)
		quotes, err := uow.Quotes().ListQuotes(ctx, sellerID, 100, 0)
		require.NoError(t, err)
		assert.Empty(t, quotes)
		invoices, err := uow.Invoices().ListInvoices(ctx, sellerID, 100, 0)
		require.NoError(t, err)
		assert.Empty(t, invoices)
		return nil
	})
	require.NoError(t, err)
}
