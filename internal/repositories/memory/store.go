// Package memory is an in-process store implementing every repository port.
// Units of work are serialised on one mutex; a failed unit restores the
// snapshot taken when it started.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/platform/metrics"
)

const storeLabel = "memory"

type state struct {
	categories map[string]domain.Category
	entries    []domain.LedgerEntry
	quotes     map[string]domain.Quote
	orders     map[string]domain.Order
	cartItems  map[string][]domain.OrderCartItem // keyed by order id
	invoices   map[string]domain.Invoice
	products   map[string]domain.Product
}

func newState() *state {
	return &state{
		categories: make(map[string]domain.Category),
		entries:    make([]domain.LedgerEntry, 0),
		quotes:     make(map[string]domain.Quote),
		orders:     make(map[string]domain.Order),
		cartItems:  make(map[string][]domain.OrderCartItem),
		invoices:   make(map[string]domain.Invoice),
		products:   make(map[string]domain.Product),
	}
}

// clone copies every table. Records are stored by value and their pointer
// fields are never written through, so a shallow copy per record suffices.
func (st *state) clone() *state {
	c := &state{
		categories: maps.Clone(st.categories),
		entries:    append(make([]domain.LedgerEntry, 0, len(st.entries)), st.entries...),
		quotes:     maps.Clone(st.quotes),
		orders:     maps.Clone(st.orders),
		cartItems:  make(map[string][]domain.OrderCartItem, len(st.cartItems)),
		invoices:   maps.Clone(st.invoices),
		products:   maps.Clone(st.products),
	}
	for orderID, items := range st.cartItems {
		c.cartItems[orderID] = append([]domain.OrderCartItem(nil), items...)
	}
	return c
}

// Store is the in-memory TransactionManager.
type Store struct {
	mu    sync.Mutex
	state *state
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// PutProduct seeds the catalog. Products are read-only to the core.
func (s *Store) PutProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[product.ProductID] = product
}

// WithinTransaction runs fn against a unit of work over the live state. An error or
// panic from fn puts the state back to how it was before fn started.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) (err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperrors.NewInternalError("unit of work not started", ctxErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			metrics.UnitsOfWork.WithLabelValues(storeLabel, "rollback").Inc()
			panic(p)
		}
	}()

	if err = fn(ctx, &unitOfWork{st: s.state}); err != nil {
		s.state = snapshot
		metrics.UnitsOfWork.WithLabelValues(storeLabel, "rollback").Inc()
		return err
	}
	metrics.UnitsOfWork.WithLabelValues(storeLabel, "commit").Inc()
	return nil
}

// unitOfWork implements every repository port over one state.
type unitOfWork struct {
	st *state
}

var (
	_ portsrepo.UnitOfWork          = (*unitOfWork)(nil)
	_ portsrepo.CategoryRepository  = (*unitOfWork)(nil)
	_ portsrepo.LedgerRepository    = (*unitOfWork)(nil)
	_ portsrepo.ReportingRepository = (*unitOfWork)(nil)
	_ portsrepo.QuoteRepository     = (*unitOfWork)(nil)
	_ portsrepo.OrderRepository     = (*unitOfWork)(nil)
	_ portsrepo.CartItemRepository  = (*unitOfWork)(nil)
	_ portsrepo.InvoiceRepository   = (*unitOfWork)(nil)
	_ portsrepo.CatalogReader       = (*unitOfWork)(nil)
)

func (u *unitOfWork) Categories() portsrepo.CategoryRepository { return u }
func (u *unitOfWork) Ledger() portsrepo.LedgerRepository { return u }
func (u *unitOfWork) Reporting() portsrepo.ReportingRepository { return u }
func (u *unitOfWork) Quotes() portsrepo.QuoteRepository { return u }
func (u *unitOfWork) Orders() portsrepo.OrderRepository { return u }
func (u *unitOfWork) CartItems() portsrepo.CartItemRepository { return u }
func (u *unitOfWork) Invoices() portsrepo.InvoiceRepository { return u }
func (u *unitOfWork) Catalog() portsrepo.CatalogReader { return u }

func notFound(kind, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s with ID %s not found", kind, id))
}

func (u *unitOfWork) FindProduct(_ context.Context, sellerID, productID string) (*domain.Product, error) {
	p, ok := u.st.products[productID]
	if !ok || p.SellerID != sellerID {
		return nil, notFound("product", productID)
	}
	return &p, nil
}
