package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/models"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/utils/mapping"
)

type PgxOrderRepository struct {
	BaseRepository
}

var _ portsrepo.OrderRepository = (*PgxOrderRepository)(nil)

const orderColumns = `order_id, seller_id, customer_id, payment_type_id, total_amount, created_at, last_updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var m models.Order
	if err := row.Scan(&m.OrderID, &m.SellerID, &m.CustomerID, &m.PaymentTypeID, &m.TotalAmount, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
		return nil, err
	}
	o := mapping.ToDomainOrder(m)
	return &o, nil
}

func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	query := `
		INSERT INTO orders (order_id, seller_id, customer_id, payment_type_id, total_amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.OrderID, m.SellerID, m.CustomerID, m.PaymentTypeID, m.TotalAmount, m.CreatedAt, m.LastUpdatedAt)
	return mapError(err, "insert order "+m.OrderID)
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, sellerID, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 AND seller_id = $2;`
	o, err := scanOrder(r.db.QueryRow(ctx, query, orderID, sellerID))
	if err != nil {
		return nil, mapError(err, "find order "+orderID)
	}
	return o, nil
}

func (r *PgxOrderRepository) FindOrderByIDForUpdate(ctx context.Context, sellerID, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 AND seller_id = $2 FOR UPDATE;`
	o, err := scanOrder(r.db.QueryRow(ctx, query, orderID, sellerID))
	if err != nil {
		return nil, mapError(err, "lock order "+orderID)
	}
	return o, nil
}

func (r *PgxOrderRepository) ListOrders(ctx context.Context, sellerID string, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_id = $1 ORDER BY created_at DESC, order_id DESC LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, mapError(err, "list orders")
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, mapError(err, "scan order row")
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate order rows")
	}
	return orders, nil
}

func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	query := `
		UPDATE orders
		SET customer_id = $1, payment_type_id = $2, total_amount = $3, last_updated_at = $4
		WHERE order_id = $5 AND seller_id = $6;
	`
	tag, err := r.db.Exec(ctx, query, m.CustomerID, m.PaymentTypeID, m.TotalAmount, m.LastUpdatedAt, m.OrderID, m.SellerID)
	if err != nil {
		return mapError(err, "update order "+m.OrderID)
	}
	return expectOne(tag, "update order "+m.OrderID)
}

func (r *PgxOrderRepository) DeleteOrder(ctx context.Context, sellerID, orderID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE order_id = $1 AND seller_id = $2;`, orderID, sellerID)
	if err != nil {
		return mapError(err, "delete order "+orderID)
	}
	return expectOne(tag, "delete order "+orderID)
}

type PgxCartItemRepository struct {
	BaseRepository
}

var _ portsrepo.CartItemRepository = (*PgxCartItemRepository)(nil)

const cartItemColumns = `cart_item_id, order_id, product_id, sku, name, description, quantity, unit_price, line_total, tax_rate, tax_code_id, position`

// SaveCartItems inserts the lines in one batch, keeping their order in position.
func (r *PgxCartItemRepository) SaveCartItems(ctx context.Context, items []domain.OrderCartItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_cart_items (` + cartItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	batch := &pgx.Batch{}
	for i, item := range items {
		m := mapping.ToModelCartItem(item, i)
		batch.Queue(query,
			m.CartItemID,
			m.OrderID,
			m.ProductID,
			m.SKU,
			m.Name,
			m.Description,
			m.Quantity,
			m.UnitPrice,
			m.LineTotal,
			m.TaxRate,
			m.TaxCodeID,
			m.Position,
		)
	}
	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapError(err, "insert cart items for order "+items[0].OrderID)
	}
	return nil
}

func (r *PgxCartItemRepository) scanItems(rows pgx.Rows) ([]models.OrderCartItem, error) {
	defer rows.Close()
	items := make([]models.OrderCartItem, 0)
	for rows.Next() {
		var m models.OrderCartItem
		if err := rows.Scan(
			&m.CartItemID,
			&m.OrderID,
			&m.ProductID,
			&m.SKU,
			&m.Name,
			&m.Description,
			&m.Quantity,
			&m.UnitPrice,
			&m.LineTotal,
			&m.TaxRate,
			&m.TaxCodeID,
			&m.Position,
		); err != nil {
			return nil, mapError(err, "scan cart item row")
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate cart item rows")
	}
	return items, nil
}

func (r *PgxCartItemRepository) FindCartItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderCartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM order_cart_items WHERE order_id = $1 ORDER BY position;`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError(err, "query cart items for order "+orderID)
	}
	ms, err := r.scanItems(rows)
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderCartItem, len(ms))
	for i, m := range ms {
		items[i] = mapping.ToDomainCartItem(m)
	}
	return items, nil
}

func (r *PgxCartItemRepository) FindCartItemsByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]domain.OrderCartItem, error) {
	result := make(map[string][]domain.OrderCartItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + cartItemColumns + ` FROM order_cart_items WHERE order_id = ANY($1) ORDER BY order_id, position;`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, mapError(err, "query cart items for orders")
	}
	ms, err := r.scanItems(rows)
	if err != nil {
		return nil, err
	}
	for _, id := range orderIDs {
		result[id] = make([]domain.OrderCartItem, 0)
	}
	for _, m := range ms {
		result[m.OrderID] = append(result[m.OrderID], mapping.ToDomainCartItem(m))
	}
	return result, nil
}

func (r *PgxCartItemRepository) DeleteCartItemsByOrderID(ctx context.Context, orderID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_cart_items WHERE order_id = $1;`, orderID)
	return mapError(err, "delete cart items for order "+orderID)
}

type PgxCatalogRepository struct {
	BaseRepository
}

var _ portsrepo.CatalogReader = (*PgxCatalogRepository)(nil)

func (r *PgxCatalogRepository) FindProduct(ctx context.Context, sellerID, productID string) (*domain.Product, error) {
	query := `
		SELECT p.product_id, p.seller_id, p.sku, p.name, p.description, p.tax_code_id, t.rate
		FROM products p
		LEFT JOIN tax_codes t ON t.tax_code_id = p.tax_code_id
		WHERE p.product_id = $1 AND p.seller_id = $2;
	`
	var m models.Product
	err := r.db.QueryRow(ctx, query, productID, sellerID).Scan(
		&m.ProductID,
		&m.SellerID,
		&m.SKU,
		&m.Name,
		&m.Description,
		&m.TaxCodeID,
		&m.TaxRate,
	)
	if err != nil {
		return nil, mapError(err, "find product "+productID)
	}
	p := mapping.ToDomainProduct(m)
	return &p, nil
}
