package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homegym/storefront/internal/domain/order"
)

const (
	upsertCustomerSQL = `INSERT INTO customers (name, phone, email, address)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(EXCLUDED.email, customers.email),
			address = COALESCE(EXCLUDED.address, customers.address),
			updated_at = now()
		RETURNING id`

	insertOrderSQL = `INSERT INTO orders (order_number, customer_id, total_amount, payment_method, order_status, special_notes)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)`

	orderColumns = `o.id, o.order_number, o.customer_id, c.name, c.phone,
		COALESCE(c.email, ''), COALESCE(c.address, ''),
		o.payment_method, COALESCE(o.special_notes, ''),
		o.total_amount, o.order_status, o.created_at`

	getOrderByIDSQL = `SELECT ` + orderColumns + `
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1`

	getOrderByNumberSQL = `SELECT ` + orderColumns + `
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.order_number = $1`

	listOrdersSQL = `SELECT ` + orderColumns + `
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE ($1 = '' OR o.order_status = $1)
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3`

	countOrdersSQL = `SELECT COUNT(*) FROM orders o WHERE ($1 = '' OR o.order_status = $1)`

	listOrdersByCustomerSQL = `SELECT ` + orderColumns + `
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2`

	getOrderItemsSQL = `SELECT i.menu_item_id, m.name, m.description, m.image_url,
			i.quantity, i.unit_price, i.total_price
		FROM order_items i JOIN menu_items m ON m.id = i.menu_item_id
		WHERE i.order_id = $1 ORDER BY i.id`

	updateOrderStatusSQL = `UPDATE orders SET order_status = $3 WHERE id = $1 AND order_status = $2`

	orderExistsSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order in a single transaction: the customer is
// upserted by phone (last write wins on contact fields), the order row is
// inserted, then every line item. o.ID, o.CustomerID, and o.CreatedAt are
// filled on success.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	err = tx.QueryRow(ctx, upsertCustomerSQL,
		o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.CustomerAddress,
	).Scan(&o.CustomerID)
	if err != nil {
		return fmt.Errorf("upserting customer: %w", err)
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.Number, o.CustomerID, o.Total, o.PaymentMethod, o.Status, o.SpecialNotes,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting order %q: %w", o.Number, err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemSQL,
			o.ID, item.MenuItemID, item.Quantity, item.UnitPrice, item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("inserting order item %d: %w", item.MenuItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.Number, err)
	}
	return nil
}

// GetByID returns the order with its customer snapshot and line items.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.getOne(ctx, getOrderByIDSQL, id)
}

// GetByNumber returns the order matching the human-readable order number.
func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.getOne(ctx, getOrderByNumberSQL, number)
}

// List returns a page of orders, newest first, optionally filtered by
// status, plus the total matching row count. Line items are loaded for every
// order on the page.
func (r *OrderRepository) List(ctx context.Context, status order.Status, limit, offset int) ([]order.Order, int, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, countOrdersSQL, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}
	return orders, total, nil
}

// ListByCustomer returns a customer's most recent orders, newest first,
// with line items loaded.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus moves the order's lifecycle status with the expected current
// status as a guard, so two concurrent updates cannot both win. When the
// guard misses, a missing row maps to ErrNotFound and a concurrently changed
// status to ErrInvalidTransition.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("updating status for order %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, orderExistsSQL, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking order %d: %w", id, err)
	}
	if !exists {
		return order.ErrNotFound
	}
	return order.ErrInvalidTransition
}

func (r *OrderRepository) getOne(ctx context.Context, sql string, arg any) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// loadItems fills o.Items and derives Subtotal and Shipping, which are not
// stored: subtotal is the sum of line totals and shipping is the remainder
// of the stored grand total.
func (r *OrderRepository) loadItems(ctx context.Context, o *order.Order) error {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, o.ID)
	if err != nil {
		return fmt.Errorf("loading items for order %d: %w", o.ID, err)
	}
	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return fmt.Errorf("loading items for order %d: %w", o.ID, err)
	}

	o.Items = items
	for _, item := range items {
		o.Subtotal = o.Subtotal.Add(item.TotalPrice)
	}
	o.Shipping = o.Total.Sub(o.Subtotal)
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o       order.Order
		payment string
		status  string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerEmail, &o.CustomerAddress,
		&payment, &o.SpecialNotes,
		&o.Total, &status, &o.CreatedAt,
	)
	o.PaymentMethod = order.PaymentMethod(payment)
	o.Status = order.Status(status)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var item order.Item
	err := row.Scan(
		&item.MenuItemID, &item.Name, &item.Description, &item.ImageURL,
		&item.Quantity, &item.UnitPrice, &item.TotalPrice,
	)
	return item, err
}
