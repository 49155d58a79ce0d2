package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/domain/customer"
)

const (
	customerColumns = `c.id, c.name, c.phone, COALESCE(c.email, ''), COALESCE(c.address, ''),
		c.created_at, c.updated_at,
		COUNT(o.id) AS total_orders,
		COALESCE(SUM(o.total_amount), 0) AS total_spent,
		COALESCE(AVG(o.total_amount), 0) AS average_order_value`

	listCustomersSQL = `SELECT ` + customerColumns + `
		FROM customers c LEFT JOIN orders o ON o.customer_id = c.id
		WHERE ($1 = '' OR c.name ILIKE '%' || $1 || '%' OR c.phone LIKE '%' || $1 || '%'
			OR c.email ILIKE '%' || $1 || '%')
		GROUP BY c.id ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	countCustomersSQL = `SELECT COUNT(*) FROM customers c
		WHERE ($1 = '' OR c.name ILIKE '%' || $1 || '%' OR c.phone LIKE '%' || $1 || '%'
			OR c.email ILIKE '%' || $1 || '%')`

	getCustomerByIDSQL = `SELECT ` + customerColumns + `
		FROM customers c LEFT JOIN orders o ON o.customer_id = c.id
		WHERE c.id = $1 GROUP BY c.id`

	getCustomerByPhoneSQL = `SELECT ` + customerColumns + `
		FROM customers c LEFT JOIN orders o ON o.customer_id = c.id
		WHERE c.phone = $1 GROUP BY c.id`

	createCustomerSQL = `INSERT INTO customers (name, phone, email, address)
		VALUES ($1, $2, $3, $4) RETURNING id`

	updateCustomerSQL = `UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5, updated_at = now()
		WHERE id = $1`

	customerStatsSQL = `SELECT
			COUNT(*) AS total_customers,
			COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '7 days') AS new_7d,
			COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '30 days') AS new_30d,
			COALESCE((SELECT AVG(spent) FROM (
				SELECT SUM(total_amount) AS spent FROM orders GROUP BY customer_id
			) t), 0) AS average_customer_value
		FROM customers`
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// List returns a page of customers with order aggregates, optionally
// filtered by a name, phone, or email substring, plus the total matching
// row count.
func (r *CustomerRepository) List(ctx context.Context, search string, limit, offset int) ([]customer.Customer, int, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	customers, err := pgx.CollectRows(rows, scanCustomer)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countCustomersSQL, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}
	return customers, total, nil
}

// GetByID returns a single customer with order aggregates.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}
	return &c, nil
}

// GetByPhone returns the customer owning the given phone number.
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByPhoneSQL, phone)
	if err != nil {
		return nil, fmt.Errorf("getting customer by phone %q: %w", phone, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer by phone %q: %w", phone, err)
	}
	return &c, nil
}

// Create inserts a new customer and returns its ID. A duplicate phone number
// maps to customer.ErrPhoneTaken.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createCustomerSQL, c.Name, c.Phone, c.Email, c.Address).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, customer.ErrPhoneTaken
		}
		return 0, fmt.Errorf("creating customer: %w", err)
	}
	return id, nil
}

// Update overwrites a customer's contact fields. A duplicate phone number
// maps to customer.ErrPhoneTaken.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL, c.ID, c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrPhoneTaken
		}
		return fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Stats returns the customer overview aggregates.
func (r *CustomerRepository) Stats(ctx context.Context) (*customer.Stats, error) {
	var (
		s   customer.Stats
		avg decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, customerStatsSQL).Scan(
		&s.TotalCustomers, &s.NewCustomers7d, &s.NewCustomers30d, &avg,
	)
	if err != nil {
		return nil, fmt.Errorf("getting customer stats: %w", err)
	}
	s.AverageCustomerValue = avg.Round(2)
	return &s, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
		&c.TotalOrders, &c.TotalSpent, &c.AverageOrderValue,
	)
	return c, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
