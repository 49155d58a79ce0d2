// Package customer models storefront customers. Phone number is the natural
// unique key: order placement upserts by phone, and a later submission with
// the same phone overwrites name, email, and address (last write wins).
package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no customer matches the given ID or phone.
	ErrNotFound = errors.New("customer not found")
	// ErrPhoneTaken is returned when a create or update would reuse a phone
	// number already owned by another customer.
	ErrPhoneTaken = errors.New("phone number already taken")
)

// Customer is a storefront customer. The aggregate fields (TotalOrders,
// TotalSpent, AverageOrderValue) are populated by list and detail queries
// and are zero on write paths.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time

	TotalOrders       int
	TotalSpent        decimal.Decimal
	AverageOrderValue decimal.Decimal
}

// Stats is the overview aggregate across all customers.
type Stats struct {
	TotalCustomers       int
	NewCustomers7d       int
	NewCustomers30d      int
	AverageCustomerValue decimal.Decimal
}

// Repository defines customer persistence. List returns the page plus the
// total row count for pagination.
type Repository interface {
	List(ctx context.Context, search string, limit, offset int) ([]Customer, int, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	Create(ctx context.Context, c *Customer) (int64, error)
	Update(ctx context.Context, c *Customer) error
	Stats(ctx context.Context) (*Stats, error)
}
