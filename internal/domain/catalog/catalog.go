// Package catalog holds the read-only menu reference data: categories and
// the items customers can order. The catalog is the single source of truth
// for item names, prices, and images; carts and orders never carry prices
// of their own invention.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item or category has no
// available rows.
var ErrNotFound = errors.New("menu item not found")

// ErrShortQuery is returned when a search term is shorter than MinQueryLen
// after trimming.
var ErrShortQuery = errors.New("search query must be at least 2 characters long")

const (
	// MinQueryLen is the minimum length of a free-text search term.
	MinQueryLen = 2
	// SearchLimit caps the number of rows a search may return.
	SearchLimit = 20
)

// MenuItem is a single orderable catalog entry. Category fields are
// denormalized from the joined category row for list responses.
type MenuItem struct {
	ID             int64
	CategoryID     int64
	CategoryName   string
	CategoryNameTH string
	Name           string
	Description    string
	Price          decimal.Decimal
	ImageURL       string
	IsPopular      bool
	IsAvailable    bool
	CreatedAt      time.Time
}

// Category groups menu items. ItemCount counts only available items.
type Category struct {
	ID        int64
	Name      string
	NameTH    string
	ItemCount int
	CreatedAt time.Time
}

// NormalizeQuery trims a search term and enforces the minimum length.
func NormalizeQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if len(q) < MinQueryLen {
		return "", ErrShortQuery
	}
	return q, nil
}

// Repository defines the catalog read paths. All listings return available
// items only, ordered by category, popularity, then name.
type Repository interface {
	ListAvailable(ctx context.Context) ([]MenuItem, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]MenuItem, error)
	ListPopular(ctx context.Context) ([]MenuItem, error)
	Search(ctx context.Context, query string, limit int) ([]MenuItem, error)
	GetByID(ctx context.Context, id int64) (*MenuItem, error)
	GetByIDs(ctx context.Context, ids []int64) ([]MenuItem, error)
}
