package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homegym/storefront/internal/domain/catalog"
)

const (
	menuItemColumns = `m.id, m.category_id, c.name, c.name_th, m.name, m.description,
		m.price, m.image_url, m.is_popular, m.is_available, m.created_at`

	listAvailableSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items m JOIN categories c ON c.id = m.category_id
		WHERE m.is_available ORDER BY m.category_id, m.is_popular DESC, m.name`

	listByCategorySQL = `SELECT ` + menuItemColumns + `
		FROM menu_items m JOIN categories c ON c.id = m.category_id
		WHERE m.is_available AND m.category_id = $1 ORDER BY m.is_popular DESC, m.name`

	listPopularSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items m JOIN categories c ON c.id = m.category_id
		WHERE m.is_available AND m.is_popular ORDER BY m.is_popular DESC, m.name`

	searchMenuItemsSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items m JOIN categories c ON c.id = m.category_id
		WHERE m.is_available AND (m.name ILIKE $1 OR m.description ILIKE $1
			OR c.name ILIKE $1 OR c.name_th ILIKE $1)
		ORDER BY m.is_popular DESC, m.name LIMIT $2`

	getMenuItemByIDSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items m JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1`

	getMenuItemsByIDsSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items m JOIN categories c ON c.id = m.category_id
		WHERE m.id = ANY($1) AND m.is_available`

	listCategoriesSQL = `SELECT c.id, c.name, c.name_th, c.created_at,
			COUNT(m.id) FILTER (WHERE m.is_available) AS item_count
		FROM categories c LEFT JOIN menu_items m ON m.category_id = c.id
		GROUP BY c.id ORDER BY c.id`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListAvailable returns all orderable menu items grouped by category.
func (r *CatalogRepository) ListAvailable(ctx context.Context) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listAvailableSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// ListCategories returns all categories with their available item counts.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// ListByCategory returns orderable menu items within one category.
func (r *CatalogRepository) ListByCategory(ctx context.Context, categoryID int64) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listByCategorySQL, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items for category %d: %w", categoryID, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// ListPopular returns orderable menu items flagged as popular.
func (r *CatalogRepository) ListPopular(ctx context.Context) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listPopularSQL)
	if err != nil {
		return nil, fmt.Errorf("listing popular menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// Search matches available items by item name, description, or category
// name (English or Thai), case-insensitive.
func (r *CatalogRepository) Search(ctx context.Context, query string, limit int) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, searchMenuItemsSQL, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching menu items %q: %w", query, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single menu item, available or not.
func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}

	mi, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}
	return &mi, nil
}

// GetByIDs returns the available menu items matching any of the given IDs.
// Absent or unavailable IDs are simply missing from the result.
func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []int64) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

func scanMenuItem(row pgx.CollectableRow) (catalog.MenuItem, error) {
	var mi catalog.MenuItem
	err := row.Scan(
		&mi.ID, &mi.CategoryID, &mi.CategoryName, &mi.CategoryNameTH,
		&mi.Name, &mi.Description, &mi.Price, &mi.ImageURL,
		&mi.IsPopular, &mi.IsAvailable, &mi.CreatedAt,
	)
	return mi, err
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.NameTH, &c.CreatedAt, &c.ItemCount)
	return c, err
}
