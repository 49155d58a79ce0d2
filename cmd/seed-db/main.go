// Command seed-db runs migrations and loads the starter catalog plus a few
// promotions, so a fresh environment is usable immediately.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/storage/postgres"
)

type seedFile struct {
	Categories []categoryJSON `json:"categories"`
	Items      []menuItemJSON `json:"items"`
}

type categoryJSON struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameTH string `json:"name_th"`
}

type menuItemJSON struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsPopular   bool            `json:"is_popular"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if err := seedPromotions(ctx, pool); err != nil {
		return errors.Wrap(err, "seed promotions")
	}

	return nil
}

const upsertCategorySQL = `
INSERT INTO categories (id, name, name_th)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, name_th = EXCLUDED.name_th`

const upsertMenuItemSQL = `
INSERT INTO menu_items (id, category_id, name, description, price, image_url, is_popular, is_available)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
ON CONFLICT (id) DO UPDATE SET
	category_id = EXCLUDED.category_id,
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	price = EXCLUDED.price,
	image_url = EXCLUDED.image_url,
	is_popular = EXCLUDED.is_popular`

// Explicit seed IDs bypass the sequences, so bump them past the seeded rows.
const bumpSequencesSQL = `
SELECT setval(pg_get_serial_sequence('categories', 'id'), (SELECT MAX(id) FROM categories));
SELECT setval(pg_get_serial_sequence('menu_items', 'id'), (SELECT MAX(id) FROM menu_items));`

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	data, err := os.ReadFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting categories", slog.Int("count", len(seed.Categories)))

	for _, c := range seed.Categories {
		if _, err := pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name, c.NameTH); err != nil {
			return errors.Wrapf(err, "upsert category %d", c.ID)
		}
	}

	slog.Info("upserting menu items", slog.Int("count", len(seed.Items)))

	for _, it := range seed.Items {
		if _, err := pool.Exec(ctx, upsertMenuItemSQL,
			it.ID, it.CategoryID, it.Name, it.Description, it.Price, it.ImageURL, it.IsPopular,
		); err != nil {
			return errors.Wrapf(err, "upsert menu item %d", it.ID)
		}

		slog.Info("upserted menu item", slog.Int64("id", it.ID), slog.String("name", it.Name))
	}

	if _, err := pool.Exec(ctx, bumpSequencesSQL); err != nil {
		return errors.Wrap(err, "bump sequences")
	}

	return nil
}

const upsertPromotionSQL = `
INSERT INTO promotions (title, description, discount_percent, discount_amount, promo_code, start_date, end_date, is_active)
VALUES ($1, $2, $3, $4, $5, NULL, NULL, TRUE)
ON CONFLICT (promo_code) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	discount_percent = EXCLUDED.discount_percent,
	discount_amount = EXCLUDED.discount_amount,
	is_active = TRUE,
	updated_at = now()`

func seedPromotions(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding starter promotions")

	promos := []struct {
		title       string
		description string
		percent     *decimal.Decimal
		amount      *decimal.Decimal
		code        string
	}{
		{
			title:       "Grand Opening 10%",
			description: "10% off the whole order",
			percent:     ptr(decimal.NewFromInt(10)),
			code:        "WELCOME10",
		},
		{
			title:       "Free Shipping",
			description: "50 THB off, covers the flat shipping fee",
			amount:      ptr(decimal.NewFromInt(50)),
			code:        "FREESHIP",
		},
	}

	for _, p := range promos {
		if _, err := pool.Exec(ctx, upsertPromotionSQL,
			p.title, p.description, p.percent, p.amount, p.code,
		); err != nil {
			return errors.Wrapf(err, "upsert promotion %s", p.code)
		}

		slog.Info("upserted promotion", slog.String("code", p.code), slog.String("title", p.title))
	}

	return nil
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
