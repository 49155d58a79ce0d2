package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homegym/storefront/internal/domain/promotion"
)

const (
	promotionColumns = `id, title, COALESCE(description, ''), discount_percent, discount_amount,
		COALESCE(promo_code, ''), start_date, end_date, is_active, created_at, updated_at`

	listPromotionsSQL = `SELECT ` + promotionColumns + `
		FROM promotions
		WHERE ($1 = FALSE OR (is_active
			AND (start_date IS NULL OR start_date <= now())
			AND (end_date IS NULL OR end_date >= now())))
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	countPromotionsSQL = `SELECT COUNT(*) FROM promotions
		WHERE ($1 = FALSE OR (is_active
			AND (start_date IS NULL OR start_date <= now())
			AND (end_date IS NULL OR end_date >= now())))`

	getPromotionByIDSQL = `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`

	findActivePromotionSQL = `SELECT ` + promotionColumns + `
		FROM promotions
		WHERE UPPER(promo_code) = UPPER($1) AND is_active
			AND (start_date IS NULL OR start_date <= now())
			AND (end_date IS NULL OR end_date >= now())`

	createPromotionSQL = `INSERT INTO promotions
		(title, description, discount_percent, discount_amount, promo_code, start_date, end_date, is_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7, $8)
		RETURNING id`

	deletePromotionSQL = `DELETE FROM promotions WHERE id = $1`

	promotionStatsSQL = `SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active
				AND (start_date IS NULL OR start_date <= now())
				AND (end_date IS NULL OR end_date >= now())) AS active,
			COUNT(*) FILTER (WHERE end_date IS NOT NULL AND end_date < now()) AS expired,
			COUNT(*) FILTER (WHERE start_date IS NOT NULL AND start_date > now()) AS upcoming
		FROM promotions`
)

var _ promotion.Repository = (*PromotionRepository)(nil)

// PromotionRepository implements promotion.Repository backed by PostgreSQL.
type PromotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository returns a PromotionRepository that uses the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// List returns a page of promotions, newest first, plus the total matching
// row count. With activeOnly, only promotions redeemable right now are
// included.
func (r *PromotionRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]promotion.Promotion, int, error) {
	rows, err := r.pool.Query(ctx, listPromotionsSQL, activeOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing promotions: %w", err)
	}
	promotions, err := pgx.CollectRows(rows, scanPromotion)
	if err != nil {
		return nil, 0, fmt.Errorf("listing promotions: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countPromotionsSQL, activeOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting promotions: %w", err)
	}
	return promotions, total, nil
}

// GetByID returns a single promotion regardless of its active state.
func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx, getPromotionByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting promotion %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPromotion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promotion.ErrNotFound
		}
		return nil, fmt.Errorf("getting promotion %d: %w", id, err)
	}
	return &p, nil
}

// FindActiveByCode looks up a redeemable promotion by its code,
// case-insensitive. Inactive or out-of-window promotions map to ErrNotFound.
func (r *PromotionRepository) FindActiveByCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx, findActivePromotionSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding promotion by code %q: %w", code, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPromotion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promotion.ErrNotFound
		}
		return nil, fmt.Errorf("finding promotion by code %q: %w", code, err)
	}
	return &p, nil
}

// Create inserts a new promotion and returns its ID. A duplicate promo code
// maps to promotion.ErrCodeTaken.
func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createPromotionSQL,
		p.Name, p.Description, p.DiscountPercent, p.DiscountAmount,
		p.PromoCode, p.StartDate, p.EndDate, p.IsActive,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, promotion.ErrCodeTaken
		}
		return 0, fmt.Errorf("creating promotion: %w", err)
	}
	return id, nil
}

// buildPromotionUpdate renders the SET clause for a partial update. Nil
// fields in upd are left untouched. A promotion carries exactly one discount
// kind, so setting one discount column NULLs the other; otherwise switching
// a percentage promotion to a flat amount would leave both columns set.
func buildPromotionUpdate(id int64, upd promotion.Update) (sql string, args []any) {
	sets := make([]string, 0, 9)
	args = []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("title", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.DiscountPercent != nil {
		add("discount_percent", *upd.DiscountPercent)
		if upd.DiscountAmount == nil {
			sets = append(sets, "discount_amount = NULL")
		}
	}
	if upd.DiscountAmount != nil {
		add("discount_amount", *upd.DiscountAmount)
		if upd.DiscountPercent == nil {
			sets = append(sets, "discount_percent = NULL")
		}
	}
	if upd.PromoCode != nil {
		add("promo_code", *upd.PromoCode)
	}
	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		add("end_date", *upd.EndDate)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	if len(sets) == 0 {
		return "", nil
	}
	sets = append(sets, "updated_at = now()")
	return fmt.Sprintf("UPDATE promotions SET %s WHERE id = $1", strings.Join(sets, ", ")), args
}

// Update applies a partial update and returns the fresh row.
func (r *PromotionRepository) Update(ctx context.Context, id int64, upd promotion.Update) (*promotion.Promotion, error) {
	sql, args := buildPromotionUpdate(id, upd)
	if sql == "" {
		return r.GetByID(ctx, id)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, promotion.ErrCodeTaken
		}
		return nil, fmt.Errorf("updating promotion %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, promotion.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a promotion.
func (r *PromotionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deletePromotionSQL, id)
	if err != nil {
		return fmt.Errorf("deleting promotion %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

// Stats returns the promotion overview aggregates.
func (r *PromotionRepository) Stats(ctx context.Context) (*promotion.Stats, error) {
	var s promotion.Stats
	err := r.pool.QueryRow(ctx, promotionStatsSQL).Scan(
		&s.TotalPromotions, &s.ActivePromotions, &s.Expired, &s.Upcoming,
	)
	if err != nil {
		return nil, fmt.Errorf("getting promotion stats: %w", err)
	}
	return &s, nil
}

func scanPromotion(row pgx.CollectableRow) (promotion.Promotion, error) {
	var p promotion.Promotion
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.DiscountPercent, &p.DiscountAmount,
		&p.PromoCode, &p.StartDate, &p.EndDate, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
