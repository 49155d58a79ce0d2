// Package promotion models promo codes: either a percentage discount or a
// flat amount off, scoped to a validity window and an active flag.
package promotion

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no promotion matches the given ID.
	ErrNotFound = errors.New("promotion not found")
	// ErrInvalidCode is returned when a promo code is unknown, inactive, or
	// outside its validity window.
	ErrInvalidCode = errors.New("invalid or expired promo code")
	// ErrCodeTaken is returned when a create or update would reuse an
	// existing promo code.
	ErrCodeTaken = errors.New("promo code already exists")
)

// Promotion is a single promo rule. Exactly one of DiscountPercent or
// DiscountAmount should be set; when both are present the percentage wins.
type Promotion struct {
	ID              int64
	Name            string
	Description     string
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	PromoCode       string
	StartDate       *time.Time
	EndDate         *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActiveAt reports whether the promotion can be redeemed at the given time:
// the active flag is set and now falls inside the validity window. A nil
// boundary is open-ended on that side.
func (p *Promotion) ActiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}

// Discount computes the discount for the given order amount. Percentage
// rules take amount*percent/100; flat rules take the fixed amount. The
// result is rounded to 2 decimal places and never exceeds the order amount.
func (p *Promotion) Discount(amount decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch {
	case p.DiscountPercent != nil && p.DiscountPercent.IsPositive():
		d = amount.Mul(*p.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	case p.DiscountAmount != nil:
		d = *p.DiscountAmount
	}
	if d.GreaterThan(amount) {
		return amount
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Update carries a partial promotion update; nil fields are left unchanged.
type Update struct {
	Name            *string
	Description     *string
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	PromoCode       *string
	StartDate       *time.Time
	EndDate         *time.Time
	IsActive        *bool
}

// Stats is the overview aggregate across all promotions.
type Stats struct {
	TotalPromotions  int
	ActivePromotions int
	Expired          int
	Upcoming         int
}

// Repository provides promotion persistence. FindActiveByCode matches the
// code case-insensitively and only returns promotions active at query time.
type Repository interface {
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]Promotion, int, error)
	GetByID(ctx context.Context, id int64) (*Promotion, error)
	FindActiveByCode(ctx context.Context, code string) (*Promotion, error)
	Create(ctx context.Context, p *Promotion) (int64, error)
	Update(ctx context.Context, id int64, upd Update) (*Promotion, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
}
