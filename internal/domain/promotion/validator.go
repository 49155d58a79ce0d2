package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Result is the outcome of applying a promo code to an order amount.
type Result struct {
	Promotion   *Promotion
	Discount    decimal.Decimal
	FinalAmount decimal.Decimal
}

// Validator resolves a promo code and computes the discounted total for an
// order amount.
type Validator struct {
	repo Repository
	now  func() time.Time
}

// NewValidator creates a Validator backed by the given repository.
func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo, now: time.Now}
}

// Validate looks up the code, checks the validity window, and computes the
// discount against amount. The final amount never goes below zero.
func (v *Validator) Validate(ctx context.Context, code string, amount decimal.Decimal) (*Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	p, err := v.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, errors.Wrap(err, "lookup promo code")
	}

	if !p.ActiveAt(v.now()) {
		return nil, ErrInvalidCode
	}

	discount := p.Discount(amount)
	final := amount.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return &Result{
		Promotion:   p,
		Discount:    discount,
		FinalAmount: final,
	}, nil
}
