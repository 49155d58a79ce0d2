package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

// numberPrefix marks storefront order numbers.
const numberPrefix = "HG"

// NumberPattern matches generated order numbers: prefix, YYYYMMDD date
// component, and a random three-digit suffix.
var NumberPattern = regexp.MustCompile(`^HG-\d{8}-\d{3}$`)

// NumberGenerator produces human-readable order numbers. The random suffix
// gives only probabilistic uniqueness within a day; the database's unique
// constraint on order_number is the real guard, and callers needing
// idempotency must add their own check.
type NumberGenerator struct {
	now  func() time.Time
	intn func(n int) int
}

// NewNumberGenerator returns a generator backed by the wall clock and the
// default random source.
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{
		now:  time.Now,
		intn: rand.IntN,
	}
}

// Generate returns a fresh order number, e.g. "HG-20250114-382".
func (g *NumberGenerator) Generate() string {
	return fmt.Sprintf("%s-%s-%03d", numberPrefix, g.now().Format("20060102"), 100+g.intn(900))
}
