package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberGenerator_Format(t *testing.T) {
	g := &NumberGenerator{
		now:  func() time.Time { return time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC) },
		intn: func(n int) int { return 282 },
	}

	assert.Equal(t, "HG-20250114-382", g.Generate())
}

func TestNumberGenerator_SuffixRange(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, roll := range []int{0, 449, 899} {
		g := &NumberGenerator{
			now:  func() time.Time { return fixed },
			intn: func(n int) int { require.Equal(t, 900, n); return roll },
		}
		num := g.Generate()
		assert.Regexp(t, NumberPattern, num)
	}
}

func TestNumberGenerator_DefaultMatchesPattern(t *testing.T) {
	g := NewNumberGenerator()
	for range 20 {
		assert.Regexp(t, NumberPattern, g.Generate())
	}
}
