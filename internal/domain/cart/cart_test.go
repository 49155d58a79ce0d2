package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homegym/storefront/internal/domain/catalog"
)

var shipping = decimal.NewFromInt(50)

func item(id int64, name string, price int64) catalog.MenuItem {
	return catalog.MenuItem{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromInt(price),
		ImageURL: "/images/" + name + ".jpg",
	}
}

// subtotalInvariant checks that the cart subtotal always equals the sum of
// unit price times quantity, that no quantity is negative, and that no item
// ID appears twice.
func subtotalInvariant(t *testing.T, c *Cart) {
	t.Helper()

	want := decimal.Zero
	seen := make(map[int64]bool)
	for _, li := range c.Items {
		require.False(t, seen[li.ItemID], "duplicate line item %d", li.ItemID)
		seen[li.ItemID] = true
		require.GreaterOrEqual(t, li.Quantity, 0)
		want = want.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	assert.True(t, c.Subtotal().Equal(want), "subtotal %s != %s", c.Subtotal(), want)
}

func TestCart_AddMergesByID(t *testing.T) {
	var c Cart
	rope := item(1, "rope", 280)

	c.Add(rope, 2)
	c.Add(rope, 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	subtotalInvariant(t, &c)
}

func TestCart_AddClampsQuantity(t *testing.T) {
	var c Cart
	c.Add(item(1, "rope", 280), 0)
	c.Add(item(2, "mat", 390), -4)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestCart_AddFillsMissingImage(t *testing.T) {
	var c Cart
	bare := item(1, "rope", 280)
	bare.ImageURL = ""
	c.Add(bare, 1)
	require.Empty(t, c.Items[0].ImageURL)

	c.Add(item(1, "rope", 280), 1)
	assert.Equal(t, "/images/rope.jpg", c.Items[0].ImageURL)
}

func TestCart_SetQuantityZeroEqualsRemove(t *testing.T) {
	rope := item(1, "rope", 280)
	mat := item(2, "mat", 390)

	var byZero, byRemove Cart
	for _, c := range []*Cart{&byZero, &byRemove} {
		c.Add(rope, 2)
		c.Add(mat, 1)
	}

	byZero.SetQuantity(rope, 0)
	byRemove.Remove(rope.ID)

	assert.Equal(t, byRemove.Items, byZero.Items)
	subtotalInvariant(t, &byZero)
}

func TestCart_SetQuantityCreatesFromCatalog(t *testing.T) {
	var c Cart
	c.SetQuantity(item(3, "dumbbell", 3900), 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "dumbbell", c.Items[0].Name)
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.NewFromInt(3900)))
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestCart_SetQuantityNegativeRemoves(t *testing.T) {
	var c Cart
	rope := item(1, "rope", 280)
	c.Add(rope, 2)
	c.SetQuantity(rope, -5)

	assert.True(t, c.IsEmpty())
}

func TestCart_RemoveIdempotent(t *testing.T) {
	var c Cart
	c.Add(item(1, "rope", 280), 1)
	c.Remove(1)
	c.Remove(1)
	c.Remove(99)

	assert.True(t, c.IsEmpty())
}

func TestCart_MutationSequencesKeepInvariant(t *testing.T) {
	rope := item(1, "rope", 280)
	mat := item(2, "mat", 390)
	bell := item(3, "bell", 1250)

	var c Cart
	steps := []func(){
		func() { c.Add(rope, 2) },
		func() { c.Add(mat, 1) },
		func() { c.SetQuantity(rope, 5) },
		func() { c.Add(bell, 3) },
		func() { c.SetQuantity(mat, 0) },
		func() { c.Remove(3) },
		func() { c.Add(mat, 4) },
		func() { c.SetQuantity(bell, 1) },
	}
	for _, step := range steps {
		step()
		subtotalInvariant(t, &c)
	}

	// rope x5 + mat x4 + bell x1
	want := decimal.NewFromInt(280*5 + 390*4 + 1250)
	assert.True(t, c.Subtotal().Equal(want))
	assert.Equal(t, 10, c.Count())
}

func TestCart_TotalsIdempotent(t *testing.T) {
	var c Cart
	c.Add(item(1, "rope", 280), 2)

	first := c.Totals(shipping)
	second := c.Totals(shipping)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Total.Equal(decimal.NewFromInt(610)))
}

func TestCart_TotalsEmptySkipsShipping(t *testing.T) {
	var c Cart
	got := c.Totals(shipping)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Shipping.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestSession_PendingRoundTrip(t *testing.T) {
	s := NewSession()

	s.SetPending(1, 3)
	assert.Equal(t, 3, s.Pending[1])

	// Overwrite, then clear via zero.
	s.SetPending(1, 5)
	assert.Equal(t, 5, s.Pending[1])
	s.SetPending(1, 0)
	assert.NotContains(t, s.Pending, int64(1))

	s.SetPending(2, 4)
	assert.Equal(t, 4, s.TakePending(2))
	assert.NotContains(t, s.Pending, int64(2))
	assert.Zero(t, s.TakePending(2))
}

func TestSession_SetPendingNilMap(t *testing.T) {
	var s Session
	s.SetPending(1, 2)
	assert.Equal(t, 2, s.Pending[1])
}

func TestSession_ClearCartKeepsOrderCounts(t *testing.T) {
	s := NewSession()
	s.Cart.Add(item(1, "rope", 280), 2)
	s.Pending[1] = 3

	s.RecordOrder()
	s.ClearCart()

	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Pending)
	assert.Equal(t, 2, s.OrderCounts[1])

	// A second order accumulates.
	s.Cart.Add(item(1, "rope", 280), 1)
	s.RecordOrder()
	assert.Equal(t, 3, s.OrderCounts[1])
}
