package redis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homegym/storefront/internal/domain/cart"
	"github.com/homegym/storefront/internal/domain/order"
)

func TestSessionCodecRoundTrip(t *testing.T) {
	s := cart.NewSession()
	s.Cart.Items = []cart.LineItem{
		{ItemID: 5, Name: "Pull-up Bar", UnitPrice: decimal.RequireFromString("280.00"), Quantity: 2, ImageURL: "/img/bar.jpg"},
		{ItemID: 1, Name: "Jump Rope Pro", UnitPrice: decimal.RequireFromString("280"), Quantity: 1},
	}
	s.Pending[3] = 4
	s.OrderCounts[5] = 6

	got, err := decodeSession(encodeSession(s))
	require.NoError(t, err)

	assert.Equal(t, cart.SchemaVersion, got.Version)
	require.Len(t, got.Cart.Items, 2)
	assert.Equal(t, int64(5), got.Cart.Items[0].ItemID)
	assert.True(t, got.Cart.Items[0].UnitPrice.Equal(decimal.NewFromInt(280)))
	assert.Equal(t, 2, got.Cart.Items[0].Quantity)
	assert.Equal(t, map[int64]int{3: 4}, got.Pending)
	assert.Equal(t, map[int64]int{5: 6}, got.OrderCounts)
}

func TestSessionCodec_EmptySession(t *testing.T) {
	got, err := decodeSession(encodeSession(cart.NewSession()))
	require.NoError(t, err)

	assert.True(t, got.Cart.IsEmpty())
	assert.Empty(t, got.Pending)
	assert.Empty(t, got.OrderCounts)
}

func TestSessionCodec_UnknownFieldsSkipped(t *testing.T) {
	doc := []byte(`{"version":1,"items":[],"pending":{},"order_counts":{},"legacy_flag":true}`)

	got, err := decodeSession(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestOrderCodecRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	o := &order.Order{
		ID:              42,
		Number:          "HG-20250615-382",
		CustomerID:      7,
		CustomerName:    "Somchai",
		CustomerPhone:   "0812345678",
		CustomerAddress: "99 Sukhumvit Rd",
		PaymentMethod:   order.PaymentCash,
		Items: []order.Item{
			{MenuItemID: 5, Name: "Pull-up Bar", Quantity: 2, UnitPrice: decimal.NewFromInt(280), TotalPrice: decimal.NewFromInt(560)},
		},
		Subtotal:  decimal.NewFromInt(560),
		Shipping:  decimal.NewFromInt(50),
		Total:     decimal.NewFromInt(610),
		Status:    order.StatusPending,
		CreatedAt: created,
	}

	got, err := decodeOrder(encodeOrder(o))
	require.NoError(t, err)

	assert.Equal(t, o.Number, got.Number)
	assert.Equal(t, o.PaymentMethod, got.PaymentMethod)
	assert.Equal(t, o.Status, got.Status)
	assert.True(t, got.Total.Equal(o.Total))
	assert.True(t, got.CreatedAt.Equal(created))
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].TotalPrice.Equal(decimal.NewFromInt(560)))
}

func TestDecodeSession_Garbage(t *testing.T) {
	_, err := decodeSession([]byte(`not json`))
	require.Error(t, err)
}
