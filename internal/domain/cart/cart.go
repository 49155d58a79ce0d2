// Package cart models a shopper's session cart. Line items are keyed by
// menu item ID and always sourced from the catalog, so a cart can never
// carry a price the catalog does not know about.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/domain/catalog"
)

// ErrEmptyCart is returned when an operation requires a non-empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// LineItem is one product entry in the cart. Name, UnitPrice, and ImageURL
// are copied from the catalog at add time.
type LineItem struct {
	ItemID    int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageURL  string
}

// Total returns UnitPrice multiplied by Quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is an ordered list of line items, unique by item ID. Insertion order
// is preserved for display; it does not affect totals.
type Cart struct {
	Items []LineItem
}

// Totals is the derived pricing for a cart or order draft.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Add merges the catalog item into the cart. An existing line item has its
// quantity incremented (and a missing image filled in); otherwise a new line
// item is appended. Quantities below 1 are clamped to 1.
func (c *Cart) Add(item catalog.MenuItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ItemID != item.ID {
			continue
		}
		c.Items[i].Quantity += quantity
		if c.Items[i].ImageURL == "" {
			c.Items[i].ImageURL = item.ImageURL
		}
		return
	}

	c.Items = append(c.Items, LineItem{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  quantity,
		ImageURL:  item.ImageURL,
	})
}

// SetQuantity sets the line item for the catalog item to an absolute
// quantity, clamped at zero. Zero removes the line item; a positive quantity
// for an item not yet in the cart creates it from the catalog entry.
func (c *Cart) SetQuantity(item catalog.MenuItem, quantity int) {
	if quantity <= 0 {
		c.Remove(item.ID)
		return
	}

	for i := range c.Items {
		if c.Items[i].ItemID == item.ID {
			c.Items[i].Quantity = quantity
			return
		}
	}

	c.Items = append(c.Items, LineItem{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  quantity,
		ImageURL:  item.ImageURL,
	})
}

// Remove deletes the line item with the given item ID. Removing an absent
// item is a no-op.
func (c *Cart) Remove(itemID int64) {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Find returns the line item for itemID, or nil when absent.
func (c *Cart) Find(itemID int64) *LineItem {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count returns the total quantity across all line items.
func (c *Cart) Count() int {
	n := 0
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}

// Subtotal returns the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range c.Items {
		sum = sum.Add(li.Total())
	}
	return sum
}

// Totals computes subtotal, shipping, and total. The flat shipping surcharge
// applies only when the cart is non-empty with a positive subtotal.
func (c *Cart) Totals(shipping decimal.Decimal) Totals {
	subtotal := c.Subtotal()

	fee := decimal.Zero
	if subtotal.IsPositive() {
		fee = shipping
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: fee,
		Total:    subtotal.Add(fee),
	}
}
