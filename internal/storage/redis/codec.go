package redis

import (
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/domain/cart"
	"github.com/homegym/storefront/internal/domain/order"
)

// Stored documents encode money as JSON strings so a decimal value survives
// the round trip without float drift.

func encodeSession(s *cart.Session) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, li := range s.Cart.Items {
					encodeLineItem(e, li)
				}
			})
		})
		e.Field("pending", func(e *jx.Encoder) { encodeIntMap(e, s.Pending) })
		e.Field("order_counts", func(e *jx.Encoder) { encodeIntMap(e, s.OrderCounts) })
	})
	return e.Bytes()
}

func decodeSession(data []byte) (*cart.Session, error) {
	s := cart.NewSession()
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			s.Version = v
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				li, err := decodeLineItem(d)
				if err != nil {
					return err
				}
				s.Cart.Items = append(s.Cart.Items, li)
				return nil
			})
		case "pending":
			return decodeIntMap(d, s.Pending)
		case "order_counts":
			return decodeIntMap(d, s.OrderCounts)
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode session document")
	}
	return s, nil
}

func encodeLineItem(e *jx.Encoder, li cart.LineItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("item_id", func(e *jx.Encoder) { e.Int64(li.ItemID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(li.Name) })
		e.Field("unit_price", func(e *jx.Encoder) { e.Str(li.UnitPrice.String()) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(li.Quantity) })
		e.Field("image_url", func(e *jx.Encoder) { e.Str(li.ImageURL) })
	})
}

func decodeLineItem(d *jx.Decoder) (cart.LineItem, error) {
	var li cart.LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "item_id":
			li.ItemID, err = d.Int64()
		case "name":
			li.Name, err = d.Str()
		case "unit_price":
			li.UnitPrice, err = decodeDecimal(d)
		case "quantity":
			li.Quantity, err = d.Int()
		case "image_url":
			li.ImageURL, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return li, err
}

func encodeOrder(o *order.Order) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(o.ID) })
		e.Field("number", func(e *jx.Encoder) { e.Str(o.Number) })
		e.Field("customer_id", func(e *jx.Encoder) { e.Int64(o.CustomerID) })
		e.Field("customer_name", func(e *jx.Encoder) { e.Str(o.CustomerName) })
		e.Field("customer_phone", func(e *jx.Encoder) { e.Str(o.CustomerPhone) })
		e.Field("customer_email", func(e *jx.Encoder) { e.Str(o.CustomerEmail) })
		e.Field("customer_address", func(e *jx.Encoder) { e.Str(o.CustomerAddress) })
		e.Field("payment_method", func(e *jx.Encoder) { e.Str(string(o.PaymentMethod)) })
		e.Field("special_notes", func(e *jx.Encoder) { e.Str(o.SpecialNotes) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range o.Items {
					encodeOrderItem(e, item)
				}
			})
		})
		e.Field("subtotal", func(e *jx.Encoder) { e.Str(o.Subtotal.String()) })
		e.Field("shipping", func(e *jx.Encoder) { e.Str(o.Shipping.String()) })
		e.Field("total", func(e *jx.Encoder) { e.Str(o.Total.String()) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("created_at", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339Nano)) })
	})
	return e.Bytes()
}

func decodeOrder(data []byte) (*order.Order, error) {
	var o order.Order
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = d.Int64()
		case "number":
			o.Number, err = d.Str()
		case "customer_id":
			o.CustomerID, err = d.Int64()
		case "customer_name":
			o.CustomerName, err = d.Str()
		case "customer_phone":
			o.CustomerPhone, err = d.Str()
		case "customer_email":
			o.CustomerEmail, err = d.Str()
		case "customer_address":
			o.CustomerAddress, err = d.Str()
		case "payment_method":
			var s string
			s, err = d.Str()
			o.PaymentMethod = order.PaymentMethod(s)
		case "special_notes":
			o.SpecialNotes, err = d.Str()
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeOrderItem(d)
				if err != nil {
					return err
				}
				o.Items = append(o.Items, item)
				return nil
			})
		case "subtotal":
			o.Subtotal, err = decodeDecimal(d)
		case "shipping":
			o.Shipping, err = decodeDecimal(d)
		case "total":
			o.Total, err = decodeDecimal(d)
		case "status":
			var s string
			s, err = d.Str()
			o.Status = order.Status(s)
		case "created_at":
			o.CreatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "decode order document")
	}
	return &o, nil
}

func encodeOrderItem(e *jx.Encoder, item order.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("menu_item_id", func(e *jx.Encoder) { e.Int64(item.MenuItemID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(item.Description) })
		e.Field("image_url", func(e *jx.Encoder) { e.Str(item.ImageURL) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
		e.Field("unit_price", func(e *jx.Encoder) { e.Str(item.UnitPrice.String()) })
		e.Field("total_price", func(e *jx.Encoder) { e.Str(item.TotalPrice.String()) })
	})
}

func decodeOrderItem(d *jx.Decoder) (order.Item, error) {
	var item order.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "menu_item_id":
			item.MenuItemID, err = d.Int64()
		case "name":
			item.Name, err = d.Str()
		case "description":
			item.Description, err = d.Str()
		case "image_url":
			item.ImageURL, err = d.Str()
		case "quantity":
			item.Quantity, err = d.Int()
		case "unit_price":
			item.UnitPrice, err = decodeDecimal(d)
		case "total_price":
			item.TotalPrice, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

func encodeIntMap(e *jx.Encoder, m map[int64]int) {
	e.Obj(func(e *jx.Encoder) {
		for id, n := range m {
			e.Field(strconv.FormatInt(id, 10), func(e *jx.Encoder) { e.Int(n) })
		}
	})
}

func decodeIntMap(d *jx.Decoder, m map[int64]int) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "map key %q", key)
		}
		n, err := d.Int()
		if err != nil {
			return err
		}
		m[id] = n
		return nil
	})
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	s, err := d.Str()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(s)
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}
