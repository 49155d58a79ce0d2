// Package checkout drives the session-backed shopping flow: cart mutations
// keyed by session ID, and the checkout step that turns a cart into a placed
// order.
package checkout

import (
	"context"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/homegym/storefront/internal/domain/cart"
	"github.com/homegym/storefront/internal/domain/catalog"
	"github.com/homegym/storefront/internal/domain/order"
)

// ErrItemUnavailable is returned when a cart mutation references a menu item
// that is not currently orderable.
var ErrItemUnavailable = errors.New("menu item is not available")

// FieldErrors reports per-field validation failures on a checkout form.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid checkout form: " + strings.Join(fields, ", ")
}

// Request is a checkout form submission for the session's current cart.
type Request struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	PaymentMethod   string
	SpecialNotes    string
}

func (r Request) validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(r.CustomerName) == "" {
		errs["customer_name"] = "name is required"
	}
	if strings.TrimSpace(r.CustomerPhone) == "" {
		errs["customer_phone"] = "phone is required"
	}
	if strings.TrimSpace(r.CustomerAddress) == "" {
		errs["customer_address"] = "delivery address is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SnapshotStore keeps the most recently placed order per session so the
// confirmation page survives a reload.
type SnapshotStore interface {
	SaveLast(ctx context.Context, sessionID string, o *order.Order) error
	LoadLast(ctx context.Context, sessionID string) (*order.Order, error)
}

// Service owns the per-session cart state and the checkout workflow. All
// prices shown in the cart come from the catalog; the cart never trusts a
// client-submitted price.
type Service struct {
	sessions  cart.Store
	snapshots SnapshotStore
	catalog   catalog.Repository
	orders    *order.Service
	shipping  decimal.Decimal
}

// NewService wires the checkout service.
func NewService(
	sessions cart.Store,
	snapshots SnapshotStore,
	catalogRepo catalog.Repository,
	orders *order.Service,
	shipping decimal.Decimal,
) *Service {
	return &Service{
		sessions:  sessions,
		snapshots: snapshots,
		catalog:   catalogRepo,
		orders:    orders,
		shipping:  shipping,
	}
}

// GetSession returns the session state, creating an empty one for unknown
// session IDs.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*cart.Session, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Totals computes the cart money summary for the session.
func (s *Service) Totals(sess *cart.Session) cart.Totals {
	return sess.Cart.Totals(s.shipping)
}

// AddItem adds quantity of the given menu item to the session cart, merging
// with an existing line for the same item. A non-positive quantity consumes
// the item's pending picker quantity when one is stored, defaulting to one
// otherwise; an explicit quantity discards the pending entry.
func (s *Service) AddItem(ctx context.Context, sessionID string, itemID int64, quantity int) (*cart.Session, error) {
	mi, err := s.lookupItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}

	if pending := sess.TakePending(itemID); quantity < 1 && pending > 0 {
		quantity = pending
	}
	sess.Cart.Add(*mi, quantity)
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return sess, nil
}

// SetPending stores the quantity dialed on a menu item's picker before the
// shopper commits it to the cart. Zero clears the picker. The item must
// exist and be orderable for a positive quantity.
func (s *Service) SetPending(ctx context.Context, sessionID string, itemID int64, quantity int) (*cart.Session, error) {
	if quantity > 0 {
		if _, err := s.lookupItem(ctx, itemID); err != nil {
			return nil, err
		}
	}

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}

	sess.SetPending(itemID, quantity)
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return sess, nil
}

// SetQuantity sets the absolute quantity of a cart line. Zero or negative
// removes the line; an item not yet in the cart is added at that quantity.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, itemID int64, quantity int) (*cart.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}

	if quantity <= 0 {
		sess.Cart.Remove(itemID)
	} else {
		mi, err := s.lookupItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		sess.Cart.SetQuantity(*mi, quantity)
	}

	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return sess, nil
}

// RemoveItem drops a line from the session cart. Removing an absent item is
// a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, itemID int64) (*cart.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}

	sess.Cart.Remove(itemID)
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return sess, nil
}

// ClearCart empties the session cart without touching order history.
func (s *Service) ClearCart(ctx context.Context, sessionID string) (*cart.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}

	sess.ClearCart()
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return sess, nil
}

// Checkout validates the form, places an order from the session cart, and on
// success records the purchase and clears the cart. The cart stays intact
// when placement fails, so the customer can retry.
func (s *Service) Checkout(ctx context.Context, sessionID string, req Request) (*order.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	if sess.Cart.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}

	items := make([]order.PlaceItem, len(sess.Cart.Items))
	for i, line := range sess.Cart.Items {
		items[i] = order.PlaceItem{
			MenuItemID: line.ItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.Total(),
		}
	}
	totals := sess.Cart.Totals(s.shipping)

	o, err := s.orders.PlaceOrder(ctx, order.PlaceRequest{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		SpecialNotes:    req.SpecialNotes,
		Items:           items,
		TotalAmount:     totals.Total,
	})
	if err != nil {
		return nil, err
	}

	// The order is persisted at this point. Session bookkeeping failures
	// must not fail the checkout, only lose the cleared-cart state.
	sess.RecordOrder()
	sess.ClearCart()
	if err := s.sessions.Save(ctx, sessionID, sess); err != nil {
		zctx.From(ctx).Warn("save session after checkout",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	if err := s.snapshots.SaveLast(ctx, sessionID, o); err != nil {
		zctx.From(ctx).Warn("save last order snapshot",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	return o, nil
}

// LastOrder returns the most recent order placed in this session, or
// order.ErrNotFound when the session has none.
func (s *Service) LastOrder(ctx context.Context, sessionID string) (*order.Order, error) {
	return s.snapshots.LoadLast(ctx, sessionID)
}

func (s *Service) lookupItem(ctx context.Context, itemID int64) (*catalog.MenuItem, error) {
	mi, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !mi.IsAvailable {
		return nil, ErrItemUnavailable
	}
	return mi, nil
}
