package order

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/domain/catalog"
)

// Sentinel validation errors for order placement.
var (
	ErrEmptyItems      = errors.New("items must be a non-empty array")
	ErrMissingCustomer = errors.New("customer name and phone are required")
	ErrMissingTotal    = errors.New("total amount is required")
	ErrInvalidPayment  = errors.New("invalid payment method: must be one of cash, credit, transfer")
	ErrInvalidQuantity = errors.New("item quantity must be greater than 0")
)

// UnknownItemError indicates a submitted line references a menu item that
// does not exist or is unavailable.
type UnknownItemError struct {
	MenuItemID int64
}

func (e *UnknownItemError) Error() string {
	return errors.Errorf("menu item %d not found", e.MenuItemID).Error()
}

// PriceMismatchError indicates a submitted unit price drifted from the
// catalog price beyond tolerance. The catalog is authoritative; a mismatch
// means a stale client or tampering.
type PriceMismatchError struct {
	MenuItemID int64
	Submitted  decimal.Decimal
	Catalog    decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return errors.Errorf("unit price %s for menu item %d does not match catalog price %s",
		e.Submitted, e.MenuItemID, e.Catalog).Error()
}

// TotalMismatchError indicates the submitted grand total disagrees with the
// server-side recomputation beyond tolerance.
type TotalMismatchError struct {
	Submitted decimal.Decimal
	Computed  decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return errors.Errorf("total amount %s does not match computed total %s",
		e.Submitted, e.Computed).Error()
}

// PlaceItem is one submitted order line. UnitPrice and TotalPrice are what
// the client believes; the service recomputes both from the catalog.
type PlaceItem struct {
	MenuItemID int64
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// PlaceRequest holds a full order submission.
type PlaceRequest struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	PaymentMethod   string
	SpecialNotes    string
	Items           []PlaceItem
	TotalAmount     decimal.Decimal
}

// Service validates submissions against the catalog, recomputes all money
// amounts server-side, and persists orders atomically via the repository.
type Service struct {
	catalog   catalog.Repository
	orders    Repository
	numbers   *NumberGenerator
	shipping  decimal.Decimal
	tolerance decimal.Decimal
}

// NewService creates an order placement service. shipping is the flat
// surcharge added to every non-empty order; tolerance bounds acceptable
// rounding drift between client-submitted and recomputed amounts.
func NewService(catalogRepo catalog.Repository, orders Repository, shipping, tolerance decimal.Decimal) *Service {
	return &Service{
		catalog:   catalogRepo,
		orders:    orders,
		numbers:   NewNumberGenerator(),
		shipping:  shipping,
		tolerance: tolerance,
	}
}

// PlaceOrder validates the submission, resolves authoritative prices from
// the catalog, recomputes line totals and the grand total, and persists the
// order in one transaction. The order number is always server-generated;
// any client-suggested number is ignored.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceRequest) (*Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	if name == "" || phone == "" {
		return nil, ErrMissingCustomer
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.TotalAmount.IsZero() || req.TotalAmount.IsNegative() {
		return nil, ErrMissingTotal
	}
	if !PaymentMethod(req.PaymentMethod).Valid() {
		return nil, ErrInvalidPayment
	}

	ids := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids[i] = item.MenuItemID
	}

	fetched, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}
	catalogByID := make(map[int64]catalog.MenuItem, len(fetched))
	for _, mi := range fetched {
		catalogByID[mi.ID] = mi
	}

	// Recompute every line from the catalog price. Client-submitted unit
	// prices may drift only within tolerance.
	lines := make([]Item, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		mi, ok := catalogByID[item.MenuItemID]
		if !ok {
			return nil, &UnknownItemError{MenuItemID: item.MenuItemID}
		}
		if item.UnitPrice.Sub(mi.Price).Abs().GreaterThan(s.tolerance) {
			return nil, &PriceMismatchError{
				MenuItemID: item.MenuItemID,
				Submitted:  item.UnitPrice,
				Catalog:    mi.Price,
			}
		}

		lineTotal := mi.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines[i] = Item{
			MenuItemID: item.MenuItemID,
			Name:       mi.Name,
			Quantity:   item.Quantity,
			UnitPrice:  mi.Price,
			TotalPrice: lineTotal,
		}
		subtotal = subtotal.Add(lineTotal)
	}

	total := subtotal.Add(s.shipping).Round(2)
	if req.TotalAmount.Sub(total).Abs().GreaterThan(s.tolerance) {
		return nil, &TotalMismatchError{Submitted: req.TotalAmount, Computed: total}
	}

	o := &Order{
		Number:          s.numbers.Generate(),
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		PaymentMethod:   PaymentMethod(req.PaymentMethod),
		SpecialNotes:    strings.TrimSpace(req.SpecialNotes),
		Items:           lines,
		Subtotal:        subtotal,
		Shipping:        s.shipping,
		Total:           total,
		Status:          StatusPending,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}
