// Package order holds the order entity, its status lifecycle, and the
// placement service that turns a submitted cart into a persisted order.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no order matches the given ID or number.
var ErrNotFound = errors.New("order not found")

// PaymentMethod enumerates the accepted payment options.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCredit   PaymentMethod = "credit"
)

// Valid reports whether pm is one of the accepted payment methods.
func (pm PaymentMethod) Valid() bool {
	switch pm {
	case PaymentCash, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}

// Status is the order lifecycle state. Transitions move forward only;
// cancellation is the single exception, reachable from any non-terminal
// state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var statusRank = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusDelivered: 4,
}

// ErrInvalidTransition is returned when a status update would move an order
// backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid order status transition")

// Valid reports whether s is a defined status value.
func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed: strictly
// forward through the lifecycle, or to cancelled from any non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Item is one order line. UnitPrice comes from the catalog at placement
// time; TotalPrice is always quantity times unit price, recomputed by the
// server. The denormalized menu fields are filled on read paths.
type Item struct {
	MenuItemID  int64
	Name        string
	Description string
	ImageURL    string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// Order is a placed order together with its customer snapshot and lines.
// Immutable after creation except for Status.
type Order struct {
	ID     int64
	Number string

	CustomerID      int64
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string

	PaymentMethod PaymentMethod
	SpecialNotes  string

	Items    []Item
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal

	Status    Status
	CreatedAt time.Time
}

// Repository defines order persistence. Create must atomically upsert the
// customer (keyed by phone), insert the order row, and insert all line items
// in one transaction, filling o.ID and o.CustomerID on success.
// UpdateStatus moves an order from one status to another as a single guarded
// write: the update applies only while the stored status still equals from,
// and a lost race surfaces as ErrInvalidTransition.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, status Status, limit, offset int) ([]Order, int, error)
	ListByCustomer(ctx context.Context, customerID int64, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
}
