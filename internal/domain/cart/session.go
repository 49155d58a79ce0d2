package cart

import "context"

// SchemaVersion identifies the session document layout. Stored alongside the
// data so a future layout change can migrate or discard old documents.
const SchemaVersion = 1

// Session is the full per-shopper state: the cart itself, pending quantity
// pickers that have not been added yet, and lifetime ordered-quantity
// counters per item. It replaces the original storefront's scattered
// browser-storage keys with one versioned document.
type Session struct {
	Version     int
	Cart        Cart
	Pending     map[int64]int
	OrderCounts map[int64]int
}

// NewSession returns an empty session at the current schema version.
func NewSession() *Session {
	return &Session{
		Version:     SchemaVersion,
		Pending:     make(map[int64]int),
		OrderCounts: make(map[int64]int),
	}
}

// ClearCart empties the cart and resets pending quantity counters. Lifetime
// order counters survive, matching checkout semantics where they are
// incremented just before the cart is cleared.
func (s *Session) ClearCart() {
	s.Cart.Items = nil
	s.Pending = make(map[int64]int)
}

// SetPending stores the quantity a shopper has dialed on an item's picker
// without adding it to the cart yet. Zero or negative clears the entry.
func (s *Session) SetPending(itemID int64, quantity int) {
	if s.Pending == nil {
		s.Pending = make(map[int64]int)
	}
	if quantity <= 0 {
		delete(s.Pending, itemID)
		return
	}
	s.Pending[itemID] = quantity
}

// TakePending removes and returns the pending quantity for an item, or zero
// when none is stored.
func (s *Session) TakePending(itemID int64) int {
	q := s.Pending[itemID]
	delete(s.Pending, itemID)
	return q
}

// RecordOrder adds the cart's current quantities to the lifetime order
// counters. Called once per successful checkout.
func (s *Session) RecordOrder() {
	if s.OrderCounts == nil {
		s.OrderCounts = make(map[int64]int)
	}
	for _, li := range s.Cart.Items {
		s.OrderCounts[li.ItemID] += li.Quantity
	}
}

// Store persists session state. Load returns a fresh empty session when the
// ID has no stored state. Save must persist the full document so a crash
// after any mutation loses at most that single mutation.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, sessionID string, s *Session) error
}
