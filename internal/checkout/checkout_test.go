package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homegym/storefront/internal/domain/cart"
	"github.com/homegym/storefront/internal/domain/catalog"
	"github.com/homegym/storefront/internal/domain/order"
)

type memSessionStore struct {
	sessions map[string]*cart.Session
	loadErr  error
	saveErr  error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*cart.Session)}
}

func (m *memSessionStore) Load(_ context.Context, sessionID string) (*cart.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if s, ok := m.sessions[sessionID]; ok {
		return s, nil
	}
	return cart.NewSession(), nil
}

func (m *memSessionStore) Save(_ context.Context, sessionID string, s *cart.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[sessionID] = s
	return nil
}

type memSnapshotStore struct {
	last map[string]*order.Order
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{last: make(map[string]*order.Order)}
}

func (m *memSnapshotStore) SaveLast(_ context.Context, sessionID string, o *order.Order) error {
	m.last[sessionID] = o
	return nil
}

func (m *memSnapshotStore) LoadLast(_ context.Context, sessionID string) (*order.Order, error) {
	if o, ok := m.last[sessionID]; ok {
		return o, nil
	}
	return nil, order.ErrNotFound
}

type stubCatalog struct {
	byID map[int64]catalog.MenuItem
}

func (s *stubCatalog) ListAvailable(_ context.Context) ([]catalog.MenuItem, error) { return nil, nil }

func (s *stubCatalog) ListCategories(_ context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func (s *stubCatalog) ListByCategory(_ context.Context, _ int64) ([]catalog.MenuItem, error) {
	return nil, nil
}

func (s *stubCatalog) ListPopular(_ context.Context) ([]catalog.MenuItem, error) { return nil, nil }

func (s *stubCatalog) Search(_ context.Context, _ string, _ int) ([]catalog.MenuItem, error) {
	return nil, nil
}

func (s *stubCatalog) GetByID(_ context.Context, id int64) (*catalog.MenuItem, error) {
	if mi, ok := s.byID[id]; ok {
		return &mi, nil
	}
	return nil, catalog.ErrNotFound
}

func (s *stubCatalog) GetByIDs(_ context.Context, ids []int64) ([]catalog.MenuItem, error) {
	var out []catalog.MenuItem
	for _, id := range ids {
		if mi, ok := s.byID[id]; ok {
			out = append(out, mi)
		}
	}
	return out, nil
}

type stubOrderRepo struct {
	created *order.Order
	err     error
}

func (r *stubOrderRepo) Create(_ context.Context, o *order.Order) error {
	if r.err != nil {
		return r.err
	}
	o.ID = 1
	r.created = o
	return nil
}

func (r *stubOrderRepo) GetByID(_ context.Context, _ int64) (*order.Order, error) {
	return nil, order.ErrNotFound
}

func (r *stubOrderRepo) GetByNumber(_ context.Context, _ string) (*order.Order, error) {
	return nil, order.ErrNotFound
}

func (r *stubOrderRepo) List(_ context.Context, _ order.Status, _, _ int) ([]order.Order, int, error) {
	return nil, 0, nil
}

func (r *stubOrderRepo) ListByCustomer(_ context.Context, _ int64, _ int) ([]order.Order, error) {
	return nil, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, _ int64, _, _ order.Status) error {
	return nil
}

var shippingFee = decimal.NewFromInt(50)

type fixture struct {
	svc       *Service
	sessions  *memSessionStore
	snapshots *memSnapshotStore
	orderRepo *stubOrderRepo
}

func newFixture(items ...catalog.MenuItem) *fixture {
	byID := make(map[int64]catalog.MenuItem, len(items))
	for _, mi := range items {
		byID[mi.ID] = mi
	}
	cat := &stubCatalog{byID: byID}
	sessions := newMemSessionStore()
	snapshots := newMemSnapshotStore()
	orderRepo := &stubOrderRepo{}
	orderSvc := order.NewService(cat, orderRepo, shippingFee, decimal.RequireFromString("0.01"))

	return &fixture{
		svc:       NewService(sessions, snapshots, cat, orderSvc, shippingFee),
		sessions:  sessions,
		snapshots: snapshots,
		orderRepo: orderRepo,
	}
}

func pullUpBar() catalog.MenuItem {
	return catalog.MenuItem{ID: 5, Name: "Pull-up Bar", Price: decimal.NewFromInt(280), IsAvailable: true}
}

func validCheckout() Request {
	return Request{
		CustomerName:    "Somchai",
		CustomerPhone:   "0812345678",
		CustomerAddress: "99 Sukhumvit Rd",
		PaymentMethod:   "cash",
	}
}

func TestAddItem(t *testing.T) {
	f := newFixture(pullUpBar())

	sess, err := f.svc.AddItem(context.Background(), "s1", 5, 2)
	require.NoError(t, err)

	require.Len(t, sess.Cart.Items, 1)
	assert.Equal(t, 2, sess.Cart.Items[0].Quantity)
	assert.True(t, sess.Cart.Items[0].UnitPrice.Equal(decimal.NewFromInt(280)))

	// Persisted, not only returned.
	stored, err := f.svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Cart.Count())
}

func TestAddItem_UnknownItem(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddItem(context.Background(), "s1", 99, 1)

	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAddItem_UnavailableItem(t *testing.T) {
	mi := pullUpBar()
	mi.IsAvailable = false
	f := newFixture(mi)

	_, err := f.svc.AddItem(context.Background(), "s1", 5, 1)

	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestSetPending(t *testing.T) {
	f := newFixture(pullUpBar())

	sess, err := f.svc.SetPending(context.Background(), "s1", 5, 3)
	require.NoError(t, err)

	assert.True(t, sess.Cart.IsEmpty(), "a pending quantity must not touch the cart")
	assert.Equal(t, 3, sess.Pending[5])

	// Persisted, not only returned.
	stored, err := f.svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Pending[5])
}

func TestSetPending_ZeroClears(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.SetPending(context.Background(), "s1", 5, 3)
	require.NoError(t, err)

	sess, err := f.svc.SetPending(context.Background(), "s1", 5, 0)
	require.NoError(t, err)
	assert.NotContains(t, sess.Pending, int64(5))
}

func TestSetPending_UnknownItem(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SetPending(context.Background(), "s1", 99, 2)

	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAddItem_ConsumesPending(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.SetPending(context.Background(), "s1", 5, 4)
	require.NoError(t, err)

	sess, err := f.svc.AddItem(context.Background(), "s1", 5, 0)
	require.NoError(t, err)

	require.Len(t, sess.Cart.Items, 1)
	assert.Equal(t, 4, sess.Cart.Items[0].Quantity)
	assert.NotContains(t, sess.Pending, int64(5))
}

func TestAddItem_ExplicitQuantityDiscardsPending(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.SetPending(context.Background(), "s1", 5, 4)
	require.NoError(t, err)

	sess, err := f.svc.AddItem(context.Background(), "s1", 5, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, sess.Cart.Items[0].Quantity)
	assert.NotContains(t, sess.Pending, int64(5))
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.AddItem(context.Background(), "s1", 5, 3)
	require.NoError(t, err)

	sess, err := f.svc.SetQuantity(context.Background(), "s1", 5, 0)
	require.NoError(t, err)

	assert.True(t, sess.Cart.IsEmpty())
}

func TestSetQuantity_ZeroSkipsCatalogLookup(t *testing.T) {
	// Removing via quantity 0 must work even when the item has since left
	// the catalog.
	f := newFixture()
	f.sessions.sessions["s1"] = &cart.Session{
		Version: cart.SchemaVersion,
		Cart: cart.Cart{Items: []cart.LineItem{
			{ItemID: 42, Name: "Gone", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		}},
	}

	sess, err := f.svc.SetQuantity(context.Background(), "s1", 42, 0)
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestRemoveItem_Idempotent(t *testing.T) {
	f := newFixture(pullUpBar())

	sess, err := f.svc.RemoveItem(context.Background(), "s1", 5)
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.AddItem(context.Background(), "s1", 5, 2)
	require.NoError(t, err)

	o, err := f.svc.Checkout(context.Background(), "s1", validCheckout())
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(decimal.NewFromInt(610)), "280*2 + 50 shipping")
	assert.Equal(t, order.StatusPending, o.Status)

	// Cart cleared, purchase recorded, snapshot saved.
	sess, err := f.svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
	assert.Equal(t, 2, sess.OrderCounts[5])

	last, err := f.svc.LastOrder(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, o.Number, last.Number)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.Checkout(context.Background(), "s1", validCheckout())

	require.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCheckout_MissingFields(t *testing.T) {
	f := newFixture(pullUpBar())
	_, err := f.svc.AddItem(context.Background(), "s1", 5, 1)
	require.NoError(t, err)

	req := validCheckout()
	req.CustomerName = " "
	req.CustomerAddress = ""
	_, err = f.svc.Checkout(context.Background(), "s1", req)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "customer_name")
	assert.Contains(t, fieldErrs, "customer_address")
	assert.NotContains(t, fieldErrs, "customer_phone")
}

func TestCheckout_PlacementFailureKeepsCart(t *testing.T) {
	f := newFixture(pullUpBar())
	_, err := f.svc.AddItem(context.Background(), "s1", 5, 2)
	require.NoError(t, err)

	f.orderRepo.err = errors.New("db down")
	_, err = f.svc.Checkout(context.Background(), "s1", validCheckout())
	require.Error(t, err)

	sess, err := f.svc.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Cart.Count(), "cart must survive a failed checkout")

	_, err = f.svc.LastOrder(context.Background(), "s1")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestLastOrder_NoneYet(t *testing.T) {
	f := newFixture(pullUpBar())

	_, err := f.svc.LastOrder(context.Background(), "fresh")

	require.ErrorIs(t, err, order.ErrNotFound)
}
