// Package handler exposes the storefront REST API. Every response uses the
// common envelope; domain errors are mapped to HTTP status codes in
// respond.go.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homegym/storefront/internal/checkout"
	"github.com/homegym/storefront/internal/domain/catalog"
	"github.com/homegym/storefront/internal/domain/customer"
	"github.com/homegym/storefront/internal/domain/order"
	"github.com/homegym/storefront/internal/domain/promotion"
)

// Pinger reports store connectivity for the health endpoint. *pgxpool.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the domain dependencies behind the REST API.
type Handler struct {
	catalog        catalog.Repository
	orders         order.Repository
	orderService   *order.Service
	customers      customer.Repository
	promotions     promotion.Repository
	promoValidator *promotion.Validator
	checkout       *checkout.Service
	db             Pinger
}

// NewHandler constructs a Handler with the required domain dependencies.
// db is used only by the health endpoint's connectivity probe.
func NewHandler(
	catalogRepo catalog.Repository,
	orders order.Repository,
	orderService *order.Service,
	customers customer.Repository,
	promotions promotion.Repository,
	promoValidator *promotion.Validator,
	checkoutSvc *checkout.Service,
	db Pinger,
) *Handler {
	return &Handler{
		catalog:        catalogRepo,
		orders:         orders,
		orderService:   orderService,
		customers:      customers,
		promotions:     promotions,
		promoValidator: promoValidator,
		checkout:       checkoutSvc,
		db:             db,
	}
}

// Routes returns the chi router for everything under /api.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.ListMenu)
		r.Get("/categories", h.ListCategories)
		r.Get("/category/{id}", h.ListMenuByCategory)
		r.Get("/popular", h.ListPopularMenu)
		r.Get("/search", h.SearchMenu)
		r.Get("/item/{id}", h.GetMenuItem)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/number/{orderNumber}", h.GetOrderByNumber)
		r.Put("/{id}/status", h.UpdateOrderStatus)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/stats/overview", h.CustomerStats)
		r.Get("/phone/{phone}", h.GetCustomerByPhone)
		r.Get("/{id}", h.GetCustomer)
		r.Put("/{id}", h.UpdateCustomer)
	})

	r.Route("/promotions", func(r chi.Router) {
		r.Get("/", h.ListPromotions)
		r.Post("/", h.CreatePromotion)
		r.Post("/validate", h.ValidatePromoCode)
		r.Get("/stats/overview", h.PromotionStats)
		r.Get("/{id}", h.GetPromotion)
		r.Put("/{id}", h.UpdatePromotion)
		r.Delete("/{id}", h.DeletePromotion)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddCartItem)
		r.Put("/items/{id}", h.SetCartItemQuantity)
		r.Put("/pending/{id}", h.SetPendingQuantity)
		r.Delete("/items/{id}", h.RemoveCartItem)
		r.Post("/checkout", h.Checkout)
		r.Get("/last-order", h.LastOrder)
	})

	r.Get("/health", h.Health)

	return r
}
