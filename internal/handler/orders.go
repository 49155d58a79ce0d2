package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/domain/order"
)

type placeOrderItem struct {
	MenuItemID int64   `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type placeOrderRequest struct {
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerAddress string           `json:"customer_address"`
	PaymentMethod   string           `json:"payment_method"`
	SpecialNotes    string           `json:"special_notes"`
	Items           []placeOrderItem `json:"items"`
	TotalAmount     float64          `json:"total_amount"`
}

// PlaceOrder validates and persists a direct order submission. All amounts
// are recomputed server-side; the response carries the order identifiers the
// confirmation page needs.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]order.PlaceItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.PlaceItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  decimal.NewFromFloat(item.UnitPrice),
			TotalPrice: decimal.NewFromFloat(item.TotalPrice),
		}
	}

	o, err := h.orderService.PlaceOrder(r.Context(), order.PlaceRequest{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		SpecialNotes:    req.SpecialNotes,
		Items:           items,
		TotalAmount:     decimal.NewFromFloat(req.TotalAmount),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, struct {
		OrderID       int64   `json:"order_id"`
		OrderNumber   string  `json:"order_number"`
		TotalAmount   float64 `json:"total_amount"`
		CustomerName  string  `json:"customer_name"`
		CustomerPhone string  `json:"customer_phone"`
	}{
		OrderID:       o.ID,
		OrderNumber:   o.Number,
		TotalAmount:   o.Total.InexactFloat64(),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
	})
}

// GetOrder returns a full order by its numeric ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toOrderDTO(o))
}

// GetOrderByNumber returns a full order by its human-readable number.
func (h *Handler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNumber")
	if number == "" {
		respondErrorMessage(w, http.StatusBadRequest, "order number is required")
		return
	}

	o, err := h.orders.GetByNumber(r.Context(), number)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toOrderDTO(o))
}

// ListOrders returns a page of orders, newest first, optionally filtered by
// status.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := order.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondErrorMessage(w, http.StatusBadRequest, "invalid order status filter")
		return
	}

	limit, offset := parsePage(r, 50, 100)
	orders, total, err := h.orders.List(r.Context(), status, limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	dtos := make([]orderDTO, len(orders))
	for i := range orders {
		dtos[i] = toOrderDTO(&orders[i])
	}
	respondPage(w, dtos, len(dtos), pageInfo{Total: total, Limit: limit, Offset: offset})
}

// UpdateOrderStatus moves an order through its lifecycle. Unknown status
// values are a 400; disallowed transitions a 409.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	next := order.Status(req.Status)
	if !next.Valid() {
		respondErrorMessage(w, http.StatusBadRequest, "invalid order status")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !o.Status.CanTransitionTo(next) {
		respondError(w, r, order.ErrInvalidTransition)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, o.Status, next); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, struct {
		OrderID     int64  `json:"order_id"`
		OrderStatus string `json:"order_status"`
	}{OrderID: id, OrderStatus: string(next)})
}
