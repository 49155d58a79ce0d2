package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/homegym/storefront/internal/checkout"
)

// sessionHeader carries the shopper's session ID. A missing or blank header
// gets a fresh UUID; the effective ID is always echoed back so clients can
// persist it.
const sessionHeader = "X-Session-ID"

func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(sessionHeader, id)
	return id
}

// GetCart returns the session cart with computed totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	sess, err := h.checkout.GetSession(r.Context(), sid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartDTO(sess, h.checkout.Totals(sess)))
}

// AddCartItem adds a quantity of a menu item to the session cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	var req struct {
		MenuItemID int64 `json:"menu_item_id"`
		Quantity   int   `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MenuItemID <= 0 {
		respondErrorMessage(w, http.StatusBadRequest, "menu_item_id is required")
		return
	}

	sess, err := h.checkout.AddItem(r.Context(), sid, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartDTO(sess, h.checkout.Totals(sess)))
}

// SetCartItemQuantity sets the absolute quantity of one cart line. Zero
// removes the line.
func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.checkout.SetQuantity(r.Context(), sid, id, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartDTO(sess, h.checkout.Totals(sess)))
}

// SetPendingQuantity stores the quantity dialed on an item's picker before
// it is committed to the cart. Zero clears the picker.
func (h *Handler) SetPendingQuantity(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.checkout.SetPending(r.Context(), sid, id, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartDTO(sess, h.checkout.Totals(sess)))
}

// RemoveCartItem drops one line from the session cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.checkout.RemoveItem(r.Context(), sid, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartDTO(sess, h.checkout.Totals(sess)))
}

// ClearCart empties the session cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	sess, err := h.checkout.ClearCart(r.Context(), sid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartDTO(sess, h.checkout.Totals(sess)))
}

// Checkout places an order from the session cart. On success the cart is
// cleared and the order becomes the session's last-order snapshot.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	var req struct {
		CustomerName    string `json:"customer_name"`
		CustomerPhone   string `json:"customer_phone"`
		CustomerEmail   string `json:"customer_email"`
		CustomerAddress string `json:"customer_address"`
		PaymentMethod   string `json:"payment_method"`
		SpecialNotes    string `json:"special_notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.checkout.Checkout(r.Context(), sid, checkout.Request{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		SpecialNotes:    req.SpecialNotes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toOrderDTO(o))
}

// LastOrder returns the most recent order placed in this session.
func (h *Handler) LastOrder(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	o, err := h.checkout.LastOrder(r.Context(), sid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toOrderDTO(o))
}
