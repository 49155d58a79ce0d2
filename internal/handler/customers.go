package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/homegym/storefront/internal/domain/customer"
)

type customerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (req *customerRequest) trim() {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
}

// ListCustomers returns a page of customers with order aggregates,
// optionally filtered by a free-text search over name, phone, and email.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r, 20, 100)
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	customers, total, err := h.customers.List(r.Context(), search, limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, toCustomerDTOs(customers), len(customers),
		pageInfo{Total: total, Limit: limit, Offset: offset})
}

// recentOrderLimit caps the order history embedded in a customer detail.
const recentOrderLimit = 5

// GetCustomer returns one customer with order aggregates and their most
// recent orders.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	recent, err := h.orders.ListByCustomer(r.Context(), id, recentOrderLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCustomerDetailDTO(*c, recent))
}

// GetCustomerByPhone looks a customer up by their unique phone number.
func (h *Handler) GetCustomerByPhone(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(chi.URLParam(r, "phone"))
	if phone == "" {
		respondErrorMessage(w, http.StatusBadRequest, "phone is required")
		return
	}

	c, err := h.customers.GetByPhone(r.Context(), phone)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCustomerDTO(*c))
}

// CreateCustomer inserts a customer record. A duplicate phone number is a
// conflict.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.trim()
	if req.Name == "" || req.Phone == "" {
		respondErrorMessage(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	c := customer.Customer{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
	id, err := h.customers.Create(r.Context(), &c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c.ID = id
	respondData(w, http.StatusCreated, toCustomerDTO(c))
}

// UpdateCustomer overwrites the contact fields of an existing customer.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.trim()
	if req.Name == "" || req.Phone == "" {
		respondErrorMessage(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	c := customer.Customer{ID: id, Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
	if err := h.customers.Update(r.Context(), &c); err != nil {
		respondError(w, r, err)
		return
	}

	fresh, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCustomerDTO(*fresh))
}

// CustomerStats returns the customer overview aggregates.
func (h *Handler) CustomerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.customers.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, struct {
		TotalCustomers       int     `json:"total_customers"`
		NewCustomers7d       int     `json:"new_customers_7d"`
		NewCustomers30d      int     `json:"new_customers_30d"`
		AverageCustomerValue float64 `json:"average_customer_value"`
	}{
		TotalCustomers:       stats.TotalCustomers,
		NewCustomers7d:       stats.NewCustomers7d,
		NewCustomers30d:      stats.NewCustomers30d,
		AverageCustomerValue: stats.AverageCustomerValue.InexactFloat64(),
	})
}
