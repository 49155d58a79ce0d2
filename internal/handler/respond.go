package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/homegym/storefront/internal/checkout"
	"github.com/homegym/storefront/internal/domain/cart"
	"github.com/homegym/storefront/internal/domain/catalog"
	"github.com/homegym/storefront/internal/domain/customer"
	"github.com/homegym/storefront/internal/domain/order"
	"github.com/homegym/storefront/internal/domain/promotion"
)

type envelope struct {
	Status     string            `json:"status"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *pageInfo         `json:"pagination,omitempty"`
}

type pageInfo struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Status: "success", Data: data})
}

// respondList adds the count field expected by list endpoints.
func respondList(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data, Count: &count})
}

// respondPage adds both count (rows on this page) and pagination metadata.
func respondPage(w http.ResponseWriter, data any, count int, p pageInfo) {
	p.HasMore = p.Offset+count < p.Total
	writeJSON(w, http.StatusOK, envelope{
		Status: "success", Data: data, Count: &count, Pagination: &p,
	})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Status: "success", Message: msg})
}

func respondErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Status: "error", Message: msg})
}

// respondError maps a domain error to the envelope. Unrecognized errors are
// masked as a generic 500 and logged with the request-scoped logger.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, promotion.ErrNotFound):
		respondErrorMessage(w, http.StatusNotFound, err.Error())
		return

	case errors.Is(err, customer.ErrPhoneTaken),
		errors.Is(err, promotion.ErrCodeTaken),
		errors.Is(err, order.ErrInvalidTransition):
		respondErrorMessage(w, http.StatusConflict, err.Error())
		return

	case errors.Is(err, catalog.ErrShortQuery),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, checkout.ErrItemUnavailable),
		errors.Is(err, promotion.ErrInvalidCode),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrMissingCustomer),
		errors.Is(err, order.ErrMissingTotal),
		errors.Is(err, order.ErrInvalidPayment),
		errors.Is(err, order.ErrInvalidQuantity):
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var fieldErrs checkout.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, envelope{
			Status:  "error",
			Message: "validation failed",
			Errors:  fieldErrs,
		})
		return
	}

	var unknownItem *order.UnknownItemError
	var priceMismatch *order.PriceMismatchError
	var totalMismatch *order.TotalMismatchError
	if errors.As(err, &unknownItem) || errors.As(err, &priceMismatch) || errors.As(err, &totalMismatch) {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path), zap.Error(err))
	respondErrorMessage(w, http.StatusInternalServerError, "internal server error")
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid JSON body")
	}
	return nil
}

// parsePage reads limit/offset query parameters, clamping to sane bounds.
func parsePage(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s", name)
	}
	return id, nil
}
