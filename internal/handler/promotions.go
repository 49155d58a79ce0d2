package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homegym/storefront/internal/domain/promotion"
)

type promotionRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	DiscountPercent *float64   `json:"discount_percent"`
	DiscountAmount  *float64   `json:"discount_amount"`
	PromoCode       *string    `json:"promo_code"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	IsActive        *bool      `json:"is_active"`
}

// validateDiscount enforces the discount shape shared by create and update:
// percent within [0,100], flat amount non-negative, never both at once.
func validateDiscount(percent, amount *float64) string {
	if percent != nil && amount != nil {
		return "set either discount_percent or discount_amount, not both"
	}
	if percent != nil && (*percent < 0 || *percent > 100) {
		return "discount_percent must be between 0 and 100"
	}
	if amount != nil && *amount < 0 {
		return "discount_amount must not be negative"
	}
	return ""
}

// ListPromotions returns a page of promotions; by default only promotions
// redeemable right now. Pass all=true for the full set.
func (h *Handler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	limit, offset := parsePage(r, 20, 100)

	promotions, total, err := h.promotions.List(r.Context(), activeOnly, limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, toPromotionDTOs(promotions), len(promotions),
		pageInfo{Total: total, Limit: limit, Offset: offset})
}

// GetPromotion returns one promotion regardless of its active state.
func (h *Handler) GetPromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.promotions.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toPromotionDTO(*p))
}

// CreatePromotion inserts a promotion. Exactly one discount rule is
// required; a duplicate promo code is a conflict.
func (h *Handler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		respondErrorMessage(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.DiscountPercent == nil && req.DiscountAmount == nil {
		respondErrorMessage(w, http.StatusBadRequest, "discount_percent or discount_amount is required")
		return
	}
	if msg := validateDiscount(req.DiscountPercent, req.DiscountAmount); msg != "" {
		respondErrorMessage(w, http.StatusBadRequest, msg)
		return
	}

	p := promotion.Promotion{
		Name:            strings.TrimSpace(*req.Title),
		DiscountPercent: toDecimalPtr(req.DiscountPercent),
		DiscountAmount:  toDecimalPtr(req.DiscountAmount),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        true,
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.PromoCode != nil {
		p.PromoCode = strings.ToUpper(strings.TrimSpace(*req.PromoCode))
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	id, err := h.promotions.Create(r.Context(), &p)
	if err != nil {
		respondError(w, r, err)
		return
	}

	fresh, err := h.promotions.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toPromotionDTO(*fresh))
}

// UpdatePromotion applies a partial update; absent fields stay untouched.
func (h *Handler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req promotionRequest
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respondErrorMessage(w, http.StatusBadRequest, "title must not be blank")
		return
	}
	if msg := validateDiscount(req.DiscountPercent, req.DiscountAmount); msg != "" {
		respondErrorMessage(w, http.StatusBadRequest, msg)
		return
	}

	upd := promotion.Update{
		DiscountPercent: toDecimalPtr(req.DiscountPercent),
		DiscountAmount:  toDecimalPtr(req.DiscountAmount),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		upd.Name = &title
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		upd.Description = &desc
	}
	if req.PromoCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.PromoCode))
		upd.PromoCode = &code
	}

	p, err := h.promotions.Update(r.Context(), id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toPromotionDTO(*p))
}

// DeletePromotion removes a promotion.
func (h *Handler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.promotions.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "promotion deleted")
}

// ValidatePromoCode resolves a code against an order amount and returns the
// discount and final amount.
func (h *Handler) ValidatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PromoCode   string  `json:"promo_code"`
		TotalAmount float64 `json:"total_amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TotalAmount < 0 {
		respondErrorMessage(w, http.StatusBadRequest, "total_amount must not be negative")
		return
	}

	result, err := h.promoValidator.Validate(r.Context(), req.PromoCode, decimal.NewFromFloat(req.TotalAmount))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, struct {
		PromoCode      string  `json:"promo_code"`
		Title          string  `json:"title"`
		DiscountAmount float64 `json:"discount_amount"`
		FinalAmount    float64 `json:"final_amount"`
	}{
		PromoCode:      result.Promotion.PromoCode,
		Title:          result.Promotion.Name,
		DiscountAmount: result.Discount.InexactFloat64(),
		FinalAmount:    result.FinalAmount.InexactFloat64(),
	})
}

// PromotionStats returns the promotion overview aggregates.
func (h *Handler) PromotionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.promotions.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, struct {
		TotalPromotions  int `json:"total_promotions"`
		ActivePromotions int `json:"active_promotions"`
		Expired          int `json:"expired"`
		Upcoming         int `json:"upcoming"`
	}{
		TotalPromotions:  stats.TotalPromotions,
		ActivePromotions: stats.ActivePromotions,
		Expired:          stats.Expired,
		Upcoming:         stats.Upcoming,
	})
}

func toDecimalPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
