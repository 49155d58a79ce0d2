//go:build integration

package integration

import (
	"math"
	"net/http"
	"testing"
)

type validateResult struct {
	PromoCode      string  `json:"promo_code"`
	Title          string  `json:"title"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

func TestPromotion_ValidateSeededCode(t *testing.T) {
	resp := doPost(t, "/api/promotions/validate", map[string]any{
		"promo_code":   "WELCOME10",
		"total_amount": 1000,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	res := decodeJSON[apiResponse[validateResult]](t, resp).Data
	if math.Abs(res.DiscountAmount-100) > 0.001 {
		t.Errorf("expected 100 discount, got %v", res.DiscountAmount)
	}
	if math.Abs(res.FinalAmount-900) > 0.001 {
		t.Errorf("expected 900 final, got %v", res.FinalAmount)
	}
}

func TestPromotion_ValidateUnknownCode(t *testing.T) {
	resp := doPost(t, "/api/promotions/validate", map[string]any{
		"promo_code":   "NOPE1234",
		"total_amount": 1000,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPromotion_CRUD(t *testing.T) {
	percent := 25.0
	create := doPost(t, "/api/promotions", map[string]any{
		"title":            "Quarter Off",
		"discount_percent": percent,
		"promo_code":       "quarter25",
	})
	defer create.Body.Close()
	if create.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", create.StatusCode)
	}

	created := decodeJSON[apiResponse[map[string]any]](t, create).Data
	if created["promo_code"] != "QUARTER25" {
		t.Fatalf("expected uppercased code, got %v", created["promo_code"])
	}

	// Duplicate code conflicts.
	dup := doPost(t, "/api/promotions", map[string]any{
		"title":            "Quarter Off Again",
		"discount_percent": percent,
		"promo_code":       "QUARTER25",
	})
	defer dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", dup.StatusCode)
	}

	// Stats include the new promotion.
	stats := doGet(t, "/api/promotions/stats/overview")
	defer stats.Body.Close()
	if stats.StatusCode != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", stats.StatusCode)
	}
}
