//go:build integration

package integration

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"testing"
)

var orderNumberRe = regexp.MustCompile(`^HG-\d{8}-\d{3}$`)

type placeOrderPayload struct {
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	PaymentMethod   string           `json:"payment_method"`
	Items           []orderItemInput `json:"items"`
	TotalAmount     float64          `json:"total_amount"`
}

type orderItemInput struct {
	MenuItemID int64   `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type placedOrder struct {
	OrderID     int64   `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	TotalAmount float64 `json:"total_amount"`
}

// jumpRopePayload orders 2x the seeded Jump Rope Pro (id 1, 280 THB) with the
// flat 50 THB shipping fee included in the client total.
func jumpRopePayload(phone string) placeOrderPayload {
	return placeOrderPayload{
		CustomerName:    "Integration Tester",
		CustomerPhone:   phone,
		CustomerAddress: "99 Test Road, Bangkok",
		PaymentMethod:   "cash",
		Items: []orderItemInput{
			{MenuItemID: 1, Quantity: 2, UnitPrice: 280, TotalPrice: 560},
		},
		TotalAmount: 610,
	}
}

func TestOrder_PlaceAndFetch(t *testing.T) {
	resp := doPost(t, "/api/orders", jumpRopePayload("0811111111"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeJSON[apiResponse[placedOrder]](t, resp)
	placed := body.Data
	if !orderNumberRe.MatchString(placed.OrderNumber) {
		t.Fatalf("unexpected order number format: %q", placed.OrderNumber)
	}
	if math.Abs(placed.TotalAmount-610) > 0.001 {
		t.Fatalf("expected total 610, got %v", placed.TotalAmount)
	}

	// Fetch by ID.
	getResp := doGet(t, fmt.Sprintf("/api/orders/%d", placed.OrderID))
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("fetch by id: expected 200, got %d", getResp.StatusCode)
	}

	fetched := decodeJSON[apiResponse[orderResponse]](t, getResp).Data
	if fetched.OrderNumber != placed.OrderNumber {
		t.Errorf("order number mismatch: %q vs %q", fetched.OrderNumber, placed.OrderNumber)
	}
	if fetched.OrderStatus != "pending" {
		t.Errorf("expected pending status, got %q", fetched.OrderStatus)
	}
	if math.Abs(fetched.Subtotal-560) > 0.001 || math.Abs(fetched.ShippingFee-50) > 0.001 {
		t.Errorf("expected subtotal 560 + shipping 50, got %v + %v", fetched.Subtotal, fetched.ShippingFee)
	}

	// Fetch by number.
	numResp := doGet(t, "/api/orders/number/"+placed.OrderNumber)
	defer numResp.Body.Close()
	if numResp.StatusCode != http.StatusOK {
		t.Fatalf("fetch by number: expected 200, got %d", numResp.StatusCode)
	}
}

func TestOrder_MissingPhoneRejected(t *testing.T) {
	payload := jumpRopePayload("")

	resp := doPost(t, "/api/orders", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestOrder_TotalMismatchRejected(t *testing.T) {
	payload := jumpRopePayload("0822222222")
	payload.TotalAmount = 560 // forgot shipping

	resp := doPost(t, "/api/orders", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestOrder_StatusLifecycle(t *testing.T) {
	resp := doPost(t, "/api/orders", jumpRopePayload("0833333333"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", resp.StatusCode)
	}
	placed := decodeJSON[apiResponse[placedOrder]](t, resp).Data

	path := fmt.Sprintf("/api/orders/%d/status", placed.OrderID)

	// Forward transition succeeds.
	upd := doJSON(t, http.MethodPut, path, map[string]string{"status": "confirmed"}, nil)
	defer upd.Body.Close()
	if upd.StatusCode != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", upd.StatusCode)
	}

	// Backward transition conflicts.
	back := doJSON(t, http.MethodPut, path, map[string]string{"status": "pending"}, nil)
	defer back.Body.Close()
	if back.StatusCode != http.StatusConflict {
		t.Fatalf("backward: expected 409, got %d", back.StatusCode)
	}

	// Unknown status is a validation error.
	bad := doJSON(t, http.MethodPut, path, map[string]string{"status": "teleported"}, nil)
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", bad.StatusCode)
	}
}
