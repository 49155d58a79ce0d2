//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

type customerResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	TotalOrders  int             `json:"total_orders"`
	RecentOrders []orderResponse `json:"recent_orders"`
}

func TestCustomer_SearchByEmail(t *testing.T) {
	create := doPost(t, "/api/customers", map[string]string{
		"name":  "Email Searcher",
		"phone": "0841111111",
		"email": "searchable-41@example.com",
	})
	defer create.Body.Close()
	if create.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d", create.StatusCode)
	}

	resp := doGet(t, "/api/customers?search=searchable-41")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[apiResponse[[]customerResponse]](t, resp)
	if len(body.Data) != 1 {
		t.Fatalf("expected exactly one hit for the email search, got %d", len(body.Data))
	}
	if body.Data[0].Email != "searchable-41@example.com" {
		t.Errorf("unexpected hit: %+v", body.Data[0])
	}
}

func TestCustomer_DuplicatePhoneConflicts(t *testing.T) {
	first := doPost(t, "/api/customers", map[string]string{
		"name": "Original", "phone": "0842222222",
	})
	defer first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d", first.StatusCode)
	}

	dup := doPost(t, "/api/customers", map[string]string{
		"name": "Imposter", "phone": "0842222222",
	})
	defer dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", dup.StatusCode)
	}
}

func TestCustomer_DetailIncludesRecentOrders(t *testing.T) {
	phone := "0843333333"

	place := doPost(t, "/api/orders", jumpRopePayload(phone))
	defer place.Body.Close()
	if place.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", place.StatusCode)
	}
	placed := decodeJSON[apiResponse[placedOrder]](t, place).Data

	byPhone := doGet(t, "/api/customers/phone/"+phone)
	defer byPhone.Body.Close()
	if byPhone.StatusCode != http.StatusOK {
		t.Fatalf("lookup by phone: expected 200, got %d", byPhone.StatusCode)
	}
	c := decodeJSON[apiResponse[customerResponse]](t, byPhone).Data

	detail := doGet(t, fmt.Sprintf("/api/customers/%d", c.ID))
	defer detail.Body.Close()
	if detail.StatusCode != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", detail.StatusCode)
	}

	got := decodeJSON[apiResponse[customerResponse]](t, detail).Data
	if len(got.RecentOrders) == 0 {
		t.Fatal("expected the customer detail to carry recent orders")
	}
	if got.RecentOrders[0].OrderNumber != placed.OrderNumber {
		t.Errorf("most recent order %q does not match placed %q",
			got.RecentOrders[0].OrderNumber, placed.OrderNumber)
	}
}
