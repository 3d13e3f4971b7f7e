package dto

import (
	"encoding/json"
	"testing"
)

func TestOptionalDistinguishesNullFromAbsent(t *testing.T) {
	var req UpdatePackageRequest
	body := `{"description": null, "image_url": "https://cdn/x.png"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !req.Description.Set || req.Description.Value != nil {
		t.Fatalf("description should be set to null: %+v", req.Description)
	}
	if !req.ImageURL.Set || req.ImageURL.Value == nil || *req.ImageURL.Value != "https://cdn/x.png" {
		t.Fatalf("image_url should carry a value: %+v", req.ImageURL)
	}
	if req.DiscountPrice.Set {
		t.Fatalf("absent discount_price must not be set")
	}
}
