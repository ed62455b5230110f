package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testPayload struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"omitempty,gte=1"`
}

func decodeRequest(t *testing.T, body string) (*testPayload, error) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	var payload testPayload
	err := DecodeAndValidate(req, &payload)
	return &payload, err
}

func TestDecodeAndValidateAcceptsValidPayload(t *testing.T) {
	payload, err := decodeRequest(t, `{"name":"Widget","price":9.99,"quantity":2}`)
	if err != nil {
		t.Fatalf("Expected payload to validate, got %v", err)
	}
	if payload.Name != "Widget" || payload.Price != 9.99 || payload.Quantity != 2 {
		t.Errorf("Payload not decoded faithfully: %+v", payload)
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	_, err := decodeRequest(t, `{"name":`)
	if err == nil {
		t.Fatal("Expected a decode error")
	}
	// Decode errors are not validation errors and carry no field details.
	if errs := FormatValidationErrors(err); len(errs) != 0 {
		t.Errorf("Expected no validation details for decode error, got %+v", errs)
	}
}

func TestDecodeAndValidateRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing required field", `{"price":1}`, "Name"},
		{"negative price", `{"name":"Widget","price":-5}`, "Price"},
		{"negative quantity", `{"name":"Widget","price":1,"quantity":-1}`, "Quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRequest(t, tt.body)
			if err == nil {
				t.Fatal("Expected a validation error")
			}

			errs := FormatValidationErrors(err)
			if len(errs) == 0 {
				t.Fatal("Expected formatted validation errors")
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
					if e.Message == "" {
						t.Error("Expected a human-readable message")
					}
				}
			}
			if !found {
				t.Errorf("Expected error for field %s, got %+v", tt.wantField, errs)
			}
		})
	}
}
