package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

type priceBody struct {
	Name  string          `json:"name" validate:"required,max=20"`
	Price decimal.Decimal `json:"price" validate:"gt=0"`
}

func decode(body string) (priceBody, error) {
	var dest priceBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBody(t *testing.T) {
	got, err := decode(`{"name":"Labial Mate","price":"12.50"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Labial Mate" || !got.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected decode %+v", got)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"unknown field": `{"name":"Rubor","price":"3","stock":4}`,
		"trailing data": `{"name":"Rubor","price":"3"}{"name":"x"}`,
		"malformed":     `{"name":`,
		"zero price":    `{"name":"Rubor","price":"0"}`,
		"missing name":  `{"price":"3"}`,
		"too large":     `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `","price":"3"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := decode(body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDecodeJSONBodyFieldDetails(t *testing.T) {
	_, err := decode(`{"price":"-1"}`)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
	if details["name"] != "is required" || details["price"] != "must be greater than 0" {
		t.Fatalf("unexpected details %#v", details)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  sombra   de  ojos \n", 0); got != "sombra de ojos" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("Corrector ñandú", 12); got != "Corrector ña" {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}
