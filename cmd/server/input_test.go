package main

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Simplici0/sellercalc/internal/pricing"
)

func TestParseInputForm_Success(t *testing.T) {
	form := url.Values{}
	form.Set("productName", " Kemeja ")
	form.Set("costBasis", "25000")
	form.Set("markupMode", "currency")
	form.Set("markupValue", "12245,5")
	form.Set("platformCommission", "8")
	form.Set("operationalCostMode", "currency")
	form.Set("operationalCost", "500")
	form.Set("actualReturnRate", "5")

	req := httptest.NewRequest("POST", "/api/compute", nil)
	req.Form = form

	in, err := parseInputForm(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.ProductName != "Kemeja" || in.CostBasis != 25000 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Markup != pricing.Currency(12245.5) {
		t.Fatalf("unexpected markup: %+v", in.Markup)
	}
	if in.OperationalCostMode != pricing.ModeCurrency || in.Fees.OperationalCost != 500 {
		t.Fatalf("unexpected operational cost: %+v", in)
	}
	if in.StoreDiscount != 0 {
		t.Fatalf("missing fields should be zero, got %v", in.StoreDiscount)
	}
}

func TestParseInputForm_InvalidNumbers(t *testing.T) {
	for _, raw := range []string{"abc", "NaN", "Inf"} {
		form := url.Values{}
		form.Set("costBasis", raw)

		req := httptest.NewRequest("POST", "/api/compute", nil)
		req.Form = form

		if _, err := parseInputForm(req); err == nil {
			t.Fatalf("expected numeric validation error for %q", raw)
		}
	}
}

func TestParseInputForm_InvalidMode(t *testing.T) {
	form := url.Values{}
	form.Set("markupMode", "ratio")

	req := httptest.NewRequest("POST", "/api/compute", nil)
	req.Form = form

	if _, err := parseInputForm(req); err == nil {
		t.Fatalf("expected mode validation error")
	}
}
