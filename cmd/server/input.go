package main

import (
	"encoding/json"
	"fmt"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/sellercalc/internal/pricing"
)

const maxBodyBytes = 1 << 20

// decodeInput reads a pricing.Input from a JSON or form-encoded body.
// Numbers are checked for syntax only; ranges are left to the engine.
func decodeInput(w http.ResponseWriter, r *http.Request) (pricing.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var in pricing.Input
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return pricing.Input{}, fmt.Errorf("invalid json body: %w", err)
		}
		if err := validateModes(in); err != nil {
			return pricing.Input{}, err
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return pricing.Input{}, fmt.Errorf("invalid form")
	}
	return parseInputForm(r)
}

func parseInputForm(r *http.Request) (pricing.Input, error) {
	in := pricing.Input{
		ProductName:         strings.TrimSpace(r.FormValue("productName")),
		Markup:              pricing.Amount{Mode: pricing.AmountMode(strings.TrimSpace(r.FormValue("markupMode")))},
		OperationalCostMode: pricing.AmountMode(strings.TrimSpace(r.FormValue("operationalCostMode"))),
	}

	fields := []struct {
		key string
		dst *float64
	}{
		{"costBasis", &in.CostBasis},
		{"storeDiscount", &in.StoreDiscount},
		{"markupValue", &in.Markup.Value},
		{"campaignDiscountPercent", &in.CampaignDiscountPercent},
		{"storeSubsidyShare", &in.StoreSubsidyShare},
		{"platformCommission", &in.Fees.PlatformCommission},
		{"dynamicCommission", &in.Fees.DynamicCommission},
		{"cashbackBonus", &in.Fees.CashbackBonus},
		{"affiliate", &in.Fees.Affiliate},
		{"storeAffiliateCommission", &in.Fees.StoreAffiliateCommission},
		{"liveVoucherExtra", &in.Fees.LiveVoucherExtra},
		{"operationalCost", &in.Fees.OperationalCost},
		{"flatProcessingFee", &in.FlatProcessingFee},
		{"targetProfitPercent", &in.TargetProfitPercent},
		{"actualReturnRate", &in.ActualReturnRate},
		{"manualAdSpendPerOrder", &in.ManualAdSpendPerOrder},
	}
	for _, f := range fields {
		v, err := parseNumber(r.FormValue(f.key), f.key)
		if err != nil {
			return in, err
		}
		*f.dst = v
	}

	if err := validateModes(in); err != nil {
		return in, err
	}
	return in, nil
}

// parseNumber accepts an empty value as 0 and a comma as decimal separator.
func parseNumber(raw, field string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s harus berupa angka", field)
	}
	return value, nil
}

func validateModes(in pricing.Input) error {
	if !validMode(in.Markup.Mode) {
		return fmt.Errorf("markup mode harus percent atau currency")
	}
	if !validMode(in.OperationalCostMode) {
		return fmt.Errorf("operationalCostMode harus percent atau currency")
	}
	return nil
}

func validMode(m pricing.AmountMode) bool {
	return m == "" || m == pricing.ModePercent || m == pricing.ModeCurrency
}
