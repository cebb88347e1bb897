package main

import (
	"fmt"
	"strings"

	"github.com/Simplici0/sellercalc/internal/format"
	"github.com/Simplici0/sellercalc/internal/pricing"
	"github.com/Simplici0/sellercalc/internal/store"
)

type reportLine struct {
	label string
	value string
}

// buildCalculationText renders a saved calculation as a plain-text report.
func buildCalculationText(c store.Calculation) string {
	in, res := c.Input, c.Result

	markup := format.Percent(in.Markup.Value / 100)
	if in.Markup.IsCurrency() {
		markup = format.Currency(in.Markup.Value)
	}
	operational := format.Percent(in.Fees.OperationalCost / 100)
	if in.OperationalCostMode == pricing.ModeCurrency {
		operational = format.Currency(in.Fees.OperationalCost)
	}

	sections := []struct {
		title string
		lines []reportLine
	}{
		{"Harga & Margin", []reportLine{
			{"HPP", format.Currency(in.CostBasis)},
			{"Margin Profit", markup},
			{"Harga Jual", format.Currency(res.SellingPrice)},
			{"Diskon Toko", format.Currency(in.StoreDiscount)},
		}},
		{"Perhitungan Campaign", []reportLine{
			{"Potongan Campaign", format.Percent(in.CampaignDiscountPercent/100) + " / " + format.Currency(res.CampaignDiscountValue)},
			{"Subsidi Campaign Toko", format.Percent(in.StoreSubsidyShare/100) + " / " + format.Currency(res.StoreSubsidyValue)},
			{"Subsidi Campaign Platform", format.Percent(res.PlatformSubsidyPercent) + " / " + format.Currency(res.PlatformSubsidyValue)},
			{"Harga Final / Etalase", format.Currency(res.DisplayPrice)},
		}},
		{"Total Penghasilan", []reportLine{
			{"Total Penghasilan Seller", format.Currency(res.NetSellerRevenue)},
		}},
		{"Biaya-Biaya Marketplace", []reportLine{
			{"Komisi Platform", format.Currency(res.Fees.PlatformCommission)},
			{"Komisi Dinamis", format.Currency(res.Fees.DynamicCommission)},
			{"Cashback Bonus", format.Currency(res.Fees.CashbackBonus)},
			{"Biaya Pemrosesan", format.Currency(res.FlatProcessingFee)},
			{"Afiliasi", format.Currency(res.Fees.Affiliate)},
			{"Komisi Affiliasi Toko", format.Currency(res.Fees.StoreAffiliateCommission)},
			{"Live/Voucher Extra", format.Currency(res.Fees.LiveVoucherExtra)},
			{"Biaya Operasional", operational + " / " + format.Currency(res.Fees.OperationalCost)},
			{"Total Biaya", format.Currency(res.TotalFees)},
		}},
		{"Total Penyelesaian Pembayaran", []reportLine{
			{"Total Penyelesaian Pembayaran", format.Currency(res.NetSettlement)},
		}},
		{"Target Ideal", []reportLine{
			{"Target Profit", format.Percent(in.TargetProfitPercent / 100)},
			{"Potensi Keuntungan", format.Currency(res.TargetProfitValue)},
			{"Budget Iklan Ideal", format.Currency(res.TargetAdBudget)},
			{"Target ROI Ideal", format.Ratio(res.TargetRequiredReturn)},
			{"ROI BEP / Impas", format.Ratio(res.BreakevenRequiredReturn)},
			{"Budget Iklan Maks (BEP)", format.Currency(res.MaxAdSpendAtBreakeven)},
		}},
		{"Analisis Performa Aktual", []reportLine{
			{"ROI Aktual", format.Number(in.ActualReturnRate)},
			{"Biaya Iklan Aktual", format.Currency(res.ActualAdSpend)},
			{"Potensi Profit Aktual", format.Currency(res.ActualProfit)},
			{"Profit Aktual", format.Percent(res.ActualProfitPercent)},
		}},
		{"Analisis Biaya / Pesanan", []reportLine{
			{"Biaya Iklan / Pesanan", format.Currency(in.ManualAdSpendPerOrder)},
			{fmt.Sprintf("Biaya Iklan Final (+PPN %.0f%%)", pricing.AdTaxRate*100), format.Currency(res.TaxedAdSpend)},
			{"Pembayaran Final", format.Currency(res.NetPayment)},
			{"Profit Final", format.Currency(res.OrderProfit)},
		}},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Produk: %s\n", c.ProductName)
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Disimpan: %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
	}
	for _, section := range sections {
		fmt.Fprintf(&b, "\n%s:\n", section.title)
		for _, line := range section.lines {
			fmt.Fprintf(&b, "- %s: %s\n", line.label, line.value)
		}
	}

	return b.String()
}
