package pricing

import "math"

// AdTaxRate is the tax added on top of manually entered per-order ad spend.
const AdTaxRate = 0.11

// AmountMode selects how an Amount value is interpreted.
type AmountMode string

const (
	// ModePercent interprets the value as a whole-number percentage.
	ModePercent AmountMode = "percent"
	// ModeCurrency interprets the value as an absolute currency amount.
	ModeCurrency AmountMode = "currency"
)

// Amount is a value that is either a percentage or a currency amount.
// An empty Mode is treated as ModePercent.
type Amount struct {
	Mode  AmountMode `json:"mode"`
	Value float64    `json:"value"`
}

// Percent builds a percentage Amount.
func Percent(v float64) Amount { return Amount{Mode: ModePercent, Value: v} }

// Currency builds a currency Amount.
func Currency(v float64) Amount { return Amount{Mode: ModeCurrency, Value: v} }

// IsCurrency reports whether the amount is an absolute currency value.
func (a Amount) IsCurrency() bool { return a.Mode == ModeCurrency }

// FeeRates holds the rate-based marketplace fees as whole-number percentages
// of the commission base.
type FeeRates struct {
	PlatformCommission       float64 `json:"platformCommission"`
	DynamicCommission        float64 `json:"dynamicCommission"`
	CashbackBonus            float64 `json:"cashbackBonus"`
	Affiliate                float64 `json:"affiliate"`
	StoreAffiliateCommission float64 `json:"storeAffiliateCommission"`
	LiveVoucherExtra         float64 `json:"liveVoucherExtra"`
	OperationalCost          float64 `json:"operationalCost"`
}

// FeeValues holds the currency value of each rate-based fee.
type FeeValues struct {
	PlatformCommission       float64 `json:"platformCommission"`
	DynamicCommission        float64 `json:"dynamicCommission"`
	CashbackBonus            float64 `json:"cashbackBonus"`
	Affiliate                float64 `json:"affiliate"`
	StoreAffiliateCommission float64 `json:"storeAffiliateCommission"`
	LiveVoucherExtra         float64 `json:"liveVoucherExtra"`
	OperationalCost          float64 `json:"operationalCost"`
}

// Sum returns the total of all fee values.
func (f FeeValues) Sum() float64 {
	return f.PlatformCommission +
		f.DynamicCommission +
		f.CashbackBonus +
		f.Affiliate +
		f.StoreAffiliateCommission +
		f.LiveVoucherExtra +
		f.OperationalCost
}

// Input is the full parameter set of a calculation. Percentages are whole
// numbers out of 100 and are only divided at point of use.
type Input struct {
	ProductName             string   `json:"productName"`
	CostBasis               float64  `json:"costBasis"`
	StoreDiscount           float64  `json:"storeDiscount"`
	Markup                  Amount   `json:"markup"`
	CampaignDiscountPercent float64  `json:"campaignDiscountPercent"`
	StoreSubsidyShare       float64  `json:"storeSubsidyShare"`
	Fees                    FeeRates `json:"fees"`
	// OperationalCostMode switches Fees.OperationalCost to a flat per-order
	// amount when set to ModeCurrency.
	OperationalCostMode   AmountMode `json:"operationalCostMode,omitempty"`
	FlatProcessingFee     float64    `json:"flatProcessingFee"`
	TargetProfitPercent   float64    `json:"targetProfitPercent"`
	ActualReturnRate      float64    `json:"actualReturnRate"`
	ManualAdSpendPerOrder float64    `json:"manualAdSpendPerOrder"`
}

// Result contains every derived quantity of a calculation. Percent fields
// are fractions (0.126 means 12.6%).
type Result struct {
	SellingPrice  float64 `json:"sellingPrice"`
	MarkupValue   float64 `json:"markupValue"`
	MarkupPercent float64 `json:"markupPercent"`

	CampaignDiscountValue  float64 `json:"campaignDiscountValue"`
	StoreSubsidyValue      float64 `json:"storeSubsidyValue"`
	PlatformSubsidyValue   float64 `json:"platformSubsidyValue"`
	PlatformSubsidyPercent float64 `json:"platformSubsidyPercent"`

	CommissionBase   float64 `json:"commissionBase"`
	DisplayPrice     float64 `json:"displayPrice"`
	NetSellerRevenue float64 `json:"netSellerRevenue"`

	Fees              FeeValues `json:"fees"`
	FlatProcessingFee float64   `json:"flatProcessingFee"`
	TotalFees         float64   `json:"totalFees"`
	NetSettlement     float64   `json:"netSettlement"`
	ProfitPool        float64   `json:"profitPool"`

	TargetProfitValue    float64 `json:"targetProfitValue"`
	TargetAdBudget       float64 `json:"targetAdBudget"`
	TargetRequiredReturn Ratio   `json:"targetRequiredReturn"`

	MaxAdSpendAtBreakeven   float64 `json:"maxAdSpendAtBreakeven"`
	BreakevenRequiredReturn Ratio   `json:"breakevenRequiredReturn"`

	ActualAdSpend       float64 `json:"actualAdSpend"`
	ActualProfit        float64 `json:"actualProfit"`
	ActualProfitPercent float64 `json:"actualProfitPercent"`

	TaxedAdSpend float64 `json:"taxedAdSpend"`
	NetPayment   float64 `json:"netPayment"`
	OrderProfit  float64 `json:"orderProfit"`
}

// DefaultInput returns the starting values of a new calculation.
func DefaultInput() Input {
	return Input{
		CostBasis:         25000,
		Markup:            Percent(48.98),
		StoreSubsidyShare: 100,
		Fees: FeeRates{
			PlatformCommission: 8,
			DynamicCommission:  5,
			CashbackBonus:      4.5,
			Affiliate:          6,
		},
		FlatProcessingFee:   1250,
		TargetProfitPercent: 12.6,
		ActualReturnRate:    5,
	}
}

// Compute derives the full financial breakdown of in. It is pure and safe
// for concurrent use; the same input always yields the same result.
func Compute(in Input) Result {
	var r Result

	// Selling price from cost and markup.
	if in.Markup.IsCurrency() {
		r.MarkupValue = in.Markup.Value
		r.SellingPrice = in.CostBasis + r.MarkupValue
		if in.CostBasis > 0 {
			r.MarkupPercent = r.MarkupValue / in.CostBasis
		}
	} else {
		r.MarkupPercent = in.Markup.Value / 100
		r.MarkupValue = in.CostBasis * r.MarkupPercent
		r.SellingPrice = in.CostBasis + r.MarkupValue
	}
	if !isFinite(r.SellingPrice) || r.SellingPrice < in.CostBasis {
		r.SellingPrice = in.CostBasis
		r.MarkupValue = 0
		r.MarkupPercent = 0
	}

	// Campaign discount split between store and platform.
	r.CampaignDiscountValue = r.SellingPrice * (in.CampaignDiscountPercent / 100)
	r.StoreSubsidyValue = r.CampaignDiscountValue * (in.StoreSubsidyShare / 100)
	r.PlatformSubsidyValue = r.CampaignDiscountValue - r.StoreSubsidyValue
	if in.CampaignDiscountPercent > 0 {
		r.PlatformSubsidyPercent = 1 - in.StoreSubsidyShare/100
	}

	// Commission base is after the campaign discount but before the store
	// discount; net seller revenue only carries the store's share of the
	// campaign.
	r.CommissionBase = r.SellingPrice - r.CampaignDiscountValue
	r.DisplayPrice = r.SellingPrice - in.StoreDiscount - r.CampaignDiscountValue
	r.NetSellerRevenue = r.SellingPrice - in.StoreDiscount - r.StoreSubsidyValue

	r.Fees = feeValues(r.CommissionBase, in.Fees, in.OperationalCostMode)
	r.FlatProcessingFee = in.FlatProcessingFee
	r.TotalFees = r.Fees.Sum() + in.FlatProcessingFee

	r.NetSettlement = r.NetSellerRevenue - r.TotalFees
	r.ProfitPool = r.NetSellerRevenue - in.CostBasis - r.TotalFees

	// Target scenario.
	r.TargetProfitValue = r.NetSellerRevenue * (in.TargetProfitPercent / 100)
	r.TargetAdBudget = r.ProfitPool - r.TargetProfitValue
	r.TargetRequiredReturn = requiredReturn(r.NetSellerRevenue, r.TargetAdBudget)

	// Break-even scenario.
	r.MaxAdSpendAtBreakeven = r.ProfitPool
	r.BreakevenRequiredReturn = requiredReturn(r.NetSellerRevenue, r.MaxAdSpendAtBreakeven)

	// Actual performance scenario.
	if in.ActualReturnRate > 0 {
		r.ActualAdSpend = r.NetSellerRevenue / in.ActualReturnRate
	}
	r.ActualProfit = r.ProfitPool - r.ActualAdSpend
	if r.NetSellerRevenue > 0 {
		r.ActualProfitPercent = r.ActualProfit / r.NetSellerRevenue
	}

	// Per-order analysis. Deliberately independent of the scenarios above.
	r.TaxedAdSpend = in.ManualAdSpendPerOrder * (1 + AdTaxRate)
	r.NetPayment = r.NetSettlement - r.TaxedAdSpend
	r.OrderProfit = r.NetSettlement - in.CostBasis - r.TaxedAdSpend

	dropNaN(&r)
	return r
}

// dropNaN zeroes fields left undefined by out-of-domain inputs, such as
// opposite infinite fee rates cancelling out. In-domain inputs never hit it.
func dropNaN(r *Result) {
	fields := []*float64{
		&r.SellingPrice, &r.MarkupValue, &r.MarkupPercent,
		&r.CampaignDiscountValue, &r.StoreSubsidyValue, &r.PlatformSubsidyValue, &r.PlatformSubsidyPercent,
		&r.CommissionBase, &r.DisplayPrice, &r.NetSellerRevenue,
		&r.Fees.PlatformCommission, &r.Fees.DynamicCommission, &r.Fees.CashbackBonus, &r.Fees.Affiliate,
		&r.Fees.StoreAffiliateCommission, &r.Fees.LiveVoucherExtra, &r.Fees.OperationalCost,
		&r.FlatProcessingFee, &r.TotalFees, &r.NetSettlement, &r.ProfitPool,
		&r.TargetProfitValue, &r.TargetAdBudget, (*float64)(&r.TargetRequiredReturn),
		&r.MaxAdSpendAtBreakeven, (*float64)(&r.BreakevenRequiredReturn),
		&r.ActualAdSpend, &r.ActualProfit, &r.ActualProfitPercent,
		&r.TaxedAdSpend, &r.NetPayment, &r.OrderProfit,
	}
	for _, f := range fields {
		if math.IsNaN(*f) {
			*f = 0
		}
	}
}

func feeValues(base float64, rates FeeRates, operationalMode AmountMode) FeeValues {
	onBase := func(rate float64) float64 { return base * (rate / 100) }

	fees := FeeValues{
		PlatformCommission:       onBase(rates.PlatformCommission),
		DynamicCommission:        onBase(rates.DynamicCommission),
		CashbackBonus:            onBase(rates.CashbackBonus),
		Affiliate:                onBase(rates.Affiliate),
		StoreAffiliateCommission: onBase(rates.StoreAffiliateCommission),
		LiveVoucherExtra:         onBase(rates.LiveVoucherExtra),
		OperationalCost:          onBase(rates.OperationalCost),
	}
	if operationalMode == ModeCurrency {
		fees.OperationalCost = rates.OperationalCost
	}
	return fees
}

// requiredReturn is revenue / spend, unbounded when spend is not positive.
func requiredReturn(revenue, spend float64) Ratio {
	if spend > 0 {
		return Ratio(revenue / spend)
	}
	return Unbounded
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
