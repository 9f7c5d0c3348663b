package model

// FeatureRecord is the fixed-shape behavioral summary of one client's 3-month
// ledger window. It is read-only once built: every product scorer consumes it,
// none mutates it. A record derived from empty ledgers has all aggregates at
// zero and all flags false.
type FeatureRecord struct {
	ClientID          int64
	Status            ClientStatus
	AvgMonthlyBalance float64

	// Transaction-side aggregates.
	SpendByCategory map[string]float64
	TopCategories   []string
	TopSpend        float64
	TotalSpend      float64
	FXSpendSum      float64
	SpendVolatility float64
	MeanSpend       float64

	// Transfer-side aggregates, keyed by transfer type.
	TransferSums   map[string]float64
	TransferCounts map[string]int

	// Derived transfer lookups.
	ATMWithdrawalCount   int
	ATMWithdrawalAmounts []float64 // date-ordered, for cumulative fee caps
	FXBuySum             float64
	FXSellSum            float64
	LoanPaymentCount     int
	TotalIn              float64
	TotalOut             float64
	TotalTransferVolume  float64

	// Monthly surplus analysis.
	IsSurplusStable   bool
	AvgMonthlySurplus float64
}

// CategorySpend returns the summed spend for a category, zero if absent.
func (f *FeatureRecord) CategorySpend(category string) float64 {
	if f.SpendByCategory == nil {
		return 0
	}
	return f.SpendByCategory[category]
}

// TransferSum returns the summed amount for a transfer type, zero if absent.
func (f *FeatureRecord) TransferSum(transferType string) float64 {
	if f.TransferSums == nil {
		return 0
	}
	return f.TransferSums[transferType]
}

// TransferCount returns the operation count for a transfer type, zero if absent.
func (f *FeatureRecord) TransferCount(transferType string) int {
	if f.TransferCounts == nil {
		return 0
	}
	return f.TransferCounts[transferType]
}

// TransferShare returns the share of total transfer volume attributable to the
// given transfer types. A zero total volume yields zero, never a division error.
func (f *FeatureRecord) TransferShare(transferTypes ...string) float64 {
	if f.TotalTransferVolume <= 0 {
		return 0
	}
	var sum float64
	for _, tt := range transferTypes {
		sum += f.TransferSum(tt)
	}
	return sum / f.TotalTransferVolume
}

// FXShare is the share of transfer volume spent exchanging currency.
func (f *FeatureRecord) FXShare() float64 {
	return f.TransferShare(TransferFXBuy, TransferFXSell)
}

// GoldShare is the share of transfer volume spent on gold bars.
func (f *FeatureRecord) GoldShare() float64 {
	return f.TransferShare(TransferGoldBuyOut, TransferGoldSellIn)
}

// InvestShare is the share of transfer volume moved to or from investments.
func (f *FeatureRecord) InvestShare() float64 {
	return f.TransferShare(TransferInvestOut, TransferInvestIn)
}
