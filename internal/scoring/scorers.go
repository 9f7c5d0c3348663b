package scoring

import (
	"math"

	"github.com/abekenov/product-advisor/internal/model"
)

// Gate is a boolean precondition on a scorer. When false, the product's
// benefit is forced to zero regardless of its formula.
type Gate func(f *model.FeatureRecord, t *model.ThresholdSet) bool

// Formula estimates the monetary benefit of a product for one client.
type Formula func(f *model.FeatureRecord, t *model.ThresholdSet) float64

// Scorer is one registry entry: a product, its gate, and its benefit formula.
type Scorer struct {
	Gate    Gate
	Formula Formula
	Product model.Product
}

// Score evaluates the scorer for one client. The result is never negative,
// and zero whenever the gate does not hold.
func (s Scorer) Score(f *model.FeatureRecord, t *model.ThresholdSet) float64 {
	if s.Gate != nil && !s.Gate(f, t) {
		return 0
	}
	benefit := s.Formula(f, t)
	if benefit < 0 || math.IsNaN(benefit) || math.IsInf(benefit, 0) {
		return 0
	}
	return benefit
}

// Registry is the ordered set of product scorers. The order is fixed: it is
// the canonical product order and the tie-break order used by the decision
// policy.
type Registry struct {
	rates   Rates
	scorers []Scorer
}

// NewRegistry builds the scorer registry from a rates table.
func NewRegistry(rates Rates) *Registry {
	r := &Registry{rates: rates}
	r.scorers = []Scorer{
		{Product: model.ProductTravelCard, Formula: r.travelCard},
		{Product: model.ProductPremiumCard, Formula: r.premiumCard},
		{Product: model.ProductCreditCard, Formula: r.creditCard},
		{Product: model.ProductFXExchange, Formula: r.fxExchange},
		{Product: model.ProductCashLoan, Gate: r.cashLoanGate, Formula: r.cashLoan},
		{Product: model.ProductSavingsDeposit, Gate: r.savingsGate, Formula: r.savingsDeposit},
		{Product: model.ProductCumulativeDeposit, Gate: r.cumulativeGate, Formula: r.cumulativeDeposit},
		{Product: model.ProductMulticurrencyDeposit, Gate: r.multicurrencyGate, Formula: r.multicurrencyDeposit},
		{Product: model.ProductInvestments, Gate: r.investmentsGate, Formula: r.investments},
		{Product: model.ProductGoldBars, Formula: r.goldBars},
	}
	return r
}

// ScoreAll evaluates every product for one client and applies the status
// multipliers. Multipliers scale already-gated scores: a score forced to zero
// by its gate stays zero.
func (r *Registry) ScoreAll(f *model.FeatureRecord, t *model.ThresholdSet) model.ProductScores {
	scores := make(model.ProductScores, 0, len(r.scorers))
	for _, s := range r.scorers {
		scores = append(scores, model.ProductScore{Product: s.Product, Benefit: s.Score(f, t)})
	}
	r.applyStatusMultipliers(f.Status, scores)
	return scores
}

func (r *Registry) applyStatusMultipliers(status model.ClientStatus, scores model.ProductScores) {
	multipliers := map[model.Product]float64{}
	switch status {
	case model.StatusStudent:
		multipliers[model.ProductInvestments] = r.rates.StudentInvestMultiplier
		multipliers[model.ProductGoldBars] = r.rates.StudentGoldMultiplier
	case model.StatusPremium:
		multipliers[model.ProductPremiumCard] = r.rates.PremiumCardMultiplier
		multipliers[model.ProductInvestments] = r.rates.PremiumInvestMultiplier
	default:
		return
	}
	for i := range scores {
		if m, ok := multipliers[scores[i].Product]; ok {
			scores[i].Benefit *= m
		}
	}
}

// travelCard: cashback on travel-adjacent spend, boosted for clients who
// already spend in foreign currencies, capped per 3-month window.
func (r *Registry) travelCard(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	benefit := sumCategories(f, travelCategories) * r.rates.TravelCashbackRate
	if f.FXSpendSum > 0 {
		benefit *= r.rates.TravelFXBoost
	}
	return math.Min(benefit, r.rates.TravelCashbackCap)
}

// premiumCard: tiered base cashback by balance tier plus an elevated rate on
// luxury categories, the pair capped together; saved ATM fees (up to the free
// cumulative withdrawal limit) and the frequent-user bonus come on top.
func (r *Registry) premiumCard(f *model.FeatureRecord, t *model.ThresholdSet) float64 {
	var tierRate float64
	switch {
	case f.AvgMonthlyBalance < t.BalanceMid:
		tierRate = r.rates.PremiumTierLowRate
	case f.AvgMonthlyBalance < t.BalanceHigh:
		tierRate = r.rates.PremiumTierMidRate
	default:
		tierRate = r.rates.PremiumTierHighRate
	}

	luxurySpend := sumCategories(f, luxuryCategories)
	baseCashback := (f.TotalSpend - luxurySpend) * tierRate
	luxuryCashback := luxurySpend * r.rates.PremiumLuxuryRate
	cashback := math.Min(baseCashback+luxuryCashback, r.rates.PremiumCashbackCap)

	savedFees := float64(r.freeATMWithdrawals(f)) * r.rates.ATMFee

	var frequentBonus float64
	if f.ATMWithdrawalCount > 0 && float64(f.ATMWithdrawalCount) >= t.ATMFrequency {
		frequentBonus = r.rates.FrequentATMUserBonus
	}

	return cashback + savedFees + frequentBonus
}

// freeATMWithdrawals counts the date-ordered withdrawals whose running total
// stays within the free cumulative withdrawal limit.
func (r *Registry) freeATMWithdrawals(f *model.FeatureRecord) int {
	var cumulative float64
	var free int
	for _, amount := range f.ATMWithdrawalAmounts {
		cumulative += amount
		if cumulative > r.rates.FreeATMWithdrawalCap {
			break
		}
		free++
	}
	return free
}

// creditCard: cashback on the union of the client's top-3 categories and the
// fixed home-services set, counted once per category.
func (r *Registry) creditCard(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	eligible := make(map[string]struct{}, len(f.TopCategories)+len(onlineCategories))
	for _, c := range f.TopCategories {
		eligible[c] = struct{}{}
	}
	for _, c := range onlineCategories {
		eligible[c] = struct{}{}
	}

	var spend float64
	for c := range eligible {
		spend += f.CategorySpend(c)
	}
	return spend * r.rates.CreditCashbackRate
}

// fxExchange: spread savings on the client's total FX conversion volume.
func (r *Registry) fxExchange(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return (f.FXBuySum + f.FXSellSum) * r.rates.FXExchangeRate
}

func (r *Registry) cashLoanGate(f *model.FeatureRecord, _ *model.ThresholdSet) bool {
	return f.TotalOut > f.TotalIn*r.rates.CashLoanOutflowRatio && f.LoanPaymentCount > 0
}

func (r *Registry) cashLoan(_ *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return r.rates.CashLoanBonus
}

// savingsGate: a large idle balance with low spending volatility relative to
// the mean transaction size.
func (r *Registry) savingsGate(f *model.FeatureRecord, t *model.ThresholdSet) bool {
	return f.AvgMonthlyBalance > t.BalanceMean && f.MeanSpend > 0 && f.SpendVolatility < f.MeanSpend
}

func (r *Registry) savingsDeposit(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return f.AvgMonthlyBalance * r.rates.SavingsAnnualRate / 4
}

func (r *Registry) cumulativeGate(f *model.FeatureRecord, _ *model.ThresholdSet) bool {
	return f.IsSurplusStable && f.AvgMonthlySurplus > r.rates.CumulativeSurplusFloor
}

// cumulativeDeposit: projected accumulation over the window for clients who
// end every month in surplus.
func (r *Registry) cumulativeDeposit(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return f.AvgMonthlySurplus * r.rates.CumulativeHorizonMonths
}

func (r *Registry) multicurrencyGate(f *model.FeatureRecord, _ *model.ThresholdSet) bool {
	hasFXActivity := f.FXBuySum > 0 || f.FXSpendSum > 0
	return f.AvgMonthlyBalance > r.rates.MulticurrencyBalanceGate && hasFXActivity
}

func (r *Registry) multicurrencyDeposit(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return f.AvgMonthlyBalance * r.rates.MulticurrencyAnnualRate / 4
}

func (r *Registry) investmentsGate(f *model.FeatureRecord, _ *model.ThresholdSet) bool {
	return f.AvgMonthlyBalance > r.rates.InvestmentsBalanceGate
}

func (r *Registry) investments(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return f.AvgMonthlyBalance * r.rates.InvestmentsRate
}

func (r *Registry) goldBars(f *model.FeatureRecord, _ *model.ThresholdSet) float64 {
	return f.CategorySpend(jewelryCategory) * r.rates.GoldBarsRate
}
