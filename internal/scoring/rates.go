// Package scoring implements the per-product benefit scorers. Each product is
// a registry entry pairing a gate predicate with a benefit formula; both read
// only the client's FeatureRecord and the batch-wide ThresholdSet. Rates,
// caps, and gate floors live in a single Rates table so the numeric policy
// can be tuned without touching scorer code.
package scoring

import "github.com/abekenov/product-advisor/internal/model"

// Spend categories referenced by the card formulas. These are exact ledger
// labels; matching is string- and case-exact.
var (
	travelCategories = []string{"Путешествия", "Такси", "Отели"}
	luxuryCategories = []string{"Ювелирные украшения", "Косметика и Парфюмерия", "Кафе и рестораны"}
	onlineCategories = []string{"Едим дома", "Смотрим дома", "Играем дома"}

	jewelryCategory = "Ювелирные украшения"
)

// Rates is the scoring policy table: every rate, cap, and gate floor used by
// the product formulas. Defaults reflect the current product terms; treat
// them as configuration pending confirmation from the product owner, not as
// settled business truth.
type Rates struct {
	// Travel card.
	TravelCashbackRate float64 `mapstructure:"travel_cashback_rate"`
	TravelFXBoost      float64 `mapstructure:"travel_fx_boost"`
	TravelCashbackCap  float64 `mapstructure:"travel_cashback_cap"`

	// Premium card.
	PremiumTierLowRate   float64 `mapstructure:"premium_tier_low_rate"`
	PremiumTierMidRate   float64 `mapstructure:"premium_tier_mid_rate"`
	PremiumTierHighRate  float64 `mapstructure:"premium_tier_high_rate"`
	PremiumLuxuryRate    float64 `mapstructure:"premium_luxury_rate"`
	PremiumCashbackCap   float64 `mapstructure:"premium_cashback_cap"`
	ATMFee               float64 `mapstructure:"atm_fee"`
	FreeATMWithdrawalCap float64 `mapstructure:"free_atm_withdrawal_cap"`
	FrequentATMUserBonus float64 `mapstructure:"frequent_atm_user_bonus"`

	// Credit card.
	CreditCashbackRate float64 `mapstructure:"credit_cashback_rate"`

	// FX exchange.
	FXExchangeRate float64 `mapstructure:"fx_exchange_rate"`

	// Cash loan.
	CashLoanBonus        float64 `mapstructure:"cash_loan_bonus"`
	CashLoanOutflowRatio float64 `mapstructure:"cash_loan_outflow_ratio"`

	// Deposits: annual rates, paid out quarterly over the 3-month window.
	SavingsAnnualRate        float64 `mapstructure:"savings_annual_rate"`
	MulticurrencyAnnualRate  float64 `mapstructure:"multicurrency_annual_rate"`
	MulticurrencyBalanceGate float64 `mapstructure:"multicurrency_balance_gate"`
	CumulativeSurplusFloor   float64 `mapstructure:"cumulative_surplus_floor"`
	CumulativeHorizonMonths  float64 `mapstructure:"cumulative_horizon_months"`

	// Investments and gold.
	InvestmentsRate        float64 `mapstructure:"investments_rate"`
	InvestmentsBalanceGate float64 `mapstructure:"investments_balance_gate"`
	GoldBarsRate           float64 `mapstructure:"gold_bars_rate"`

	// Status multipliers, applied after gates.
	StudentInvestMultiplier float64 `mapstructure:"student_invest_multiplier"`
	StudentGoldMultiplier   float64 `mapstructure:"student_gold_multiplier"`
	PremiumCardMultiplier   float64 `mapstructure:"premium_card_multiplier"`
	PremiumInvestMultiplier float64 `mapstructure:"premium_invest_multiplier"`
}

// DefaultRates returns the current production scoring constants.
func DefaultRates() Rates {
	return Rates{
		TravelCashbackRate: 0.04,
		TravelFXBoost:      1.2,
		TravelCashbackCap:  90_000,

		PremiumTierLowRate:   0.02,
		PremiumTierMidRate:   0.03,
		PremiumTierHighRate:  0.04,
		PremiumLuxuryRate:    0.04,
		PremiumCashbackCap:   300_000,
		ATMFee:               500,
		FreeATMWithdrawalCap: 9_000_000,
		FrequentATMUserBonus: 5_000,

		CreditCashbackRate: 0.10,

		FXExchangeRate: 0.005,

		CashLoanBonus:        50_000,
		CashLoanOutflowRatio: 1.2,

		SavingsAnnualRate:        0.165,
		MulticurrencyAnnualRate:  0.145,
		MulticurrencyBalanceGate: 200_000,
		CumulativeSurplusFloor:   50_000,
		CumulativeHorizonMonths:  3,

		InvestmentsRate:        0.05,
		InvestmentsBalanceGate: 500_000,
		GoldBarsRate:           0.10,

		StudentInvestMultiplier: 0.2,
		StudentGoldMultiplier:   0.1,
		PremiumCardMultiplier:   1.5,
		PremiumInvestMultiplier: 1.2,
	}
}

func sumCategories(f *model.FeatureRecord, categories []string) float64 {
	var sum float64
	for _, c := range categories {
		sum += f.CategorySpend(c)
	}
	return sum
}
