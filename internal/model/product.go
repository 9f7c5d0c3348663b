package model

import "time"

// Product identifies one of the bank's recommendable products.
type Product string

// The full product catalogue.
const (
	ProductTravelCard           Product = "travel_card"
	ProductPremiumCard          Product = "premium_card"
	ProductCreditCard           Product = "credit_card"
	ProductFXExchange           Product = "fx_exchange"
	ProductCashLoan             Product = "cash_loan"
	ProductSavingsDeposit       Product = "savings_deposit"
	ProductCumulativeDeposit    Product = "cumulative_deposit"
	ProductMulticurrencyDeposit Product = "multicurrency_deposit"
	ProductInvestments          Product = "investments"
	ProductGoldBars             Product = "gold_bars"
)

// AllProducts lists the catalogue in its canonical order.
var AllProducts = []Product{
	ProductTravelCard,
	ProductPremiumCard,
	ProductCreditCard,
	ProductFXExchange,
	ProductCashLoan,
	ProductSavingsDeposit,
	ProductCumulativeDeposit,
	ProductMulticurrencyDeposit,
	ProductInvestments,
	ProductGoldBars,
}

var productDisplayNames = map[Product]string{
	ProductTravelCard:           "Карта для путешествий",
	ProductPremiumCard:          "Премиальная карта",
	ProductCreditCard:           "Кредитная карта",
	ProductFXExchange:           "Обмен валют",
	ProductCashLoan:             "Кредит наличными",
	ProductSavingsDeposit:       "Депозит сберегательный",
	ProductCumulativeDeposit:    "Депозит накопительный",
	ProductMulticurrencyDeposit: "Депозит мультивалютный",
	ProductInvestments:          "Инвестиции",
	ProductGoldBars:             "Золотые слитки",
}

// DisplayName returns the client-facing product name used in notifications
// and exported reports.
func (p Product) DisplayName() string {
	if name, ok := productDisplayNames[p]; ok {
		return name
	}
	return string(p)
}

// ProductScore pairs a product with its estimated monetary benefit for one
// client. Scores are ephemeral: recomputed for every client, never persisted
// on their own.
type ProductScore struct {
	Product Product
	Benefit float64
}

// ProductScores is an ordered score list. Order follows the registry's fixed
// evaluation order, which also serves as the tie-break.
type ProductScores []ProductScore

// Get returns the benefit for a product, zero if it was not scored.
func (s ProductScores) Get(p Product) float64 {
	for _, score := range s {
		if score.Product == p {
			return score.Benefit
		}
	}
	return 0
}

// Best returns the highest-benefit entry among the given products, preferring
// the earlier entry on ties. Products missing from the score list count as
// zero. Returns a zero-valued score for the first product when the list of
// candidates is empty in the scores.
func (s ProductScores) Best(products ...Product) ProductScore {
	if len(products) == 0 {
		return ProductScore{}
	}
	best := ProductScore{Product: products[0], Benefit: s.Get(products[0])}
	for _, p := range products[1:] {
		if b := s.Get(p); b > best.Benefit {
			best = ProductScore{Product: p, Benefit: b}
		}
	}
	return best
}

// Recommendation is the terminal output of the decision engine for one client.
type Recommendation struct {
	CreatedAt    time.Time
	ClientID     int64
	Product      Product
	Benefit      float64
	Tier         string
	Notification string
}

// RunSummary records the outcome of one batch run.
type RunSummary struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	RunID       string
	Total       int
	Recommended int
	Skipped     int
}
