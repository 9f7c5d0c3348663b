// Package policy implements the cascading product-selection policy. Tiers are
// an explicit ordered list; each tier is a pure function returning an
// optional recommendation, and the runner stops at the first tier that
// produces one. Ratio-driven instruments and deposits are evaluated before
// cards on purpose: their qualifying conditions are sparser signals of
// genuine behavioral fit, while cards are a safe fallback that always yields
// a usable recommendation.
package policy

import (
	"log/slog"

	"github.com/abekenov/product-advisor/internal/model"
)

// RatioThreshold is the minimum share of transfer volume a ratio-driven
// product must reach to win outright.
const RatioThreshold = 0.3

// Tier names, recorded on the resulting recommendation.
const (
	TierRatio   = "ratio"
	TierDeposit = "deposit"
	TierCard    = "card"
)

// Fixed per-tier evaluation orders. Within a tier, equal benefits resolve to
// the earlier product, so selection is deterministic.
var (
	depositOrder = []model.Product{
		model.ProductSavingsDeposit,
		model.ProductCumulativeDeposit,
		model.ProductMulticurrencyDeposit,
	}
	cardOrder = []model.Product{
		model.ProductTravelCard,
		model.ProductPremiumCard,
		model.ProductCreditCard,
	}
)

// Tier evaluates one cascade stage for a client. A nil result means the tier
// did not qualify and the next tier runs.
type Tier struct {
	Name     string
	Evaluate func(f *model.FeatureRecord, scores model.ProductScores) *model.Recommendation
}

// Policy runs the tier cascade in order.
type Policy struct {
	tiers []Tier
}

// New returns the production three-tier cascade: ratio instruments, then
// deposits, then cards.
func New() *Policy {
	return &Policy{tiers: []Tier{
		{Name: TierRatio, Evaluate: ratioTier},
		{Name: TierDeposit, Evaluate: depositTier},
		{Name: TierCard, Evaluate: cardTier},
	}}
}

// Decide picks the single winning product for a client. The card tier always
// qualifies, so Decide never returns nil for valid input.
func (p *Policy) Decide(f *model.FeatureRecord, scores model.ProductScores) *model.Recommendation {
	for _, tier := range p.tiers {
		if rec := tier.Evaluate(f, scores); rec != nil {
			slog.Debug("Tier selected product",
				"client_id", f.ClientID,
				"tier", rec.Tier,
				"product", rec.Product,
				"benefit", rec.Benefit)
			return rec
		}
	}
	return nil
}

// ratioTier: if the largest FX/gold/investment share of transfer volume
// exceeds the qualification threshold, that product wins outright, regardless
// of any card or deposit score. The recommendation carries the product's own
// scorer benefit as its value.
func ratioTier(f *model.FeatureRecord, scores model.ProductScores) *model.Recommendation {
	candidates := []struct {
		product model.Product
		share   float64
	}{
		{model.ProductFXExchange, f.FXShare()},
		{model.ProductGoldBars, f.GoldShare()},
		{model.ProductInvestments, f.InvestShare()},
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.share > best.share {
			best = c
		}
	}
	if best.share <= RatioThreshold {
		return nil
	}

	return &model.Recommendation{
		ClientID: f.ClientID,
		Product:  best.product,
		Benefit:  scores.Get(best.product),
		Tier:     TierRatio,
	}
}

// depositTier: the best deposit wins only when strictly positive; gated-out
// deposits score zero and fall through to the card tier.
func depositTier(f *model.FeatureRecord, scores model.ProductScores) *model.Recommendation {
	best := scores.Best(depositOrder...)
	if best.Benefit <= 0 {
		return nil
	}
	return &model.Recommendation{
		ClientID: f.ClientID,
		Product:  best.Product,
		Benefit:  best.Benefit,
		Tier:     TierDeposit,
	}
}

// cardTier: unconditional fallback; the arg-max card is recommended even when
// every card scores zero.
func cardTier(f *model.FeatureRecord, scores model.ProductScores) *model.Recommendation {
	best := scores.Best(cardOrder...)
	return &model.Recommendation{
		ClientID: f.ClientID,
		Product:  best.Product,
		Benefit:  best.Benefit,
		Tier:     TierCard,
	}
}
