package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenov/product-advisor/internal/model"
	"github.com/abekenov/product-advisor/internal/scoring"
	"github.com/abekenov/product-advisor/internal/thresholds"
)

func features(id int64) *model.FeatureRecord {
	return &model.FeatureRecord{
		ClientID:        id,
		SpendByCategory: map[string]float64{},
		TransferSums:    map[string]float64{},
		TransferCounts:  map[string]int{},
	}
}

func scoresFor(benefits map[model.Product]float64) model.ProductScores {
	scores := make(model.ProductScores, 0, len(model.AllProducts))
	for _, p := range model.AllProducts {
		scores = append(scores, model.ProductScore{Product: p, Benefit: benefits[p]})
	}
	return scores
}

func TestRatioTierWinsOverHigherScores(t *testing.T) {
	p := New()

	f := features(1)
	f.TotalTransferVolume = 1_000_000
	f.TransferSums[model.TransferFXBuy] = 350_000 // share 0.35

	scores := scoresFor(map[model.Product]float64{
		model.ProductFXExchange: 1_750,
		model.ProductTravelCard: 90_000, // much larger, must still lose
	})

	rec := p.Decide(f, scores)

	require.NotNil(t, rec)
	assert.Equal(t, model.ProductFXExchange, rec.Product)
	assert.Equal(t, TierRatio, rec.Tier)
	assert.InDelta(t, 1_750, rec.Benefit, 1e-9)
}

func TestRatioTierThresholdIsStrict(t *testing.T) {
	p := New()

	f := features(1)
	f.TotalTransferVolume = 1_000_000
	f.TransferSums[model.TransferFXBuy] = 300_000 // share exactly 0.30

	rec := p.Decide(f, scoresFor(nil))

	require.NotNil(t, rec)
	assert.Equal(t, TierCard, rec.Tier)
}

func TestRatioTierPicksLargestShare(t *testing.T) {
	p := New()

	f := features(1)
	f.TotalTransferVolume = 1_000_000
	f.TransferSums[model.TransferFXBuy] = 320_000
	f.TransferSums[model.TransferGoldBuyOut] = 400_000

	rec := p.Decide(f, scoresFor(nil))

	require.NotNil(t, rec)
	assert.Equal(t, model.ProductGoldBars, rec.Product)
	assert.Equal(t, TierRatio, rec.Tier)
}

func TestRatioTierTieBreaksToFX(t *testing.T) {
	p := New()

	f := features(1)
	f.TotalTransferVolume = 1_000_000
	f.TransferSums[model.TransferFXBuy] = 400_000
	f.TransferSums[model.TransferGoldBuyOut] = 400_000

	rec := p.Decide(f, scoresFor(nil))

	require.NotNil(t, rec)
	assert.Equal(t, model.ProductFXExchange, rec.Product)
}

func TestDepositTierRequiresPositiveBenefit(t *testing.T) {
	p := New()

	rec := p.Decide(features(1), scoresFor(map[model.Product]float64{
		model.ProductTravelCard: 1_000,
	}))

	require.NotNil(t, rec)
	assert.Equal(t, TierCard, rec.Tier)
	assert.Equal(t, model.ProductTravelCard, rec.Product)
}

func TestDepositTierPicksBestDeposit(t *testing.T) {
	p := New()

	rec := p.Decide(features(1), scoresFor(map[model.Product]float64{
		model.ProductSavingsDeposit:       40_000,
		model.ProductMulticurrencyDeposit: 70_000,
		model.ProductTravelCard:           90_000, // cards never beat a qualifying deposit
	}))

	require.NotNil(t, rec)
	assert.Equal(t, model.ProductMulticurrencyDeposit, rec.Product)
	assert.Equal(t, TierDeposit, rec.Tier)
	assert.InDelta(t, 70_000, rec.Benefit, 1e-9)
}

func TestDepositTierTieBreaksByOrder(t *testing.T) {
	p := New()

	rec := p.Decide(features(1), scoresFor(map[model.Product]float64{
		model.ProductSavingsDeposit:    50_000,
		model.ProductCumulativeDeposit: 50_000,
	}))

	require.NotNil(t, rec)
	assert.Equal(t, model.ProductSavingsDeposit, rec.Product)
}

func TestCardTierIsUnconditionalFallback(t *testing.T) {
	p := New()

	rec := p.Decide(features(1), scoresFor(nil))

	require.NotNil(t, rec)
	assert.Equal(t, TierCard, rec.Tier)
	assert.Equal(t, model.ProductTravelCard, rec.Product)
	assert.Zero(t, rec.Benefit)
}

func TestCardTierPicksBestCard(t *testing.T) {
	p := New()

	rec := p.Decide(features(1), scoresFor(map[model.Product]float64{
		model.ProductTravelCard:  2_000,
		model.ProductPremiumCard: 8_000,
		model.ProductCreditCard:  5_000,
	}))

	require.NotNil(t, rec)
	assert.Equal(t, model.ProductPremiumCard, rec.Product)
	assert.InDelta(t, 8_000, rec.Benefit, 1e-9)
}

// End-to-end cascade over real scorers: a modest-balance student with no
// ledger activity still receives a card recommendation.
func TestDecideQuietStudentFallsThroughToCard(t *testing.T) {
	registry := scoring.NewRegistry(scoring.DefaultRates())
	p := New()

	f := features(42)
	f.Status = model.StatusStudent
	f.AvgMonthlyBalance = 50_000

	set := thresholds.Calculate([]model.ClientProfile{
		{ClientID: 42, AvgMonthlyBalance: 50_000},
		{ClientID: 43, AvgMonthlyBalance: 900_000},
		{ClientID: 44, AvgMonthlyBalance: 2_400_000},
	}, nil)

	rec := p.Decide(f, registry.ScoreAll(f, &set))

	require.NotNil(t, rec)
	assert.Equal(t, TierCard, rec.Tier)
	assert.Equal(t, model.ProductTravelCard, rec.Product)
	assert.Zero(t, rec.Benefit)
}
