// Package thresholds derives population-wide cutoffs from the full client
// profile snapshot. The resulting ThresholdSet is computed once per batch and
// treated as constant configuration for every client scored in that batch.
package thresholds

import (
	"log/slog"
	"sort"

	"github.com/abekenov/product-advisor/internal/model"
)

// Percentile choices for the population cutoffs.
const (
	balanceMidQuantile  = 0.75
	balanceHighQuantile = 0.85
	atmFreqQuantile     = 0.75
)

// Calculate derives the ThresholdSet from all client profiles and the
// per-client ATM withdrawal counts over the 3-month window. Clients missing
// from atmCounts contribute a zero count, not an error.
func Calculate(profiles []model.ClientProfile, atmCounts map[int64]int) model.ThresholdSet {
	balances := make([]float64, 0, len(profiles))
	counts := make([]float64, 0, len(profiles))
	var balanceSum float64

	for _, p := range profiles {
		balances = append(balances, p.AvgMonthlyBalance)
		balanceSum += p.AvgMonthlyBalance
		counts = append(counts, float64(atmCounts[p.ClientID]))
	}

	set := model.ThresholdSet{
		BalanceMid:   Percentile(balances, balanceMidQuantile),
		BalanceHigh:  Percentile(balances, balanceHighQuantile),
		ATMFrequency: Percentile(counts, atmFreqQuantile),
	}
	if len(balances) > 0 {
		set.BalanceMean = balanceSum / float64(len(balances))
	}

	slog.Info("Computed population thresholds",
		"clients", len(profiles),
		"balance_mid", set.BalanceMid,
		"balance_high", set.BalanceHigh,
		"balance_mean", set.BalanceMean,
		"atm_frequency", set.ATMFrequency)

	return set
}

// Percentile returns the linearly interpolated q-quantile (0 <= q <= 1) of
// the data. An empty slice yields zero. The input is not modified.
func Percentile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
