// Package features maps one client's raw ledger records into the fixed-shape
// FeatureRecord consumed by every product scorer.
package features

import (
	"math"
	"sort"
	"time"

	"github.com/abekenov/product-advisor/internal/model"
)

const topCategoryCount = 3

// Extract builds a FeatureRecord from a client's profile and 3-month ledgers.
// Empty transaction or transfer slices are valid input: every aggregate
// defaults to zero and no ratio ever divides by zero.
func Extract(profile model.ClientProfile, transactions []model.Transaction, transfers []model.Transfer) *model.FeatureRecord {
	f := &model.FeatureRecord{
		ClientID:          profile.ClientID,
		Status:            profile.Status,
		AvgMonthlyBalance: profile.AvgMonthlyBalance,
		SpendByCategory:   make(map[string]float64),
		TransferSums:      make(map[string]float64),
		TransferCounts:    make(map[string]int),
	}

	extractTransactionFeatures(f, transactions)
	extractTransferFeatures(f, transfers)
	extractSurplusFeatures(f, transactions, transfers)

	return f
}

func extractTransactionFeatures(f *model.FeatureRecord, transactions []model.Transaction) {
	for _, txn := range transactions {
		f.SpendByCategory[txn.Category] += txn.Amount
		f.TotalSpend += txn.Amount
		if txn.IsForeignCurrency() {
			f.FXSpendSum += txn.Amount
		}
	}

	f.TopCategories, f.TopSpend = topSpendCategories(f.SpendByCategory, topCategoryCount)
	f.MeanSpend, f.SpendVolatility = meanAndStdDev(transactions)
}

func extractTransferFeatures(f *model.FeatureRecord, transfers []model.Transfer) {
	ordered := make([]model.Transfer, len(transfers))
	copy(ordered, transfers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	for _, tr := range ordered {
		f.TransferSums[tr.Type] += tr.Amount
		f.TransferCounts[tr.Type]++
		f.TotalTransferVolume += tr.Amount

		switch tr.Direction {
		case model.DirectionIn:
			f.TotalIn += tr.Amount
		case model.DirectionOut:
			f.TotalOut += tr.Amount
		}

		if tr.Type == model.TransferATMWithdrawal {
			f.ATMWithdrawalAmounts = append(f.ATMWithdrawalAmounts, tr.Amount)
		}
	}

	f.ATMWithdrawalCount = f.TransferCount(model.TransferATMWithdrawal)
	f.FXBuySum = f.TransferSum(model.TransferFXBuy)
	f.FXSellSum = f.TransferSum(model.TransferFXSell)
	f.LoanPaymentCount = f.TransferCount(model.TransferLoanPaymentOut)
}

// extractSurplusFeatures buckets income (inbound transfers) and expenses
// (transactions) into calendar months. The window spans every month from the
// first activity to the last; silent months inside it count as zero surplus.
// The surplus is stable only when strictly positive in every month of the
// window, and the average surplus is reported only for stable clients.
func extractSurplusFeatures(f *model.FeatureRecord, transactions []model.Transaction, transfers []model.Transfer) {
	income := make(map[string]float64)
	expenses := make(map[string]float64)

	var first, last time.Time
	observe := func(t time.Time) {
		m := monthStart(t)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}

	for _, tr := range transfers {
		if tr.Direction == model.DirectionIn {
			income[monthKey(tr.Date)] += tr.Amount
			observe(tr.Date)
		}
	}
	for _, txn := range transactions {
		expenses[monthKey(txn.Date)] += txn.Amount
		observe(txn.Date)
	}
	if first.IsZero() {
		return
	}

	stable := true
	var total float64
	var months int
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		surplus := income[key] - expenses[key]
		total += surplus
		months++
		if surplus <= 0 {
			stable = false
		}
	}

	f.IsSurplusStable = stable
	if stable {
		f.AvgMonthlySurplus = total / float64(months)
	}
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// topSpendCategories returns the n largest categories by spend and their
// combined sum. Equal sums break ties by category name so the result is
// deterministic across runs.
func topSpendCategories(spend map[string]float64, n int) ([]string, float64) {
	if len(spend) == 0 || n <= 0 {
		return nil, 0
	}

	categories := make([]string, 0, len(spend))
	for c := range spend {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if spend[categories[i]] != spend[categories[j]] {
			return spend[categories[i]] > spend[categories[j]]
		}
		return categories[i] < categories[j]
	})

	if n > len(categories) {
		n = len(categories)
	}
	top := categories[:n]
	var sum float64
	for _, c := range top {
		sum += spend[c]
	}
	return top, sum
}

// meanAndStdDev returns the mean and sample standard deviation of individual
// transaction amounts. Fewer than two transactions yield zero volatility.
func meanAndStdDev(transactions []model.Transaction) (mean, stddev float64) {
	n := len(transactions)
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, txn := range transactions {
		sum += txn.Amount
	}
	mean = sum / float64(n)

	if n < 2 {
		return mean, 0
	}
	var sq float64
	for _, txn := range transactions {
		d := txn.Amount - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(n-1))
}
