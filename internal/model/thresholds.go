package model

// ThresholdSet holds the population-wide cutoffs derived from the full profile
// snapshot. It is computed exactly once per batch, before any client is
// scored, and shared read-only across all workers. Recomputing it per client
// would make thresholds non-stationary within a single batch run.
type ThresholdSet struct {
	// BalanceMid is the 75th percentile of average monthly balances.
	BalanceMid float64
	// BalanceHigh is the 85th percentile of average monthly balances.
	BalanceHigh float64
	// BalanceMean is the population mean of average monthly balances.
	BalanceMean float64
	// ATMFrequency is the 75th percentile of per-client ATM withdrawal counts.
	ATMFrequency float64
}
