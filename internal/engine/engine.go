// Package engine orchestrates the recommendation pipeline: population
// thresholds first, then per-client feature extraction, scoring, and the
// decision cascade, in parallel across clients.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/abekenov/product-advisor/internal/common"
	"github.com/abekenov/product-advisor/internal/features"
	"github.com/abekenov/product-advisor/internal/metrics"
	"github.com/abekenov/product-advisor/internal/model"
	"github.com/abekenov/product-advisor/internal/policy"
	"github.com/abekenov/product-advisor/internal/scoring"
	"github.com/abekenov/product-advisor/internal/service"
	"github.com/abekenov/product-advisor/internal/thresholds"
)

// Config holds configuration options for the recommendation engine.
type Config struct {
	Workers      int
	ShowProgress bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers: 4,
	}
}

// Engine runs the recommendation pipeline for a batch of clients.
type Engine struct {
	ledger   service.Ledger
	storage  service.Storage
	notifier service.Notifier
	registry *scoring.Registry
	policy   *policy.Policy
	emitter  service.Emitter
	config   Config

	prepareOnce sync.Once
	prepareErr  error
	profiles    map[int64]model.ClientProfile
	order       []int64
	transfers   map[int64][]model.Transfer
	cutoffs     model.ThresholdSet
}

// New creates a recommendation engine with the given dependencies. The
// emitter may be nil when no CSV export is wanted.
func New(ledger service.Ledger, storage service.Storage, notifier service.Notifier, registry *scoring.Registry, decisionPolicy *policy.Policy, emitter service.Emitter, config Config) *Engine {
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	return &Engine{
		ledger:   ledger,
		storage:  storage,
		notifier: notifier,
		registry: registry,
		policy:   decisionPolicy,
		emitter:  emitter,
		config:   config,
	}
}

// Prepare loads the profile table and computes the population thresholds.
// It runs at most once per engine; every scoring call afterwards reads the
// same immutable snapshot. A missing profile table is fatal.
func (e *Engine) Prepare(ctx context.Context) error {
	e.prepareOnce.Do(func() {
		e.prepareErr = e.prepare(ctx)
	})
	return e.prepareErr
}

func (e *Engine) prepare(ctx context.Context) error {
	profiles, err := e.ledger.LoadProfiles(ctx)
	if err != nil {
		return err
	}

	e.profiles = make(map[int64]model.ClientProfile, len(profiles))
	e.order = make([]int64, 0, len(profiles))
	e.transfers = make(map[int64][]model.Transfer, len(profiles))
	atmCounts := make(map[int64]int, len(profiles))

	// One pass over the transfer ledgers feeds both the ATM-frequency
	// percentile and the later per-client scoring.
	for _, p := range profiles {
		e.profiles[p.ClientID] = p
		e.order = append(e.order, p.ClientID)

		transfers, err := e.ledger.LoadTransfers(ctx, p.ClientID)
		if err != nil {
			slog.Warn("Failed to read transfers while computing thresholds, counting as zero",
				"client_id", p.ClientID, "error", err)
			continue
		}
		e.transfers[p.ClientID] = transfers
		for _, tr := range transfers {
			if tr.Type == model.TransferATMWithdrawal {
				atmCounts[p.ClientID]++
			}
		}
	}
	sort.Slice(e.order, func(i, j int) bool { return e.order[i] < e.order[j] })

	e.cutoffs = thresholds.Calculate(profiles, atmCounts)
	return nil
}

// Thresholds returns the population threshold set. Prepare must have run.
func (e *Engine) Thresholds() model.ThresholdSet {
	return e.cutoffs
}

// result carries one client's outcome from a worker to the collector.
type result struct {
	rec      *model.Recommendation
	err      error
	clientID int64
}

// Run scores every client in the profile table. Per-client failures are
// skipped and logged, never abort the batch. Results are persisted and
// emitted in client-id order, so re-running on an unchanged snapshot
// produces identical output.
func (e *Engine) Run(ctx context.Context) (service.BatchStats, error) {
	started := time.Now()
	stats := service.BatchStats{RunID: uuid.NewString()}

	if err := e.Prepare(ctx); err != nil {
		return stats, err
	}
	stats.Total = len(e.order)

	slog.Info("Starting recommendation run",
		"run_id", stats.RunID,
		"clients", stats.Total,
		"workers", e.config.Workers)

	var bar *progressbar.ProgressBar
	if e.config.ShowProgress {
		bar = progressbar.NewOptions(stats.Total,
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Scoring clients..."),
		)
	}

	jobs := make(chan int64)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < e.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for clientID := range jobs {
				rec, _, err := e.scoreClient(ctx, clientID)
				results <- result{clientID: clientID, rec: rec, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, clientID := range e.order {
			select {
			case <-ctx.Done():
				return
			case jobs <- clientID:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector: the only writer of the result set.
	recs := make([]model.Recommendation, 0, stats.Total)
	for res := range results {
		if bar != nil {
			_ = bar.Add(1)
		}
		if res.err != nil {
			stats.Skipped++
			metrics.ClientsSkippedTotal.Inc()
			common.LogError(res.err, "Skipping client", common.Fields{"client_id": res.clientID})
			continue
		}
		stats.Recommended++
		metrics.ClientsProcessedTotal.Inc()
		metrics.RecommendationsTotal.WithLabelValues(string(res.rec.Product), res.rec.Tier).Inc()
		recs = append(recs, *res.rec)
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].ClientID < recs[j].ClientID })

	for i := range recs {
		if err := e.storage.SaveRecommendation(ctx, &recs[i]); err != nil {
			slog.Error("Failed to save recommendation",
				"client_id", recs[i].ClientID, "error", err)
		}
	}

	if e.emitter != nil {
		if err := e.emitter.Emit(ctx, recs); err != nil {
			slog.Error("Failed to emit recommendations", "error", err)
		}
	}

	stats.Duration = time.Since(started)
	if err := e.storage.SaveRunSummary(ctx, &model.RunSummary{
		RunID:       stats.RunID,
		StartedAt:   started.UTC(),
		FinishedAt:  time.Now().UTC(),
		Total:       stats.Total,
		Recommended: stats.Recommended,
		Skipped:     stats.Skipped,
	}); err != nil {
		slog.Warn("Failed to save run summary", "error", err)
	}

	slog.Info("Recommendation run complete",
		"run_id", stats.RunID,
		"recommended", stats.Recommended,
		"skipped", stats.Skipped,
		"duration", stats.Duration)

	return stats, nil
}

// Recommend scores a single client against the batch thresholds. The result
// is persisted before it is returned. A client missing from the profile
// table yields a user-visible error, not a crash.
func (e *Engine) Recommend(ctx context.Context, clientID int64) (*model.Recommendation, error) {
	if err := e.Prepare(ctx); err != nil {
		return nil, err
	}

	rec, _, err := e.scoreClient(ctx, clientID)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not process client %d", clientID), err)
	}

	if err := e.storage.SaveRecommendation(ctx, rec); err != nil {
		slog.Error("Failed to save recommendation", "client_id", clientID, "error", err)
	}
	metrics.RecommendationsTotal.WithLabelValues(string(rec.Product), rec.Tier).Inc()

	return rec, nil
}

func (e *Engine) scoreClient(ctx context.Context, clientID int64) (*model.Recommendation, *model.FeatureRecord, error) {
	timer := time.Now()
	defer func() { metrics.ScoringDurationSeconds.Observe(time.Since(timer).Seconds()) }()

	profile, ok := e.profiles[clientID]
	if !ok {
		return nil, nil, fmt.Errorf("client %d: %w", clientID, common.ErrUnknownClient)
	}

	transactions, err := e.ledger.LoadTransactions(ctx, clientID)
	if err != nil {
		return nil, nil, fmt.Errorf("client %d: %w", clientID, err)
	}

	transfers, cached := e.transfers[clientID]
	if !cached {
		if transfers, err = e.ledger.LoadTransfers(ctx, clientID); err != nil {
			return nil, nil, fmt.Errorf("client %d: %w", clientID, err)
		}
	}

	record := features.Extract(profile, transactions, transfers)
	scores := e.registry.ScoreAll(record, &e.cutoffs)

	rec := e.policy.Decide(record, scores)
	if rec == nil {
		return nil, nil, fmt.Errorf("client %d: decision cascade produced no recommendation", clientID)
	}
	rec.CreatedAt = time.Now().UTC()

	if e.notifier != nil {
		text, notifyErr := e.notifier.PushText(ctx, rec, record)
		if notifyErr != nil {
			slog.Warn("Failed to generate push text", "client_id", clientID, "error", notifyErr)
		} else {
			rec.Notification = text
		}
	}

	return rec, record, nil
}
