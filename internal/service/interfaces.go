// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/abekenov/product-advisor/internal/model"
)

// Ledger is the data source for client profiles and per-client ledgers.
// Missing per-client files yield empty slices, not errors; only a missing or
// unreadable profile table is an error.
type Ledger interface {
	LoadProfiles(ctx context.Context) ([]model.ClientProfile, error)
	LoadTransactions(ctx context.Context, clientID int64) ([]model.Transaction, error)
	LoadTransfers(ctx context.Context, clientID int64) ([]model.Transfer, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	SaveRecommendation(ctx context.Context, rec *model.Recommendation) error
	GetRecommendation(ctx context.Context, clientID int64) (*model.Recommendation, error)
	ListRecommendations(ctx context.Context) ([]model.Recommendation, error)
	SaveRunSummary(ctx context.Context, run *model.RunSummary) error
	Migrate(ctx context.Context) error
	Close() error
}

// Notifier turns a chosen recommendation into a client-facing push message.
// Implementations are black boxes to the decision engine.
type Notifier interface {
	PushText(ctx context.Context, rec *model.Recommendation, features *model.FeatureRecord) (string, error)
}

// Emitter receives finished recommendations, in client-id order, at the end
// of a batch run.
type Emitter interface {
	Emit(ctx context.Context, recs []model.Recommendation) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// BatchStats shows the results of a recommendation run.
type BatchStats struct {
	RunID       string
	Total       int
	Recommended int
	Skipped     int
	Duration    time.Duration
}
