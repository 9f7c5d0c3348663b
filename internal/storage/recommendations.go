package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abekenov/product-advisor/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// SaveRecommendation upserts the current recommendation for a client and
// appends an audit-history row.
func (s *SQLiteStorage) SaveRecommendation(ctx context.Context, rec *model.Recommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("recommendation is required")
	}
	if rec.Product == "" {
		return fmt.Errorf("recommendation product is required")
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recommendations (client_id, product, benefit, tier, notification, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			product = excluded.product,
			benefit = excluded.benefit,
			tier = excluded.tier,
			notification = excluded.notification,
			created_at = excluded.created_at`,
		rec.ClientID, string(rec.Product), rec.Benefit, rec.Tier, rec.Notification, createdAt,
	); err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recommendation_history (client_id, product, benefit, tier, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ClientID, string(rec.Product), rec.Benefit, rec.Tier, createdAt,
	); err != nil {
		return fmt.Errorf("failed to save recommendation history: %w", err)
	}

	return tx.Commit()
}

// GetRecommendation returns the current recommendation for a client.
func (s *SQLiteStorage) GetRecommendation(ctx context.Context, clientID int64) (*model.Recommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rec := &model.Recommendation{}
	var product string
	err := s.db.QueryRowContext(ctx, `
		SELECT client_id, product, benefit, tier, COALESCE(notification, ''), created_at
		FROM recommendations WHERE client_id = ?`, clientID,
	).Scan(&rec.ClientID, &product, &rec.Benefit, &rec.Tier, &rec.Notification, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recommendation for client %d: %w", clientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	rec.Product = model.Product(product)
	return rec, nil
}

// ListRecommendations returns all current recommendations ordered by client id.
func (s *SQLiteStorage) ListRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, product, benefit, tier, COALESCE(notification, ''), created_at
		FROM recommendations ORDER BY client_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		var product string
		if err := rows.Scan(&rec.ClientID, &product, &rec.Benefit, &rec.Tier, &rec.Notification, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.Product = model.Product(product)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SaveRunSummary records the outcome of one batch run.
func (s *SQLiteStorage) SaveRunSummary(ctx context.Context, run *model.RunSummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil || run.RunID == "" {
		return fmt.Errorf("run summary with run id is required")
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, finished_at, total, recommended, skipped)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.FinishedAt, run.Total, run.Recommended, run.Skipped,
	); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}
	return nil
}
