package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abekenov/product-advisor/internal/model"
)

// CSVEmitter writes finished recommendations to a CSV file, one row per
// client, replacing any previous export. Rows arrive already sorted by
// client id, so an unchanged input snapshot reproduces the file byte for
// byte.
type CSVEmitter struct {
	path string
}

// NewCSVEmitter creates an emitter writing to path.
func NewCSVEmitter(path string) *CSVEmitter {
	return &CSVEmitter{path: path}
}

// Emit writes all recommendations to the configured file.
func (e *CSVEmitter) Emit(ctx context.Context, recs []model.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close output file", "path", e.path, "error", closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"client_code", "product", "benefit", "push_notification"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range recs {
		row := []string{
			strconv.FormatInt(rec.ClientID, 10),
			rec.Product.DisplayName(),
			strconv.FormatFloat(rec.Benefit, 'f', 2, 64),
			rec.Notification,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for client %d: %w", rec.ClientID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	slog.Info("Wrote recommendations export", "path", e.path, "rows", len(recs))
	return nil
}
