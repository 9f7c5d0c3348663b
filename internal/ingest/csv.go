// Package ingest reads the profile table and per-client ledger files from a
// directory of CSV exports. One batch reads the profile table once; ledger
// files are read per client on demand. A missing ledger file means "no data
// for that client", never an error; a malformed row is dropped from that
// client's window with a debug log, never propagated.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abekenov/product-advisor/internal/common"
	"github.com/abekenov/product-advisor/internal/model"
)

// Ledger file naming, as produced by the bank's export job.
const (
	profilesFileName     = "clients.csv"
	transactionsTemplate = "client_%d_transactions_3m.csv"
	transfersTemplate    = "client_%d_transfers_3m.csv"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CSVLedger implements service.Ledger over a directory of CSV files.
type CSVLedger struct {
	dataDir string
}

// NewCSVLedger creates a ledger reader rooted at dataDir.
func NewCSVLedger(dataDir string) *CSVLedger {
	return &CSVLedger{dataDir: dataDir}
}

// LoadProfiles reads the population profile table. Its absence is fatal for
// the whole batch.
func (l *CSVLedger) LoadProfiles(ctx context.Context) ([]model.ClientProfile, error) {
	path := filepath.Join(l.dataDir, profilesFileName)
	rows, err := readCSV(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrMissingPopulationData, path, err)
	}

	profiles := make([]model.ClientProfile, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row.get("client_code"), 10, 64)
		if err != nil {
			slog.Debug("Dropping profile row with bad client code",
				"path", path, "client_code", row.get("client_code"))
			continue
		}
		balance, err := strconv.ParseFloat(row.get("avg_monthly_balance_KZT"), 64)
		if err != nil {
			slog.Debug("Dropping profile row with bad balance",
				"path", path, "client_id", id, "balance", row.get("avg_monthly_balance_KZT"))
			continue
		}
		profiles = append(profiles, model.ClientProfile{
			ClientID:          id,
			Name:              row.get("name"),
			Status:            model.ParseClientStatus(row.get("status")),
			AvgMonthlyBalance: balance,
		})
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable rows", common.ErrMissingPopulationData, path)
	}
	return profiles, nil
}

// LoadTransactions reads one client's 3-month transaction ledger. A missing
// file yields an empty slice.
func (l *CSVLedger) LoadTransactions(ctx context.Context, clientID int64) ([]model.Transaction, error) {
	path := filepath.Join(l.dataDir, fmt.Sprintf(transactionsTemplate, clientID))
	rows, err := readCSV(ctx, path)
	if os.IsNotExist(err) {
		slog.Debug("No transaction ledger for client", "client_id", clientID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading transactions for client %d: %w", clientID, err)
	}

	transactions := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		date, ok := parseDate(row.get("date"))
		if !ok {
			slog.Debug("Dropping transaction row with bad date",
				"client_id", clientID, "date", row.get("date"))
			continue
		}
		amount, err := strconv.ParseFloat(row.get("amount"), 64)
		if err != nil || amount < 0 {
			slog.Debug("Dropping transaction row with bad amount",
				"client_id", clientID, "amount", row.get("amount"))
			continue
		}
		transactions = append(transactions, model.Transaction{
			Date:     date,
			Category: row.get("category"),
			Currency: row.get("currency"),
			Amount:   amount,
		})
	}
	return transactions, nil
}

// LoadTransfers reads one client's 3-month transfer ledger. A missing file
// yields an empty slice.
func (l *CSVLedger) LoadTransfers(ctx context.Context, clientID int64) ([]model.Transfer, error) {
	path := filepath.Join(l.dataDir, fmt.Sprintf(transfersTemplate, clientID))
	rows, err := readCSV(ctx, path)
	if os.IsNotExist(err) {
		slog.Debug("No transfer ledger for client", "client_id", clientID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading transfers for client %d: %w", clientID, err)
	}

	transfers := make([]model.Transfer, 0, len(rows))
	for _, row := range rows {
		date, ok := parseDate(row.get("date"))
		if !ok {
			slog.Debug("Dropping transfer row with bad date",
				"client_id", clientID, "date", row.get("date"))
			continue
		}
		amount, err := strconv.ParseFloat(row.get("amount"), 64)
		if err != nil || amount < 0 {
			slog.Debug("Dropping transfer row with bad amount",
				"client_id", clientID, "amount", row.get("amount"))
			continue
		}
		transfers = append(transfers, model.Transfer{
			Date:      date,
			Type:      row.get("type"),
			Direction: model.TransferDirection(strings.ToLower(row.get("direction"))),
			Currency:  row.get("currency"),
			Amount:    amount,
		})
	}
	return transfers, nil
}

// row is one CSV record with header-based field access.
type row struct {
	header map[string]int
	fields []string
}

func (r row) get(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func readCSV(ctx context.Context, path string) ([]row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close CSV file", "path", path, "error", closeErr)
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; row.get handles short ones

	headerFields, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	header := make(map[string]int, len(headerFields))
	for i, name := range headerFields {
		// Exports sometimes carry a UTF-8 BOM on the first column.
		header[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}

	var rows []row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Debug("Dropping unparseable CSV record", "path", path, "error", err)
			continue
		}
		rows = append(rows, row{header: header, fields: fields})
	}
	return rows, nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
