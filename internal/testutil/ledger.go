package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// LedgerDir builds a CSV ledger directory for tests.
type LedgerDir struct {
	Dir string
	t   *testing.T
}

// NewLedgerDir creates an empty ledger directory under the test's temp dir.
func NewLedgerDir(t *testing.T) *LedgerDir {
	t.Helper()
	return &LedgerDir{Dir: t.TempDir(), t: t}
}

// WriteProfiles writes the clients.csv profile table. Rows are raw CSV lines
// without the header.
func (l *LedgerDir) WriteProfiles(rows ...string) *LedgerDir {
	l.write("clients.csv", "client_code,name,status,avg_monthly_balance_KZT", rows)
	return l
}

// WriteTransactions writes one client's transaction ledger.
func (l *LedgerDir) WriteTransactions(clientID int64, rows ...string) *LedgerDir {
	name := fmt.Sprintf("client_%d_transactions_3m.csv", clientID)
	l.write(name, "date,category,amount,currency,client_code", rows)
	return l
}

// WriteTransfers writes one client's transfer ledger.
func (l *LedgerDir) WriteTransfers(clientID int64, rows ...string) *LedgerDir {
	name := fmt.Sprintf("client_%d_transfers_3m.csv", clientID)
	l.write(name, "date,type,direction,amount,currency,client_code", rows)
	return l
}

func (l *LedgerDir) write(name, header string, rows []string) {
	l.t.Helper()
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(l.Dir, name), []byte(content), 0600); err != nil {
		l.t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}
