package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenov/product-advisor/internal/model"
	"github.com/abekenov/product-advisor/internal/notify"
	"github.com/abekenov/product-advisor/internal/policy"
	"github.com/abekenov/product-advisor/internal/scoring"
	"github.com/abekenov/product-advisor/internal/service"
	"github.com/abekenov/product-advisor/internal/testutil"
)

type fakeLedger struct {
	profiles     []model.ClientProfile
	transactions map[int64][]model.Transaction
	transfers    map[int64][]model.Transfer
	txnErr       map[int64]error
}

func (l *fakeLedger) LoadProfiles(_ context.Context) ([]model.ClientProfile, error) {
	return l.profiles, nil
}

func (l *fakeLedger) LoadTransactions(_ context.Context, clientID int64) ([]model.Transaction, error) {
	if err := l.txnErr[clientID]; err != nil {
		return nil, err
	}
	return l.transactions[clientID], nil
}

func (l *fakeLedger) LoadTransfers(_ context.Context, clientID int64) ([]model.Transfer, error) {
	return l.transfers[clientID], nil
}

func day(d string) time.Time {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return t
}

// newFakeLedger builds a small population with one client per decision tier:
// client 1 is quiet and falls through to a card, client 2 converts currency
// heavily, client 3 holds a large calm balance.
func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		profiles: []model.ClientProfile{
			{ClientID: 3, Name: "Дана", Status: model.StatusRegular, AvgMonthlyBalance: 6_000_000},
			{ClientID: 1, Name: "Айгерим", Status: model.StatusStudent, AvgMonthlyBalance: 100_000},
			{ClientID: 2, Name: "Бауыржан", Status: model.StatusRegular, AvgMonthlyBalance: 1_000_000},
		},
		transactions: map[int64][]model.Transaction{
			3: {
				{Date: day("2025-06-05"), Category: "Продукты питания", Currency: "KZT", Amount: 10_000},
				{Date: day("2025-07-05"), Category: "Продукты питания", Currency: "KZT", Amount: 10_000},
				{Date: day("2025-08-05"), Category: "Продукты питания", Currency: "KZT", Amount: 10_000},
			},
		},
		transfers: map[int64][]model.Transfer{
			2: {
				{Date: day("2025-06-10"), Type: model.TransferSalaryIn, Direction: model.DirectionIn, Amount: 500_000},
				{Date: day("2025-07-15"), Type: model.TransferFXBuy, Direction: model.DirectionOut, Amount: 500_000},
			},
		},
		txnErr: map[int64]error{},
	}
}

func newTestEngine(t *testing.T, ledger *fakeLedger, emitPath string) (*Engine, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	names := make(map[int64]string, len(ledger.profiles))
	for _, p := range ledger.profiles {
		names[p.ClientID] = p.Name
	}
	client, err := notify.NewClient(notify.Config{Provider: "template"})
	require.NoError(t, err)

	var emitter service.Emitter
	if emitPath != "" {
		emitter = NewCSVEmitter(emitPath)
	}

	eng := New(
		ledger,
		db.Storage,
		notify.NewPusher(client, names),
		scoring.NewRegistry(scoring.DefaultRates()),
		policy.New(),
		emitter,
		Config{Workers: 2},
	)
	return eng, db
}

func TestRunScoresWholePopulation(t *testing.T) {
	ledger := newFakeLedger()
	out := filepath.Join(t.TempDir(), "recommendations.csv")
	eng, db := newTestEngine(t, ledger, out)
	ctx := context.Background()

	stats, err := eng.Run(ctx)

	require.NoError(t, err)
	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Recommended)
	assert.Zero(t, stats.Skipped)

	// Quiet client falls through to the card tier.
	rec, err := db.Storage.GetRecommendation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ProductTravelCard, rec.Product)
	assert.Equal(t, policy.TierCard, rec.Tier)

	// Half the transfer volume is FX conversion, well past the ratio gate.
	rec, err = db.Storage.GetRecommendation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.ProductFXExchange, rec.Product)
	assert.Equal(t, policy.TierRatio, rec.Tier)
	assert.InDelta(t, 500_000*0.005, rec.Benefit, 1e-9)

	// Large calm balance qualifies for the savings deposit.
	rec, err = db.Storage.GetRecommendation(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, model.ProductSavingsDeposit, rec.Product)
	assert.Equal(t, policy.TierDeposit, rec.Tier)
	assert.InDelta(t, 6_000_000*0.165/4, rec.Benefit, 1e-9)
	assert.Contains(t, rec.Notification, "Дана")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := string(data)
	assert.Contains(t, lines, "client_code,product,benefit,push_notification")
	assert.Contains(t, lines, "Обмен валют")
}

func TestRunIsDeterministic(t *testing.T) {
	ctx := context.Background()

	emit := func() []byte {
		out := filepath.Join(t.TempDir(), "recommendations.csv")
		eng, _ := newTestEngine(t, newFakeLedger(), out)
		_, err := eng.Run(ctx)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, emit(), emit())
}

func TestRunSkipsFailingClients(t *testing.T) {
	ledger := newFakeLedger()
	ledger.txnErr[2] = errors.New("ledger export truncated")
	eng, db := newTestEngine(t, ledger, "")
	ctx := context.Background()

	stats, err := eng.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Recommended)
	assert.Equal(t, 1, stats.Skipped)

	_, err = db.Storage.GetRecommendation(ctx, 2)
	assert.Error(t, err)

	// The other clients still got their recommendations.
	_, err = db.Storage.GetRecommendation(ctx, 1)
	assert.NoError(t, err)
	_, err = db.Storage.GetRecommendation(ctx, 3)
	assert.NoError(t, err)
}

func TestRecommendSingleClient(t *testing.T) {
	eng, db := newTestEngine(t, newFakeLedger(), "")
	ctx := context.Background()

	rec, err := eng.Recommend(ctx, 2)

	require.NoError(t, err)
	assert.Equal(t, model.ProductFXExchange, rec.Product)
	assert.NotEmpty(t, rec.Notification)

	// Recommend persists before returning.
	stored, err := db.Storage.GetRecommendation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, rec.Product, stored.Product)
}

func TestRecommendUnknownClient(t *testing.T) {
	eng, _ := newTestEngine(t, newFakeLedger(), "")

	_, err := eng.Recommend(context.Background(), 999)

	assert.Error(t, err)
}

func TestPrepareComputesThresholds(t *testing.T) {
	eng, _ := newTestEngine(t, newFakeLedger(), "")

	require.NoError(t, eng.Prepare(context.Background()))

	set := eng.Thresholds()
	// Balances {100k, 1M, 6M}: p75 interpolates between the upper pair.
	assert.InDelta(t, 3_500_000, set.BalanceMid, 1e-9)
	assert.InDelta(t, 4_500_000, set.BalanceHigh, 1e-9)
	assert.InDelta(t, (100_000.0+1_000_000+6_000_000)/3, set.BalanceMean, 1e-9)
}

func TestCSVEmitterWritesSortedRows(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export", "recommendations.csv")
	emitter := NewCSVEmitter(out)

	recs := []model.Recommendation{
		{ClientID: 1, Product: model.ProductTravelCard, Benefit: 1234.5, Notification: "hello"},
		{ClientID: 2, Product: model.ProductGoldBars, Benefit: 0},
	}
	require.NoError(t, emitter.Emit(context.Background(), recs))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"client_code,product,benefit,push_notification\n"+
			"1,Карта для путешествий,1234.50,hello\n"+
			"2,Золотые слитки,0.00,\n",
		string(data))
}

func TestCSVEmitterRespectsCancelledContext(t *testing.T) {
	emitter := NewCSVEmitter(filepath.Join(t.TempDir(), "recommendations.csv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, emitter.Emit(ctx, nil))
}
