package checkout

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/journal"
	"github.com/atlas-pos/atlas-pos/internal/ledger"
)

type fixture struct {
	dir     string
	catalog *catalog.Store
	ledger  *ledger.Store
	journal *journal.Store
	service *Service
}

func newFixture(t *testing.T, products, stock string) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(products), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stock.json"), []byte(stock), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.json"), []byte(`[]`), 0o644))

	cat, err := catalog.Open(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	led, err := ledger.Open(filepath.Join(dir, "stock.json"))
	require.NoError(t, err)
	jrn, err := journal.Open(filepath.Join(dir, "sales.json"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewService(logger, cat, led, jrn, nil, ServiceConfig{})
	return &fixture{dir: dir, catalog: cat, ledger: led, journal: jrn, service: svc}
}

const (
	singleProductCatalog = `[{"id":"p1","name":"Widget","price":10.00}]`
	singleProductStock   = `[{"id":"p1","stock":5,"costPrice":6.00}]`
)

func TestProcessSuccess(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	record, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p1", Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, 12.00, record.Profit)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, []journal.CartLine{{ID: "p1", Quantity: 3}}, record.Items)

	ts, err := time.Parse(time.RFC3339, record.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)

	entry, _ := f.ledger.Lookup("p1")
	assert.Equal(t, 2, entry.Stock)
	assert.Equal(t, 1, f.journal.Len())

	// The deduction reached disk as well.
	reloaded, err := ledger.Open(filepath.Join(f.dir, "stock.json"))
	require.NoError(t, err)
	entry, _ = reloaded.Lookup("p1")
	assert.Equal(t, 2, entry.Stock)
}

func TestProcessRejectsOverdraw(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	_, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p1", Quantity: 10}})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	require.Equal(t, []ShortfallItem{{ID: "p1", Available: 5}}, oos.Items)

	entry, _ := f.ledger.Lookup("p1")
	assert.Equal(t, 5, entry.Stock)
	assert.Equal(t, 0, f.journal.Len())
}

func TestProcessAllOrNothingAcrossLines(t *testing.T) {
	f := newFixture(t,
		`[{"id":"p1","price":10.00},{"id":"p2","price":3.00}]`,
		`[{"id":"p1","stock":5,"costPrice":6.00},{"id":"p2","stock":1,"costPrice":1.00}]`,
	)

	// First line is fulfillable, second is short. Nothing may be deducted.
	_, err := f.service.Process(context.Background(), []journal.CartLine{
		{ID: "p1", Quantity: 2},
		{ID: "p2", Quantity: 4},
	})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	require.Equal(t, []ShortfallItem{{ID: "p2", Available: 1}}, oos.Items)

	before := []ledger.StockEntry{{ID: "p1", Stock: 5, CostPrice: 6.00}, {ID: "p2", Stock: 1, CostPrice: 1.00}}
	assert.Equal(t, before, f.ledger.List())
	assert.Equal(t, 0, f.journal.Len())
}

func TestProcessRepeatedLinesShareStock(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	// 3 + 3 exceeds stock 5 even though each line alone fits.
	_, err := f.service.Process(context.Background(), []journal.CartLine{
		{ID: "p1", Quantity: 3},
		{ID: "p1", Quantity: 3},
	})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	require.Equal(t, []ShortfallItem{{ID: "p1", Available: 2}}, oos.Items)

	entry, _ := f.ledger.Lookup("p1")
	assert.Equal(t, 5, entry.Stock)
}

func TestProcessProfitRoundsOnceAtTotal(t *testing.T) {
	f := newFixture(t,
		`[{"id":"p1","price":1.006},{"id":"p2","price":2.006}]`,
		`[{"id":"p1","stock":10,"costPrice":1.00},{"id":"p2","stock":10,"costPrice":2.00}]`,
	)

	record, err := f.service.Process(context.Background(), []journal.CartLine{
		{ID: "p1", Quantity: 1},
		{ID: "p2", Quantity: 1},
	})
	require.NoError(t, err)

	// 0.006 + 0.006 rounds to 0.01; rounding per line first would give 0.02.
	assert.Equal(t, 0.01, record.Profit)
}

func TestProcessUnknownProduct(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	_, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "ghost", Quantity: 1}})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ID)
	assert.Equal(t, 0, f.journal.Len())
}

func TestProcessCatalogOnlyProductIsOutOfStock(t *testing.T) {
	f := newFixture(t,
		`[{"id":"p1","price":10.00},{"id":"p9","price":2.00}]`,
		singleProductStock,
	)

	_, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p9", Quantity: 1}})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	require.Equal(t, []ShortfallItem{{ID: "p9", Available: 0}}, oos.Items)
}

func TestProcessInvalidCart(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	cases := [][]journal.CartLine{
		nil,
		{},
		{{ID: "", Quantity: 1}},
		{{ID: "p1", Quantity: 0}},
		{{ID: "p1", Quantity: -2}},
	}
	for _, cart := range cases {
		_, err := f.service.Process(context.Background(), cart)
		require.ErrorIs(t, err, ErrInvalidCart)
	}
	assert.Equal(t, 0, f.journal.Len())
}

func TestProcessPersistenceFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	// Removing the data directory makes staging fail before any rename.
	require.NoError(t, os.RemoveAll(f.dir))

	_, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p1", Quantity: 1}})
	require.ErrorIs(t, err, ErrPersistence)

	entry, _ := f.ledger.Lookup("p1")
	assert.Equal(t, 5, entry.Stock)
	assert.Equal(t, 0, f.journal.Len())

	// A retry after the fault clears succeeds against unchanged stock.
	require.NoError(t, os.MkdirAll(f.dir, 0o755))
	record, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p1", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 4.00, record.Profit)
}

func TestProcessConcurrentCartsNeverOversell(t *testing.T) {
	f := newFixture(t, singleProductCatalog, singleProductStock)

	// Two carts of 3 against stock 5: exactly one may win.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p1", Quantity: 3}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var oos *OutOfStockError
		require.ErrorAs(t, err, &oos)
		rejections++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)

	entry, _ := f.ledger.Lookup("p1")
	assert.Equal(t, 2, entry.Stock)
	assert.GreaterOrEqual(t, entry.Stock, 0)
}

func TestProcessManyConcurrentSingles(t *testing.T) {
	f := newFixture(t, singleProductCatalog, `[{"id":"p1","stock":10,"costPrice":6.00}]`)

	const workers = 25
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Process(context.Background(), []journal.CartLine{{ID: "p1", Quantity: 1}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 10, successes)

	entry, _ := f.ledger.Lookup("p1")
	assert.Equal(t, 0, entry.Stock)
	assert.Equal(t, 10, f.journal.Len())
}
