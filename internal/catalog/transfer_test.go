package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstock/internal/model"
)

func TestSnapshot(t *testing.T) {
	f, _, _ := newTestFacade(t)
	cache := map[string]model.Product{
		"1": {ProductNumber: "1", Type: "brakes", PriceIQD: 1000, WholesalePriceIQD: 800},
		"2": {ProductNumber: "2", Type: "brakes", PriceIQD: 500, WholesalePriceIQD: 400},
		"3": {ProductNumber: "3", PriceIQD: 200, WholesalePriceIQD: 100},
	}

	snap := f.Snapshot("manual", "Tester", cache)
	assert.Equal(t, "manual", snap.Info.BackupType)
	assert.Equal(t, "Tester", snap.Info.CreatedBy)
	assert.Equal(t, 3, snap.Info.TotalProducts)
	assert.Equal(t, "2026-09-01T12:00:00Z", snap.Info.BackupDate)
	assert.Equal(t, 1700.0, snap.Statistics.TotalValue)
	assert.Equal(t, 1300.0, snap.Statistics.TotalWholesaleValue)
	assert.Equal(t, map[string]int{"brakes": 2, "unspecified": 1}, snap.Statistics.ProductsByType)
	assert.Equal(t, cache, snap.Products)
}

func TestImportInsertsUnknownNumbers(t *testing.T) {
	f, _, _ := newTestFacade(t)

	stats := f.Import(context.Background(), map[string]model.Product{
		"١٢٣": {ProductName: "Brake pad", Quantity: 3},
	})
	assert.Equal(t, 1, stats.TotalImported)
	assert.Equal(t, 1, stats.NewProducts)
	assert.Empty(t, stats.Errors)

	p, err := f.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", p.ProductNumber, "keys are normalized before insert")
	assert.Equal(t, model.StatusAvailable, p.Status)
	assert.Equal(t, 3, p.OriginalQuantity, "original quantity defaults to the imported quantity")
	assert.NotEmpty(t, p.LastUpdate)
}

func TestImportNewerOverwrites(t *testing.T) {
	f, repo, clk := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", ProductName: "old name", Quantity: 1, LastUpdate: "2026-01-01T00:00:00Z"})
	clk.Advance(time.Hour)

	stats := f.Import(context.Background(), map[string]model.Product{
		"123": {ProductName: "new name", Quantity: 9, LastUpdate: "2026-02-01T00:00:00Z"},
	})
	assert.Equal(t, 1, stats.UpdatedProducts)
	assert.Equal(t, 0, stats.SkippedDuplicates)

	p, err := f.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "new name", p.ProductName)
	assert.Equal(t, 9, p.Quantity)
}

func TestImportSkipsEqualOrOlder(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", ProductName: "current", Quantity: 5, LastUpdate: "2026-02-01T00:00:00Z"})

	stats := f.Import(context.Background(), map[string]model.Product{
		"123": {ProductName: "stale", Quantity: 1, LastUpdate: "2026-01-01T00:00:00Z"},
	})
	assert.Equal(t, 1, stats.SkippedDuplicates)
	assert.Equal(t, 0, stats.UpdatedProducts)

	stats = f.Import(context.Background(), map[string]model.Product{
		"123": {ProductName: "same age", Quantity: 1, LastUpdate: "2026-02-01T00:00:00Z"},
	})
	assert.Equal(t, 1, stats.SkippedDuplicates, "equal timestamps do not overwrite")

	p, err := f.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "current", p.ProductName)
	assert.Equal(t, 5, p.Quantity)
}

func TestImportCollectsPerRecordErrors(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", Quantity: 1, LastUpdate: "2026-01-01T00:00:00Z"})
	repo.SetError(errors.New("db down"))

	stats := f.Import(context.Background(), map[string]model.Product{
		"999": {ProductName: "cannot insert", Quantity: 1},
	})
	assert.Equal(t, 1, stats.TotalImported)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "999", stats.Errors[0].ProductNumber)
}
