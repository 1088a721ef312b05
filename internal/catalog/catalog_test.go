package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstock/internal/apperr"
	"carstock/internal/model"
	"carstock/internal/repository"
)

func newTestFacade(t *testing.T) (*Facade, *repository.Memory, *testclock.Clock) {
	t.Helper()
	repo := repository.NewMemory()
	clk := testclock.NewClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	return New(repo, clk), repo, clk
}

func seed(t *testing.T, repo *repository.Memory, products ...model.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.Insert(context.Background(), p))
	}
}

func TestLoadKeysByNormalizedNumber(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo,
		model.Product{ProductNumber: "١٢٣", ProductName: "Brake pad", Quantity: 2},
		model.Product{ProductNumber: "PN-1", ProductName: "Oil filter", Quantity: 1},
		model.Product{ProductName: "orphan without number"},
	)

	cache := f.Load(context.Background())
	require.Len(t, cache, 2)
	assert.Equal(t, "Brake pad", cache["123"].ProductName)
	assert.Equal(t, "Oil filter", cache["PN-1"].ProductName)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	repo.SetError(errors.New("upstream down"))

	cache := f.Load(context.Background())
	assert.Empty(t, cache)
}

func TestGetNormalizesLookupKey(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", ProductName: "Brake pad", Quantity: 2})

	p, err := f.Get(context.Background(), "١٢٣")
	require.NoError(t, err)
	assert.Equal(t, "Brake pad", p.ProductName)

	_, err = f.Get(context.Background(), "999")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", Quantity: 1})

	err := f.Create(context.Background(), model.Product{ProductNumber: "١٢٣", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestApplyUpdateRefreshesDerivedFields(t *testing.T) {
	f, repo, clk := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", ProductName: "Brake pad", Quantity: 3, Status: model.StatusAvailable})

	clk.Advance(time.Hour)
	zero := 0
	p, err := f.ApplyUpdate(context.Background(), "123", Update{Quantity: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, model.StatusOutOfStock, p.Status)
	assert.Equal(t, "2026-09-01T13:00:00Z", p.LastUpdate)

	stored, err := f.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}

func TestApplyUpdateRename(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo,
		model.Product{ProductNumber: "123", Quantity: 1},
		model.Product{ProductNumber: "456", Quantity: 1},
	)

	taken := "456"
	_, err := f.ApplyUpdate(context.Background(), "123", Update{NewProductNumber: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Renaming to itself is a no-op, not a conflict.
	same := "١٢٣"
	p, err := f.ApplyUpdate(context.Background(), "123", Update{NewProductNumber: &same})
	require.NoError(t, err)
	assert.Equal(t, "123", p.ProductNumber)

	fresh := "789"
	p, err = f.ApplyUpdate(context.Background(), "123", Update{NewProductNumber: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "789", p.ProductNumber)

	_, err = f.Get(context.Background(), "123")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApplyActionSoldOneClampsAtZero(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", Quantity: 5, OriginalQuantity: 5, Status: model.StatusAvailable})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.ApplyAction(ctx, "123", ActionSoldOne)
		require.NoError(t, err)
	}
	p, err := f.Get(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, model.StatusOutOfStock, p.Status)

	// A sixth decrement stays clamped at zero.
	p, err = f.ApplyAction(ctx, "123", ActionSoldOne)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, 5, p.OriginalQuantity, "original quantity never decrements")
}

func TestApplyActionSoldAll(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", Quantity: 7, OriginalQuantity: 7, Status: model.StatusAvailable})

	p, err := f.ApplyAction(context.Background(), "123", ActionSoldAll)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, model.StatusOutOfStock, p.Status)
}

func TestApplyActionUnknown(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", Quantity: 1})

	_, err := f.ApplyAction(context.Background(), "123", "restock")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteReturnsPreImage(t *testing.T) {
	f, repo, _ := newTestFacade(t)
	seed(t, repo, model.Product{ProductNumber: "123", ProductName: "Brake pad", Quantity: 1, MessageID: 42})

	p, err := f.Delete(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.MessageID)

	_, err = f.Delete(context.Background(), "123")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
