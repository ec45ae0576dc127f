package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func newDashboard(t *testing.T) (*DashboardUseCase, *memory.ProductRepo, *memory.MovementRepo) {
	t.Helper()
	store := memory.New()
	products := memory.NewProductRepository(store)
	movements := memory.NewMovementRepository(store)
	uc := NewDashboardUseCase(products, movements, memory.NewAnalyticsRepository(store))
	return uc, products, movements
}

func TestGetSummary(t *testing.T) {
	uc, products, movements := newDashboard(t)
	ctx := context.Background()

	seed := []struct {
		sku           string
		stock, minStk int64
	}{
		{"P-1", 10, 2},
		{"P-2", 1, 5},
		{"P-3", 0, 0},
	}
	var ids []int64
	for _, s := range seed {
		p := &entity.Product{SKU: s.sku, Name: s.sku, Price: decimal.NewFromInt(10), Stock: s.stock, InitialStock: s.stock, MinStock: s.minStk}
		require.NoError(t, products.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	require.NoError(t, movements.Create(ctx, &entity.Movement{ProductID: ids[0], Type: entity.MovementTypeIN, Quantity: 4}))
	require.NoError(t, movements.Create(ctx, &entity.Movement{ProductID: ids[0], Type: entity.MovementTypeOUT, Quantity: 3}))
	require.NoError(t, movements.Create(ctx, &entity.Movement{ProductID: ids[1], Type: entity.MovementTypeOUT, Quantity: 1}))

	summary, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 2, summary.LowStock, "P-2 (1<=5) y P-3 (0<=0)")
	assert.Equal(t, 3, summary.TotalMovements)
	assert.Equal(t, int64(4), summary.Month.UnitsIn)
	assert.Equal(t, int64(4), summary.Month.UnitsOut)
	assert.Equal(t, 3, summary.Month.Movements)
	assert.NotEmpty(t, summary.DateLabel)
}

func TestGetSummary_MesSinMovimientos(t *testing.T) {
	uc, _, _ := newDashboard(t)
	uc.now = func() time.Time { return time.Date(2020, time.March, 15, 12, 0, 0, 0, time.UTC) }

	summary, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalProducts)
	assert.Zero(t, summary.Today.Movements)
	assert.Equal(t, "Marzo 2020", summary.DateLabel)
}

func TestLowStock(t *testing.T) {
	uc, products, _ := newDashboard(t)
	ctx := context.Background()
	require.NoError(t, products.Create(ctx, &entity.Product{SKU: "OK", Name: "Con stock", Stock: 50, MinStock: 5}))
	require.NoError(t, products.Create(ctx, &entity.Product{SKU: "LOW", Name: "Agotándose", Stock: 5, MinStock: 5}))

	items, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "LOW", items[0].SKU)
	assert.True(t, items[0].IsLow)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Enero 2026", monthLabel(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
