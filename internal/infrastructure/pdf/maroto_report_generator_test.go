package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestGenerateMovementReport(t *testing.T) {
	g := NewMarotoReportGenerator("inventario-ledger")
	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	rep := &report.MovementReport{
		Title:       "Movimientos de Tornillo",
		GeneratedAt: now,
		Product:     &entity.Product{ID: 1, SKU: "TOR-01", Name: "Tornillo", Stock: 2, MinStock: 5, InitialStock: 10},
		Movements: []*entity.Movement{
			{ID: 1, ProductID: 1, ProductName: "Tornillo", Type: entity.MovementTypeOUT, Quantity: 3, StockAfter: 7, CreatedAt: now},
			{ID: 2, ProductID: 1, ProductName: "Tornillo", Type: entity.MovementTypeOUT, Quantity: 5, StockAfter: 2, CreatedAt: now, Note: "venta"},
		},
		UnitsOut: 8,
	}

	out, err := g.GenerateMovementReport(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateMovementReport_Empty(t *testing.T) {
	g := NewMarotoReportGenerator("inventario-ledger")

	out, err := g.GenerateMovementReport(context.Background(), &report.MovementReport{
		Title:       "Reporte de movimientos",
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPrinterFormatsThousands(t *testing.T) {
	g := NewMarotoReportGenerator("x")
	assert.Equal(t, "1.234.567", g.printer.Sprintf("%d", 1234567))
}
