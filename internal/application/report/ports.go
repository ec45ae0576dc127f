package report

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementReport datos que necesita el generador del reporte de movimientos.
type MovementReport struct {
	Title       string
	GeneratedAt time.Time
	Product     *entity.Product // nil = todos los productos
	Movements   []*entity.Movement
	UnitsIn     int64
	UnitsOut    int64
}

// MovementReportGenerator genera la representación PDF del ledger.
type MovementReportGenerator interface {
	GenerateMovementReport(ctx context.Context, report *MovementReport) ([]byte, error)
}
