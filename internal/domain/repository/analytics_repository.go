package repository

import (
	"context"
	"time"
)

// MovementTotals unidades acumuladas por tipo en un rango de fechas.
type MovementTotals struct {
	UnitsIn   int64
	UnitsOut  int64
	Movements int
}

// AnalyticsRepository consultas read-only para el dashboard.
type AnalyticsRepository interface {
	// GetMovementTotals suma unidades IN/OUT con created_at en [from, to].
	GetMovementTotals(ctx context.Context, from, to time.Time) (MovementTotals, error)
}
