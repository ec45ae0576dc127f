package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el ledger.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetMovementTotals suma unidades IN/OUT y cuenta movimientos con created_at en [from, to].
func (r *AnalyticsRepo) GetMovementTotals(ctx context.Context, from, to time.Time) (repository.MovementTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantity) FILTER (WHERE type = 'IN'),  0) AS units_in,
	    COALESCE(SUM(quantity) FILTER (WHERE type = 'OUT'), 0) AS units_out,
	    COUNT(*)                                               AS movements
	FROM movements
	WHERE created_at BETWEEN $1 AND $2`

	var t repository.MovementTotals
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&t.UnitsIn, &t.UnitsOut, &t.Movements); err != nil {
		return repository.MovementTotals{}, wrap("movement totals", err)
	}
	return t, nil
}
