package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados del ledger en memoria.
type AnalyticsRepo struct {
	s *Store
}

// NewAnalyticsRepository construye el repositorio sobre el store.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo {
	return &AnalyticsRepo{s: s}
}

func (r *AnalyticsRepo) GetMovementTotals(_ context.Context, from, to time.Time) (repository.MovementTotals, error) {
	var t repository.MovementTotals
	for _, m := range r.s.listMovements(repository.MovementFilter{From: &from, To: &to}) {
		t.Movements++
		if m.Type == entity.MovementTypeIN {
			t.UnitsIn += m.Quantity
		} else {
			t.UnitsOut += m.Quantity
		}
	}
	return t, nil
}
