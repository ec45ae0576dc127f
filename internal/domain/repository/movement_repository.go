package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios de consulta del ledger. Los nil no filtran.
type MovementFilter struct {
	ProductID *int64
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int // 0 = sin límite
	Offset    int
}

// MovementRepository define el puerto del ledger append-only: no hay Update ni Delete.
type MovementRepository interface {
	// Create asigna ID y CreatedAt si vienen vacíos.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	// List devuelve los movimientos en orden de creación ascendente (created_at, id).
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int, error)
}
