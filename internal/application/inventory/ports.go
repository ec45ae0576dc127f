package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: si fn devuelve error no queda ningún efecto visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// EventPublisher publica eventos del ledger después del commit.
type EventPublisher interface {
	MovementRecorded(ctx context.Context, movement *entity.Movement) error
	StockLow(ctx context.Context, product *entity.Product) error
}

// Recorder recibe métricas del ledger.
type Recorder interface {
	MovementRecorded(movementType string, quantity int64)
	MovementRejected(reason string)
}

type nopPublisher struct{}

func (nopPublisher) MovementRecorded(context.Context, *entity.Movement) error { return nil }
func (nopPublisher) StockLow(context.Context, *entity.Product) error           { return nil }

type nopRecorder struct{}

func (nopRecorder) MovementRecorded(string, int64) {}
func (nopRecorder) MovementRejected(string)        {}
