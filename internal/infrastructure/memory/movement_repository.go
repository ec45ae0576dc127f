package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only en memoria.
type MovementRepo struct {
	s *Store
}

// NewMovementRepository construye el repositorio sobre el store.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

// Create agrega el movimiento sin tocar el stock; el caso de uso del ledger lo hace dentro de TxRunner.
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[movement.ProductID]
	if !ok {
		return domain.ErrNotFound
	}
	if movement.ProductName == "" {
		movement.ProductName = p.Name
	}
	r.s.appendMovement(movement)
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	// IDs secuenciales desde 1 y sin borrados: el índice es id-1.
	if id < 1 || id > int64(len(r.s.movements)) {
		return nil, nil
	}
	return cloneMovement(r.s.movements[id-1]), nil
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	return page(r.s.listMovements(filter), filter.Limit, filter.Offset), nil
}

func (r *MovementRepo) Count(_ context.Context, filter repository.MovementFilter) (int, error) {
	return len(r.s.listMovements(filter)), nil
}
