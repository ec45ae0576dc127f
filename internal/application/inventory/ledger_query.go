package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// maxMovementPage tope de una página pedida explícitamente con limit.
const maxMovementPage = 500

// LedgerQueryUseCase consultas read-only sobre el ledger de movimientos.
type LedgerQueryUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
}

// NewLedgerQueryUseCase construye el caso de uso.
func NewLedgerQueryUseCase(txRunner TxRunner, movRepo repository.MovementRepository) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{txRunner: txRunner, movRepo: movRepo}
}

// ListMovements devuelve una instantánea del ledger en orden de creación ascendente.
// Con Limit <= 0 devuelve todos los movimientos que cumplen el filtro.
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, q dto.ListMovementsQuery) (*dto.MovementListResponse, error) {
	if q.Type != "" && q.Type != entity.MovementTypeIN && q.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.ErrInvalidInput
	}
	// Sin limit se devuelve la instantánea completa; la paginación es opcional.
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Limit > maxMovementPage {
		q.Limit = maxMovementPage
	}
	filter := repository.MovementFilter{
		ProductID: q.ProductID,
		Type:      q.Type,
		From:      q.From,
		To:        q.To,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *LedgerQueryUseCase) GetMovement(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(m), nil
}

// AuditProduct recalcula inicial + Σ(IN) − Σ(OUT) y lo compara con el stock almacenado.
// Bloquea la fila del producto para leer stock e historial en el mismo instante lógico.
func (uc *LedgerQueryUseCase) AuditProduct(ctx context.Context, productID int64) (*dto.StockAuditResponse, error) {
	var out *dto.StockAuditResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		p, err := productRepo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		movs, err := movRepo.List(ctx, repository.MovementFilter{ProductID: &p.ID})
		if err != nil {
			return err
		}
		audit := &dto.StockAuditResponse{
			ProductID:    p.ID,
			InitialStock: p.InitialStock,
			StoredStock:  p.Stock,
			Movements:    len(movs),
		}
		for _, m := range movs {
			if m.Type == entity.MovementTypeIN {
				audit.UnitsIn += m.Quantity
			} else {
				audit.UnitsOut += m.Quantity
			}
		}
		audit.ExpectedStock = inventory.Reconcile(p.InitialStock, movs)
		audit.Consistent = audit.ExpectedStock == audit.StoredStock && audit.StoredStock >= 0
		out = audit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
