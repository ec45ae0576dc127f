package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductFilter criterios de listado del catálogo.
type ProductFilter struct {
	Query   string // coincidencia parcial, sin distinguir mayúsculas, sobre name o sku
	LowOnly bool   // solo productos con stock <= min_stock
	Limit   int    // 0 = sin límite
	Offset  int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Update nunca toca stock; el stock solo cambia con UpdateStock dentro de la transacción del ledger.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDForUpdate obtiene el producto y bloquea su fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id, stock int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	Delete(ctx context.Context, id int64) error
}
