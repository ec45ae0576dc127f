package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo repositorio de productos fuera de transacción.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.createProduct(product)
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return r.s.getProduct(id), nil
}

// GetByIDForUpdate fuera de una transacción no puede retener el lock; se comporta como GetByID.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.s.getProductBySKU(sku), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.s.updateProduct(product)
}

// UpdateStock toma el lock del producto para no intercalarse con una transacción en curso.
func (r *ProductRepo) UpdateStock(ctx context.Context, id, stock int64) error {
	if err := r.s.lockProduct(ctx, id); err != nil {
		return err
	}
	defer r.s.unlockProduct(id)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = r.s.now().UTC()
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	return page(r.s.listProducts(filter), filter.Limit, filter.Offset), nil
}

func (r *ProductRepo) Count(_ context.Context, filter repository.ProductFilter) (int, error) {
	return len(r.s.listProducts(filter)), nil
}

// Delete replica la FK de PostgreSQL: un producto con movimientos no se puede borrar.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.lockProduct(ctx, id); err != nil {
		return err
	}
	defer r.s.unlockProduct(id)
	return r.s.deleteProduct(id)
}

func (s *Store) deleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	if s.hasMovements(id) {
		return domain.ErrProductHasMovements
	}
	delete(s.products, id)
	return nil
}
