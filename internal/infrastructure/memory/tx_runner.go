package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta transacciones sobre el store. Las escrituras se acumulan en la tx
// y se aplican juntas al confirmar; si fn falla se descartan.
type TxRunner struct {
	s           *Store
	lockTimeout time.Duration
}

// NewTxRunner crea el runner. lockTimeout <= 0 espera el lock mientras ctx siga vivo.
func NewTxRunner(s *Store, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{s: s, lockTimeout: lockTimeout}
}

// Run ejecuta fn con repositorios atados a una tx nueva.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx := &memTx{
		s:           r.s,
		lockTimeout: r.lockTimeout,
		held:        make(map[int64]bool),
		stock:       make(map[int64]int64),
		deleted:     make(map[int64]bool),
	}
	defer tx.release()

	if err := fn(&txProductRepo{tx: tx}, &txMovementRepo{tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

type memTx struct {
	s           *Store
	lockTimeout time.Duration
	held        map[int64]bool
	stock       map[int64]int64
	deleted     map[int64]bool
	movements   []*entity.Movement
}

func (tx *memTx) lock(ctx context.Context, id int64) error {
	if tx.held[id] {
		return nil
	}
	if tx.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tx.lockTimeout)
		defer cancel()
	}
	if err := tx.s.lockProduct(ctx, id); err != nil {
		return err
	}
	tx.held[id] = true
	return nil
}

func (tx *memTx) release() {
	for id := range tx.held {
		tx.s.unlockProduct(id)
	}
	tx.held = nil
}

// view aplica las escrituras pendientes de la tx sobre la copia leída del store.
func (tx *memTx) view(p *entity.Product) *entity.Product {
	if p == nil || tx.deleted[p.ID] {
		return nil
	}
	if st, ok := tx.stock[p.ID]; ok {
		p.Stock = st
	}
	return p
}

func (tx *memTx) commit() error {
	s := tx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validación completa antes de escribir: el commit es todo o nada.
	for id := range tx.stock {
		if _, ok := s.products[id]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, m := range tx.movements {
		if _, ok := s.products[m.ProductID]; !ok {
			return domain.ErrNotFound
		}
	}
	for id := range tx.deleted {
		if _, ok := s.products[id]; !ok {
			return domain.ErrNotFound
		}
		if s.hasMovements(id) {
			return domain.ErrProductHasMovements
		}
	}

	now := s.now().UTC()
	for id, st := range tx.stock {
		p := s.products[id]
		p.Stock = st
		p.UpdatedAt = now
	}
	for _, m := range tx.movements {
		s.appendMovement(m)
	}
	for id := range tx.deleted {
		delete(s.products, id)
	}
	return nil
}

type txProductRepo struct {
	tx *memTx
}

func (r *txProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.tx.s.createProduct(product)
}

func (r *txProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return r.tx.view(r.tx.s.getProduct(id)), nil
}

func (r *txProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	if err := r.tx.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *txProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.tx.view(r.tx.s.getProductBySKU(sku)), nil
}

func (r *txProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.tx.s.updateProduct(product)
}

// UpdateStock exige el lock del producto: el stock solo cambia tras GetByIDForUpdate.
func (r *txProductRepo) UpdateStock(ctx context.Context, id, stock int64) error {
	if err := r.tx.lock(ctx, id); err != nil {
		return err
	}
	if stock < 0 {
		return domain.ErrInvalidInput
	}
	r.tx.stock[id] = stock
	return nil
}

func (r *txProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	list := r.tx.s.listProducts(filter)
	out := list[:0]
	for _, p := range list {
		if p = r.tx.view(p); p != nil {
			out = append(out, p)
		}
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *txProductRepo) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	filter.Limit, filter.Offset = 0, 0
	list, err := r.List(ctx, filter)
	return len(list), err
}

func (r *txProductRepo) Delete(ctx context.Context, id int64) error {
	if err := r.tx.lock(ctx, id); err != nil {
		return err
	}
	r.tx.deleted[id] = true
	return nil
}

type txMovementRepo struct {
	tx *memTx
}

// Create deja el movimiento pendiente; ID y CreatedAt se asignan al confirmar.
func (r *txMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	r.tx.movements = append(r.tx.movements, movement)
	return nil
}

func (r *txMovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	return NewMovementRepository(r.tx.s).GetByID(ctx, id)
}

// List incluye los movimientos pendientes de la tx al final, en orden de creación.
func (r *txMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	list := r.tx.s.listMovements(filter)
	for _, m := range r.tx.movements {
		if matchMovement(m, filter) {
			list = append(list, cloneMovement(m))
		}
	}
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *txMovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	filter.Limit, filter.Offset = 0, 0
	list, err := r.List(ctx, filter)
	return len(list), err
}
