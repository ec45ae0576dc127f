// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store guarda productos, movimientos y usuarios. mu protege los datos;
// cada producto tiene además un lock exclusivo que se toma con GetByIDForUpdate
// y se mantiene hasta el fin de la transacción.
type Store struct {
	mu        sync.RWMutex
	products  map[int64]*entity.Product
	movements []*entity.Movement
	users     map[string]*entity.User

	nextProductID  int64
	nextMovementID int64
	lastCreatedAt  time.Time

	locksMu sync.Mutex
	locks   map[int64]chan struct{}

	now func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products: make(map[int64]*entity.Product),
		users:    make(map[string]*entity.User),
		locks:    make(map[int64]chan struct{}),
		now:      time.Now,
	}
}

func (s *Store) productLock(id int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	return l
}

// lockProduct espera el lock del producto. ctx cancelado o vencido se reporta como conflicto reintentable.
func (s *Store) lockProduct(ctx context.Context, id int64) error {
	l := s.productLock(id)
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return domain.ErrConflict
	}
}

func (s *Store) unlockProduct(id int64) {
	<-s.productLock(id)
}

// nextTimestamp devuelve un created_at no decreciente. Se llama con mu tomado.
func (s *Store) nextTimestamp() time.Time {
	t := s.now().UTC()
	if t.Before(s.lastCreatedAt) {
		t = s.lastCreatedAt
	}
	s.lastCreatedAt = t
	return t
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	return &c
}

func matchProduct(p *entity.Product, f repository.ProductFilter) bool {
	if f.LowOnly && !p.IsLow() {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q)
}

func matchMovement(m *entity.Movement, f repository.MovementFilter) bool {
	if f.ProductID != nil && m.ProductID != *f.ProductID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && m.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ----- lecturas compartidas por los repos con y sin transacción -----

func (s *Store) getProduct(id int64) *entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProduct(s.products[id])
}

func (s *Store) getProductBySKU(sku string) *entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.SKU == sku {
			return cloneProduct(p)
		}
	}
	return nil
}

func (s *Store) listProducts(f repository.ProductFilter) []*entity.Product {
	s.mu.RLock()
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if matchProduct(p, f) {
			out = append(out, cloneProduct(p))
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// listMovements recorre el ledger en orden de inserción, que coincide con (created_at, id).
func (s *Store) listMovements(f repository.MovementFilter) []*entity.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Movement, 0)
	for _, m := range s.movements {
		if matchMovement(m, f) {
			c := cloneMovement(m)
			if p, ok := s.products[m.ProductID]; ok {
				c.ProductName = p.Name
			}
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) hasMovements(productID int64) bool {
	for _, m := range s.movements {
		if m.ProductID == productID {
			return true
		}
	}
	return false
}

// appendMovement asigna ID y created_at y agrega al ledger. Se llama con mu tomado.
func (s *Store) appendMovement(m *entity.Movement) {
	s.nextMovementID++
	m.ID = s.nextMovementID
	m.CreatedAt = s.nextTimestamp()
	s.movements = append(s.movements, cloneMovement(m))
}

func (s *Store) createProduct(p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	s.nextProductID++
	p.ID = s.nextProductID
	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *Store) updateProduct(p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range s.products {
		if other.ID != p.ID && other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cur.SKU = p.SKU
	cur.Name = p.Name
	cur.Price = p.Price
	cur.MinStock = p.MinStock
	cur.UpdatedAt = s.now().UTC()
	return nil
}
