package inventory_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type spyPublisher struct {
	mu       sync.Mutex
	recorded []*entity.Movement
	lowStock []*entity.Product
	failWith error
}

func (p *spyPublisher) MovementRecorded(_ context.Context, m *entity.Movement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recorded = append(p.recorded, m)
	return p.failWith
}

func (p *spyPublisher) StockLow(_ context.Context, product *entity.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lowStock = append(p.lowStock, product)
	return p.failWith
}

type spyRecorder struct {
	mu       sync.Mutex
	recorded map[string]int64
	rejected map[string]int
}

func newSpyRecorder() *spyRecorder {
	return &spyRecorder{recorded: map[string]int64{}, rejected: map[string]int{}}
}

func (r *spyRecorder) MovementRecorded(movementType string, quantity int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded[movementType] += quantity
}

func (r *spyRecorder) MovementRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

type ledgerEnv struct {
	store     *memory.Store
	products  *memory.ProductRepo
	movements *memory.MovementRepo
	record    *inventory.RecordMovementUseCase
	query     *inventory.LedgerQueryUseCase
	publisher *spyPublisher
	recorder  *spyRecorder
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	store := memory.New()
	tx := memory.NewTxRunner(store, 5*time.Second)
	env := &ledgerEnv{
		store:     store,
		products:  memory.NewProductRepository(store),
		movements: memory.NewMovementRepository(store),
		publisher: &spyPublisher{},
		recorder:  newSpyRecorder(),
	}
	env.record = inventory.NewRecordMovementUseCase(tx, env.publisher, env.recorder, logger.Nop())
	env.query = inventory.NewLedgerQueryUseCase(tx, env.movements)
	return env
}

func (e *ledgerEnv) seedProduct(t *testing.T, sku string, stock, minStock int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		SKU:          sku,
		Name:         "Producto " + sku,
		Price:        decimal.NewFromInt(1000),
		Stock:        stock,
		InitialStock: stock,
		MinStock:     minStock,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *ledgerEnv) stock(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := e.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (e *ledgerEnv) movementCount(t *testing.T, id int64) int {
	t.Helper()
	n, err := e.movements.Count(context.Background(), repository.MovementFilter{ProductID: &id})
	require.NoError(t, err)
	return n
}

func out(id, qty int64) inventory.MovementInput {
	return inventory.MovementInput{UserID: "u-1", ProductID: id, Type: entity.MovementTypeOUT, Quantity: qty}
}

func in(id, qty int64) inventory.MovementInput {
	return inventory.MovementInput{UserID: "u-1", ProductID: id, Type: entity.MovementTypeIN, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_SalidasSucesivasYStockBajo(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "TOR-01", 10, 5)

	mov, err := env.record.RecordMovement(ctx, out(p.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(7), mov.StockAfter)
	assert.Equal(t, "u-1", mov.CreatedBy)
	assert.False(t, mov.CreatedAt.IsZero())
	assert.Empty(t, env.publisher.lowStock, "7 > 5: todavía no es stock bajo")

	mov, err = env.record.RecordMovement(ctx, out(p.ID, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(2), mov.StockAfter)
	require.Len(t, env.publisher.lowStock, 1)
	assert.Equal(t, int64(2), env.publisher.lowStock[0].Stock)

	_, err = env.record.RecordMovement(ctx, out(p.ID, 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(5), insufficient.Requested)

	assert.Equal(t, int64(2), env.stock(t, p.ID))
	assert.Equal(t, 2, env.movementCount(t, p.ID))
	assert.Len(t, env.publisher.recorded, 2)
	assert.Equal(t, 1, env.recorder.rejected["insufficient_stock"])
	assert.Equal(t, int64(8), env.recorder.recorded[entity.MovementTypeOUT])
}

func TestRecordMovement_StockBajoSoloAlCruzarUmbral(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "LOW-01", 3, 5) // ya está bajo

	_, err := env.record.RecordMovement(ctx, out(p.ID, 1))
	require.NoError(t, err)
	assert.Empty(t, env.publisher.lowStock)

	_, err = env.record.RecordMovement(ctx, in(p.ID, 10))
	require.NoError(t, err)
	_, err = env.record.RecordMovement(ctx, out(p.ID, 8))
	require.NoError(t, err)
	assert.Len(t, env.publisher.lowStock, 1)
}

func TestRecordMovement_EntradaEnProductoNuevo(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.seedProduct(t, "NEW-01", 0, 0)

	mov, err := env.record.RecordMovement(context.Background(), in(p.ID, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(20), mov.StockAfter)
	assert.Equal(t, int64(20), env.stock(t, p.ID))
	assert.Equal(t, 1, env.movementCount(t, p.ID))
}

func TestRecordMovement_SalidaExactaDejaCero(t *testing.T) {
	env := newLedgerEnv(t)
	p := env.seedProduct(t, "EXA-01", 4, 0)

	mov, err := env.record.RecordMovement(context.Background(), out(p.ID, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(0), mov.StockAfter)
	assert.Equal(t, int64(0), env.stock(t, p.ID))
}

func TestRecordMovement_OrdenDeValidacion(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "VAL-01", 10, 0)

	cases := []struct {
		name  string
		input inventory.MovementInput
		want  error
	}{
		{"producto inexistente con cantidad cero", out(999, 0), domain.ErrNotFound},
		{"producto inexistente con tipo inválido", inventory.MovementInput{ProductID: 999, Type: "MOVE", Quantity: 1}, domain.ErrNotFound},
		{"cantidad cero", out(p.ID, 0), domain.ErrInvalidInput},
		{"cantidad negativa", out(p.ID, -1), domain.ErrInvalidInput},
		{"tipo inválido", inventory.MovementInput{ProductID: p.ID, Type: "MOVE", Quantity: 1}, domain.ErrInvalidInput},
		{"tipo inválido con cantidad excesiva", inventory.MovementInput{ProductID: p.ID, Type: "MOVE", Quantity: 99}, domain.ErrInvalidInput},
		{"salida mayor al stock", out(p.ID, 11), domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.record.RecordMovement(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Equal(t, int64(10), env.stock(t, p.ID), "ningún rechazo modifica el stock")
	assert.Equal(t, 0, env.movementCount(t, p.ID))
	assert.Empty(t, env.publisher.recorded)
}

func TestRecordMovement_FalloDePublicacionNoRevierte(t *testing.T) {
	env := newLedgerEnv(t)
	env.publisher.failWith = errors.New("broker caído")
	p := env.seedProduct(t, "PUB-01", 10, 9)

	mov, err := env.record.RecordMovement(context.Background(), out(p.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(8), mov.StockAfter)
	assert.Equal(t, int64(8), env.stock(t, p.ID))
}

func TestRecordMovementFromRequest_CantidadCruda(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "RAW-01", 10, 0)

	_, err := env.record.RecordMovementFromRequest(ctx, "u-1", dto.RecordMovementRequest{
		ProductID: p.ID, Type: "OUT", Quantity: json.RawMessage(`2.5`),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.record.RecordMovementFromRequest(ctx, "u-1", dto.RecordMovementRequest{
		ProductID: 999, Type: "OUT", Quantity: json.RawMessage(`"3"`),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mov, err := env.record.RecordMovementFromRequest(ctx, "u-1", dto.RecordMovementRequest{
		ProductID: p.ID, Type: "OUT", Quantity: json.RawMessage(`3`), Note: "venta mostrador",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mov.Quantity)
	assert.Equal(t, "venta mostrador", mov.Note)
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int64{
		`3`:    3,
		` 42 `: 42,
		`3.0`:  3,
		`2.5`:  0,
		`"3"`:  0,
		`null`: 0,
		``:     0,
		`-4`:   -4,
		`1e3`:  1000,
		`1e30`: 0,
		`true`: 0,
		`[1]`:  0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, inventory.ParseQuantity(json.RawMessage(raw)), "raw=%q", raw)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_SalidasConcurrentesNuncaDejanStockNegativo(t *testing.T) {
	env := newLedgerEnv(t)
	const initial, workers = 25, 60
	p := env.seedProduct(t, "CON-01", initial, 0)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
		unexpected   []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.record.RecordMovement(context.Background(), out(p.ID, 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, initial, ok)
	assert.Equal(t, workers-initial, rejected)
	assert.Equal(t, int64(0), env.stock(t, p.ID))
	assert.Equal(t, initial, env.movementCount(t, p.ID))

	audit, err := env.query.AuditProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestRecordMovement_ProductosDistintosEnParalelo(t *testing.T) {
	env := newLedgerEnv(t)
	a := env.seedProduct(t, "PAR-A", 0, 0)
	b := env.seedProduct(t, "PAR-B", 100, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.record.RecordMovement(context.Background(), in(a.ID, 2))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := env.record.RecordMovement(context.Background(), out(b.ID, 2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(80), env.stock(t, a.ID))
	assert.Equal(t, int64(20), env.stock(t, b.ID))

	// IDs únicos y estrictamente crecientes; created_at no decreciente.
	all, err := env.query.ListMovements(context.Background(), dto.ListMovementsQuery{PageRequest: dto.PageRequest{Limit: 1000}})
	require.NoError(t, err)
	require.Len(t, all.Items, 80)
	for i := 1; i < len(all.Items); i++ {
		assert.Less(t, all.Items[i-1].ID, all.Items[i].ID)
		assert.False(t, all.Items[i].CreatedAt.Before(all.Items[i-1].CreatedAt))
	}
}

func TestRecordMovement_LockOcupadoDevuelveConflicto(t *testing.T) {
	store := memory.New()
	products := memory.NewProductRepository(store)
	p := &entity.Product{SKU: "LCK-01", Name: "Bloqueado", Stock: 5, InitialStock: 5}
	require.NoError(t, products.Create(context.Background(), p))

	slow := memory.NewTxRunner(store, time.Second)
	fast := memory.NewTxRunner(store, 20*time.Millisecond)
	uc := inventory.NewRecordMovementUseCase(fast, nil, nil, nil)

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = slow.Run(context.Background(), func(pr repository.ProductRepository, _ repository.MovementRepository) error {
			_, err := pr.GetByIDForUpdate(context.Background(), p.ID)
			close(held)
			<-done
			return err
		})
	}()
	<-held

	_, err := uc.RecordMovement(context.Background(), out(p.ID, 1))
	close(done)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, domain.IsRetryable(err))

	// Tras liberar el lock el reintento completo funciona.
	require.Eventually(t, func() bool {
		_, err := uc.RecordMovement(context.Background(), out(p.ID, 1))
		return err == nil
	}, time.Second, 10*time.Millisecond)
}
