package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestListMovements_FiltrosYOrden(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	a := env.seedProduct(t, "A-01", 50, 0)
	b := env.seedProduct(t, "B-01", 50, 0)

	for _, step := range []struct {
		id  int64
		in  bool
		qty int64
	}{
		{a.ID, false, 1}, {b.ID, true, 2}, {a.ID, true, 3}, {b.ID, false, 4}, {a.ID, false, 5},
	} {
		input := out(step.id, step.qty)
		if step.in {
			input = in(step.id, step.qty)
		}
		_, err := env.record.RecordMovement(ctx, input)
		require.NoError(t, err)
	}

	all, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{})
	require.NoError(t, err)
	require.Len(t, all.Items, 5)
	assert.Equal(t, 5, all.Page.Total)
	assert.Zero(t, all.Page.Limit, "sin limit no hay paginación")
	for i, m := range all.Items {
		assert.Equal(t, int64(i+1), m.Quantity, "orden de inserción")
	}

	onlyA, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{ProductID: &a.ID})
	require.NoError(t, err)
	require.Len(t, onlyA.Items, 3)
	assert.Equal(t, a.Name, onlyA.Items[0].ProductName)

	outsOfA, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{ProductID: &a.ID, Type: entity.MovementTypeOUT})
	require.NoError(t, err)
	require.Len(t, outsOfA.Items, 2)
	assert.Equal(t, int64(1), outsOfA.Items[0].Quantity)
	assert.Equal(t, int64(5), outsOfA.Items[1].Quantity)

	paged, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{PageRequest: dto.PageRequest{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	require.Len(t, paged.Items, 2)
	assert.Equal(t, int64(3), paged.Items[0].Quantity)
	assert.Equal(t, 5, paged.Page.Total)

	future := time.Now().Add(time.Hour)
	none, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{From: &future})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.NotNil(t, none.Items, "lista vacía, no null")
}

func TestListMovements_SinLimitDevuelveElLedgerCompleto(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "BIG-01", 0, 0)

	const n = 150
	for i := 0; i < n; i++ {
		_, err := env.record.RecordMovement(ctx, in(p.ID, 1))
		require.NoError(t, err)
	}

	all, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{})
	require.NoError(t, err)
	require.Len(t, all.Items, n)
	assert.Equal(t, n, all.Page.Total)
	for i := 1; i < n; i++ {
		assert.Less(t, all.Items[i-1].ID, all.Items[i].ID)
	}

	tail, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{PageRequest: dto.PageRequest{Offset: 140}})
	require.NoError(t, err)
	assert.Len(t, tail.Items, 10)

	capped, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{PageRequest: dto.PageRequest{Limit: 10000}})
	require.NoError(t, err)
	assert.Equal(t, 500, capped.Page.Limit)
	assert.Len(t, capped.Items, n)
}

func TestListMovements_FiltrosInvalidos(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	_, err := env.query.ListMovements(ctx, dto.ListMovementsQuery{Type: "SIDEWAYS"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = env.query.ListMovements(ctx, dto.ListMovementsQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMovement(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "GET-01", 5, 0)

	created, err := env.record.RecordMovement(ctx, in(p.ID, 7))
	require.NoError(t, err)

	got, err := env.query.GetMovement(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(12), got.StockAfter)

	_, err = env.query.GetMovement(ctx, created.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditProduct(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "AUD-01", 10, 0)

	for _, input := range []struct {
		isIn bool
		qty  int64
	}{{true, 5}, {false, 8}, {false, 2}, {true, 1}} {
		mi := out(p.ID, input.qty)
		if input.isIn {
			mi = in(p.ID, input.qty)
		}
		_, err := env.record.RecordMovement(ctx, mi)
		require.NoError(t, err)
	}

	audit, err := env.query.AuditProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), audit.InitialStock)
	assert.Equal(t, int64(6), audit.UnitsIn)
	assert.Equal(t, int64(10), audit.UnitsOut)
	assert.Equal(t, int64(6), audit.ExpectedStock)
	assert.Equal(t, int64(6), audit.StoredStock)
	assert.Equal(t, 4, audit.Movements)
	assert.True(t, audit.Consistent)

	_, err = env.query.AuditProduct(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditProduct_DetectaStockAjustadoFueraDelLedger(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "DRIFT-01", 10, 0)

	_, err := env.record.RecordMovement(ctx, out(p.ID, 4))
	require.NoError(t, err)
	require.NoError(t, env.products.UpdateStock(ctx, p.ID, 9))

	audit, err := env.query.AuditProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), audit.ExpectedStock)
	assert.Equal(t, int64(9), audit.StoredStock)
	assert.False(t, audit.Consistent)
}
