package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementSelect = `
	SELECT m.id, m.product_id, p.name, m.type, m.quantity, m.note, m.stock_after,
	       COALESCE(m.created_by, ''), m.created_at
	FROM movements m
	JOIN products p ON p.id = m.product_id`

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee; el trigger trg_movements_append_only impide UPDATE/DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. ID y created_at los asigna la base de datos.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (product_id, type, quantity, note, stock_after, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	err := r.q.QueryRow(ctx, query,
		movement.ProductID, movement.Type, movement.Quantity, movement.Note,
		movement.StockAfter, createdBy,
	).Scan(&movement.ID, &movement.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return wrap("create movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get movement", err)
	}
	return m, nil
}

// List lista movimientos en orden de creación ascendente.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	where, args := movementWhere(filter)
	query := movementSelect + where + ` ORDER BY m.created_at ASC, m.id ASC`
	switch {
	case filter.Limit > 0:
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	case filter.Offset > 0:
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count cuenta los movimientos que cumplen el filtro (ignora Limit/Offset).
func (r *MovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	where, args := movementWhere(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements m`+where, args...).Scan(&n); err != nil {
		return 0, wrap("count movements", err)
	}
	return n, nil
}

func movementWhere(filter repository.MovementFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conds = append(conds, fmt.Sprintf("m.product_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("m.type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("m.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("m.created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	if err := row.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity,
		&m.Note, &m.StockAfter, &m.CreatedBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
