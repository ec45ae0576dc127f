package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var tracer = otel.Tracer("inventario-ledger/inventory")

// RecordMovementUseCase registra movimientos IN/OUT de forma transaccional:
// bloquea la fila del producto (SELECT FOR UPDATE o lock por producto en memoria),
// valida, ajusta el stock y agrega el movimiento al ledger en la misma unidad atómica.
type RecordMovementUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	recorder  Recorder
	log       *logger.Logger
}

// NewRecordMovementUseCase construye el caso de uso. publisher y recorder pueden ser nil.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	publisher EventPublisher,
	recorder Recorder,
	log *logger.Logger,
) *RecordMovementUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordMovementUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity <= 0 se rechaza con ErrInvalidInput después de verificar que el producto existe.
type MovementInput struct {
	UserID    string
	ProductID int64
	Type      string
	Quantity  int64
	Note      string
}

// RecordMovementFromRequest adapta el request HTTP al caso de uso.
// Una cantidad no entera, vacía o fuera de rango se traduce a 0 para que la validación
// la rechace en su turno (después de NotFound).
func (uc *RecordMovementUseCase) RecordMovementFromRequest(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	return uc.RecordMovement(ctx, MovementInput{
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  ParseQuantity(in.Quantity),
		Note:      in.Note,
	})
}

// ParseQuantity convierte la cantidad recibida a entero. Devuelve 0 si no es un número JSON entero representable.
// Acepta 3 y 3.0; rechaza 2.5, 1e30, "3", null y cuerpos vacíos.
func ParseQuantity(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0
	}
	n := json.Number(raw)
	if v, err := n.Int64(); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0
	}
	if f > math.MaxInt64/2 || f < math.MinInt64/2 {
		return 0
	}
	return int64(f)
}

// RecordMovement aplica el movimiento. Orden de validación:
//  1. el producto existe           → domain.ErrNotFound
//  2. tipo IN/OUT y cantidad > 0   → domain.ErrInvalidInput
//  3. OUT no excede el stock       → *domain.InsufficientStockError (errors.Is ErrInsufficientStock)
//
// Un conflicto de escritura concurrente se devuelve como domain.ErrConflict (reintentable).
// Ningún error deja stock ni ledger modificados.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*dto.MovementResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.RecordMovement", trace.WithAttributes(
		attribute.Int64("product.id", input.ProductID),
		attribute.String("movement.type", input.Type),
		attribute.Int64("movement.quantity", input.Quantity),
	))
	defer span.End()

	var (
		movement *entity.Movement
		product  *entity.Product
		wasLow   bool
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		// Bloquea la fila del producto hasta el commit para serializar check-then-update
		p, err := productRepo.GetByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		newStock, err := inventory.ApplyMovement(p.ID, p.Stock, input.Type, input.Quantity)
		if err != nil {
			return err
		}
		wasLow = p.IsLow()
		if err := productRepo.UpdateStock(ctx, p.ID, newStock); err != nil {
			return err
		}
		p.Stock = newStock

		m := &entity.Movement{
			ProductID:   p.ID,
			ProductName: p.Name,
			Type:        input.Type,
			Quantity:    input.Quantity,
			Note:        input.Note,
			StockAfter:  newStock,
			CreatedBy:   input.UserID,
		}
		if err := movRepo.Create(ctx, m); err != nil {
			return err
		}
		movement, product = m, p
		return nil
	})
	if err != nil {
		uc.reject(span, input, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("movement.id", movement.ID),
		attribute.Int64("product.stock", product.Stock),
	)
	uc.recorder.MovementRecorded(movement.Type, movement.Quantity)
	uc.log.Info().
		Int64("movement_id", movement.ID).
		Int64("product_id", product.ID).
		Str("type", movement.Type).
		Int64("quantity", movement.Quantity).
		Int64("stock", product.Stock).
		Msg("movimiento registrado")

	// Efectos posteriores al commit: un fallo aquí no revierte el movimiento.
	if err := uc.publisher.MovementRecorded(ctx, movement); err != nil {
		uc.log.Warn().Err(err).Int64("movement_id", movement.ID).Msg("publicar movimiento")
	}
	if !wasLow && product.IsLow() {
		if err := uc.publisher.StockLow(ctx, product); err != nil {
			uc.log.Warn().Err(err).Int64("product_id", product.ID).Msg("publicar stock bajo")
		}
	}

	return toMovementResponse(movement), nil
}

func (uc *RecordMovementUseCase) reject(span trace.Span, input MovementInput, err error) {
	reason := rejectReason(err)
	uc.recorder.MovementRejected(reason)
	span.SetAttributes(attribute.String("movement.rejected", reason))

	ev := uc.log.Warn
	if reason == "internal" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ev = uc.log.Error
	}
	ev().Err(err).
		Int64("product_id", input.ProductID).
		Str("type", input.Type).
		Int64("quantity", input.Quantity).
		Str("reason", reason).
		Msg("movimiento rechazado")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Note:        m.Note,
		StockAfter:  m.StockAfter,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
