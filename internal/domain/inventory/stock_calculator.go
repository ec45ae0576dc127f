package inventory

import (
	"math"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ValidateMovement valida tipo y cantidad de un movimiento (servicio de dominio).
// La cantidad debe ser un entero positivo y el tipo IN u OUT.
func ValidateMovement(movementType string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		return nil
	default:
		return domain.ErrInvalidInput
	}
}

// ApplyMovement calcula el nuevo stock a partir del stock actual y el movimiento.
// NuevoStock = StockActual + Cantidad (IN) | StockActual - Cantidad (OUT).
// Una salida mayor al stock disponible devuelve *domain.InsufficientStockError.
// Una entrada que desborda int64 devuelve domain.ErrInvalidInput.
func ApplyMovement(productID, stock int64, movementType string, quantity int64) (int64, error) {
	if err := ValidateMovement(movementType, quantity); err != nil {
		return stock, err
	}
	if movementType == entity.MovementTypeIN {
		if quantity > math.MaxInt64-stock {
			return stock, domain.ErrInvalidInput
		}
		return stock + quantity, nil
	}
	if quantity > stock {
		return stock, &domain.InsufficientStockError{ProductID: productID, Available: stock, Requested: quantity}
	}
	return stock - quantity, nil
}

// Reconcile recalcula el stock esperado desde el stock inicial y el historial de movimientos:
// inicial + Σ(IN) − Σ(OUT).
func Reconcile(initialStock int64, movements []*entity.Movement) int64 {
	stock := initialStock
	for _, m := range movements {
		stock += m.Delta()
	}
	return stock
}
