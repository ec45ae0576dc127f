package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrProductHasMovements = errors.New("el producto tiene movimientos registrados")

	// ErrConflict indica una escritura concurrente que abortó la transacción
	// (serialización, deadlock o lock no disponible). El caller debe reintentar
	// la operación completa; no quedó ningún efecto parcial.
	ErrConflict = errors.New("conflicto de escritura concurrente, reintente")
)

// InsufficientStockError detalla un rechazo por sobreventa.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID int64
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return ErrInsufficientStock.Error()
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsRetryable reporta si el error puede resolverse reintentando la operación.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
