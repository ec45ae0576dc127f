package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Movement es una entrada inmutable del ledger. Una vez creada no se edita ni se elimina.
// Quantity siempre es positiva; el signo lo da Type.
type Movement struct {
	ID          int64 // asignado por el servidor, monotónico por orden de creación
	ProductID   int64
	ProductName string // desnormalizado para lectura
	Type        string
	Quantity    int64
	Note        string
	StockAfter  int64 // stock del producto inmediatamente después de aplicar el movimiento
	CreatedBy   string
	CreatedAt   time.Time
}

// Delta devuelve el efecto con signo del movimiento sobre el stock.
func (m *Movement) Delta() int64 {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}
