package dto

import (
	"encoding/json"
	"time"
)

// RecordMovementRequest body para POST /api/movements.
// Quantity se recibe sin decodificar para poder rechazar decimales ("2.5") y cadenas ("3") en el servidor.
type RecordMovementRequest struct {
	ProductID int64           `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  json.RawMessage `json:"quantity" swaggertype:"integer"`
	Note      string          `json:"note"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Note        string    `json:"note"`
	StockAfter  int64     `json:"stock_after"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse lista de movimientos en orden de creación.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ListMovementsQuery filtros de GET /api/movements.
type ListMovementsQuery struct {
	ProductID *int64
	Type      string
	From      *time.Time
	To        *time.Time
	PageRequest
}

// StockAuditResponse resultado de reconciliar el stock de un producto con su ledger.
type StockAuditResponse struct {
	ProductID     int64 `json:"product_id"`
	InitialStock  int64 `json:"initial_stock"`
	UnitsIn       int64 `json:"units_in"`
	UnitsOut      int64 `json:"units_out"`
	ExpectedStock int64 `json:"expected_stock"`
	StoredStock   int64 `json:"stored_stock"`
	Movements     int   `json:"movements"`
	Consistent    bool  `json:"consistent"`
}
