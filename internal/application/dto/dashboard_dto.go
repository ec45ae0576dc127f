package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contiene los conteos del catálogo y del ledger, más las unidades movidas hoy y en el mes.
type DashboardSummaryDTO struct {
	TotalProducts  int `json:"total_products"`
	LowStock       int `json:"low_stock"` // productos con stock <= min_stock
	TotalMovements int `json:"total_movements"`

	// Métricas del día actual (00:00 – 23:59)
	Today MovementTotalsDTO `json:"today"`

	// Métricas del mes en curso (día 1 – hoy)
	Month MovementTotalsDTO `json:"month"`

	// Metadatos del período
	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// MovementTotalsDTO unidades que entraron y salieron en un período.
type MovementTotalsDTO struct {
	UnitsIn   int64 `json:"units_in"`
	UnitsOut  int64 `json:"units_out"`
	Movements int   `json:"movements"`
}
