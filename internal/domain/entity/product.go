package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock solo lo modifica el ledger de movimientos; InitialStock es el stock con
// el que se creó el producto y es el punto de partida de la reconciliación.
type Product struct {
	ID           int64
	SKU          string // único en el catálogo
	Name         string
	Price        decimal.Decimal
	Stock        int64
	InitialStock int64
	MinStock     int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLow indica stock bajo: stock <= min_stock. Se calcula en lectura, nunca se persiste.
func (p *Product) IsLow() bool {
	return p.Stock <= p.MinStock
}
