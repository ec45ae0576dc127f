package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve conteos de productos y stock bajo más los totales de movimientos del día y del mes.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err, "NOT_FOUND")
	}
	return c.JSON(summary)
}

// GetLowStock lista los productos con stock <= min_stock.
// GET /api/dashboard/low-stock
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err, "NOT_FOUND")
	}
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}
