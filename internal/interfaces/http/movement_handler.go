package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

// MovementHandler maneja el ledger de movimientos (protegido).
type MovementHandler struct {
	record *inventory.RecordMovementUseCase
	query  *inventory.LedgerQueryUseCase
	pdf    *report.PDFUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(record *inventory.RecordMovementUseCase, query *inventory.LedgerQueryUseCase, pdf *report.PDFUseCase) *MovementHandler {
	return &MovementHandler{record: record, query: query, pdf: pdf}
}

// Create godoc
// @Summary      Registrar movimiento IN/OUT
// @Description  Ajusta el stock y agrega el movimiento al ledger en una sola operación atómica.
// @Description  Orden de validación: producto existe (404), cantidad entera positiva y tipo válido (400), stock suficiente para OUT (409).
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                     false  "Clave para reintentos seguros"
// @Param        body             body    dto.RecordMovementRequest  true   "product_id, type (IN|OUT), quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	out, err := h.record.RecordMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err, "PRODUCT_NOT_FOUND")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos en orden de creación
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  int     false  "Filtrar por producto"
// @Param        type        query  string  false  "IN | OUT"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Param        limit       query  int     false  "Límite (sin limit se devuelve el ledger completo)"
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	q, err := parseMovementQuery(c)
	if err != nil {
		return writeError(c, err, "PRODUCT_NOT_FOUND")
	}
	out, err := h.query.ListMovements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err, "PRODUCT_NOT_FOUND")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err, "MOVEMENT_NOT_FOUND")
	}
	out, err := h.query.GetMovement(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "MOVEMENT_NOT_FOUND")
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte PDF de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id  query  int     false  "Filtrar por producto"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/report.pdf [get]
func (h *MovementHandler) ReportPDF(c *fiber.Ctx) error {
	q, err := parseMovementQuery(c)
	if err != nil {
		return writeError(c, err, "PRODUCT_NOT_FOUND")
	}
	pdfBytes, filename, err := h.pdf.DownloadMovementsPDF(c.UserContext(), q.ProductID, q.From, q.To)
	if err != nil {
		return writeError(c, err, "PRODUCT_NOT_FOUND")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func parseMovementQuery(c *fiber.Ctx) (dto.ListMovementsQuery, error) {
	var q dto.ListMovementsQuery
	productID, err := queryInt64Ptr(c, "product_id")
	if err != nil {
		return q, err
	}
	from, err := queryTime(c, "from", false)
	if err != nil {
		return q, err
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return q, err
	}
	q.ProductID = productID
	q.Type = strings.ToUpper(strings.TrimSpace(c.Query("type")))
	q.From, q.To = from, to
	q.Limit = c.QueryInt("limit", 0)
	q.Offset = c.QueryInt("offset", 0)
	return q, nil
}
