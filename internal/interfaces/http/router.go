package http

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	RecordMovement *inventory.RecordMovementUseCase
	LedgerQuery    *inventory.LedgerQueryUseCase
	MovementPDF    *report.PDFUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
	AppName        string

	Idempotency    IdempotencyStore             // opcional
	MetricsHandler http.Handler                 // opcional; expone /metrics
	HealthCheck    func(context.Context) error // opcional; verifica el storage
	DevSeedEnabled bool
	Logger         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	authHandler := NewAuthHandler(deps.AuthUC)
	if deps.DevSeedEnabled {
		app.Post("/dev/seed-admin", authHandler.SeedAdmin)
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products (protegido; escritura solo admin)
	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerQuery)
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/audit", productHandler.Audit)

	// Movements (protegido). report.pdf se registra antes de /:id.
	movements := api.Group("/movements", requireAuth)
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.LedgerQuery, deps.MovementPDF)
	movements.Get("/", movementHandler.List)
	movements.Post("/", Idempotency(deps.Idempotency, deps.Logger), movementHandler.Create)
	movements.Get("/report.pdf", movementHandler.ReportPDF)
	movements.Get("/:id", movementHandler.GetByID)

	// Dashboard (protegido)
	dashboard := api.Group("/dashboard", requireAuth)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/low-stock", dashboardHandler.GetLowStock)
}
