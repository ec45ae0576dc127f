package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// HTTPObserver recibe una observación por petición atendida (métricas).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// NewServer crea la app Fiber con recover, request id y log de peticiones.
// obs puede ser nil.
func NewServer(appName string, log *logger.Logger, obs HTTPObserver) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(log, obs))
	return app
}

// errorHandler responde errores que no pasaron por writeError (404 de ruta, body demasiado grande, panics).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	resp := dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	switch code {
	case fiber.StatusNotFound:
		resp = dto.ErrorResponse{Code: "ROUTE_NOT_FOUND", Message: "ruta no encontrada"}
	case fiber.StatusMethodNotAllowed:
		resp = dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "método no permitido"}
	default:
		if code < fiber.StatusInternalServerError && fe != nil {
			resp = dto.ErrorResponse{Code: "BAD_REQUEST", Message: fe.Message}
		}
	}
	return c.Status(code).JSON(resp)
}

// RequestLogger registra método, ruta, status, latencia y request id de cada petición.
func RequestLogger(log *logger.Logger, obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if obs != nil {
			obs.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		ev := log.Info
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error
		case status >= fiber.StatusBadRequest:
			ev = log.Warn
		}
		ev().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return nil
	}
}
