package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/redisx"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// HeaderIdempotencyKey clave enviada por el cliente para reintentar sin duplicar movimientos.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
)

// IdempotencyStore almacén de respuestas por clave (Redis en producción).
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (*redisx.StoredResponse, error)
	Complete(ctx context.Context, key string, resp redisx.StoredResponse) error
	Release(ctx context.Context, key string) error
}

// Idempotency repite la respuesta guardada cuando llega la misma Idempotency-Key del mismo usuario.
// Sin header la petición pasa tal cual. Si el almacén falla, la petición se procesa sin idempotencia.
// Respuestas 5xx y conflictos reintentables liberan la clave para que el reintento se procese.
// Reusar la clave con otro cuerpo devuelve 422 en lugar de la respuesta guardada.
func Idempotency(store IdempotencyStore, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		idemKey := c.Get(HeaderIdempotencyKey)
		if idemKey == "" || store == nil {
			return c.Next()
		}
		if len(idemKey) > maxIdempotencyKeyLen {
			return badRequest(c, "INVALID_IDEMPOTENCY_KEY", "Idempotency-Key demasiado larga")
		}
		ctx := c.UserContext()
		key := redisx.Key(GetUserID(c), idemKey)
		bodyHash := hashBody(c.Body())

		cached, err := store.Reserve(ctx, key)
		switch {
		case errors.Is(err, redisx.ErrInProgress):
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "IDEMPOTENCY_IN_PROGRESS", Message: "petición con la misma Idempotency-Key en curso", Retryable: true,
			})
		case err != nil:
			log.Warn().Err(err).Str("idempotency_key", idemKey).Msg("idempotencia no disponible")
			return c.Next()
		case cached != nil && cached.BodyHash != bodyHash:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code: "IDEMPOTENCY_KEY_REUSED", Message: "Idempotency-Key ya usada con otro cuerpo",
			})
		case cached != nil:
			c.Set(HeaderReplayed, "true")
			if cached.ContentType != "" {
				c.Set(fiber.HeaderContentType, cached.ContentType)
			}
			return c.Status(cached.Status).Send(cached.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(ctx, key)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError || c.GetRespHeader(fiber.HeaderRetryAfter) != "" {
			if err := store.Release(ctx, key); err != nil {
				log.Warn().Err(err).Str("idempotency_key", idemKey).Msg("liberar idempotency key")
			}
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		resp := redisx.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        body,
			BodyHash:    bodyHash,
		}
		if err := store.Complete(ctx, key, resp); err != nil {
			log.Warn().Err(err).Str("idempotency_key", idemKey).Msg("guardar respuesta idempotente")
		}
		return nil
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
