package redisx

import "time"

const (
	// KeyIdemMovement idempotencia de POST /api/movements por usuario y clave.
	KeyIdemMovement = "idem:movement:%s:%s"

	// TTLPending vida de una reserva sin respuesta (petición en curso o proceso caído).
	TTLPending = 30 * time.Second

	pendingMarker = "pending"
)
