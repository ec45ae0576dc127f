package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInProgress otra petición con la misma clave todavía no terminó.
var ErrInProgress = errors.New("redisx: petición idempotente en curso")

// StoredResponse respuesta guardada para repetirla ante la misma Idempotency-Key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	BodyHash    string `json:"body_hash"` // sha256 del cuerpo de la petición original
}

// IdempotencyStore reserva claves con SET NX y guarda la respuesta final.
type IdempotencyStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewIdempotencyStore crea el almacén. ttl es la retención de respuestas completas.
func NewIdempotencyStore(rdb redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Key arma la clave Redis para un usuario y una Idempotency-Key.
func Key(userID, idemKey string) string {
	return fmt.Sprintf(KeyIdemMovement, userID, idemKey)
}

// Reserve intenta tomar la clave. Devuelve (nil, nil) si la reservó y debe procesar la petición,
// la respuesta guardada si ya se completó, o ErrInProgress si otra petición la tiene.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (*StoredResponse, error) {
	ok, err := s.rdb.SetNX(ctx, key, pendingMarker, TTLPending).Result()
	if err != nil {
		return nil, fmt.Errorf("redisx: reserve: %w", err)
	}
	if ok {
		return nil, nil
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// La reserva venció entre SETNX y GET; se informa como en curso para que el cliente reintente.
		return nil, ErrInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("redisx: get: %w", err)
	}
	if raw == pendingMarker {
		return nil, ErrInProgress
	}
	var resp StoredResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("redisx: decode: %w", err)
	}
	return &resp, nil
}

// Complete guarda la respuesta final con el TTL de retención.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp StoredResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("redisx: encode: %w", err)
	}
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisx: complete: %w", err)
	}
	return nil
}

// Release libera la reserva para que un reintento vuelva a procesar la petición.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redisx: release: %w", err)
	}
	return nil
}
