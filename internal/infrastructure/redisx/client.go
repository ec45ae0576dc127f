// Package redisx agrupa el cliente Redis y el almacén de respuestas idempotentes.
package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// New crea el cliente Redis con timeouts cortos: la idempotencia no debe frenar el ledger.
func New(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Ping verifica la conexión al arrancar.
func Ping(ctx context.Context, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
