package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// storage agrupa los repositorios y el TxRunner del driver elegido.
type storage struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	users     repository.UserRepository
	analytics repository.AnalyticsRepository
	txRunner  inventory.TxRunner
	health    func(context.Context) error
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		log.Warn().Msg("storage en memoria: los datos se pierden al reiniciar")
		store := memory.New()
		return &storage{
			products:  memory.NewProductRepository(store),
			movements: memory.NewMovementRepository(store),
			users:     memory.NewUserRepository(store),
			analytics: memory.NewAnalyticsRepository(store),
			txRunner:  memory.NewTxRunner(store, cfg.DB.LockTimeout),
			health:    func(context.Context) error { return nil },
			close:     func() {},
		}, nil

	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		return &storage{
			products:  postgres.NewProductRepository(pool),
			movements: postgres.NewMovementRepository(pool),
			users:     postgres.NewUserRepository(pool),
			analytics: postgres.NewAnalyticsRepository(pool),
			txRunner:  postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
			health:    pool.Ping,
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("storage driver desconocido: %q", cfg.App.StorageDriver)
	}
}
