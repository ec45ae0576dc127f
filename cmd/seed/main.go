// seed crea el administrador inicial y un catálogo de demostración con algunos movimientos.
//
// Uso: go run ./cmd/seed -email admin@empresa.co -password secreto123
// Usa la misma configuración que cmd/api (DATABASE_URL, DB_*, ...). Es idempotente:
// un admin o SKU existente se reporta y se omite.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type demoProduct struct {
	sku      string
	name     string
	price    string
	stock    int64
	minStock int64
	outs     []int64
}

var catalog = []demoProduct{
	{"TOR-M8", "Tornillo hexagonal M8 x 40", "450", 500, 100, []int64{120, 80}},
	{"TUE-M8", "Tuerca M8 galvanizada", "120", 800, 150, []int64{300}},
	{"ARA-M8", "Arandela plana M8", "60", 60, 50, []int64{15}},
	{"BRO-6", "Broca para concreto 6 mm", "8900", 25, 10, nil},
	{"CIN-AIS", "Cinta aislante 18 mm x 10 m", "3200", 8, 12, nil},
}

func main() {
	email := flag.String("email", "admin@inventario.local", "email del administrador")
	password := flag.String("password", "", "contraseña del administrador (mínimo 8 caracteres)")
	name := flag.String("name", "Administrador", "nombre del administrador")
	withProducts := flag.Bool("products", true, "crear catálogo de demostración")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "falta -password")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})
	admin, err := authUC.SeedAdmin(ctx, dto.SeedAdminRequest{Name: *name, Email: *email, Password: *password})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Msg("ya existe un administrador, se omite")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("email", admin.Email).Str("id", admin.ID).Msg("administrador creado")
	}

	if !*withProducts {
		return
	}

	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), txRunner)
	recordUC := inventory.NewRecordMovementUseCase(txRunner, nil, nil, log)

	var userID string
	if admin != nil {
		userID = admin.ID
	}
	for _, d := range catalog {
		p, err := productUC.Create(ctx, dto.CreateProductRequest{
			SKU:      d.sku,
			Name:     d.name,
			Price:    decimal.RequireFromString(d.price),
			Stock:    d.stock,
			MinStock: d.minStock,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			log.Info().Str("sku", d.sku).Msg("producto existente, se omite")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("sku", d.sku).Msg("crear producto")
		}
		for _, qty := range d.outs {
			if _, err := recordUC.RecordMovement(ctx, inventory.MovementInput{
				UserID:    userID,
				ProductID: p.ID,
				Type:      entity.MovementTypeOUT,
				Quantity:  qty,
				Note:      "venta de demostración",
			}); err != nil {
				log.Fatal().Err(err).Str("sku", d.sku).Msg("registrar movimiento")
			}
		}
		log.Info().Str("sku", d.sku).Int64("id", p.ID).Msg("producto creado")
	}
}
