// Package analytics contiene los casos de uso del Dashboard: conteos del catálogo,
// productos con stock bajo y unidades movidas por período.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// DashboardUseCase genera el resumen del inventario.
//
// Fuente de datos: repositorios de productos y movimientos, y AnalyticsRepository (read-only).
type DashboardUseCase struct {
	productRepo   repository.ProductRepository
	movRepo       repository.MovementRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		productRepo:   productRepo,
		movRepo:       movRepo,
		analyticsRepo: analyticsRepo,
		now:           time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. Count(productos)
//  2. Count(productos con stock <= min_stock)
//  3. Count(movimientos)
//  4. GetMovementTotals(hoy)
//  5. GetMovementTotals(mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type countResult struct {
		n   int
		err error
	}
	type totalsResult struct {
		t   repository.MovementTotals
		err error
	}

	productsCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)
	movsCh := make(chan countResult, 1)
	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)

	go func() {
		n, err := uc.productRepo.Count(ctx, repository.ProductFilter{})
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.productRepo.Count(ctx, repository.ProductFilter{LowOnly: true})
		lowCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.movRepo.Count(ctx, repository.MovementFilter{})
		movsCh <- countResult{n, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetMovementTotals(ctx, todayStart, todayEnd)
		todayCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetMovementTotals(ctx, monthStart, todayEnd)
		monthCh <- totalsResult{t, err}
	}()

	products := <-productsCh
	low := <-lowCh
	movs := <-movsCh
	today := <-todayCh
	month := <-monthCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos: %w", movs.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: totales de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: totales del mes: %w", month.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:  products.n,
		LowStock:       low.n,
		TotalMovements: movs.n,
		Today:          toTotalsDTO(today.t),
		Month:          toTotalsDTO(month.t),
		DateLabel:      monthLabel(now),
	}, nil
}

// LowStock devuelve los productos con stock <= min_stock.
func (uc *DashboardUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.List(ctx, repository.ProductFilter{LowOnly: true})
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductResponse{
			ID:        p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Price:     p.Price,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
			IsLow:     p.IsLow(),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out, nil
}

func toTotalsDTO(t repository.MovementTotals) dto.MovementTotalsDTO {
	return dto.MovementTotalsDTO{UnitsIn: t.UnitsIn, UnitsOut: t.UnitsOut, Movements: t.Movements}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
