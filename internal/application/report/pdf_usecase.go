package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// PDFUseCase genera el reporte PDF de movimientos (historial del ledger).
type PDFUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	generator   MovementReportGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	generator MovementReportGenerator,
) *PDFUseCase {
	return &PDFUseCase{productRepo: productRepo, movRepo: movRepo, generator: generator}
}

// DownloadMovementsPDF genera el PDF del ledger, opcionalmente filtrado por producto y rango de fechas.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si se filtra por un producto que no existe.
//   - domain.ErrInvalidInput     si from > to.
func (uc *PDFUseCase) DownloadMovementsPDF(
	ctx context.Context,
	productID *int64,
	from, to *time.Time,
) (pdfBytes []byte, filename string, err error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, "", domain.ErrInvalidInput
	}

	var product *entity.Product
	title := "Reporte de movimientos"
	filename = "movimientos.pdf"
	if productID != nil {
		product, err = uc.productRepo.GetByID(ctx, *productID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto: %w", err)
		}
		if product == nil {
			return nil, "", domain.ErrNotFound
		}
		title = "Movimientos de " + product.Name
		filename = fmt.Sprintf("movimientos_%s.pdf", product.SKU)
	}

	movs, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID, From: from, To: to})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: listar movimientos: %w", err)
	}

	rep := &MovementReport{
		Title:       title,
		GeneratedAt: time.Now(),
		Product:     product,
		Movements:   movs,
	}
	for _, m := range movs {
		if m.Type == entity.MovementTypeIN {
			rep.UnitsIn += m.Quantity
		} else {
			rep.UnitsOut += m.Quantity
		}
	}

	pdfBytes, err = uc.generator.GenerateMovementReport(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return pdfBytes, filename, nil
}
