// Package pdf genera el reporte de movimientos del ledger con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte      │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: SKU / stock / mínimo (solo si se filtró)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Fecha | Producto | Tipo | Cant | Stock | Nota   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Neto                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorIn      = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorOut     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ report.MovementReportGenerator = (*MarotoReportGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.MovementReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	printer *message.Printer
	author  string
}

// NewMarotoReportGenerator construye el generador. Los números se formatean en es-CO (1.234).
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{
		printer: message.NewPrinter(language.MustParse("es-CO")),
		author:  author,
	}
}

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementReport(_ context.Context, rep *report.MovementReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(rep.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if rep.Product != nil {
		m.AddRows(g.productRow(rep.Product))
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(tableHeaderRow())
	if len(rep.Movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el rango seleccionado", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(g.tableDetailRows(rep.Movements)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReportGenerator) headerRow(rep *report.MovementReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(rep.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.printer.Sprintf("%d movimientos", len(rep.Movements)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoReportGenerator) productRow(p *entity.Product) core.Row {
	status := "Stock normal"
	if p.IsLow() {
		status = "STOCK BAJO"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(g.printer.Sprintf("SKU: %s   |   Stock: %d   |   Mínimo: %d   |   Inicial: %d   |   %s",
				p.SKU, p.Stock, p.MinStock, p.InitialStock, status,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Fecha", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Stock", 1, align.Right),
		h("Nota", 3, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por movimiento, en el orden del ledger.
func (g *MarotoReportGenerator) tableDetailRows(movs []*entity.Movement) []core.Row {
	result := make([]core.Row, 0, len(movs))
	for _, mv := range movs {
		typeColor, sign := colorIn, "+"
		if mv.Type == entity.MovementTypeOUT {
			typeColor, sign = colorOut, "-"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(g.printer.Sprintf("%d", mv.ID), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(mv.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(mv.ProductName, fmt.Sprintf("#%d", mv.ProductID)), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(mv.Type, props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold, Color: typeColor})),
			col.New(1).Add(text.New(sign+g.printer.Sprintf("%d", mv.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(g.printer.Sprintf("%d", mv.StockAfter), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(mv.Note, "—"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return result
}

// totalsRow: entradas, salidas y neto alineados a la derecha.
func (g *MarotoReportGenerator) totalsRow(rep *report.MovementReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:"),
			label("Salidas:"),
			text.New("NETO:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}),
		),
		col.New(3).Add(
			value(g.printer.Sprintf("%d", rep.UnitsIn)),
			value(g.printer.Sprintf("%d", rep.UnitsOut)),
			text.New(g.printer.Sprintf("%d", rep.UnitsIn-rep.UnitsOut), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
