// Package pdf genera la hoja de costos de una tanda con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Etiqueta de la tanda  │  Fecha + kilos + unidades  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Materia prima | Cantidad | Costo unit. | Total      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Costo de materias primas / Costo por kilo         │
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

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/pkg/format"
)

var _ production.CostSheetRenderer = (*CostSheetGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 122, Green: 30, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// CostSheetGenerator implementa production.CostSheetRenderer.
type CostSheetGenerator struct {
	company string
}

// NewCostSheetGenerator construye el generador; company aparece como autor del documento.
func NewCostSheetGenerator(company string) *CostSheetGenerator {
	return &CostSheetGenerator{company: company}
}

// RenderCostSheet genera el PDF y devuelve sus bytes.
func (g *CostSheetGenerator) RenderCostSheet(_ context.Context, sheet *dto.BatchUsageResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costos "+sheet.Batch.Label, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sheet.Batch, g.company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(usageRows(sheet.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(sheet)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(b dto.BatchResponse, company string) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(b.Label, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(company, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+b.Date, props.Text{Size: 8, Align: align.Right, Top: 7}),
			text.New(fmt.Sprintf("Producido: %s kg   |   %d unidades", format.Kilos(b.QuantityProduced), b.UnitCount),
				props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Materia prima", 5, align.Left),
		h("Cantidad", 2, align.Right),
		h("Costo unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func usageRows(items []dto.UsageResponse) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, u := range items {
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(u.MaterialName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(format.Kilos(u.QuantityUsed)+" "+u.Unit,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(format.Money(u.UnitCost),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(format.Money(u.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	if len(items) == 0 {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Sin materias primas asignadas", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	return rows
}

func totalsRows(sheet *dto.BatchUsageResponse) []core.Row {
	total := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary})),
		)
	}
	return []core.Row{
		total("Costo materias primas:", format.Money(sheet.TotalCost)),
		total("Costo por kilo:", format.Money(sheet.CostPerKg)),
	}
}
