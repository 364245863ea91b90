// Package excel escribe el libro de exportación en formato XLSX.
package excel

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/produccion-api/internal/application/reports"
)

// Nombres de las hojas del libro.
const (
	SheetInventory  = "Inventario MP"
	SheetProduction = "Chorizos Hechos"
	SheetPrices     = "Propuesta de Precios"
	SheetLedger     = "Historial de Movimientos"
)

var _ reports.WorkbookWriter = (*WorkbookWriter)(nil)

// WorkbookWriter implementa reports.WorkbookWriter con excelize.
type WorkbookWriter struct{}

// NewWorkbookWriter construye el escritor.
func NewWorkbookWriter() *WorkbookWriter { return &WorkbookWriter{} }

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteWorkbook escribe las cuatro hojas en w. Los montos se guardan como número.
func (ww *WorkbookWriter) WriteWorkbook(_ context.Context, w io.Writer, wb *reports.Workbook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}

	for i, s := range sheets(wb) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("excel: hoja %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("excel: hoja %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			return fmt.Errorf("excel: hoja %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, boldStyle int) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, boldStyle); err != nil {
		return err
	}

	widths := make([]int, len(s.header))
	for i, h := range s.header {
		widths[i] = cellWidth(h)
	}
	for i, r := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := r
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
		for j, v := range r {
			if w := cellWidth(v); j < len(widths) && w > widths[j] {
				widths[j] = w
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

func cellWidth(v interface{}) int {
	return utf8.RuneCountInString(fmt.Sprint(v))
}

func sheets(wb *reports.Workbook) []sheet {
	inventory := sheet{
		name:   SheetInventory,
		header: []interface{}{"Nombre", "Unidad", "Stock", "Costo Unit.", "Valor Total"},
	}
	for _, m := range wb.Materials {
		inventory.rows = append(inventory.rows, []interface{}{
			m.Name, m.Unit, m.Stock.InexactFloat64(), m.UnitCost.Round(2).InexactFloat64(), m.Value.Round(2).InexactFloat64(),
		})
	}

	production := sheet{
		name:   SheetProduction,
		header: []interface{}{"Fecha", "Tipo", "Tanda #", "Kilos", "Unidades"},
	}
	for _, b := range wb.Batches {
		production.rows = append(production.rows, []interface{}{
			b.Date, b.ProductName, b.SequenceNumber, b.QuantityProduced.InexactFloat64(), b.UnitCount,
		})
	}

	prices := sheet{
		name:   SheetPrices,
		header: []interface{}{"Referencia", "Costo/Kg", "Margen", "Precio Sugerido"},
	}
	if wb.Prices != nil {
		for _, p := range wb.Prices.Rows {
			prices.rows = append(prices.rows, []interface{}{
				p.ProductName, p.CostPerKg.Round(2).InexactFloat64(), p.Margin.String() + "%", p.SuggestedPrice.Round(2).InexactFloat64(),
			})
		}
	}

	ledger := sheet{
		name:   SheetLedger,
		header: []interface{}{"Fecha", "Hora", "Insumo", "Tipo", "Cantidad", "Stock Resultante", "Referencia"},
	}
	for _, e := range wb.Ledger {
		ledger.rows = append(ledger.rows, []interface{}{
			e.Date, e.Time, e.MaterialName, e.MovementType, e.Quantity.InexactFloat64(), e.StockAfter.InexactFloat64(), e.Reference,
		})
	}

	return []sheet{inventory, production, prices, ledger}
}
