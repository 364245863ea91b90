package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/pricing"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Workbook datos del libro de exportación, una lista por hoja.
type Workbook struct {
	GeneratedAt time.Time
	Materials   []dto.MaterialResponse
	Batches     []dto.BatchResponse
	Prices      *dto.PriceSheetResponse
	Ledger      []dto.LedgerRow
}

// WorkbookWriter serializa el libro (XLSX) en w.
type WorkbookWriter interface {
	WriteWorkbook(ctx context.Context, w io.Writer, wb *Workbook) error
}

// ExportUseCase reúne inventario, producción, precios e historial en un solo libro.
type ExportUseCase struct {
	materials repository.MaterialRepository
	batches   repository.BatchRepository
	pricing   *pricing.PricingUseCase
	reports   *ReportsUseCase
	writer    WorkbookWriter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	materials repository.MaterialRepository,
	batches repository.BatchRepository,
	pricing *pricing.PricingUseCase,
	reports *ReportsUseCase,
	writer WorkbookWriter,
) *ExportUseCase {
	return &ExportUseCase{materials: materials, batches: batches, pricing: pricing, reports: reports, writer: writer}
}

// Build arma el libro. La propuesta de precios se calcula para el día de now con el margen por defecto.
func (uc *ExportUseCase) Build(ctx context.Context, now time.Time) (*Workbook, error) {
	wb := &Workbook{GeneratedAt: now}

	materials, err := uc.materials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("exportar: materias primas: %w", err)
	}
	for _, m := range materials {
		wb.Materials = append(wb.Materials, usecase.ToMaterialResponse(m))
	}

	batches, err := uc.batches.ListByRange(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("exportar: tandas: %w", err)
	}
	for _, b := range batches {
		wb.Batches = append(wb.Batches, production.ToBatchResponse(b))
	}

	if wb.Prices, err = uc.pricing.PriceSheet(ctx, now, nil); err != nil {
		return nil, fmt.Errorf("exportar: precios: %w", err)
	}

	history, err := uc.reports.LedgerHistory(ctx, LedgerQuery{})
	if err != nil {
		return nil, fmt.Errorf("exportar: historial: %w", err)
	}
	wb.Ledger = history.Items
	return wb, nil
}

// Export arma el libro y lo escribe en w.
func (uc *ExportUseCase) Export(ctx context.Context, now time.Time, w io.Writer) error {
	wb, err := uc.Build(ctx, now)
	if err != nil {
		return err
	}
	return uc.writer.WriteWorkbook(ctx, w, wb)
}
