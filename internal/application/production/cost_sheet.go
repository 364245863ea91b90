package production

import (
	"context"
	"fmt"

	"github.com/jhoicas/produccion-api/internal/application/dto"
)

// CostSheetRenderer genera la hoja de costos de una tanda (PDF).
type CostSheetRenderer interface {
	RenderCostSheet(ctx context.Context, sheet *dto.BatchUsageResponse) ([]byte, error)
}

// CostSheetUseCase arma la hoja de costos imprimible de una tanda.
type CostSheetUseCase struct {
	consumption *ConsumptionUseCase
	renderer    CostSheetRenderer
}

// NewCostSheetUseCase construye el caso de uso.
func NewCostSheetUseCase(consumption *ConsumptionUseCase, renderer CostSheetRenderer) *CostSheetUseCase {
	return &CostSheetUseCase{consumption: consumption, renderer: renderer}
}

// CostSheet devuelve el documento y su nombre de archivo.
// domain.ErrNotFound si la tanda no existe.
func (uc *CostSheetUseCase) CostSheet(ctx context.Context, batchID int64) (doc []byte, filename string, err error) {
	sheet, err := uc.consumption.ListUsage(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	doc, err = uc.renderer.RenderCostSheet(ctx, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de costos: %w", err)
	}
	filename = fmt.Sprintf("tanda_%s_T%d.pdf", sheet.Batch.Date, sheet.Batch.SequenceNumber)
	return doc, filename, nil
}
