package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// ConsumptionUseCase asigna materias primas a tandas a través del motor de costeo.
type ConsumptionUseCase struct {
	engine  *inventory.CostingEngine
	batches repository.BatchRepository
	usage   repository.BatchUsageRepository
}

// NewConsumptionUseCase construye el caso de uso.
func NewConsumptionUseCase(
	engine *inventory.CostingEngine,
	batches repository.BatchRepository,
	usage repository.BatchUsageRepository,
) *ConsumptionUseCase {
	return &ConsumptionUseCase{engine: engine, batches: batches, usage: usage}
}

// AssignMaterial descuenta quantity de la materia prima y lo registra como consumo de la tanda.
// Cada llamada agrega una fila de consumo; no se agrupan asignaciones repetidas.
func (uc *ConsumptionUseCase) AssignMaterial(ctx context.Context, batchID int64, in dto.AssignMaterialRequest, user string) (*inventory.MovementResult, error) {
	b, err := uc.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("tanda %d: %w", batchID, domain.ErrNotFound)
	}
	return uc.engine.ConsumeStock(ctx, inventory.ConsumptionInput{
		MaterialID: in.MaterialID,
		BatchID:    b.ID,
		Quantity:   in.Quantity,
		Reference:  "Usado en " + b.Label(),
		Note:       in.Note,
		User:       user,
	})
}

// ListUsage consumos de la tanda con costo total y costo por kilo producido.
func (uc *ConsumptionUseCase) ListUsage(ctx context.Context, batchID int64) (*dto.BatchUsageResponse, error) {
	b, err := uc.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("tanda %d: %w", batchID, domain.ErrNotFound)
	}
	usage, err := uc.usage.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return BuildUsageResponse(b, usage), nil
}

// BuildUsageResponse arma el resumen de consumos de una tanda.
func BuildUsageResponse(b *entity.Batch, usage []*entity.BatchMaterialUsage) *dto.BatchUsageResponse {
	resp := &dto.BatchUsageResponse{
		Batch:     ToBatchResponse(b),
		Items:     make([]dto.UsageResponse, 0, len(usage)),
		TotalCost: decimal.Zero,
		CostPerKg: decimal.Zero,
	}
	for _, u := range usage {
		resp.Items = append(resp.Items, dto.UsageResponse{
			ID:           u.ID,
			MaterialID:   u.MaterialID,
			MaterialName: u.MaterialName,
			Unit:         u.MaterialUnit,
			QuantityUsed: u.QuantityUsed,
			UnitCost:     u.UnitCost,
			Total:        u.Total,
		})
		resp.TotalCost = resp.TotalCost.Add(u.Total)
	}
	if b.QuantityProduced.IsPositive() {
		resp.CostPerKg = resp.TotalCost.Div(b.QuantityProduced)
	}
	return resp
}
