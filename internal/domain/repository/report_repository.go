package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionResult consumo agregado de una materia prima.
type ConsumptionResult struct {
	MaterialID   int64
	MaterialName string
	Unit         string
	Quantity     decimal.Decimal
	Total        decimal.Decimal
}

// ProductionResult producción agregada de una referencia.
type ProductionResult struct {
	ProductID   int64
	ProductName string
	Batches     int
	Kilos       decimal.Decimal
	Units       int
}

// BatchCostResult costo de materias primas de una tanda con cantidad producida > 0.
type BatchCostResult struct {
	BatchID          int64
	ProductID        int64
	ProductName      string
	QuantityProduced decimal.Decimal
	MaterialsCost    decimal.Decimal
}

// ReportRepository consultas de solo lectura para los reportes de producción.
type ReportRepository interface {
	// DailyConsumption suma lo consumido por materia prima en las tandas del día.
	DailyConsumption(ctx context.Context, date time.Time) ([]ConsumptionResult, error)
	// ProductionSummary agrupa por referencia las tandas con fecha en [from, to), ordenado por kilos desc.
	ProductionSummary(ctx context.Context, from, to time.Time) ([]ProductionResult, error)
	// BatchCosts devuelve una fila por tanda con producción > 0 y al menos un consumo.
	BatchCosts(ctx context.Context) ([]BatchCostResult, error)
}
