package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// Movement resultado de aplicar una entrada o salida sobre el estado de una materia prima.
type Movement struct {
	Type        entity.MovementType
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal // costo del registro en el historial
	Total       decimal.Decimal
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	CostBefore  decimal.Decimal
	CostAfter   decimal.Decimal // nuevo costo promedio del material
}

// Receive calcula una entrada de q unidades a unitCost sobre el material m.
func Receive(m *entity.Material, q, unitCost decimal.Decimal) Movement {
	return Movement{
		Type:        entity.MovementEntrada,
		Quantity:    q,
		UnitCost:    unitCost,
		Total:       q.Mul(unitCost),
		StockBefore: m.Stock,
		StockAfter:  m.Stock.Add(q),
		CostBefore:  m.UnitCost,
		CostAfter:   WeightedAverageCost(m.Stock, m.UnitCost, q, unitCost),
	}
}

// Consume calcula una salida de q unidades al costo promedio vigente.
// Devuelve *domain.InsufficientStockError si q supera el stock.
func Consume(m *entity.Material, q decimal.Decimal) (Movement, error) {
	if q.GreaterThan(m.Stock) {
		return Movement{}, &domain.InsufficientStockError{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			Requested:    q,
			Available:    m.Stock,
		}
	}
	return Movement{
		Type:        entity.MovementSalida,
		Quantity:    q,
		UnitCost:    m.UnitCost,
		Total:       q.Mul(m.UnitCost),
		StockBefore: m.Stock,
		StockAfter:  m.Stock.Sub(q),
		CostBefore:  m.UnitCost,
		CostAfter:   m.UnitCost,
	}, nil
}
