package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Límites del margen de ganancia en porcentaje.
var (
	MinMargin     = decimal.Zero
	MaxMargin     = decimal.NewFromInt(500)
	DefaultMargin = decimal.NewFromInt(30)
)

var hundred = decimal.NewFromInt(100)

// SuggestedPrice precio sugerido = costo/kg × (1 + margen/100).
func SuggestedPrice(costPerKg, marginPct decimal.Decimal) decimal.Decimal {
	return costPerKg.Mul(decimal.NewFromInt(1).Add(marginPct.Div(hundred)))
}

// AverageCostPerKg promedia por referencia el costo por kilo de cada tanda
// (costo de materias primas / kilos producidos). Tandas sin kilos se ignoran.
func AverageCostPerKg(rows []repository.BatchCostResult) map[int64]decimal.Decimal {
	sums := make(map[int64]decimal.Decimal)
	counts := make(map[int64]int64)
	for _, r := range rows {
		if !r.QuantityProduced.IsPositive() {
			continue
		}
		sums[r.ProductID] = sums[r.ProductID].Add(r.MaterialsCost.Div(r.QuantityProduced))
		counts[r.ProductID]++
	}
	out := make(map[int64]decimal.Decimal, len(sums))
	for id, s := range sums {
		out[id] = s.Div(decimal.NewFromInt(counts[id]))
	}
	return out
}
