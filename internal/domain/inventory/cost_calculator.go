package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo unitario después de recibir qty a unitCost sobre un stock
// valorizado a cost:
//
//	(stock*cost + qty*unitCost) / (stock + qty)
//
// Sin stock previo (stock <= 0) el costo es el de la entrada; el valor de un stock
// agotado no se arrastra al nuevo promedio.
func WeightedAverageCost(stock, cost, qty, unitCost decimal.Decimal) decimal.Decimal {
	if !stock.IsPositive() {
		return unitCost
	}
	value := stock.Mul(cost).Add(qty.Mul(unitCost))
	return value.Div(stock.Add(qty))
}
