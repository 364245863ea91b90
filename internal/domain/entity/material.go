package entity

import "github.com/shopspring/decimal"

// DefaultUnit unidad por defecto de materias primas y productos.
const DefaultUnit = "kg"

// Material materia prima con stock actual y costo promedio ponderado.
// Stock y UnitCost solo los modifica el motor de costeo; nunca se borra.
type Material struct {
	ID       int64
	Name     string // único
	Unit     string
	Stock    decimal.Decimal
	UnitCost decimal.Decimal
}

// Value valor del inventario a costo promedio (stock × costo).
func (m *Material) Value() decimal.Decimal {
	return m.Stock.Mul(m.UnitCost)
}
