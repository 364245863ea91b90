package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento en el historial de materia prima.
type MovementType string

// Tipos de movimiento.
const (
	MovementEntrada MovementType = "ENTRADA" // recepción, suma stock
	MovementSalida  MovementType = "SALIDA"  // consumo en tanda, resta stock
)

// Valid indica si t es un tipo conocido.
func (t MovementType) Valid() bool {
	return t == MovementEntrada || t == MovementSalida
}

// LedgerEntry registro inmutable de un movimiento con la foto del stock antes y después.
type LedgerEntry struct {
	ID            int64
	TransactionID string // agrupa los registros escritos en una misma transacción
	MaterialID    int64
	MaterialName  string // solo en lecturas
	OccurredAt    time.Time
	Type          MovementType
	Quantity      decimal.Decimal // siempre > 0
	UnitCost      decimal.Decimal
	Total         decimal.Decimal // Quantity × UnitCost
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	Reference     string
	BatchID       *int64
	User          string
	Note          string
}

// SignedQuantity cantidad con signo según el tipo (+ENTRADA, −SALIDA).
func (e *LedgerEntry) SignedQuantity() decimal.Decimal {
	if e.Type == MovementSalida {
		return e.Quantity.Neg()
	}
	return e.Quantity
}
