package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Batch tanda de producción. Única por (Date, SequenceNumber, ProductID).
type Batch struct {
	ID               int64
	Date             time.Time // día calendario (UTC 00:00)
	SequenceNumber   int
	ProductID        int64
	ProductName      string // solo en lecturas
	QuantityProduced decimal.Decimal
	UnitCount        int
}

// Label etiqueta usada en referencias del historial, ej. "Chorizo Mediano - T2".
func (b *Batch) Label() string {
	return BatchLabel(b.ProductName, b.SequenceNumber)
}

// BatchLabel arma la etiqueta "<producto> - T<n>".
func BatchLabel(productName string, sequence int) string {
	return fmt.Sprintf("%s - T%d", productName, sequence)
}

// BatchMaterialUsage consumo de una materia prima en una tanda (una fila por asignación).
type BatchMaterialUsage struct {
	ID           int64
	BatchID      int64
	MaterialID   int64
	MaterialName string // solo en lecturas
	MaterialUnit string // solo en lecturas
	QuantityUsed decimal.Decimal
	UnitCost     decimal.Decimal // copiado del costo promedio al momento del consumo
	Total        decimal.Decimal
}
