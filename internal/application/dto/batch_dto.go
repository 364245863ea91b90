package dto

import "github.com/shopspring/decimal"

// CreateBatchRequest body para POST /api/batches.
type CreateBatchRequest struct {
	Date             string          `json:"date" validate:"required,datetime=2006-01-02"`
	SequenceNumber   int             `json:"sequence_number" validate:"required,min=1"`
	ProductID        int64           `json:"product_id" validate:"required,min=1"`
	QuantityProduced decimal.Decimal `json:"quantity_produced"`
	UnitCount        int             `json:"unit_count" validate:"min=0"`
}

// UpdateBatchRequest body para PUT /api/batches/:id. La fecha no se modifica.
type UpdateBatchRequest struct {
	SequenceNumber   int             `json:"sequence_number" validate:"required,min=1"`
	ProductID        int64           `json:"product_id" validate:"required,min=1"`
	QuantityProduced decimal.Decimal `json:"quantity_produced"`
	UnitCount        int             `json:"unit_count" validate:"min=0"`
}

// BatchResponse tanda con su etiqueta.
type BatchResponse struct {
	ID               int64           `json:"id"`
	Date             string          `json:"date"`
	SequenceNumber   int             `json:"sequence_number"`
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Label            string          `json:"label"`
	QuantityProduced decimal.Decimal `json:"quantity_produced"`
	UnitCount        int             `json:"unit_count"`
}

// AssignMaterialRequest body para POST /api/batches/:id/materials.
type AssignMaterialRequest struct {
	MaterialID int64           `json:"material_id" validate:"required,min=1"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       string          `json:"note" validate:"max=500"`
}

// UsageResponse consumo de una materia prima en la tanda.
type UsageResponse struct {
	ID           int64           `json:"id"`
	MaterialID   int64           `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Total        decimal.Decimal `json:"total"`
}

// BatchUsageResponse consumos de una tanda con su costo total.
type BatchUsageResponse struct {
	Batch     BatchResponse   `json:"batch"`
	Items     []UsageResponse `json:"items"`
	TotalCost decimal.Decimal `json:"total_cost"`
	CostPerKg decimal.Decimal `json:"cost_per_kg"`
}

// DeleteBatchResponse tanda eliminada y entradas de reverso generadas.
type DeleteBatchResponse struct {
	BatchID   int64              `json:"batch_id"`
	Reversals []MovementResponse `json:"reversals"`
}
