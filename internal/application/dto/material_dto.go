package dto

import "github.com/shopspring/decimal"

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	Name string `json:"name" validate:"required,max=120"`
	Unit string `json:"unit" validate:"omitempty,max=20"`
}

// MaterialResponse materia prima con su valor a costo promedio.
type MaterialResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Stock    decimal.Decimal `json:"stock"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Value    decimal.Decimal `json:"value"`
}

// ReceiveStockRequest body para POST /api/materials/:id/receipts.
// Quantity y UnitCost se validan (> 0) en el motor de costeo.
type ReceiveStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Note     string          `json:"note" validate:"max=500"`
}

// MovementResponse resultado de una entrada o salida confirmada.
type MovementResponse struct {
	MaterialID    int64           `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	CostBefore    decimal.Decimal `json:"unit_cost_before"`
	CostAfter     decimal.Decimal `json:"unit_cost_after"`
	LedgerEntryID int64           `json:"ledger_entry_id"`
	TransactionID string          `json:"transaction_id"`
}

// AuditResponse reconstrucción del stock desde el historial.
type AuditResponse struct {
	MaterialID    int64           `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	ReplayedStock decimal.Decimal `json:"replayed_stock"`
	Entries       int             `json:"entries"`
	Consistent    bool            `json:"consistent"`
	BrokenEntryID *int64          `json:"broken_entry_id,omitempty"`
	BrokenReason  string          `json:"broken_reason,omitempty"`
}
