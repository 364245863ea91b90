package dto

import "github.com/shopspring/decimal"

// ConsumptionRow consumo agregado de una materia prima.
type ConsumptionRow struct {
	MaterialID   int64           `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
}

// DailyConsumptionResponse consumo de materias primas de un día.
type DailyConsumptionResponse struct {
	Date      string           `json:"date"`
	Items     []ConsumptionRow `json:"items"`
	TotalCost decimal.Decimal  `json:"total_cost"`
}

// ProductionRow producción agregada de una referencia.
type ProductionRow struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Batches     int             `json:"batches"`
	Kilos       decimal.Decimal `json:"kilos"`
	Units       int             `json:"units"`
}

// ProductionResponse producción del período [from, to).
type ProductionResponse struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Items        []ProductionRow `json:"items"`
	TotalBatches int             `json:"total_batches"`
	TotalKilos   decimal.Decimal `json:"total_kilos"`
	TotalUnits   int             `json:"total_units"`
}

// LedgerRow registro del historial de movimientos.
type LedgerRow struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	MaterialID    int64           `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Total         decimal.Decimal `json:"total"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	Reference     string          `json:"reference"`
	BatchID       *int64          `json:"batch_id,omitempty"`
	User          string          `json:"user,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// LedgerHistoryResponse historial filtrado con totales por tipo.
type LedgerHistoryResponse struct {
	Items         []LedgerRow     `json:"items"`
	TotalEntradas decimal.Decimal `json:"total_entradas"`
	TotalSalidas  decimal.Decimal `json:"total_salidas"`
	Balance       decimal.Decimal `json:"balance"`
}
