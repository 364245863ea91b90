package dto

import "github.com/shopspring/decimal"

// DailyPriceItem precio de venta de una referencia.
type DailyPriceItem struct {
	ProductID int64           `json:"product_id" validate:"required,min=1"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// SetDailyPricesRequest body para PUT /api/prices/:date (reemplaza el día completo).
type SetDailyPricesRequest struct {
	Prices []DailyPriceItem `json:"prices" validate:"dive"`
}

// PriceSheetRow fila de la propuesta de precios.
type PriceSheetRow struct {
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name"`
	CostPerKg      decimal.Decimal `json:"cost_per_kg"`
	Margin         decimal.Decimal `json:"margin"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
}

// PriceSheetResponse propuesta de precios de un día.
type PriceSheetResponse struct {
	Date   string          `json:"date"`
	Margin decimal.Decimal `json:"margin"`
	Rows   []PriceSheetRow `json:"rows"`
}
