package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyPrice precio de venta fijado por el operador para un producto en un día.
type DailyPrice struct {
	Date      time.Time
	ProductID int64
	SalePrice decimal.Decimal
}
