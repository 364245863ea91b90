package repository

import (
	"context"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// DailyPriceRepository puerto de precios de venta por día.
type DailyPriceRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]*entity.DailyPrice, error)
	// ReplaceDay borra los precios del día y guarda prices. Debe correr dentro de una transacción.
	ReplaceDay(ctx context.Context, date time.Time, prices []*entity.DailyPrice) error
}
