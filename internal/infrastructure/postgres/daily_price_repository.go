package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.DailyPriceRepository = (*DailyPriceRepo)(nil)

// DailyPriceRepo precios de venta por día y referencia.
type DailyPriceRepo struct {
	q Querier
}

// NewDailyPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDailyPriceRepository(q Querier) *DailyPriceRepo {
	return &DailyPriceRepo{q: q}
}

func (r *DailyPriceRepo) ListByDate(ctx context.Context, date time.Time) ([]*entity.DailyPrice, error) {
	rows, err := r.q.Query(ctx, `SELECT date, product_id, sale_price FROM daily_price WHERE date = $1 ORDER BY product_id`, date)
	if err != nil {
		return nil, mapError("list daily prices", err)
	}
	defer rows.Close()

	var out []*entity.DailyPrice
	for rows.Next() {
		var p entity.DailyPrice
		if err := rows.Scan(&p.Date, &p.ProductID, &p.SalePrice); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		p.Date = entity.DateOnly(p.Date)
		out = append(out, &p)
	}
	return out, mapError("list daily prices", rows.Err())
}

// ReplaceDay borra el día y reinserta prices en un solo lote. Llamar dentro de TxRunner.Run.
func (r *DailyPriceRepo) ReplaceDay(ctx context.Context, date time.Time, prices []*entity.DailyPrice) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM daily_price WHERE date = $1`, date)
	for _, p := range prices {
		batch.Queue(`INSERT INTO daily_price (date, product_id, sale_price) VALUES ($1, $2, $3)`, date, p.ProductID, p.SalePrice)
	}

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapError("replace daily prices", err)
		}
	}
	return mapError("replace daily prices", br.Close())
}
