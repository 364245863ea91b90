package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.DailyPriceRepository = (*DailyPriceRepo)(nil)

// DailyPriceRepo precios por día en memoria.
type DailyPriceRepo struct {
	do access
}

func (r *DailyPriceRepo) ListByDate(_ context.Context, date time.Time) ([]*entity.DailyPrice, error) {
	var out []*entity.DailyPrice
	err := r.do(func(st *state) error {
		for _, p := range st.prices[date.Format(entity.DateLayout)] {
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *DailyPriceRepo) ReplaceDay(_ context.Context, date time.Time, prices []*entity.DailyPrice) error {
	return r.do(func(st *state) error {
		day := make([]*entity.DailyPrice, 0, len(prices))
		seen := make(map[int64]bool, len(prices))
		for _, p := range prices {
			if _, ok := st.products[p.ProductID]; !ok {
				return fmt.Errorf("producto %d: %w", p.ProductID, domain.ErrNotFound)
			}
			if seen[p.ProductID] {
				return domain.ErrDuplicate
			}
			seen[p.ProductID] = true
			cp := *p
			cp.Date = date
			day = append(day, &cp)
		}
		st.prices[date.Format(entity.DateLayout)] = day
		return nil
	})
}
