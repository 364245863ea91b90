package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agrega en Go las mismas consultas que el adaptador SQL.
type ReportRepo struct {
	do access
}

func (r *ReportRepo) DailyConsumption(_ context.Context, date time.Time) ([]repository.ConsumptionResult, error) {
	byMaterial := make(map[int64]*repository.ConsumptionResult)
	err := r.do(func(st *state) error {
		for _, u := range st.usage {
			b, ok := st.batches[u.BatchID]
			if !ok || !b.Date.Equal(date) {
				continue
			}
			row, ok := byMaterial[u.MaterialID]
			if !ok {
				m := st.materials[u.MaterialID]
				row = &repository.ConsumptionResult{
					MaterialID: u.MaterialID, MaterialName: m.Name, Unit: m.Unit,
					Quantity: decimal.Zero, Total: decimal.Zero,
				}
				byMaterial[u.MaterialID] = row
			}
			row.Quantity = row.Quantity.Add(u.QuantityUsed)
			row.Total = row.Total.Add(u.Total)
		}
		return nil
	})
	out := make([]repository.ConsumptionResult, 0, len(byMaterial))
	for _, row := range byMaterial {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialName < out[j].MaterialName })
	return out, err
}

func (r *ReportRepo) ProductionSummary(_ context.Context, from, to time.Time) ([]repository.ProductionResult, error) {
	byProduct := make(map[int64]*repository.ProductionResult)
	err := r.do(func(st *state) error {
		for _, b := range st.batches {
			if b.Date.Before(from) || !b.Date.Before(to) {
				continue
			}
			row, ok := byProduct[b.ProductID]
			if !ok {
				row = &repository.ProductionResult{
					ProductID: b.ProductID, ProductName: st.products[b.ProductID].Name, Kilos: decimal.Zero,
				}
				byProduct[b.ProductID] = row
			}
			row.Batches++
			row.Kilos = row.Kilos.Add(b.QuantityProduced)
			row.Units += b.UnitCount
		}
		return nil
	})
	out := make([]repository.ProductionResult, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Kilos.Cmp(out[j].Kilos); c != 0 {
			return c > 0
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, err
}

func (r *ReportRepo) BatchCosts(_ context.Context) ([]repository.BatchCostResult, error) {
	var out []repository.BatchCostResult
	err := r.do(func(st *state) error {
		totals := make(map[int64]decimal.Decimal)
		for _, u := range st.usage {
			totals[u.BatchID] = totals[u.BatchID].Add(u.Total)
		}
		for id, b := range st.batches {
			total, ok := totals[id]
			if !ok || !b.QuantityProduced.IsPositive() {
				continue
			}
			out = append(out, repository.BatchCostResult{
				BatchID:          id,
				ProductID:        b.ProductID,
				ProductName:      st.products[b.ProductID].Name,
				QuantityProduced: b.QuantityProduced,
				MaterialsCost:    total,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BatchID < out[j].BatchID })
	return out, err
}
