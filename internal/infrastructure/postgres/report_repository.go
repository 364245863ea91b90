package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados en SQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) DailyConsumption(ctx context.Context, date time.Time) ([]repository.ConsumptionResult, error) {
	query := `
		SELECT m.id, m.name, m.unit, SUM(u.quantity_used), SUM(u.total)
		FROM batch_material_usage u
		JOIN batches b ON b.id = u.batch_id
		JOIN materials m ON m.id = u.material_id
		WHERE b.date = $1
		GROUP BY m.id, m.name, m.unit
		ORDER BY m.name`
	rows, err := r.q.Query(ctx, query, date)
	if err != nil {
		return nil, mapError("daily consumption", err)
	}
	defer rows.Close()

	var out []repository.ConsumptionResult
	for rows.Next() {
		var c repository.ConsumptionResult
		if err := rows.Scan(&c.MaterialID, &c.MaterialName, &c.Unit, &c.Quantity, &c.Total); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		out = append(out, c)
	}
	return out, mapError("daily consumption", rows.Err())
}

func (r *ReportRepo) ProductionSummary(ctx context.Context, from, to time.Time) ([]repository.ProductionResult, error) {
	query := `
		SELECT p.id, p.name, COUNT(*), SUM(b.quantity_produced), SUM(b.unit_count)
		FROM batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.date >= $1 AND b.date < $2
		GROUP BY p.id, p.name
		ORDER BY SUM(b.quantity_produced) DESC, p.name`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, mapError("production summary", err)
	}
	defer rows.Close()

	var out []repository.ProductionResult
	for rows.Next() {
		var p repository.ProductionResult
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Batches, &p.Kilos, &p.Units); err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		out = append(out, p)
	}
	return out, mapError("production summary", rows.Err())
}

// BatchCosts una fila por tanda con producción > 0 y al menos un consumo.
func (r *ReportRepo) BatchCosts(ctx context.Context) ([]repository.BatchCostResult, error) {
	query := `
		SELECT b.id, b.product_id, p.name, b.quantity_produced, SUM(u.total)
		FROM batches b
		JOIN products p ON p.id = b.product_id
		JOIN batch_material_usage u ON u.batch_id = b.id
		WHERE b.quantity_produced > 0
		GROUP BY b.id, b.product_id, p.name, b.quantity_produced
		ORDER BY b.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("batch costs", err)
	}
	defer rows.Close()

	var out []repository.BatchCostResult
	for rows.Next() {
		var c repository.BatchCostResult
		if err := rows.Scan(&c.BatchID, &c.ProductID, &c.ProductName, &c.QuantityProduced, &c.MaterialsCost); err != nil {
			return nil, fmt.Errorf("scan batch cost: %w", err)
		}
		out = append(out, c)
	}
	return out, mapError("batch costs", rows.Err())
}
