package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var (
	_ repository.BatchRepository      = (*BatchRepo)(nil)
	_ repository.BatchUsageRepository = (*BatchUsageRepo)(nil)
)

// BatchRepo tandas de producción.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchSelect = `
	SELECT b.id, b.date, b.sequence_number, b.product_id, p.name, b.quantity_produced, b.unit_count
	FROM batches b
	JOIN products p ON p.id = b.product_id`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	if err := row.Scan(&b.ID, &b.Date, &b.SequenceNumber, &b.ProductID, &b.ProductName, &b.QuantityProduced, &b.UnitCount); err != nil {
		return nil, err
	}
	b.Date = entity.DateOnly(b.Date)
	return &b, nil
}

// Create inserta la tanda. (fecha, número, referencia) repetido => domain.ErrDuplicateBatch.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (date, sequence_number, product_id, quantity_produced, unit_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, b.Date, b.SequenceNumber, b.ProductID, b.QuantityProduced, b.UnitCount).Scan(&b.ID)
	return mapError("create batch", err)
}

func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE batches
		SET date = $2, sequence_number = $3, product_id = $4, quantity_produced = $5, unit_count = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.Date, b.SequenceNumber, b.ProductID, b.QuantityProduced, b.UnitCount)
	if err != nil {
		return mapError("update batch", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tanda %d: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *BatchRepo) get(ctx context.Context, query string, id int64) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get batch", err)
	}
	return b, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id int64) (*entity.Batch, error) {
	return r.get(ctx, batchSelect+` WHERE b.id = $1`, id)
}

// GetForUpdate bloquea solo la fila de la tanda.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	return r.get(ctx, batchSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id)
}

// ListByRange tandas con fecha en [from, to), ordenadas por fecha, número de tanda y referencia.
func (r *BatchRepo) ListByRange(ctx context.Context, from, to *time.Time) ([]*entity.Batch, error) {
	var (
		where []string
		args  []any
	)
	if from != nil {
		args = append(args, *from)
		where = append(where, fmt.Sprintf("b.date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		where = append(where, fmt.Sprintf("b.date < $%d", len(args)))
	}
	query := batchSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.date, b.sequence_number, b.product_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list batches", err)
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, mapError("list batches", rows.Err())
}

// Delete elimina la tanda; sus consumos caen por ON DELETE CASCADE.
func (r *BatchRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return mapError("delete batch", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tanda %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// BatchUsageRepo consumos de materias primas por tanda.
type BatchUsageRepo struct {
	q Querier
}

// NewBatchUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchUsageRepository(q Querier) *BatchUsageRepo {
	return &BatchUsageRepo{q: q}
}

func (r *BatchUsageRepo) Create(ctx context.Context, u *entity.BatchMaterialUsage) error {
	query := `
		INSERT INTO batch_material_usage (batch_id, material_id, quantity_used, unit_cost, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, u.BatchID, u.MaterialID, u.QuantityUsed, u.UnitCost, u.Total).Scan(&u.ID)
	return mapError("create usage", err)
}

// ListByBatch en orden de asignación.
func (r *BatchUsageRepo) ListByBatch(ctx context.Context, batchID int64) ([]*entity.BatchMaterialUsage, error) {
	query := `
		SELECT u.id, u.batch_id, u.material_id, m.name, m.unit, u.quantity_used, u.unit_cost, u.total
		FROM batch_material_usage u
		JOIN materials m ON m.id = u.material_id
		WHERE u.batch_id = $1
		ORDER BY u.id`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, mapError("list usage", err)
	}
	defer rows.Close()

	var out []*entity.BatchMaterialUsage
	for rows.Next() {
		var u entity.BatchMaterialUsage
		if err := rows.Scan(&u.ID, &u.BatchID, &u.MaterialID, &u.MaterialName, &u.MaterialUnit,
			&u.QuantityUsed, &u.UnitCost, &u.Total); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, &u)
	}
	return out, mapError("list usage", rows.Err())
}

func (r *BatchUsageRepo) DeleteByBatch(ctx context.Context, batchID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM batch_material_usage WHERE batch_id = $1`, batchID)
	return mapError("delete usage", err)
}
