package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo historial de movimientos (solo inserción).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerSelect = `
	SELECT l.id, l.transaction_id::text, l.material_id, m.name, l.occurred_at, l.movement_type,
	       l.quantity, l.unit_cost, l.total, l.stock_before, l.stock_after,
	       l.reference, l.batch_id, COALESCE(l."user", ''), l.note
	FROM ledger l
	JOIN materials m ON m.id = l.material_id`

func scanLedger(rows pgx.Rows) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var movementType string
	err := rows.Scan(&e.ID, &e.TransactionID, &e.MaterialID, &e.MaterialName, &e.OccurredAt, &movementType,
		&e.Quantity, &e.UnitCost, &e.Total, &e.StockBefore, &e.StockAfter,
		&e.Reference, &e.BatchID, &e.User, &e.Note)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	e.Type = entity.MovementType(movementType)
	e.OccurredAt = e.OccurredAt.UTC()
	return &e, nil
}

// Append inserta el registro y asigna entry.ID.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if !e.Type.Valid() {
		return fmt.Errorf("tipo de movimiento %q: %w", e.Type, domain.ErrIntegrity)
	}
	query := `
		INSERT INTO ledger (transaction_id, occurred_at, material_id, movement_type, quantity, unit_cost,
		                    total, stock_before, stock_after, reference, batch_id, "user", note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.TransactionID, e.OccurredAt, e.MaterialID, string(e.Type), e.Quantity, e.UnitCost,
		e.Total, e.StockBefore, e.StockAfter, e.Reference, e.BatchID, e.User, e.Note,
	).Scan(&e.ID)
	return mapError("append ledger", err)
}

// ListByMaterial historial completo en el orden en que se aplicó. El id sale de la
// secuencia al insertar, con la fila del material bloqueada (FOR UPDATE).
func (r *LedgerRepo) ListByMaterial(ctx context.Context, materialID int64) ([]*entity.LedgerEntry, error) {
	return r.list(ctx, ledgerSelect+` WHERE l.material_id = $1 ORDER BY l.id`, materialID)
}

// Search registros filtrados, del más reciente al más antiguo.
func (r *LedgerRepo) Search(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.MaterialID != nil {
		add("l.material_id = $%d", *f.MaterialID)
	}
	if f.Type != "" {
		add("l.movement_type = $%d", string(f.Type))
	}
	if f.From != nil {
		add("l.occurred_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("l.occurred_at < $%d", *f.To)
	}

	query := ledgerSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY l.occurred_at DESC, l.id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.list(ctx, query, args...)
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list ledger", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, mapError("list ledger", rows.Err())
}
