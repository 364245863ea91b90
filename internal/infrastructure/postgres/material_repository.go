package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, name, unit, stock, unit_cost`

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.Stock, &m.UnitCost); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta la materia prima y asigna m.ID. Nombre repetido => domain.ErrDuplicate.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (name, unit, stock, unit_cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, m.Name, m.Unit, m.Stock, m.UnitCost).Scan(&m.ID)
	return mapError("create material", err)
}

func (r *MaterialRepo) get(ctx context.Context, query string, id int64) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get material", err)
	}
	return m, nil
}

// GetByID devuelve nil, nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetForUpdate obtiene la materia prima y bloquea la fila (SELECT FOR UPDATE).
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1 FOR UPDATE`, id)
}

// List ordenado por nombre.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY name`)
	if err != nil {
		return nil, mapError("list materials", err)
	}
	defer rows.Close()

	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, mapError("list materials", rows.Err())
}

// UpdateStock fija stock y costo unitario. domain.ErrNotFound si la fila no existe.
func (r *MaterialRepo) UpdateStock(ctx context.Context, id int64, stock, unitCost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE materials SET stock = $2, unit_cost = $3 WHERE id = $1`, id, stock, unitCost)
	if err != nil {
		return mapError("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("materia prima %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
