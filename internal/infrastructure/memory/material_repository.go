package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo materias primas en memoria.
type MaterialRepo struct {
	do access
}

// Create asigna ID. Nombre repetido (sin distinguir mayúsculas) => domain.ErrDuplicate.
func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	return r.do(func(st *state) error {
		for _, other := range st.materials {
			if strings.EqualFold(other.Name, m.Name) {
				return domain.ErrDuplicate
			}
		}
		st.nextMaterial++
		m.ID = st.nextMaterial
		cp := *m
		st.materials[m.ID] = &cp
		return nil
	})
}

func (r *MaterialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	var out *entity.Material
	err := r.do(func(st *state) error {
		if m, ok := st.materials[id]; ok {
			cp := *m
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el almacén en exclusiva.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

// List ordenado por nombre.
func (r *MaterialRepo) List(_ context.Context) ([]*entity.Material, error) {
	var out []*entity.Material
	err := r.do(func(st *state) error {
		for _, m := range st.materials {
			cp := *m
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *MaterialRepo) UpdateStock(_ context.Context, id int64, stock, unitCost decimal.Decimal) error {
	return r.do(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return fmt.Errorf("materia prima %d: %w", id, domain.ErrNotFound)
		}
		if stock.IsNegative() || unitCost.IsNegative() {
			return fmt.Errorf("stock o costo negativo: %w", domain.ErrIntegrity)
		}
		m.Stock, m.UnitCost = stock, unitCost
		return nil
	})
}
