package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo historial en memoria (solo inserción).
type LedgerRepo struct {
	do access
}

func (r *LedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	if !e.Type.Valid() {
		return fmt.Errorf("tipo de movimiento %q: %w", e.Type, domain.ErrIntegrity)
	}
	return r.do(func(st *state) error {
		if _, ok := st.materials[e.MaterialID]; !ok {
			return fmt.Errorf("materia prima %d: %w", e.MaterialID, domain.ErrNotFound)
		}
		st.nextLedger++
		e.ID = st.nextLedger
		cp := *e
		st.ledger = append(st.ledger, &cp)
		return nil
	})
}

func (r *LedgerRepo) ListByMaterial(_ context.Context, materialID int64) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.do(func(st *state) error {
		for _, e := range st.ledger {
			if e.MaterialID == materialID {
				out = append(out, withMaterialName(st, e))
			}
		}
		return nil
	})
	// El id se asigna con el material bloqueado: es el orden de aplicación.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *LedgerRepo) Search(_ context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.do(func(st *state) error {
		for _, e := range st.ledger {
			if f.MaterialID != nil && e.MaterialID != *f.MaterialID {
				continue
			}
			if f.Type != "" && e.Type != f.Type {
				continue
			}
			if f.From != nil && e.OccurredAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !e.OccurredAt.Before(*f.To) {
				continue
			}
			out = append(out, withMaterialName(st, e))
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, err
}

func withMaterialName(st *state, e *entity.LedgerEntry) *entity.LedgerEntry {
	cp := *e
	if m, ok := st.materials[e.MaterialID]; ok {
		cp.MaterialName = m.Name
	}
	return &cp
}
