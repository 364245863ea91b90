package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var (
	_ repository.BatchRepository      = (*BatchRepo)(nil)
	_ repository.BatchUsageRepository = (*BatchUsageRepo)(nil)
)

// BatchRepo tandas en memoria.
type BatchRepo struct {
	do access
}

func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	return r.do(func(st *state) error {
		if err := checkBatch(st, b); err != nil {
			return err
		}
		st.nextBatch++
		b.ID = st.nextBatch
		cp := *b
		cp.ProductName = ""
		st.batches[b.ID] = &cp
		return nil
	})
}

func (r *BatchRepo) Update(_ context.Context, b *entity.Batch) error {
	return r.do(func(st *state) error {
		cur, ok := st.batches[b.ID]
		if !ok {
			return fmt.Errorf("tanda %d: %w", b.ID, domain.ErrNotFound)
		}
		if err := checkBatch(st, b); err != nil {
			return err
		}
		cur.Date = b.Date
		cur.SequenceNumber = b.SequenceNumber
		cur.ProductID = b.ProductID
		cur.QuantityProduced = b.QuantityProduced
		cur.UnitCount = b.UnitCount
		return nil
	})
}

// checkBatch aplica la FK de producto y la unicidad (fecha, número, referencia).
func checkBatch(st *state, b *entity.Batch) error {
	if _, ok := st.products[b.ProductID]; !ok {
		return fmt.Errorf("producto %d: %w", b.ProductID, domain.ErrNotFound)
	}
	for id, other := range st.batches {
		if id != b.ID && other.Date.Equal(b.Date) &&
			other.SequenceNumber == b.SequenceNumber && other.ProductID == b.ProductID {
			return domain.ErrDuplicateBatch
		}
	}
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, id int64) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.do(func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = withProductName(st, b)
		}
		return nil
	})
	return out, err
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

// ListByRange ordenado por fecha, número de tanda y referencia.
func (r *BatchRepo) ListByRange(_ context.Context, from, to *time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	err := r.do(func(st *state) error {
		for _, b := range st.batches {
			if from != nil && b.Date.Before(*from) {
				continue
			}
			if to != nil && !b.Date.Before(*to) {
				continue
			}
			out = append(out, withProductName(st, b))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SequenceNumber != b.SequenceNumber {
			return a.SequenceNumber < b.SequenceNumber
		}
		return a.ProductID < b.ProductID
	})
	return out, err
}

func (r *BatchRepo) Delete(_ context.Context, id int64) error {
	return r.do(func(st *state) error {
		if _, ok := st.batches[id]; !ok {
			return fmt.Errorf("tanda %d: %w", id, domain.ErrNotFound)
		}
		delete(st.batches, id)
		// ON DELETE CASCADE de los consumos
		kept := st.usage[:0:0]
		for _, u := range st.usage {
			if u.BatchID != id {
				kept = append(kept, u)
			}
		}
		st.usage = kept
		return nil
	})
}

func withProductName(st *state, b *entity.Batch) *entity.Batch {
	cp := *b
	if p, ok := st.products[b.ProductID]; ok {
		cp.ProductName = p.Name
	}
	return &cp
}

// BatchUsageRepo consumos por tanda en memoria.
type BatchUsageRepo struct {
	do access
}

func (r *BatchUsageRepo) Create(_ context.Context, u *entity.BatchMaterialUsage) error {
	return r.do(func(st *state) error {
		if _, ok := st.batches[u.BatchID]; !ok {
			return fmt.Errorf("tanda %d: %w", u.BatchID, domain.ErrNotFound)
		}
		if _, ok := st.materials[u.MaterialID]; !ok {
			return fmt.Errorf("materia prima %d: %w", u.MaterialID, domain.ErrNotFound)
		}
		st.nextUsage++
		u.ID = st.nextUsage
		cp := *u
		st.usage = append(st.usage, &cp)
		return nil
	})
}

// ListByBatch en orden de asignación.
func (r *BatchUsageRepo) ListByBatch(_ context.Context, batchID int64) ([]*entity.BatchMaterialUsage, error) {
	var out []*entity.BatchMaterialUsage
	err := r.do(func(st *state) error {
		for _, u := range st.usage {
			if u.BatchID != batchID {
				continue
			}
			cp := *u
			if m, ok := st.materials[u.MaterialID]; ok {
				cp.MaterialName, cp.MaterialUnit = m.Name, m.Unit
			}
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *BatchUsageRepo) DeleteByBatch(_ context.Context, batchID int64) error {
	return r.do(func(st *state) error {
		kept := st.usage[:0:0]
		for _, u := range st.usage {
			if u.BatchID != batchID {
				kept = append(kept, u)
			}
		}
		st.usage = kept
		return nil
	})
}
