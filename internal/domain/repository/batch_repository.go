package repository

import (
	"context"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// BatchRepository puerto de persistencia de tandas.
// Create y Update devuelven domain.ErrDuplicateBatch si chocan con (fecha, número, referencia).
type BatchRepository interface {
	Create(ctx context.Context, b *entity.Batch) error
	Update(ctx context.Context, b *entity.Batch) error
	GetByID(ctx context.Context, id int64) (*entity.Batch, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error)
	// ListByRange devuelve las tandas con fecha en [from, to); nil = sin límite.
	ListByRange(ctx context.Context, from, to *time.Time) ([]*entity.Batch, error)
	Delete(ctx context.Context, id int64) error
}

// BatchUsageRepository puerto de consumos de materia prima por tanda.
type BatchUsageRepository interface {
	Create(ctx context.Context, u *entity.BatchMaterialUsage) error
	ListByBatch(ctx context.Context, batchID int64) ([]*entity.BatchMaterialUsage, error)
	DeleteByBatch(ctx context.Context, batchID int64) error
}
