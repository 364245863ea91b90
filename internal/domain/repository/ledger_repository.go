package repository

import (
	"context"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// LedgerFilter filtros del historial. Campos nil o vacíos no filtran.
type LedgerFilter struct {
	MaterialID *int64
	Type       entity.MovementType
	From       *time.Time // inclusivo
	To         *time.Time // exclusivo
	Limit      int
}

// LedgerRepository puerto del historial de movimientos (solo inserción).
type LedgerRepository interface {
	// Append inserta el registro y asigna entry.ID.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// ListByMaterial devuelve el historial completo en orden de aplicación (id ascendente).
	ListByMaterial(ctx context.Context, materialID int64) ([]*entity.LedgerEntry, error)
	// Search devuelve los registros filtrados, del más reciente al más antiguo.
	Search(ctx context.Context, f LedgerFilter) ([]*entity.LedgerEntry, error)
}
