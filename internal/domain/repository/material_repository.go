package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// MaterialRepository puerto de persistencia de materias primas.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Material, error)
	List(ctx context.Context) ([]*entity.Material, error)
	UpdateStock(ctx context.Context, id int64, stock, unitCost decimal.Decimal) error
}
