package repository

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de referencias.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
