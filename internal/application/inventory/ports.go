package inventory

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Materials repository.MaterialRepository
	Ledger    repository.LedgerRepository
	Batches   repository.BatchRepository
	Usage     repository.BatchUsageRepository
	Products  repository.ProductRepository
	Prices    repository.DailyPriceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
