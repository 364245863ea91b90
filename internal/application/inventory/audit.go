package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/inventory"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// AuditResult compara el stock actual con el reconstruido desde el historial.
type AuditResult struct {
	MaterialID    int64
	MaterialName  string
	CurrentStock  decimal.Decimal
	ReplayedStock decimal.Decimal
	Entries       int
	Consistent    bool
	BrokenEntry   *entity.LedgerEntry
	BrokenReason  string
}

// AuditUseCase reconstruye el stock de una materia prima desde su historial.
type AuditUseCase struct {
	materials repository.MaterialRepository
	ledger    repository.LedgerRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(materials repository.MaterialRepository, ledger repository.LedgerRepository) *AuditUseCase {
	return &AuditUseCase{materials: materials, ledger: ledger}
}

// AuditMaterial recorre el historial desde stock 0 y verifica cada foto antes/después.
func (uc *AuditUseCase) AuditMaterial(ctx context.Context, materialID int64) (*AuditResult, error) {
	m, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("materia prima %d: %w", materialID, domain.ErrNotFound)
	}
	entries, err := uc.ledger.ListByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	rep := inventory.Replay(entries)
	return &AuditResult{
		MaterialID:    m.ID,
		MaterialName:  m.Name,
		CurrentStock:  m.Stock,
		ReplayedStock: rep.Stock,
		Entries:       rep.Entries,
		Consistent:    rep.BrokenAt == nil && rep.Stock.Equal(m.Stock),
		BrokenEntry:   rep.BrokenAt,
		BrokenReason:  rep.Reason,
	}, nil
}
