package production

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/event"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// BatchUseCase registro de tandas de producción.
type BatchUseCase struct {
	txRunner  inventory.TxRunner
	batches   repository.BatchRepository
	engine    *inventory.CostingEngine
	publisher event.Publisher
	log       *logger.Logger
}

// NewBatchUseCase construye el caso de uso. batches se usa solo para lecturas fuera de transacción.
func NewBatchUseCase(
	txRunner inventory.TxRunner,
	batches repository.BatchRepository,
	engine *inventory.CostingEngine,
	publisher event.Publisher,
	log *logger.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		txRunner:  txRunner,
		batches:   batches,
		engine:    engine,
		publisher: publisher,
		log:       log.Component("batches"),
	}
}

// SaveBatchInput datos de una tanda. ID = 0 crea; ID > 0 modifica (la fecha se conserva).
type SaveBatchInput struct {
	ID               int64
	Date             time.Time
	SequenceNumber   int
	ProductID        int64
	QuantityProduced decimal.Decimal
	UnitCount        int
}

func validateBatch(in SaveBatchInput) error {
	if in.ID == 0 && in.Date.IsZero() {
		return domain.NewValidationError("date", "requerida")
	}
	if in.SequenceNumber < 1 {
		return domain.NewValidationError("sequence_number", "debe ser mayor o igual a 1")
	}
	if in.ProductID <= 0 {
		return domain.NewValidationError("product_id", "requerido")
	}
	if in.QuantityProduced.IsNegative() {
		return domain.NewValidationError("quantity_produced", "no puede ser negativa")
	}
	if in.UnitCount < 0 {
		return domain.NewValidationError("unit_count", "no puede ser negativo")
	}
	return nil
}

// SaveBatch crea o modifica una tanda. Si ya existe otra con la misma fecha, número y
// referencia devuelve domain.ErrDuplicateBatch sin efectos. Los consumos registrados no cambian.
func (uc *BatchUseCase) SaveBatch(ctx context.Context, in SaveBatchInput) (*dto.BatchResponse, error) {
	if err := validateBatch(in); err != nil {
		return nil, err
	}
	var saved *entity.Batch
	action := event.BatchCreated
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %d: %w", in.ProductID, domain.ErrNotFound)
		}

		if in.ID == 0 {
			b := &entity.Batch{
				Date:             entity.DateOnly(in.Date),
				SequenceNumber:   in.SequenceNumber,
				ProductID:        in.ProductID,
				QuantityProduced: in.QuantityProduced,
				UnitCount:        in.UnitCount,
			}
			if err := repos.Batches.Create(ctx, b); err != nil {
				return err
			}
			b.ProductName = product.Name
			saved = b
			return nil
		}

		action = event.BatchUpdated
		cur, err := repos.Batches.GetForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return fmt.Errorf("tanda %d: %w", in.ID, domain.ErrNotFound)
		}
		cur.SequenceNumber = in.SequenceNumber
		cur.ProductID = in.ProductID
		cur.QuantityProduced = in.QuantityProduced
		cur.UnitCount = in.UnitCount
		if err := repos.Batches.Update(ctx, cur); err != nil {
			return err
		}
		cur.ProductName = product.Name
		saved = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("batch_id", saved.ID).Str("label", saved.Label()).Str("action", action).Msg("tanda guardada")
	uc.publishBatch(ctx, saved, action)
	resp := ToBatchResponse(saved)
	return &resp, nil
}

// DeleteBatch elimina la tanda y revierte sus consumos en la misma transacción: por cada
// consumo se agrega una ENTRADA al costo de ese consumo (recalculando el promedio) con
// referencia "Reverso de <tanda>". El historial previo se conserva.
func (uc *BatchUseCase) DeleteBatch(ctx context.Context, id int64, user string) (*dto.DeleteBatchResponse, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "requerido")
	}
	tx := uc.engine.NewTx()
	var (
		deleted   *entity.Batch
		reversals []*inventory.MovementResult
	)
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		b, err := repos.Batches.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("tanda %d: %w", id, domain.ErrNotFound)
		}
		usage, err := repos.Usage.ListByBatch(ctx, id)
		if err != nil {
			return err
		}
		batchID := b.ID
		reversals = reversals[:0]
		for _, u := range usage {
			res, err := uc.engine.ReceiveInTx(ctx, repos, tx, inventory.ReceiptInput{
				MaterialID: u.MaterialID,
				Quantity:   u.QuantityUsed,
				UnitCost:   u.UnitCost,
				Reference:  "Reverso de " + b.Label(),
				BatchID:    &batchID,
				Note:       "eliminación de tanda",
				User:       user,
			})
			if err != nil {
				return err
			}
			reversals = append(reversals, res)
		}
		if err := repos.Usage.DeleteByBatch(ctx, id); err != nil {
			return err
		}
		if err := repos.Batches.Delete(ctx, id); err != nil {
			return err
		}
		deleted = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("batch_id", id).Int("reversals", len(reversals)).Msg("tanda eliminada")
	uc.engine.Notify(ctx, reversals...)
	uc.publishBatch(ctx, deleted, event.BatchDeleted)

	resp := &dto.DeleteBatchResponse{BatchID: id, Reversals: make([]dto.MovementResponse, 0, len(reversals))}
	for _, r := range reversals {
		resp.Reversals = append(resp.Reversals, ToMovementResponse(r))
	}
	return resp, nil
}

// GetBatch obtiene una tanda; domain.ErrNotFound si no existe.
func (uc *BatchUseCase) GetBatch(ctx context.Context, id int64) (*dto.BatchResponse, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("tanda %d: %w", id, domain.ErrNotFound)
	}
	resp := ToBatchResponse(b)
	return &resp, nil
}

// ListByDate tandas del día ordenadas por número.
func (uc *BatchUseCase) ListByDate(ctx context.Context, date time.Time) ([]dto.BatchResponse, error) {
	from := entity.DateOnly(date)
	to := from.AddDate(0, 0, 1)
	batches, err := uc.batches.ListByRange(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, ToBatchResponse(b))
	}
	return out, nil
}

func (uc *BatchUseCase) publishBatch(ctx context.Context, b *entity.Batch, action string) {
	if uc.publisher == nil {
		return
	}
	uc.publisher.Publish(ctx, event.BatchChangedEvent{
		BatchID:    b.ID,
		Date:       b.Date.Format(entity.DateLayout),
		Label:      b.Label(),
		Action:     action,
		OccurredAt: time.Now(),
	})
}

// ToBatchResponse convierte la entidad al DTO de respuesta.
func ToBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:               b.ID,
		Date:             b.Date.Format(entity.DateLayout),
		SequenceNumber:   b.SequenceNumber,
		ProductID:        b.ProductID,
		ProductName:      b.ProductName,
		Label:            b.Label(),
		QuantityProduced: b.QuantityProduced,
		UnitCount:        b.UnitCount,
	}
}

// ToMovementResponse convierte el resultado del motor al DTO de respuesta.
func ToMovementResponse(r *inventory.MovementResult) dto.MovementResponse {
	return dto.MovementResponse{
		MaterialID:    r.MaterialID,
		MaterialName:  r.MaterialName,
		MovementType:  string(r.Type),
		Quantity:      r.Entry.Quantity,
		StockBefore:   r.StockBefore,
		StockAfter:    r.StockAfter,
		CostBefore:    r.CostBefore,
		CostAfter:     r.CostAfter,
		LedgerEntryID: r.Entry.ID,
		TransactionID: r.TransactionID,
	}
}
