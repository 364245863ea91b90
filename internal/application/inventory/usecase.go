package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/event"
	"github.com/jhoicas/produccion-api/internal/domain/inventory"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// ReferenceManualReceipt referencia por defecto de una recepción.
const ReferenceManualReceipt = "Carga manual de stock"

// CostingEngine aplica entradas y salidas de materia prima de forma transaccional:
// bloquea la fila del material (SELECT FOR UPDATE), recalcula el costo promedio en las
// entradas, actualiza el stock y agrega el registro al historial.
type CostingEngine struct {
	txRunner  TxRunner
	publisher event.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewCostingEngine construye el motor de costeo.
func NewCostingEngine(txRunner TxRunner, publisher event.Publisher, log *logger.Logger) *CostingEngine {
	return &CostingEngine{
		txRunner:  txRunner,
		publisher: publisher,
		log:       log.Component("costing"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ReceiptInput entrada de stock.
type ReceiptInput struct {
	MaterialID int64
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Reference  string // vacío = ReferenceManualReceipt
	BatchID    *int64
	Note       string
	User       string
}

// ConsumptionInput salida de stock hacia una tanda.
type ConsumptionInput struct {
	MaterialID int64
	BatchID    int64
	Quantity   decimal.Decimal
	Reference  string // vacío = "Usado en <tanda>"
	Note       string
	User       string
}

// MovementResult resultado de un movimiento confirmado.
type MovementResult struct {
	MaterialID    int64
	MaterialName  string
	Type          entity.MovementType
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	CostBefore    decimal.Decimal
	CostAfter     decimal.Decimal
	Entry         *entity.LedgerEntry
	Usage         *entity.BatchMaterialUsage // solo en consumos
	TransactionID string
}

// Tx identifica una transacción del motor: todos sus registros comparten TransactionID.
// La fecha de cada registro se toma con la fila del material ya bloqueada, así el orden
// del historial de un material coincide con el orden en que se aplicaron los movimientos.
type Tx struct {
	ID string
}

// NewTx crea el identificador de una transacción nueva.
func (e *CostingEngine) NewTx() Tx {
	return Tx{ID: uuid.New().String()}
}

// ValidateReceipt valida una entrada sin tocar el almacén.
func ValidateReceipt(in ReceiptInput) error {
	if in.MaterialID <= 0 {
		return domain.NewValidationError("material_id", "requerido")
	}
	if !in.Quantity.IsPositive() {
		return domain.NewValidationError("quantity", "debe ser mayor que 0")
	}
	if !in.UnitCost.IsPositive() {
		return domain.NewValidationError("unit_cost", "debe ser mayor que 0")
	}
	return nil
}

// ValidateConsumption valida una salida sin tocar el almacén.
func ValidateConsumption(in ConsumptionInput) error {
	if in.MaterialID <= 0 {
		return domain.NewValidationError("material_id", "requerido")
	}
	if in.BatchID <= 0 {
		return domain.NewValidationError("batch_id", "requerido")
	}
	if !in.Quantity.IsPositive() {
		return domain.NewValidationError("quantity", "debe ser mayor que 0")
	}
	return nil
}

// ReceiveStock registra una entrada: recalcula el costo promedio, suma stock y agrega ENTRADA.
func (e *CostingEngine) ReceiveStock(ctx context.Context, in ReceiptInput) (*MovementResult, error) {
	if err := ValidateReceipt(in); err != nil {
		return nil, err
	}
	tx := e.NewTx()
	var res *MovementResult
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		res, err = e.ReceiveInTx(ctx, repos, tx, in)
		return err
	})
	if err != nil {
		e.log.Warn().Err(err).
			Int64("material_id", in.MaterialID).
			Str("quantity", in.Quantity.String()).
			Str("type", string(entity.MovementEntrada)).
			Msg("entrada rechazada")
		return nil, err
	}
	e.Notify(ctx, res)
	return res, nil
}

// ConsumeStock registra una salida hacia una tanda. Si la cantidad supera el stock
// devuelve *domain.InsufficientStockError y no escribe nada.
func (e *CostingEngine) ConsumeStock(ctx context.Context, in ConsumptionInput) (*MovementResult, error) {
	if err := ValidateConsumption(in); err != nil {
		return nil, err
	}
	tx := e.NewTx()
	var res *MovementResult
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		res, err = e.ConsumeInTx(ctx, repos, tx, in)
		return err
	})
	if err != nil {
		e.log.Warn().Err(err).
			Int64("material_id", in.MaterialID).
			Int64("batch_id", in.BatchID).
			Str("quantity", in.Quantity.String()).
			Str("type", string(entity.MovementSalida)).
			Msg("salida rechazada")
		return nil, err
	}
	e.Notify(ctx, res)
	return res, nil
}

// ReceiveInTx aplica una entrada con los repositorios de la transacción del caller.
// in debe estar validado.
func (e *CostingEngine) ReceiveInTx(ctx context.Context, repos Repos, tx Tx, in ReceiptInput) (*MovementResult, error) {
	m, err := repos.Materials.GetForUpdate(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("materia prima %d: %w", in.MaterialID, domain.ErrNotFound)
	}

	now := e.now()
	mov := inventory.Receive(m, in.Quantity, in.UnitCost)
	if err := repos.Materials.UpdateStock(ctx, m.ID, mov.StockAfter, mov.CostAfter); err != nil {
		return nil, err
	}
	ref := in.Reference
	if ref == "" {
		ref = ReferenceManualReceipt
	}
	entry := newEntry(tx, now, m, mov, ref, in.BatchID, in.User, in.Note)
	if err := repos.Ledger.Append(ctx, entry); err != nil {
		return nil, err
	}
	return newResult(tx, m, mov, entry, nil), nil
}

// ConsumeInTx aplica una salida con los repositorios de la transacción del caller.
// El stock se relee bajo bloqueo justo antes de validar la suficiencia.
func (e *CostingEngine) ConsumeInTx(ctx context.Context, repos Repos, tx Tx, in ConsumptionInput) (*MovementResult, error) {
	batch, err := repos.Batches.GetByID(ctx, in.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("tanda %d: %w", in.BatchID, domain.ErrNotFound)
	}
	m, err := repos.Materials.GetForUpdate(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("materia prima %d: %w", in.MaterialID, domain.ErrNotFound)
	}

	now := e.now()
	mov, err := inventory.Consume(m, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := repos.Materials.UpdateStock(ctx, m.ID, mov.StockAfter, mov.CostAfter); err != nil {
		return nil, err
	}
	ref := in.Reference
	if ref == "" {
		ref = "Usado en " + batch.Label()
	}
	batchID := batch.ID
	entry := newEntry(tx, now, m, mov, ref, &batchID, in.User, in.Note)
	if err := repos.Ledger.Append(ctx, entry); err != nil {
		return nil, err
	}
	usage := &entity.BatchMaterialUsage{
		BatchID:      batch.ID,
		MaterialID:   m.ID,
		MaterialName: m.Name,
		MaterialUnit: m.Unit,
		QuantityUsed: mov.Quantity,
		UnitCost:     mov.UnitCost,
		Total:        mov.Total,
	}
	if err := repos.Usage.Create(ctx, usage); err != nil {
		return nil, err
	}
	return newResult(tx, m, mov, entry, usage), nil
}

// Notify registra en el log y publica los movimientos ya confirmados.
func (e *CostingEngine) Notify(ctx context.Context, results ...*MovementResult) {
	events := make([]event.Event, 0, len(results))
	for _, r := range results {
		e.log.Info().
			Int64("material_id", r.MaterialID).
			Str("type", string(r.Type)).
			Str("quantity", r.Entry.Quantity.String()).
			Str("stock_after", r.StockAfter.String()).
			Str("tx", r.TransactionID).
			Msg("movimiento registrado")
		events = append(events, event.MaterialStockChangedEvent{
			MaterialID:    r.MaterialID,
			MaterialName:  r.MaterialName,
			Type:          r.Type,
			Quantity:      r.Entry.Quantity,
			StockAfter:    r.StockAfter,
			UnitCost:      r.CostAfter,
			TransactionID: r.TransactionID,
			OccurredAt:    r.Entry.OccurredAt,
		})
	}
	if e.publisher != nil && len(events) > 0 {
		e.publisher.Publish(ctx, events...)
	}
}

func newEntry(tx Tx, now time.Time, m *entity.Material, mov inventory.Movement, ref string, batchID *int64, user, note string) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		TransactionID: tx.ID,
		MaterialID:    m.ID,
		MaterialName:  m.Name,
		OccurredAt:    now,
		Type:          mov.Type,
		Quantity:      mov.Quantity,
		UnitCost:      mov.UnitCost,
		Total:         mov.Total,
		StockBefore:   mov.StockBefore,
		StockAfter:    mov.StockAfter,
		Reference:     ref,
		BatchID:       batchID,
		User:          user,
		Note:          note,
	}
}

func newResult(tx Tx, m *entity.Material, mov inventory.Movement, entry *entity.LedgerEntry, usage *entity.BatchMaterialUsage) *MovementResult {
	return &MovementResult{
		MaterialID:    m.ID,
		MaterialName:  m.Name,
		Type:          mov.Type,
		StockBefore:   mov.StockBefore,
		StockAfter:    mov.StockAfter,
		CostBefore:    mov.CostBefore,
		CostAfter:     mov.CostAfter,
		Entry:         entry,
		Usage:         usage,
		TransactionID: tx.ID,
	}
}
