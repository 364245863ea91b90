// Package event define los eventos de dominio emitidos después de cada commit.
package event

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// Name nombre estable del evento (se usa como tipo en el broker).
type Name string

const (
	MaterialStockChanged Name = "material.stock_changed"
	BatchChanged         Name = "batch.changed"
)

// Acciones de BatchChangedEvent.
const (
	BatchCreated = "created"
	BatchUpdated = "updated"
	BatchDeleted = "deleted"
)

// Event evento de dominio.
type Event interface {
	EventName() Name
	// Key agrupa eventos de una misma entidad (partición en Kafka).
	Key() string
}

// Publisher entrega eventos a los suscriptores. No debe fallar la operación que lo invoca.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

// MaterialStockChangedEvent se emite al confirmar una entrada o salida.
type MaterialStockChangedEvent struct {
	MaterialID    int64               `json:"material_id"`
	MaterialName  string              `json:"material_name"`
	Type          entity.MovementType `json:"movement_type"`
	Quantity      decimal.Decimal     `json:"quantity"`
	StockAfter    decimal.Decimal     `json:"stock_after"`
	UnitCost      decimal.Decimal     `json:"unit_cost"`
	TransactionID string              `json:"transaction_id"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

func (MaterialStockChangedEvent) EventName() Name { return MaterialStockChanged }

func (e MaterialStockChangedEvent) Key() string {
	return "material-" + strconv.FormatInt(e.MaterialID, 10)
}

// BatchChangedEvent se emite al crear, modificar o eliminar una tanda.
type BatchChangedEvent struct {
	BatchID    int64     `json:"batch_id"`
	Date       string    `json:"date"`
	Label      string    `json:"label"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (BatchChangedEvent) EventName() Name { return BatchChanged }

func (e BatchChangedEvent) Key() string {
	return "batch-" + strconv.FormatInt(e.BatchID, 10)
}
