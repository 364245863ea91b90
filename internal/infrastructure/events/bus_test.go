package events_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/event"
	"github.com/jhoicas/produccion-api/internal/infrastructure/events"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

type recorder struct {
	name string
	err  error
	got  []event.Event
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Handle(_ context.Context, ev event.Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func stockEvent(id int64) event.MaterialStockChangedEvent {
	return event.MaterialStockChangedEvent{
		MaterialID: id, MaterialName: "Manero", Type: entity.MovementEntrada,
		Quantity: decimal.NewFromInt(10), StockAfter: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(4),
	}
}

type batchRecorder struct {
	recorder
	calls int
}

func (r *batchRecorder) HandleBatch(_ context.Context, evs []event.Event) error {
	r.calls++
	r.got = append(r.got, evs...)
	return r.err
}

func TestBus_SuscriptorPorLoteRecibeUnaSolaLlamada(t *testing.T) {
	single := &recorder{name: "log"}
	broker := &batchRecorder{recorder: recorder{name: "broker"}}
	bus := events.NewBus(logger.Nop(), single, broker)

	bus.Publish(context.Background(), stockEvent(1), stockEvent(2), stockEvent(3))

	assert.Equal(t, 1, broker.calls)
	require.Len(t, broker.got, 3)
	assert.Equal(t, "material-3", broker.got[2].Key())
	assert.Len(t, single.got, 3)

	bus.Publish(context.Background())
	assert.Equal(t, 1, broker.calls, "sin eventos no se llama al broker")
}

func TestBus_EntregaATodosEnOrden(t *testing.T) {
	a, b := &recorder{name: "a"}, &recorder{name: "b"}
	bus := events.NewBus(logger.Nop(), a)
	bus.Subscribe(b)

	bus.Publish(context.Background(), stockEvent(1), event.BatchChangedEvent{BatchID: 7, Action: event.BatchCreated})

	for _, r := range []*recorder{a, b} {
		require.Len(t, r.got, 2)
		assert.Equal(t, "material-1", r.got[0].Key())
		assert.Equal(t, "batch-7", r.got[1].Key())
	}
}

func TestBus_SuscriptorFallidoNoDetieneALosDemas(t *testing.T) {
	var out bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Out: &out})
	failing := &recorder{name: "broker", err: errors.New("conexión rechazada")}
	ok := &recorder{name: "ok"}

	events.NewBus(log, failing, ok).Publish(context.Background(), stockEvent(2))

	assert.Len(t, ok.got, 1)
	assert.Contains(t, out.String(), `"subscriber":"broker"`)
	assert.Contains(t, out.String(), "conexión rechazada")
}

func TestLogSubscriber_NoFalla(t *testing.T) {
	var out bytes.Buffer
	sub := events.NewLogSubscriber(logger.New(logger.Config{Env: "production", Level: "debug", Out: &out}))

	require.NoError(t, sub.Handle(context.Background(), stockEvent(3)))
	assert.Contains(t, out.String(), `"material_id":3`)
	assert.Contains(t, out.String(), `"event":"material.stock_changed"`)
}
