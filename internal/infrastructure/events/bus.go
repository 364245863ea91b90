// Package events reparte los eventos de dominio entre suscriptores (log, métricas, broker).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/event"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

var _ event.Publisher = (*Bus)(nil)

// Subscriber recibe cada evento publicado.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, ev event.Event) error
}

// BatchSubscriber recibe todos los eventos de una misma publicación en una sola llamada
// (un envío al broker por operación, no uno por evento).
type BatchSubscriber interface {
	Subscriber
	HandleBatch(ctx context.Context, events []event.Event) error
}

// Bus entrega los eventos en orden a todos los suscriptores, de forma síncrona.
// Un suscriptor que falla se registra en el log y no afecta a los demás.
type Bus struct {
	subscribers []Subscriber
	log         *logger.Logger
}

// NewBus construye el bus.
func NewBus(log *logger.Logger, subscribers ...Subscriber) *Bus {
	return &Bus{subscribers: subscribers, log: log.Component("events")}
}

// Subscribe agrega un suscriptor. No es seguro llamarlo mientras se publica.
func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Publish implementa event.Publisher.
func (b *Bus) Publish(ctx context.Context, events ...event.Event) {
	if len(events) == 0 {
		return
	}
	for _, s := range b.subscribers {
		if bs, ok := s.(BatchSubscriber); ok {
			if err := bs.HandleBatch(ctx, events); err != nil {
				b.log.Warn().Err(err).
					Str("subscriber", s.Name()).
					Int("events", len(events)).
					Msg("suscriptor falló")
			}
			continue
		}
		for _, ev := range events {
			if err := s.Handle(ctx, ev); err != nil {
				b.log.Warn().Err(err).
					Str("subscriber", s.Name()).
					Str("event", string(ev.EventName())).
					Str("key", ev.Key()).
					Msg("suscriptor falló")
			}
		}
	}
}

// Envelope formato JSON con el que los eventos salen hacia el broker.
type Envelope struct {
	Event      event.Name  `json:"event"`
	Key        string      `json:"key"`
	Data       event.Event `json:"data"`
	ProducedAt time.Time   `json:"produced_at"`
}

func encode(ev event.Event, now time.Time) ([]byte, error) {
	return json.Marshal(Envelope{Event: ev.EventName(), Key: ev.Key(), Data: ev, ProducedAt: now})
}
