package events

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/event"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// LogSubscriber escribe cada evento en el log a nivel debug.
type LogSubscriber struct {
	log *logger.Logger
}

// NewLogSubscriber construye el suscriptor.
func NewLogSubscriber(log *logger.Logger) *LogSubscriber {
	return &LogSubscriber{log: log.Component("events")}
}

func (s *LogSubscriber) Name() string { return "log" }

func (s *LogSubscriber) Handle(_ context.Context, ev event.Event) error {
	entry := s.log.Debug().Str("event", string(ev.EventName())).Str("key", ev.Key())
	switch e := ev.(type) {
	case event.MaterialStockChangedEvent:
		entry = entry.Int64("material_id", e.MaterialID).
			Str("movement_type", string(e.Type)).
			Str("quantity", e.Quantity.String()).
			Str("stock_after", e.StockAfter.String())
	case event.BatchChangedEvent:
		entry = entry.Int64("batch_id", e.BatchID).Str("action", e.Action).Str("label", e.Label)
	}
	entry.Msg("evento")
	return nil
}
