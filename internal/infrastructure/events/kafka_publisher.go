package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/produccion-api/internal/domain/event"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

const kafkaWriteTimeout = 5 * time.Second

var _ BatchSubscriber = (*KafkaPublisher)(nil)

// KafkaPublisher escribe los eventos en un tópico; la clave es la entidad (material-<id>, batch-<id>)
// para que los eventos de una misma entidad queden en la misma partición.
// El writer es asíncrono: la petición HTTP no espera al broker y las fallas de entrega
// se registran en el log.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher construye el writer. No abre conexiones hasta el primer mensaje.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	l := log.Component("kafka")
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           kafkaWriteTimeout,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				l.Warn().Err(err).Str("topic", topic).Int("messages", len(messages)).Msg("entrega a kafka falló")
			}
		},
	}}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Handle(ctx context.Context, ev event.Event) error {
	return p.HandleBatch(ctx, []event.Event{ev})
}

// HandleBatch encola todos los eventos en una sola escritura.
func (p *KafkaPublisher) HandleBatch(ctx context.Context, events []event.Event) error {
	msgs, err := kafkaMessages(events, time.Now().UTC())
	if err != nil {
		return err
	}
	// La operación ya está confirmada; el envío no debe cancelarse con la petición.
	return p.writer.WriteMessages(context.WithoutCancel(ctx), msgs...)
}

func kafkaMessages(events []event.Event, now time.Time) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := encode(ev, now)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Key()),
			Value: payload,
			Time:  now,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(ev.EventName())},
			},
		})
	}
	return msgs, nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
