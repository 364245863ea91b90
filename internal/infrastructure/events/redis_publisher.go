package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/produccion-api/internal/domain/event"
)

const redisPublishTimeout = 2 * time.Second

var _ BatchSubscriber = (*RedisPublisher)(nil)

// RedisPublisher reenvía los eventos con PUBLISH a un canal de Redis.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// ConnectRedis abre el cliente desde una URL redis:// y verifica la conexión.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	opt.MaxRetries = 3

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// NewRedisPublisher construye el publicador sobre un cliente ya conectado.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Name() string { return "redis" }

func (p *RedisPublisher) Handle(ctx context.Context, ev event.Event) error {
	return p.HandleBatch(ctx, []event.Event{ev})
}

// HandleBatch publica todos los eventos en un solo pipeline, con espera acotada.
func (p *RedisPublisher) HandleBatch(ctx context.Context, events []event.Event) error {
	now := time.Now().UTC()
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisPublishTimeout)
	defer cancel()
	_, err := p.client.Pipelined(sendCtx, func(pipe redis.Pipeliner) error {
		for _, ev := range events {
			payload, err := encode(ev, now)
			if err != nil {
				return err
			}
			pipe.Publish(sendCtx, p.channel, payload)
		}
		return nil
	})
	return err
}

// Close cierra el cliente.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
