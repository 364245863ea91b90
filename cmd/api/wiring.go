package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	infraevents "github.com/jhoicas/produccion-api/internal/infrastructure/events"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/produccion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/produccion-api/pkg/config"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// store repositorios de lectura más el runner transaccional de un mismo backend.
type store struct {
	tx        inventory.TxRunner
	materials repository.MaterialRepository
	ledger    repository.LedgerRepository
	batches   repository.BatchRepository
	usage     repository.BatchUsageRepository
	products  repository.ProductRepository
	prices    repository.DailyPriceRepository
	reports   repository.ReportRepository
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	if cfg.App.Store == "memory" {
		mem := memory.NewStoreWithLockTimeout(cfg.DB.LockTimeout)
		if err := mem.SeedMaterials(ctx); err != nil {
			return nil, err
		}
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &store{
			tx:        mem,
			materials: mem.Materials(),
			ledger:    mem.Ledger(),
			batches:   mem.Batches(),
			usage:     mem.Usage(),
			products:  mem.Products(),
			prices:    mem.Prices(),
			reports:   mem.Reports(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &store{
		tx:        postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		materials: postgres.NewMaterialRepository(pool),
		ledger:    postgres.NewLedgerRepository(pool),
		batches:   postgres.NewBatchRepository(pool),
		usage:     postgres.NewBatchUsageRepository(pool),
		products:  postgres.NewProductRepository(pool),
		prices:    postgres.NewDailyPriceRepository(pool),
		reports:   postgres.NewReportRepository(pool),
		close:     pool.Close,
	}, nil
}

// attachBroker suscribe el publicador externo configurado. Devuelve la función de cierre.
func attachBroker(ctx context.Context, cfg config.EventsConfig, bus *infraevents.Bus, log *logger.Logger) (func(), error) {
	switch cfg.Driver {
	case "", "none":
		return func() {}, nil
	case "redis":
		client, err := infraevents.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		pub := infraevents.NewRedisPublisher(client, cfg.Topic)
		bus.Subscribe(pub)
		log.Info().Str("channel", cfg.Topic).Msg("eventos publicados en Redis")
		return func() { _ = pub.Close() }, nil
	case "kafka":
		pub := infraevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic, log)
		bus.Subscribe(pub)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.Topic).Msg("eventos publicados en Kafka")
		return func() { _ = pub.Close() }, nil
	}
	return nil, fmt.Errorf("EVENTS_DRIVER inválido: %q (none|redis|kafka)", cfg.Driver)
}
