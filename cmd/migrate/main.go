// Command migrate aplica o muestra las migraciones embebidas de PostgreSQL.
//
//	go run ./cmd/migrate [up|status]
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/produccion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/produccion-api/pkg/config"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	switch cmd {
	case "up":
		err = postgres.Migrate(ctx, pool)
	case "status":
		err = postgres.MigrationStatus(ctx, pool)
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido (up|status)")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migraciones")
	}
	log.Info().Str("cmd", cmd).Msg("migraciones OK")
}
