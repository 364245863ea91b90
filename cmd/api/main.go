package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/produccion-api/docs"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/pricing"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/reports"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
	infraevents "github.com/jhoicas/produccion-api/internal/infrastructure/events"
	"github.com/jhoicas/produccion-api/internal/infrastructure/excel"
	"github.com/jhoicas/produccion-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/produccion-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/produccion-api/internal/interfaces/http"
	"github.com/jhoicas/produccion-api/pkg/config"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// @title                       Producción API
// @version                     1.0
// @description                 Registro de tandas de chorizo, inventario de materias primas a costo promedio ponderado, precios y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén")
	}
	defer st.close()

	m := metrics.New()
	if materials, err := st.materials.List(ctx); err == nil {
		for _, mat := range materials {
			m.SetMaterial(mat)
		}
	}

	bus := infraevents.NewBus(log, infraevents.NewLogSubscriber(log), m)
	closeBroker, err := attachBroker(ctx, cfg.Events, bus, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Events.Driver).Msg("publicación de eventos")
	}
	defer closeBroker()

	engine := inventory.NewCostingEngine(st.tx, bus, log)
	consumption := production.NewConsumptionUseCase(engine, st.batches, st.usage)
	pricingUC := pricing.NewPricingUseCase(st.tx, st.products, st.prices, st.reports, cfg.Prices.DefaultMargin, log)
	reportsUC := reports.NewReportsUseCase(st.reports, st.ledger, cfg.App.Location)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Producción API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.Store})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Products:    usecase.NewProductUseCase(st.products),
		Materials:   usecase.NewMaterialUseCase(st.materials),
		Engine:      engine,
		Audit:       inventory.NewAuditUseCase(st.materials, st.ledger),
		Batches:     production.NewBatchUseCase(st.tx, st.batches, engine, bus, log),
		Consumption: consumption,
		CostSheets:  production.NewCostSheetUseCase(consumption, infrapdf.NewCostSheetGenerator(cfg.App.Name)),
		Pricing:     pricingUC,
		Reports:     reportsUC,
		Export:      reports.NewExportUseCase(st.materials, st.batches, pricingUC, reportsUC, excel.NewWorkbookWriter()),
		JWTSecret:   cfg.JWT.Secret,
		Location:    cfg.App.Location,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API no exige autenticación")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
