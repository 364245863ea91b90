package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/pricing"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/reports"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
	"github.com/jhoicas/produccion-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Products    *usecase.ProductUseCase
	Materials   *usecase.MaterialUseCase
	Engine      *inventory.CostingEngine
	Audit       *inventory.AuditUseCase
	Batches     *production.BatchUseCase
	Consumption *production.ConsumptionUseCase
	CostSheets  *production.CostSheetUseCase
	Pricing     *pricing.PricingUseCase
	Reports     *reports.ReportsUseCase
	Export      *reports.ExportUseCase
	// JWTSecret vacío deshabilita la autenticación (uso local de un solo puesto).
	JWTSecret string
	// Location zona del día calendario por defecto; nil = hora local del servidor.
	Location *time.Location
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	api := app.Group("/api")
	adminOnly := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		adminOnly = RequireRole(jwt.RoleAdmin)
	}

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Products)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.Materials, deps.Engine, deps.Audit)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Post("/:id/receipts", materialHandler.Receive)
	materials.Get("/:id/audit", materialHandler.Audit)

	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.Batches, deps.Consumption, deps.CostSheets, loc)
	batches.Get("/", batchHandler.List)
	batches.Post("/", batchHandler.Create)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Update)
	batches.Delete("/:id", adminOnly, batchHandler.Delete)
	batches.Get("/:id/materials", batchHandler.ListUsage)
	batches.Post("/:id/materials", batchHandler.AssignMaterial)
	batches.Get("/:id/cost-sheet.pdf", batchHandler.CostSheet)

	prices := api.Group("/prices")
	priceHandler := NewPriceHandler(deps.Pricing, loc)
	prices.Get("/", priceHandler.Sheet)
	prices.Put("/:date", adminOnly, priceHandler.SetDay)

	rep := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.Export, loc)
	rep.Get("/daily-consumption", reportHandler.DailyConsumption)
	rep.Get("/daily-production", reportHandler.DailyProduction)
	rep.Get("/monthly-production", reportHandler.MonthlyProduction)
	rep.Get("/ledger", reportHandler.Ledger)
	rep.Get("/export.xlsx", reportHandler.Export)
}
