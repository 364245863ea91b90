package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/pricing"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/reports"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/infrastructure/excel"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/produccion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/produccion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/produccion-api/pkg/jwt"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type api struct {
	t        *testing.T
	app      *fiber.App
	operador string
	admin    string
}

// newAPI arma la aplicación completa sobre el almacén en memoria con materias primas sembradas.
func newAPI(t *testing.T, secret string) *api {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.SeedMaterials(context.Background()))
	log := logger.Nop()

	engine := inventory.NewCostingEngine(store, nil, log)
	consumption := production.NewConsumptionUseCase(engine, store.Batches(), store.Usage())
	pricingUC := pricing.NewPricingUseCase(store, store.Products(), store.Prices(), store.Reports(), decimal.NewFromInt(30), log)
	reportsUC := reports.NewReportsUseCase(store.Reports(), store.Ledger(), nil)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Products:    usecase.NewProductUseCase(store.Products()),
		Materials:   usecase.NewMaterialUseCase(store.Materials()),
		Engine:      engine,
		Audit:       inventory.NewAuditUseCase(store.Materials(), store.Ledger()),
		Batches:     production.NewBatchUseCase(store, store.Batches(), engine, nil, log),
		Consumption: consumption,
		CostSheets:  production.NewCostSheetUseCase(consumption, pdf.NewCostSheetGenerator("Test")),
		Pricing:     pricingUC,
		Reports:     reportsUC,
		Export:      reports.NewExportUseCase(store.Materials(), store.Batches(), pricingUC, reportsUC, excel.NewWorkbookWriter()),
		JWTSecret:   secret,
	})

	a := &api{t: t, app: app}
	if secret != "" {
		op, err := pkgjwt.Generate(secret, "operario-1", pkgjwt.RoleOperador, testIssuer, testExpMin)
		require.NoError(t, err)
		adm, err := pkgjwt.Generate(secret, "jefe", pkgjwt.RoleAdmin, testIssuer, testExpMin)
		require.NoError(t, err)
		a.operador, a.admin = "Bearer "+op, "Bearer "+adm
	}
	return a
}

// do lanza la petición con el token indicado ("" = sin Authorization) y devuelve status y cuerpo.
func (a *api) do(method, path, token string, body any) (int, []byte, http.Header) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out, resp.Header
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (a *api) materialID(name string) int64 {
	a.t.Helper()
	status, raw, _ := a.do(http.MethodGet, "/api/materials", a.operador, nil)
	require.Equal(a.t, http.StatusOK, status)
	for _, m := range decode[[]dto.MaterialResponse](a.t, raw) {
		if m.Name == name {
			return m.ID
		}
	}
	a.t.Fatalf("materia prima %q no encontrada", name)
	return 0
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_GrasaPelada_RecepcionConsumoYReportes(t *testing.T) {
	a := newAPI(t, testJWTSecret)
	grasa := a.materialID("Grasa pelada")
	base := "/api/materials/" + itoa(grasa)

	status, raw, _ := a.do(http.MethodPost, base+"/receipts", a.operador, map[string]any{"quantity": "100", "unit_cost": "2.00"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	status, raw, _ = a.do(http.MethodPost, base+"/receipts", a.operador, map[string]any{"quantity": "50", "unit_cost": "3.00"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	mov := decode[dto.MovementResponse](t, raw)
	assert.True(t, mov.StockAfter.Equal(d("150")))
	assert.Equal(t, "2.33", mov.CostAfter.StringFixed(2))

	status, raw, _ = a.do(http.MethodPost, "/api/batches", a.operador, map[string]any{
		"date": "2024-01-01", "sequence_number": 1, "product_id": 2, "quantity_produced": "20", "unit_count": 40,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	batch := decode[dto.BatchResponse](t, raw)
	assert.Equal(t, "Chorizo Mediano - T1", batch.Label)

	status, raw, _ = a.do(http.MethodPost, "/api/batches/"+itoa(batch.ID)+"/materials", a.operador,
		map[string]any{"material_id": grasa, "quantity": "30"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	out := decode[dto.MovementResponse](t, raw)
	assert.Equal(t, "SALIDA", out.MovementType)
	assert.True(t, out.StockAfter.Equal(d("120")))

	status, raw, _ = a.do(http.MethodGet, base, a.operador, nil)
	require.Equal(t, http.StatusOK, status)
	m := decode[dto.MaterialResponse](t, raw)
	assert.True(t, m.Stock.Equal(d("120")))
	assert.Equal(t, "2.33", m.UnitCost.StringFixed(2))

	status, raw, _ = a.do(http.MethodGet, "/api/batches/"+itoa(batch.ID)+"/materials", a.operador, nil)
	require.Equal(t, http.StatusOK, status)
	usage := decode[dto.BatchUsageResponse](t, raw)
	require.Len(t, usage.Items, 1)
	assert.Equal(t, "70.00", usage.TotalCost.StringFixed(2))

	status, raw, _ = a.do(http.MethodGet, base+"/audit", a.operador, nil)
	require.Equal(t, http.StatusOK, status)
	audit := decode[dto.AuditResponse](t, raw)
	assert.True(t, audit.Consistent)
	assert.Equal(t, 3, audit.Entries)

	status, raw, _ = a.do(http.MethodGet, "/api/reports/ledger?type=SALIDA&material_id="+itoa(grasa), a.operador, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	hist := decode[dto.LedgerHistoryResponse](t, raw)
	require.Len(t, hist.Items, 1)
	assert.Equal(t, "operario-1", hist.Items[0].User)
	assert.True(t, hist.TotalSalidas.Equal(d("30")))

	status, raw, _ = a.do(http.MethodGet, "/api/reports/daily-production?date=2024-01-01", a.operador, nil)
	require.Equal(t, http.StatusOK, status)
	prod := decode[dto.ProductionResponse](t, raw)
	assert.Equal(t, 1, prod.TotalBatches)
	assert.True(t, prod.TotalKilos.Equal(d("20")))
}

func TestAPI_ConsumoSuperaStock_409ConCantidades(t *testing.T) {
	a := newAPI(t, "")
	grasa := a.materialID("Grasa pelada")
	status, _, _ := a.do(http.MethodPost, "/api/materials/"+itoa(grasa)+"/receipts", "", map[string]any{"quantity": "120", "unit_cost": "2"})
	require.Equal(t, http.StatusCreated, status)
	status, raw, _ := a.do(http.MethodPost, "/api/batches", "", map[string]any{
		"date": "2024-01-01", "sequence_number": 1, "product_id": 2, "quantity_produced": "10",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	batch := decode[dto.BatchResponse](t, raw)

	status, raw, _ = a.do(http.MethodPost, "/api/batches/"+itoa(batch.ID)+"/materials", "",
		map[string]any{"material_id": grasa, "quantity": "200"})
	require.Equal(t, http.StatusConflict, status)
	body := decode[dto.InsufficientStockResponse](t, raw)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.True(t, body.Requested.Equal(d("200")))
	assert.True(t, body.Available.Equal(d("120")))
	assert.True(t, body.Shortfall.Equal(d("80")))

	status, raw, _ = a.do(http.MethodGet, "/api/reports/ledger?type=SALIDA", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[dto.LedgerHistoryResponse](t, raw).Items)
}

func TestAPI_TandaDuplicada_409(t *testing.T) {
	a := newAPI(t, "")
	req := map[string]any{"date": "2024-01-01", "sequence_number": 1, "product_id": 2, "quantity_produced": "10"}
	status, _, _ := a.do(http.MethodPost, "/api/batches", "", req)
	require.Equal(t, http.StatusCreated, status)

	status, raw, _ := a.do(http.MethodPost, "/api/batches", "", req)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_BATCH", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAPI_Validacion_400ConCampo(t *testing.T) {
	a := newAPI(t, "")

	status, raw, _ := a.do(http.MethodPost, "/api/batches", "", map[string]any{"date": "01/01/2024", "sequence_number": 1, "product_id": 2})
	assert.Equal(t, http.StatusBadRequest, status)
	e := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "date", e.Field)

	status, raw, _ = a.do(http.MethodPost, "/api/materials/1/receipts", "", map[string]any{"quantity": "0", "unit_cost": "2"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "quantity", decode[dto.ErrorResponse](t, raw).Field)

	status, _, _ = a.do(http.MethodGet, "/api/materials/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw, _ = a.do(http.MethodGet, "/api/reports/monthly-production?year=2024&month=13", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "month", decode[dto.ErrorResponse](t, raw).Field)

	status, raw, _ = a.do(http.MethodGet, "/api/prices?margin=900", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "margin", decode[dto.ErrorResponse](t, raw).Field)
}

func TestAPI_NoEncontrado_404(t *testing.T) {
	a := newAPI(t, "")
	status, raw, _ := a.do(http.MethodGet, "/api/materials/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)

	status, _, _ = a.do(http.MethodGet, "/api/batches/999/materials", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_MaterialDuplicado_409(t *testing.T) {
	a := newAPI(t, "")
	status, raw, _ := a.do(http.MethodPost, "/api/materials", "", map[string]any{"name": "Tripa natural"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	m := decode[dto.MaterialResponse](t, raw)
	assert.True(t, m.Stock.IsZero())

	status, raw, _ = a.do(http.MethodPost, "/api/materials", "", map[string]any{"name": "Tripa natural"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinToken_401(t *testing.T) {
	a := newAPI(t, testJWTSecret)
	status, _, _ := a.do(http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_EliminarTanda_SoloAdmin(t *testing.T) {
	a := newAPI(t, testJWTSecret)
	grasa := a.materialID("Grasa pelada")
	status, _, _ := a.do(http.MethodPost, "/api/materials/"+itoa(grasa)+"/receipts", a.operador, map[string]any{"quantity": "100", "unit_cost": "2"})
	require.Equal(t, http.StatusCreated, status)
	status, raw, _ := a.do(http.MethodPost, "/api/batches", a.operador, map[string]any{
		"date": "2024-01-01", "sequence_number": 1, "product_id": 2, "quantity_produced": "10",
	})
	require.Equal(t, http.StatusCreated, status)
	batch := decode[dto.BatchResponse](t, raw)
	status, _, _ = a.do(http.MethodPost, "/api/batches/"+itoa(batch.ID)+"/materials", a.operador, map[string]any{"material_id": grasa, "quantity": "40"})
	require.Equal(t, http.StatusCreated, status)

	status, _, _ = a.do(http.MethodDelete, "/api/batches/"+itoa(batch.ID), a.operador, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw, _ = a.do(http.MethodDelete, "/api/batches/"+itoa(batch.ID), a.admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	del := decode[dto.DeleteBatchResponse](t, raw)
	require.Len(t, del.Reversals, 1)
	assert.Equal(t, "ENTRADA", del.Reversals[0].MovementType)

	status, raw, _ = a.do(http.MethodGet, "/api/materials/"+itoa(grasa), a.operador, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[dto.MaterialResponse](t, raw).Stock.Equal(d("100")))
}

func TestAPI_PreciosDelDia_AdminReemplaza(t *testing.T) {
	a := newAPI(t, testJWTSecret)
	body := map[string]any{"prices": []map[string]any{{"product_id": 1, "sale_price": "12000"}}}

	status, _, _ := a.do(http.MethodPut, "/api/prices/2024-01-01", a.operador, body)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw, _ := a.do(http.MethodPut, "/api/prices/2024-01-01", a.admin, body)
	require.Equal(t, http.StatusOK, status, string(raw))
	sheet := decode[dto.PriceSheetResponse](t, raw)
	assert.Equal(t, "2024-01-01", sheet.Date)
	require.Len(t, sheet.Rows, 4)
	assert.True(t, sheet.Rows[0].SalePrice.Equal(d("12000")))
	assert.True(t, sheet.Margin.Equal(d("30")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Exportaciones(t *testing.T) {
	a := newAPI(t, "")
	status, raw, hdr := a.do(http.MethodGet, "/api/reports/export.xlsx", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, hdr.Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, "PK", string(raw[:2]), "xlsx es un zip")

	status, raw, _ = a.do(http.MethodPost, "/api/batches", "", map[string]any{
		"date": "2024-01-01", "sequence_number": 2, "product_id": 3, "quantity_produced": "15",
	})
	require.Equal(t, http.StatusCreated, status)
	batch := decode[dto.BatchResponse](t, raw)

	status, raw, hdr = a.do(http.MethodGet, "/api/batches/"+itoa(batch.ID)+"/cost-sheet.pdf", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/pdf", hdr.Get("Content-Type"))
	assert.Contains(t, hdr.Get("Content-Disposition"), "tanda_2024-01-01_T2.pdf")
	assert.Equal(t, "%PDF", string(raw[:4]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Contención del almacén
// ──────────────────────────────────────────────────────────────────────────────

type busyRunner struct{}

func (busyRunner) Run(context.Context, func(inventory.Repos) error) error {
	return fmt.Errorf("lock_timeout: %w", domain.ErrStoreContention)
}

func TestAPI_AlmacenOcupadoEsReintentable(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.SeedMaterials(context.Background()))
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Materials: usecase.NewMaterialUseCase(store.Materials()),
		Engine:    inventory.NewCostingEngine(busyRunner{}, nil, logger.Nop()),
	})
	a := &api{t: t, app: app}

	status, raw, hdr := a.do(http.MethodPost, "/api/materials/1/receipts", "", map[string]any{"quantity": "10", "unit_cost": "2"})
	require.Equal(t, http.StatusServiceUnavailable, status, string(raw))
	assert.Equal(t, "1", hdr.Get("Retry-After"))
	assert.Equal(t, "STORE_BUSY", decode[dto.ErrorResponse](t, raw).Code)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
