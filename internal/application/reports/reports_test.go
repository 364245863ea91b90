package reports_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/pricing"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/reports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	day1 = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	feb  = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

type env struct {
	store       *memory.Store
	engine      *inventory.CostingEngine
	batches     *production.BatchUseCase
	consumption *production.ConsumptionUseCase
	reports     *reports.ReportsUseCase
	manero      *entity.Material
	carne       *entity.Material
}

// Manero 100 kg a 4, Carne finca 100 kg a 10.
// Enero 10: Mediano T1 (40 kg, 160 u) usa 10 manero + 5 carne; Grande T1 (60 kg) usa 20 manero.
// Enero 11: Mediano T2 (30 kg, 100 u). Febrero 1: Económico T1 (15 kg).
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.Nop()
	e := &env{store: store, engine: inventory.NewCostingEngine(store, nil, log)}
	e.batches = production.NewBatchUseCase(store, store.Batches(), e.engine, nil, log)
	e.consumption = production.NewConsumptionUseCase(e.engine, store.Batches(), store.Usage())
	e.reports = reports.NewReportsUseCase(store.Reports(), store.Ledger(), time.UTC)

	e.manero = &entity.Material{Name: "Manero", Unit: "kg"}
	e.carne = &entity.Material{Name: "Carne finca", Unit: "kg"}
	for _, m := range []*entity.Material{e.manero, e.carne} {
		require.NoError(t, store.Materials().Create(ctx, m))
	}
	_, err := e.engine.ReceiveStock(ctx, inventory.ReceiptInput{MaterialID: e.manero.ID, Quantity: d("100"), UnitCost: d("4")})
	require.NoError(t, err)
	_, err = e.engine.ReceiveStock(ctx, inventory.ReceiptInput{MaterialID: e.carne.ID, Quantity: d("100"), UnitCost: d("10")})
	require.NoError(t, err)

	mediano := e.batch(t, day1, 1, 2, "40", 160)
	grande := e.batch(t, day1, 1, 3, "60", 0)
	e.batch(t, day2, 2, 2, "30", 100)
	e.batch(t, feb, 1, 1, "15", 0)

	e.assign(t, mediano.ID, e.manero.ID, "10")
	e.assign(t, mediano.ID, e.carne.ID, "5")
	e.assign(t, grande.ID, e.manero.ID, "20")
	return e
}

func (e *env) batch(t *testing.T, date time.Time, seq int, product int64, qty string, units int) *dto.BatchResponse {
	t.Helper()
	b, err := e.batches.SaveBatch(context.Background(), production.SaveBatchInput{
		Date: date, SequenceNumber: seq, ProductID: product, QuantityProduced: d(qty), UnitCount: units,
	})
	require.NoError(t, err)
	return b
}

func (e *env) assign(t *testing.T, batchID, materialID int64, qty string) {
	t.Helper()
	_, err := e.consumption.AssignMaterial(context.Background(), batchID,
		dto.AssignMaterialRequest{MaterialID: materialID, Quantity: d(qty)}, "operador")
	require.NoError(t, err)
}

func TestDailyConsumption_SumaPorMateria(t *testing.T) {
	e := newEnv(t)

	resp, err := e.reports.DailyConsumption(context.Background(), day1)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	byName := map[string]dto.ConsumptionRow{}
	for _, r := range resp.Items {
		byName[r.MaterialName] = r
	}
	assert.True(t, byName["Manero"].Quantity.Equal(d("30")))
	assert.True(t, byName["Manero"].Total.Equal(d("120")))
	assert.True(t, byName["Carne finca"].Quantity.Equal(d("5")))
	assert.True(t, resp.TotalCost.Equal(d("170")))

	empty, err := e.reports.DailyConsumption(context.Background(), day2)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.TotalCost.IsZero())
}

func TestDailyProduction_SoloElDia(t *testing.T) {
	e := newEnv(t)

	resp, err := e.reports.DailyProduction(context.Background(), day1)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Chorizo Grande", resp.Items[0].ProductName, "ordenado por kilos desc")
	assert.Equal(t, 2, resp.TotalBatches)
	assert.True(t, resp.TotalKilos.Equal(d("100")))
	assert.Equal(t, 160, resp.TotalUnits)
	assert.Equal(t, "2024-01-10", resp.From)
	assert.Equal(t, "2024-01-11", resp.To)
}

func TestMonthlyProduction_AgrupaElMes(t *testing.T) {
	e := newEnv(t)

	resp, err := e.reports.MonthlyProduction(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	mediano := resp.Items[0]
	assert.Equal(t, "Chorizo Mediano", mediano.ProductName)
	assert.Equal(t, 2, mediano.Batches)
	assert.True(t, mediano.Kilos.Equal(d("70")))
	assert.Equal(t, 260, mediano.Units)
	assert.Equal(t, 3, resp.TotalBatches)

	febResp, err := e.reports.MonthlyProduction(context.Background(), 2024, 2)
	require.NoError(t, err)
	require.Len(t, febResp.Items, 1)
	assert.Equal(t, "Chorizo Económico", febResp.Items[0].ProductName)
}

func TestMonthlyProduction_MesInvalido(t *testing.T) {
	e := newEnv(t)
	for _, m := range []int{0, 13} {
		_, err := e.reports.MonthlyProduction(context.Background(), 2024, m)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "mes %d", m)
	}
}

func TestLedgerHistory_TotalesYFiltros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	all, err := e.reports.LedgerHistory(ctx, reports.LedgerQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
	assert.True(t, all.TotalEntradas.Equal(d("200")))
	assert.True(t, all.TotalSalidas.Equal(d("35")))
	assert.True(t, all.Balance.Equal(d("165")))
	assert.NotEmpty(t, all.Items[0].Time)

	id := e.manero.ID
	salidas, err := e.reports.LedgerHistory(ctx, reports.LedgerQuery{MaterialID: &id, Type: "SALIDA"})
	require.NoError(t, err)
	require.Len(t, salidas.Items, 2)
	for _, r := range salidas.Items {
		assert.Equal(t, "Manero", r.MaterialName)
		assert.Equal(t, "SALIDA", r.MovementType)
		require.NotNil(t, r.BatchID)
	}
	assert.True(t, salidas.Balance.Equal(d("-30")))
}

func TestLedgerHistory_RangoDeFechasInclusivo(t *testing.T) {
	e := newEnv(t)
	today := entity.DateOnly(time.Now().UTC())

	resp, err := e.reports.LedgerHistory(context.Background(), reports.LedgerQuery{From: &today, To: &today})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 5, "los movimientos de hoy entran con from = to = hoy")

	yesterday := today.AddDate(0, 0, -1)
	resp, err = e.reports.LedgerHistory(context.Background(), reports.LedgerQuery{To: &yesterday})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestLedgerHistory_LimiteNoRecortaTotales(t *testing.T) {
	e := newEnv(t)

	resp, err := e.reports.LedgerHistory(context.Background(), reports.LedgerQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.TotalEntradas.Equal(d("200")))
	assert.True(t, resp.TotalSalidas.Equal(d("35")))
	assert.True(t, resp.Balance.Equal(d("165")))
}

func TestLedgerHistory_DiasEnZonaConfigurada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	bogota := time.FixedZone("UTC-5", -5*60*60)
	uc := reports.NewReportsUseCase(store.Reports(), store.Ledger(), bogota)

	m := &entity.Material{Name: "Manero", Unit: "kg"}
	require.NoError(t, store.Materials().Create(ctx, m))
	// 20:00 del 1 de enero en UTC-5.
	require.NoError(t, store.Ledger().Append(ctx, &entity.LedgerEntry{
		TransactionID: "tx-1", MaterialID: m.ID, OccurredAt: time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC),
		Type: entity.MovementSalida, Quantity: d("3"), UnitCost: d("4"), Total: d("12"),
		StockBefore: d("10"), StockAfter: d("7"), Reference: "Usado en Chorizo Mediano - T1",
	}))

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, err := uc.LedgerHistory(ctx, reports.LedgerQuery{From: &jan1, To: &jan1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2024-01-01", resp.Items[0].Date)
	assert.Equal(t, "20:00:00", resp.Items[0].Time)

	jan2 := jan1.AddDate(0, 0, 1)
	resp, err = uc.LedgerHistory(ctx, reports.LedgerQuery{From: &jan2, To: &jan2})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestLedgerHistory_FiltrosInvalidos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.reports.LedgerHistory(ctx, reports.LedgerQuery{Type: "AJUSTE"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	from, to := day2, day1
	_, err = e.reports.LedgerHistory(ctx, reports.LedgerQuery{From: &from, To: &to})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

type capturingWriter struct {
	wb *reports.Workbook
}

func (c *capturingWriter) WriteWorkbook(_ context.Context, w io.Writer, wb *reports.Workbook) error {
	c.wb = wb
	_, err := w.Write([]byte("xlsx"))
	return err
}

func TestExport_ReuneLasCuatroHojas(t *testing.T) {
	e := newEnv(t)
	prices := pricing.NewPricingUseCase(e.store, e.store.Products(), e.store.Prices(), e.store.Reports(), d("30"), logger.Nop())
	writer := &capturingWriter{}
	uc := reports.NewExportUseCase(e.store.Materials(), e.store.Batches(), prices, e.reports, writer)

	var buf bytes.Buffer
	require.NoError(t, uc.Export(context.Background(), day1, &buf))
	assert.Equal(t, "xlsx", buf.String())

	wb := writer.wb
	require.NotNil(t, wb)
	assert.Len(t, wb.Materials, 2)
	assert.Len(t, wb.Batches, 4)
	assert.Len(t, wb.Prices.Rows, 4)
	assert.Len(t, wb.Ledger, 5)

	// Mediano: 10*4 + 5*10 = 90 sobre 40 kg; la T2 sin consumos no cuenta.
	assert.True(t, wb.Prices.Rows[1].CostPerKg.Equal(d("2.25")))
}
