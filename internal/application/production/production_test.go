package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const productMediano int64 = 2

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	store       *memory.Store
	engine      *inventory.CostingEngine
	batches     *production.BatchUseCase
	consumption *production.ConsumptionUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.SeedMaterials(context.Background()))
	log := logger.Nop()
	engine := inventory.NewCostingEngine(store, nil, log)
	return &env{
		store:       store,
		engine:      engine,
		batches:     production.NewBatchUseCase(store, store.Batches(), engine, nil, log),
		consumption: production.NewConsumptionUseCase(engine, store.Batches(), store.Usage()),
	}
}

func (e *env) materialByName(t *testing.T, name string) *entity.Material {
	t.Helper()
	list, err := e.store.Materials().List(context.Background())
	require.NoError(t, err)
	for _, m := range list {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("materia prima %q no sembrada", name)
	return nil
}

func (e *env) createBatch(t *testing.T, seq int, qty string) *dto.BatchResponse {
	t.Helper()
	b, err := e.batches.SaveBatch(context.Background(), production.SaveBatchInput{
		Date: day, SequenceNumber: seq, ProductID: productMediano, QuantityProduced: d(qty), UnitCount: 10,
	})
	require.NoError(t, err)
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// Tandas
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveBatch_CreaConEtiqueta(t *testing.T) {
	e := newEnv(t)
	b := e.createBatch(t, 1, "40")

	assert.NotZero(t, b.ID)
	assert.Equal(t, "2024-01-01", b.Date)
	assert.Equal(t, "Chorizo Mediano - T1", b.Label)
	assert.Equal(t, 10, b.UnitCount)
}

func TestSaveBatch_DuplicadoNoModificaOriginal(t *testing.T) {
	e := newEnv(t)
	first := e.createBatch(t, 1, "40")

	_, err := e.batches.SaveBatch(context.Background(), production.SaveBatchInput{
		Date: day, SequenceNumber: 1, ProductID: productMediano, QuantityProduced: d("99"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateBatch))

	got, err := e.batches.GetBatch(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, got.QuantityProduced.Equal(d("40")))

	list, err := e.batches.ListByDate(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveBatch_MismoNumeroOtraReferenciaPermitido(t *testing.T) {
	e := newEnv(t)
	e.createBatch(t, 1, "40")
	_, err := e.batches.SaveBatch(context.Background(), production.SaveBatchInput{
		Date: day, SequenceNumber: 1, ProductID: 3, QuantityProduced: d("10"),
	})
	assert.NoError(t, err)
}

func TestSaveBatch_Validaciones(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name  string
		in    production.SaveBatchInput
		field string
	}{
		{"sin fecha", production.SaveBatchInput{SequenceNumber: 1, ProductID: 1}, "date"},
		{"número cero", production.SaveBatchInput{Date: day, SequenceNumber: 0, ProductID: 1}, "sequence_number"},
		{"kilos negativos", production.SaveBatchInput{Date: day, SequenceNumber: 1, ProductID: 1, QuantityProduced: d("-1")}, "quantity_produced"},
		{"unidades negativas", production.SaveBatchInput{Date: day, SequenceNumber: 1, ProductID: 1, UnitCount: -2}, "unit_count"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.batches.SaveBatch(context.Background(), tc.in)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestSaveBatch_ProductoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.batches.SaveBatch(context.Background(), production.SaveBatchInput{
		Date: day, SequenceNumber: 1, ProductID: 99,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSaveBatch_ActualizaSinTocarFechaNiConsumos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.createBatch(t, 1, "40")
	carne := e.materialByName(t, "Carne finca")
	_, err := e.engine.ReceiveStock(ctx, inventory.ReceiptInput{MaterialID: carne.ID, Quantity: d("50"), UnitCost: d("12000")})
	require.NoError(t, err)
	_, err = e.consumption.AssignMaterial(ctx, b.ID, dto.AssignMaterialRequest{MaterialID: carne.ID, Quantity: d("20")}, "op")
	require.NoError(t, err)

	updated, err := e.batches.SaveBatch(ctx, production.SaveBatchInput{
		ID: b.ID, Date: day.AddDate(0, 0, 5), SequenceNumber: 3, ProductID: 4, QuantityProduced: d("42.5"), UnitCount: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", updated.Date, "la fecha no se modifica")
	assert.Equal(t, "Chorizo de Cerdo - T3", updated.Label)

	usage, err := e.consumption.ListUsage(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, usage.Items, 1)
	assert.True(t, e.materialByName(t, "Carne finca").Stock.Equal(d("30")))
}

func TestSaveBatch_ActualizarInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.batches.SaveBatch(context.Background(), production.SaveBatchInput{
		ID: 123, SequenceNumber: 1, ProductID: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumos
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignMaterial_ListaConCostoPorKilo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.createBatch(t, 1, "40")
	grasa := e.materialByName(t, "Grasa pelada")
	carne := e.materialByName(t, "Carne finca")
	_, err := e.engine.ReceiveStock(ctx, inventory.ReceiptInput{MaterialID: grasa.ID, Quantity: d("100"), UnitCost: d("2")})
	require.NoError(t, err)
	_, err = e.engine.ReceiveStock(ctx, inventory.ReceiptInput{MaterialID: carne.ID, Quantity: d("100"), UnitCost: d("10")})
	require.NoError(t, err)

	for _, a := range []dto.AssignMaterialRequest{
		{MaterialID: grasa.ID, Quantity: d("10")},
		{MaterialID: carne.ID, Quantity: d("20")},
		{MaterialID: grasa.ID, Quantity: d("5")},
	} {
		res, err := e.consumption.AssignMaterial(ctx, b.ID, a, "op")
		require.NoError(t, err)
		assert.Equal(t, "Usado en Chorizo Mediano - T1", res.Entry.Reference)
	}

	usage, err := e.consumption.ListUsage(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, usage.Items, 3, "asignaciones repetidas no se agrupan")
	assert.True(t, usage.TotalCost.Equal(d("230")), "10×2 + 20×10 + 5×2")
	assert.True(t, usage.CostPerKg.Equal(d("5.75")), "230 / 40")
}

func TestAssignMaterial_TandaInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.consumption.AssignMaterial(context.Background(), 99, dto.AssignMaterialRequest{MaterialID: 1, Quantity: d("1")}, "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación con reverso
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteBatch_RevierteConsumos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.createBatch(t, 2, "40")
	grasa := e.materialByName(t, "Grasa pelada")
	_, err := e.engine.ReceiveStock(ctx, inventory.ReceiptInput{MaterialID: grasa.ID, Quantity: d("100"), UnitCost: d("2")})
	require.NoError(t, err)
	_, err = e.consumption.AssignMaterial(ctx, b.ID, dto.AssignMaterialRequest{MaterialID: grasa.ID, Quantity: d("30")}, "op")
	require.NoError(t, err)
	require.True(t, e.materialByName(t, "Grasa pelada").Stock.Equal(d("70")))

	resp, err := e.batches.DeleteBatch(ctx, b.ID, "admin")
	require.NoError(t, err)
	require.Len(t, resp.Reversals, 1)
	assert.Equal(t, "ENTRADA", resp.Reversals[0].MovementType)

	after := e.materialByName(t, "Grasa pelada")
	assert.True(t, after.Stock.Equal(d("100")), "el stock vuelve al valor previo al consumo")
	assert.True(t, after.UnitCost.Equal(d("2")), "reverso al mismo costo no altera el promedio")

	_, err = e.batches.GetBatch(ctx, b.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	entries, err := e.store.Ledger().ListByMaterial(ctx, grasa.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3, "ENTRADA + SALIDA + reverso; el historial no se borra")
	rev := entries[2]
	assert.Equal(t, "Reverso de Chorizo Mediano - T2", rev.Reference)
	require.NotNil(t, rev.BatchID)
	assert.Equal(t, b.ID, *rev.BatchID)
	assert.Equal(t, "admin", rev.User)
}

func TestDeleteBatch_Inexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.batches.DeleteBatch(context.Background(), 7, "admin")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
