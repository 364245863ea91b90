package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost_PromedioPonderado(t *testing.T) {
	got := inventory.WeightedAverageCost(d("100"), d("2"), d("50"), d("3"))
	assert.True(t, got.Round(4).Equal(d("2.3333")), "costo esperado 2.3333, obtenido %s", got)
}

func TestWeightedAverageCost_StockCeroTomaCostoEntrada(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, d("10"), d("4.5"))
	assert.True(t, got.Equal(d("4.5")))
}

func TestWeightedAverageCost_StockAgotadoNoArrastraCosto(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, d("9.80"), d("5"), d("7"))
	assert.True(t, got.Equal(d("7")), "el costo de un stock agotado no se promedia")
}

// Secuencia de entradas: el costo final es el promedio ponderado por cantidad y el stock la suma.
func TestReceive_SecuenciaDeEntradas(t *testing.T) {
	m := &entity.Material{ID: 1, Name: "Carne finca", Stock: decimal.Zero, UnitCost: decimal.Zero}
	entradas := []struct{ q, c string }{{"10", "5"}, {"30", "6"}, {"60", "4"}}

	totalQty, totalValue := decimal.Zero, decimal.Zero
	for _, e := range entradas {
		mov := inventory.Receive(m, d(e.q), d(e.c))
		assert.True(t, mov.StockAfter.Equal(mov.StockBefore.Add(d(e.q))))
		m.Stock, m.UnitCost = mov.StockAfter, mov.CostAfter
		totalQty = totalQty.Add(d(e.q))
		totalValue = totalValue.Add(d(e.q).Mul(d(e.c)))
	}

	assert.True(t, m.Stock.Equal(totalQty))
	want := totalValue.Div(totalQty)
	assert.True(t, m.UnitCost.Round(10).Equal(want.Round(10)), "costo %s, esperado %s", m.UnitCost, want)
}

// Escenario "Grasa pelada": 100 @ 2, 50 @ 3, consumo de 30.
func TestReceiveConsume_GrasaPelada(t *testing.T) {
	m := &entity.Material{ID: 5, Name: "Grasa pelada", Stock: d("100"), UnitCost: d("2")}

	in := inventory.Receive(m, d("50"), d("3"))
	require.True(t, in.StockAfter.Equal(d("150")))
	m.Stock, m.UnitCost = in.StockAfter, in.CostAfter

	out, err := inventory.Consume(m, d("30"))
	require.NoError(t, err)
	assert.True(t, out.StockAfter.Equal(d("120")))
	assert.True(t, out.CostAfter.Equal(m.UnitCost), "la salida no cambia el costo promedio")
	assert.True(t, out.Total.Round(2).Equal(d("70")), "total salida ≈ 70.00, obtenido %s", out.Total)
	assert.Equal(t, entity.MovementSalida, out.Type)
}

func TestConsume_StockInsuficiente(t *testing.T) {
	m := &entity.Material{ID: 5, Name: "Grasa pelada", Stock: d("120"), UnitCost: d("2.5")}

	_, err := inventory.Consume(m, d("200"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, ise.Requested.Equal(d("200")))
	assert.True(t, ise.Available.Equal(d("120")))
	assert.True(t, ise.Shortfall().Equal(d("80")))
}

func TestConsume_TodoElStockPermitido(t *testing.T) {
	m := &entity.Material{ID: 2, Name: "Manero", Stock: d("12.5"), UnitCost: d("3")}
	out, err := inventory.Consume(m, d("12.5"))
	require.NoError(t, err)
	assert.True(t, out.StockAfter.IsZero())
}
