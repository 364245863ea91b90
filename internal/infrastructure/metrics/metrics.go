// Package metrics expone el estado del inventario y del API en formato Prometheus.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/event"
)

const namespace = "produccion"

// Metrics colectores de la aplicación. Implementa events.Subscriber.
type Metrics struct {
	registry     *prometheus.Registry
	stock        *prometheus.GaugeVec
	unitCost     *prometheus.GaugeVec
	movements    *prometheus.CounterVec
	batches      *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New registra los colectores en un registro propio (más los de proceso y runtime de Go).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stock: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "material_stock",
			Help: "Stock actual por materia prima.",
		}, []string{"material_id", "material"}),
		unitCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "material_unit_cost",
			Help: "Costo unitario promedio ponderado por materia prima.",
		}, []string{"material_id", "material"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ledger_movements_total",
			Help: "Movimientos confirmados por tipo.",
		}, []string{"movement_type"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "batch_changes_total",
			Help: "Tandas creadas, modificadas o eliminadas.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.stock, m.unitCost, m.movements, m.batches, m.httpRequests, m.httpLatency,
	)
	return m
}

// Registry registro con todos los colectores.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// SetMaterial fija los gauges de una materia prima (carga inicial al arrancar).
func (m *Metrics) SetMaterial(mat *entity.Material) {
	labels := prometheus.Labels{"material_id": strconv.FormatInt(mat.ID, 10), "material": mat.Name}
	m.stock.With(labels).Set(mat.Stock.InexactFloat64())
	m.unitCost.With(labels).Set(mat.UnitCost.InexactFloat64())
}

func (m *Metrics) Name() string { return "metrics" }

// Handle actualiza los colectores con cada evento confirmado.
func (m *Metrics) Handle(_ context.Context, ev event.Event) error {
	switch e := ev.(type) {
	case event.MaterialStockChangedEvent:
		labels := prometheus.Labels{"material_id": strconv.FormatInt(e.MaterialID, 10), "material": e.MaterialName}
		m.stock.With(labels).Set(e.StockAfter.InexactFloat64())
		m.unitCost.With(labels).Set(e.UnitCost.InexactFloat64())
		m.movements.WithLabelValues(string(e.Type)).Inc()
	case event.BatchChangedEvent:
		m.batches.WithLabelValues(e.Action).Inc()
	}
	return nil
}

// Middleware cuenta peticiones y latencia por ruta registrada (no por path, para acotar la cardinalidad).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
