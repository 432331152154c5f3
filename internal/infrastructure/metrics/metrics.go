// Package metrics expone contadores Prometheus del API: peticiones HTTP y transiciones de órdenes.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

const namespace = "comercio"

var _ orders.TransitionObserver = (*Metrics)(nil)

// Metrics agrupa los colectores sobre un registro propio (no el global), así cada instancia es aislada.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	transitionTotal *prometheus.CounterVec
}

// New registra los colectores del API más los de proceso y runtime de Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de peticiones HTTP por método, ruta y código.",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latencia de peticiones HTTP.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transitionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_transitions_total",
				Help:      "Transiciones de compras y ventas por estado origen, destino y resultado.",
			},
			[]string{"kind", "from", "to", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestLatency,
		m.transitionTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry permite a los tests leer los valores.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveTransition cuenta una transición de orden (kind = purchase|sale).
func (m *Metrics) ObserveTransition(kind string, from, to entity.OrderStatus, outcome string) {
	m.transitionTotal.WithLabelValues(kind, string(from), string(to), outcome).Inc()
}

// Middleware mide cada petición. Usa la ruta registrada (/api/products/:id), no la URL, para acotar cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.requestLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics en formato de exposición Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
