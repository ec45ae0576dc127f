// Package metrics expone contadores Prometheus del ledger y del servidor HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventario_ledger"

// Metrics agrupa los colectores registrados. Implementa inventory.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	movementsRecorded *prometheus.CounterVec
	movementUnits     *prometheus.CounterVec
	movementsRejected *prometheus.CounterVec
	requests          *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
}

// New crea un registro propio con los colectores de proceso y Go más los del ledger.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		movementsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "movements_recorded_total",
				Help:      "Movimientos confirmados en el ledger",
			},
			[]string{"type"},
		),
		movementUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "movement_units_total",
				Help:      "Unidades movidas por tipo",
			},
			[]string{"type"},
		),
		movementsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "movements_rejected_total",
				Help:      "Movimientos rechazados por motivo",
			},
			[]string{"reason"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Peticiones HTTP atendidas",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP en segundos",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.movementsRecorded, m.movementUnits, m.movementsRejected, m.requests, m.requestLatency)
	return m
}

// MovementRecorded cuenta un movimiento confirmado y sus unidades.
func (m *Metrics) MovementRecorded(movementType string, quantity int64) {
	m.movementsRecorded.WithLabelValues(movementType).Inc()
	m.movementUnits.WithLabelValues(movementType).Add(float64(quantity))
}

// MovementRejected cuenta un rechazo (not_found, invalid_input, insufficient_stock, conflict, internal).
func (m *Metrics) MovementRejected(reason string) {
	m.movementsRejected.WithLabelValues(reason).Inc()
}

// ObserveHTTP registra una petición atendida. route es el patrón de la ruta, no el path crudo.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
