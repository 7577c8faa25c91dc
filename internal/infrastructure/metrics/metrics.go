// Package metrics expone los colectores Prometheus del API, del checkout y de los jobs.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
)

const namespace = "mousto"

var _ ports.SalesMetrics = (*Metrics)(nil)

// Metrics agrupa los colectores sobre un registro propio (no el global).
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	checkouts        prometheus.Counter
	checkoutLines    prometheus.Counter
	checkoutUnits    prometheus.Counter
	checkoutRevenue  prometheus.Counter
	checkoutFailures *prometheus.CounterVec

	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec

	realtimeClients prometheus.Gauge
}

// New registra todos los colectores más los de proceso y runtime.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "checkouts_total",
			Help:      "Validated carts.",
		}),
		checkoutLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "lines_total",
			Help:      "Sale rows created by checkouts.",
		}),
		checkoutUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "units_total",
			Help:      "Units sold.",
		}),
		checkoutRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "revenue_total",
			Help:      "Revenue of validated carts in store currency.",
		}),
		checkoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "checkout_failures_total",
			Help:      "Rejected checkouts by reason.",
		}, []string{"reason"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled job executions.",
		}, []string{"job", "success"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_run_duration_seconds",
			Help:      "Duration of scheduled job executions.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"job"}),
		realtimeClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "clients",
			Help:      "Connected realtime clients.",
		}),
	}
	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.checkouts,
		m.checkoutLines,
		m.checkoutUnits,
		m.checkoutRevenue,
		m.checkoutFailures,
		m.jobRuns,
		m.jobDuration,
		m.realtimeClients,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RequestStarted / RequestFinished delimitan una petición HTTP.
func (m *Metrics) RequestStarted() { m.httpInFlight.Inc() }

func (m *Metrics) RequestFinished(method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveCheckout contabiliza un carrito validado.
func (m *Metrics) ObserveCheckout(lines, units int, total decimal.Decimal) {
	m.checkouts.Inc()
	m.checkoutLines.Add(float64(lines))
	m.checkoutUnits.Add(float64(units))
	if total.IsPositive() {
		m.checkoutRevenue.Add(total.InexactFloat64())
	}
}

func (m *Metrics) ObserveCheckoutFailure(reason string) {
	m.checkoutFailures.WithLabelValues(reason).Inc()
}

// ObserveJob registra una ejecución del scheduler.
func (m *Metrics) ObserveJob(job string, err error, d time.Duration) {
	m.jobRuns.WithLabelValues(job, strconv.FormatBool(err == nil)).Inc()
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// SetRealtimeClients conexiones abiertas en el hub.
func (m *Metrics) SetRealtimeClients(n int) {
	m.realtimeClients.Set(float64(n))
}
