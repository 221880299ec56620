package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Metrics holds the Prometheus metrics of the dashboard. Each instance owns its registry
// so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	RowsLoaded        prometheus.Histogram
	CrossoversTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossover_http_requests_total",
			Help: "HTTP requests served (by route and status code)",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crossover_http_request_duration_seconds",
			Help:    "HTTP request latency (by route)",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossover_strategy_runs_total",
			Help: "Strategy runs (by outcome: ok or an error code)",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crossover_strategy_run_duration_seconds",
			Help:    "Time to load prices and compute the crossovers of one run",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RowsLoaded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crossover_strategy_rows_loaded",
			Help:    "Trading days in range per successful run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 7),
		}),
		CrossoversTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossover_signals_total",
			Help: "Crossovers found (by direction)",
		}, []string{"direction"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPDuration,
		m.RunsTotal,
		m.RunDuration,
		m.RowsLoaded,
		m.CrossoversTotal,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRejected counts a request that failed validation before any run started.
func (m *Metrics) ObserveRejected(err error) {
	m.RunsTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveRun records the outcome of one strategy run.
func (m *Metrics) ObserveRun(result *strategy.Result, err error, elapsed time.Duration) {
	m.RunDuration.Observe(elapsed.Seconds())

	if err != nil {
		m.RunsTotal.WithLabelValues(outcome(err)).Inc()

		return
	}

	m.RunsTotal.WithLabelValues("ok").Inc()
	m.RowsLoaded.Observe(float64(len(result.Series)))

	for _, signal := range result.Signals {
		if signal.IsCross() {
			m.CrossoversTotal.WithLabelValues(string(signal)).Inc()
		}
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch errors.GetCode(err) {
	case errors.ErrCodeStockNotFound:
		return "stock_not_found"
	case errors.ErrCodeEmptyRange:
		return "empty_range"
	case errors.ErrCodeInvalidDateRange, errors.ErrCodeInvalidParameter, errors.ErrCodeMissingParameter:
		return "invalid_request"
	default:
		return "error"
	}
}
