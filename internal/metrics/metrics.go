package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	commandsTotal  *prometheus.CounterVec
	filterChanges  *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	datasetRecords prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvcharts_commands_total",
			Help: "Dashboard commands handled by command and result.",
		}, []string{"command", "result"}),
		filterChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvcharts_filter_changes_total",
			Help: "Filter selections that changed the active filter.",
		}, []string{"filter"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tvcharts_render_seconds",
			Help:    "Time spent producing chart output by backend and chart.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "chart"}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tvcharts_dataset_records",
			Help: "Records in the loaded dataset.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvcharts_http_requests_total",
			Help: "HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tvcharts_http_request_duration_seconds",
			Help:    "HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.commandsTotal,
		m.filterChanges,
		m.renderDuration,
		m.datasetRecords,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for scraping and tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Command counts one handled command
func (m *Metrics) Command(name string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commandsTotal.WithLabelValues(name, result).Inc()
}

// FilterChanged counts a change of the active filter
func (m *Metrics) FilterChanged(filter string) {
	if m == nil {
		return
	}
	m.filterChanges.WithLabelValues(filter).Inc()
}

// Rendered observes the time one chart output took
func (m *Metrics) Rendered(backend, chart string, d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(backend, chart).Observe(d.Seconds())
}

// SetDatasetRecords records the dataset size
func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and their duration under route
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}
