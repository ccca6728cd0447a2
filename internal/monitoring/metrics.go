package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	GenerationsActive  prometheus.Gauge
	PageFetchesTotal   *prometheus.CounterVec
	SupersededTotal    prometheus.Counter
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// NewMetrics registers the metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GenerationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "metagen_generations_total",
			Help: "The total number of generation runs by outcome",
		}, []string{"outcome"}), // success, configuration, transport, malformed_response, unknown
		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "metagen_generation_duration_seconds",
			Help:    "Duration of generation runs including the provider call",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"grounded"}),
		GenerationsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "metagen_generations_in_flight",
			Help: "Generation runs currently in progress",
		}),
		PageFetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "metagen_page_fetches_total",
			Help: "Page snapshot fetches by mode and status",
		}, []string{"mode", "status"}),
		SupersededTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "metagen_superseded_results_total",
			Help: "Results discarded because a newer submission was issued",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) ObserveGeneration(outcome string, grounded bool, d time.Duration) {
	if m == nil {
		return
	}
	label := "false"
	if grounded {
		label = "true"
	}
	m.GenerationsTotal.WithLabelValues(outcome).Inc()
	m.GenerationDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (m *Metrics) IncPageFetch(mode, status string) {
	if m == nil {
		return
	}
	m.PageFetchesTotal.WithLabelValues(mode, status).Inc()
}

func (m *Metrics) IncSuperseded() {
	if m == nil {
		return
	}
	m.SupersededTotal.Inc()
}

func (m *Metrics) GenerationStarted() {
	if m == nil {
		return
	}
	m.GenerationsActive.Inc()
}

func (m *Metrics) GenerationFinished() {
	if m == nil {
		return
	}
	m.GenerationsActive.Dec()
}
