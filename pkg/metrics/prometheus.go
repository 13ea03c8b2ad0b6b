package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus metric the service exports.
// A disabled Manager accepts all calls and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Booking
	sessionsBooked   *prometheus.CounterVec
	bookingsRejected *prometheus.CounterVec
	bookingDays      prometheus.Histogram

	// Analysis and plans
	analysesFinished *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	plansGenerated   prometheus.Counter

	// Outbox
	outboxDeliveries *prometheus.CounterVec

	// HTTP and storage
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	queryDuration       *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// registers on a fresh registry that also carries the Go runtime collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "courtside",
		subsystem:        "",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsBooked = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_booked_total",
		Help:      "Training sessions created by booking submissions, by session type",
	}, []string{"type"})

	m.bookingsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bookings_rejected_total",
		Help:      "Booking submissions refused before anything was written, by reason",
	}, []string{"reason"})

	m.bookingDays = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "booking_range_days",
		Help:      "Number of calendar days covered by each successful booking",
		Buckets:   []float64{1, 2, 3, 5, 7, 14, 31, 62, 93},
	})

	m.analysesFinished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_finished_total",
		Help:      "Video analyses that reached a final status",
	}, []string{"status"})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analysis_duration_milliseconds",
		Help:      "Time from analysis start to final status in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.plansGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "plans_generated_total",
		Help:      "Training plans generated",
	})

	m.outboxDeliveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outbox_deliveries_total",
		Help:      "Outbox delivery attempts by action and outcome",
	}, []string{"action", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and method",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status_code"})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "db_query_duration_milliseconds",
		Help:      "Database call duration in milliseconds by operation",
		Buckets:   m.histogramBuckets,
	}, []string{"op"})
}

// RecordBooking counts the sessions created by one booking.
func (m *Manager) RecordBooking(sessionType string, sessions int) {
	if !m.enabled {
		return
	}
	m.sessionsBooked.WithLabelValues(sessionType).Add(float64(sessions))
	m.bookingDays.Observe(float64(sessions))
}

// RecordBookingRejected counts a refused booking submission.
func (m *Manager) RecordBookingRejected(reason string) {
	if !m.enabled {
		return
	}
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

// RecordAnalysis counts an analysis reaching status after d.
func (m *Manager) RecordAnalysis(status string, d time.Duration) {
	if !m.enabled {
		return
	}
	m.analysesFinished.WithLabelValues(status).Inc()
	m.analysisDuration.Observe(float64(d.Milliseconds()))
}

// RecordPlanGenerated increments the plans counter.
func (m *Manager) RecordPlanGenerated() {
	if !m.enabled {
		return
	}
	m.plansGenerated.Inc()
}

// RecordOutboxDelivery counts one outbox attempt.
func (m *Manager) RecordOutboxDelivery(action, outcome string) {
	if !m.enabled {
		return
	}
	m.outboxDeliveries.WithLabelValues(action, outcome).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(route, method string, statusCode int, d time.Duration) {
	if !m.enabled {
		return
	}
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(float64(d.Microseconds()) / 1000)
}

// ObserveQuery records a database call. It satisfies storage.QueryObserver.
func (m *Manager) ObserveQuery(op string, d time.Duration) {
	if !m.enabled {
		return
	}
	m.queryDuration.WithLabelValues(op).Observe(float64(d.Microseconds()) / 1000)
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
