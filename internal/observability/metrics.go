package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helpdesk"

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
	OutcomeSkipped = "skipped"
)

// Metrics groups the service's prometheus collectors.
type Metrics struct {
	gatherer       prometheus.Gatherer
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	watchdogRuns   *prometheus.CounterVec
	overdueTickets prometheus.Gauge
}

// NewMetrics registers collectors on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status_code"}),
		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "HTTP error responses by route, method and error code",
		}, []string{"route", "method", "code"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "total",
			Help:      "Notification events by type and outcome",
		}, []string{"type", "outcome"}),
		watchdogRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchdog",
			Name:      "runs_total",
			Help:      "SLA watchdog sweeps by result",
		}, []string{"result"}),
		overdueTickets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watchdog",
			Name:      "overdue_tickets",
			Help:      "Overdue tickets seen by the latest sweep",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordNotification counts a notification outcome.
func (m *Metrics) RecordNotification(eventType, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(eventType, outcome).Inc()
}

// RecordWatchdogRun counts a sweep and the overdue tickets it found.
func (m *Metrics) RecordWatchdogRun(overdue int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.watchdogRuns.WithLabelValues("error").Inc()
		return
	}
	m.watchdogRuns.WithLabelValues("ok").Inc()
	m.overdueTickets.Set(float64(overdue))
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
