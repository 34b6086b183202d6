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

const (
	OutcomeCreated     = "created"
	OutcomeConflict    = "conflict"
	OutcomeInvalidTime = "invalid_time"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeReplayed    = "replayed"
	OutcomeError       = "error"
)

// Collector owns its registry so several collectors can coexist in one
// process. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	BookingsTotal       *prometheus.CounterVec
	BookingLockWait     prometheus.Histogram
	EventPublishFailure prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		BookingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Appointment create attempts by outcome.",
		}, []string{"outcome"}),

		BookingLockWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the per-day booking lock.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),

		EventPublishFailure: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "publish_failures_total",
			Help:      "Booking events that could not be published. Alert if non-zero.",
		}),
	}
}

func (c *Collector) Booking(outcome string) {
	if c == nil {
		return
	}
	c.BookingsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) LockWait(d time.Duration) {
	if c == nil {
		return
	}
	c.BookingLockWait.Observe(d.Seconds())
}

func (c *Collector) PublishFailed() {
	if c == nil {
		return
	}
	c.EventPublishFailure.Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.RequestsTotal.WithLabelValues(method, route, code).Inc()
	c.RequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

// InFlight bumps the in-flight gauge; call the returned func when the
// request is done.
func (c *Collector) InFlight() func() {
	if c == nil {
		return func() {}
	}
	c.InFlightGauge.Inc()
	return c.InFlightGauge.Dec
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
