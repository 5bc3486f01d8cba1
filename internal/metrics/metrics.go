// Package metrics exposes Prometheus counters for the HTTP surface, the
// leave lifecycle, the balance ledger and the outbox pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset used by services and workers.
type Recorder interface {
	RecordLeaveTransition(from, to string)
	RecordBalanceAdjustment(operation string, days float64)
	RecordOutboxPublished(eventType string)
	RecordOutboxFailed(eventType string)
	RecordNotificationCreated(eventType string)
}

type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	leaveTransitions *prometheus.CounterVec
	balanceDays      *prometheus.CounterVec
	outboxPublished  *prometheus.CounterVec
	outboxFailed     *prometheus.CounterVec
	notifications    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		leaveTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_transitions_total",
			Help: "Committed leave request status transitions.",
		}, []string{"from", "to"}),
		balanceDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_balance_adjusted_days_total",
			Help: "Days moved by the balance ledger, by operation.",
		}, []string{"operation"}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events delivered to Kafka.",
		}, []string{"event_type"}),
		outboxFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_failed_total",
			Help: "Outbox publish attempts that failed.",
		}, []string{"event_type"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications created from lifecycle events.",
		}, []string{"event_type"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.leaveTransitions,
		c.balanceDays,
		c.outboxPublished,
		c.outboxFailed,
		c.notifications,
	)

	return c
}

func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordLeaveTransition(from, to string) {
	c.leaveTransitions.WithLabelValues(from, to).Inc()
}

// RecordBalanceAdjustment adds days under operation ("deduct", "restore" or
// "override"). Negative values are ignored since counters only grow.
func (c *Collector) RecordBalanceAdjustment(operation string, days float64) {
	if days <= 0 {
		return
	}
	c.balanceDays.WithLabelValues(operation).Add(days)
}

func (c *Collector) RecordOutboxPublished(eventType string) {
	c.outboxPublished.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordOutboxFailed(eventType string) {
	c.outboxFailed.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordNotificationCreated(eventType string) {
	c.notifications.WithLabelValues(eventType).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where no registry is wired.
type Nop struct{}

func (Nop) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordLeaveTransition(string, string)                  {}
func (Nop) RecordBalanceAdjustment(string, float64)               {}
func (Nop) RecordOutboxPublished(string)                          {}
func (Nop) RecordOutboxFailed(string)                             {}
func (Nop) RecordNotificationCreated(string)                      {}
