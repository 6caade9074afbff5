// Package metrics defines Prometheus metrics for claimdesk.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claimdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimdesk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimdesk_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "claimdesk_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	AuditRowsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimdesk_audit_rows_written_total",
			Help: "Audit rows written by action",
		},
		[]string{"action"},
	)

	AuditFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "claimdesk_audit_failures_total",
			Help: "Audit records that could not be written",
		},
	)

	ClaimTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimdesk_claim_transitions_total",
			Help: "Accepted claim status transitions",
		},
		[]string{"to"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimdesk_notifications_total",
			Help: "Notification attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	NotifyQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "claimdesk_notify_queue_depth",
			Help: "Messages waiting in the notification outbox",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		WSConnections,
		AuditRowsWritten, AuditFailures,
		ClaimTransitions,
		NotificationsTotal, NotifyQueueDepth,
	)
}

// RegisterPool exposes connection pool usage as gauges read at scrape time.
func RegisterPool(reg prometheus.Registerer, stat func() (total, idle, acquired int32)) error {
	gauge := func(name, help string, pick func(total, idle, acquired int32) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return float64(pick(stat()))
		})
	}

	for _, c := range []prometheus.Collector{
		gauge("claimdesk_db_pool_total_conns", "Open database connections",
			func(total, _, _ int32) int32 { return total }),
		gauge("claimdesk_db_pool_idle_conns", "Idle database connections",
			func(_, idle, _ int32) int32 { return idle }),
		gauge("claimdesk_db_pool_acquired_conns", "Database connections in use",
			func(_, _, acquired int32) int32 { return acquired }),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}
