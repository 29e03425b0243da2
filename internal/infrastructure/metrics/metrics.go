package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EventsPosted      *prometheus.CounterVec
	CascadedEntries   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	DocumentsReversed prometheus.Counter
	ChainBreaks       prometheus.Counter

	// Account metrics
	AccountsRegistered prometheus.Counter

	// Notification metrics
	Notifications     *prometheus.CounterVec
	NotificationQueue prometheus.Gauge

	// Ingress metrics
	IngressMessages *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		EventsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonusledger_events_posted_total",
				Help: "Total number of posted events by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		CascadedEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonusledger_cascaded_entries_total",
				Help: "Total number of later entries repaired by a cascade",
			},
			[]string{"operation"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bonusledger_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DocumentsReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bonusledger_documents_reversed_total",
			Help: "Total number of reversed documents",
		}),
		ChainBreaks: factory.NewCounter(prometheus.CounterOpts{
			Name: "bonusledger_chain_breaks_total",
			Help: "Total number of broken balance chains found by reconciliation",
		}),

		// Account metrics
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "bonusledger_accounts_registered_total",
			Help: "Total number of registered accounts",
		}),

		// Notification metrics
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonusledger_notifications_total",
				Help: "Total notifications by delivery status",
			},
			[]string{"status"},
		),
		NotificationQueue: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bonusledger_notification_queue_length",
			Help: "Number of notifications waiting for delivery",
		}),

		// Ingress metrics
		IngressMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonusledger_ingress_messages_total",
				Help: "Total NATS ingress messages by subject and result",
			},
			[]string{"subject", "result"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonusledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// RecordEvent counts a posted event. Safe on a nil receiver.
func (m *Metrics) RecordEvent(kind, outcome string) {
	if m == nil {
		return
	}
	m.EventsPosted.WithLabelValues(kind, outcome).Inc()
}

// RecordCascade counts entries shifted by operation.
func (m *Metrics) RecordCascade(operation string, rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.CascadedEntries.WithLabelValues(operation).Add(float64(rows))
}

// RecordDuration observes how long operation took.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordReversal counts a reversed document.
func (m *Metrics) RecordReversal() {
	if m == nil {
		return
	}
	m.DocumentsReversed.Inc()
}

// RecordChainBreak counts a broken chain.
func (m *Metrics) RecordChainBreak() {
	if m == nil {
		return
	}
	m.ChainBreaks.Inc()
}

// RecordRegistration counts a newly registered account.
func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}
	m.AccountsRegistered.Inc()
}

// RecordNotification counts a notification by status.
func (m *Metrics) RecordNotification(status string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(status).Inc()
}

// SetNotificationQueue reports the notification backlog.
func (m *Metrics) SetNotificationQueue(n int) {
	if m == nil {
		return
	}
	m.NotificationQueue.Set(float64(n))
}

// RecordIngress counts a consumed ingress message.
func (m *Metrics) RecordIngress(subject, result string) {
	if m == nil {
		return
	}
	m.IngressMessages.WithLabelValues(subject, result).Inc()
}

// RecordRateLimitHit counts a rejected request.
func (m *Metrics) RecordRateLimitHit(ip string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(ip).Inc()
}
