package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry 应用自身的指标注册表
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradedesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tradedesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	webhookOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradedesk",
			Subsystem: "deposit_webhook",
			Name:      "events_total",
			Help:      "Deposit webhook events by outcome.",
		},
		[]string{"outcome"},
	)

	demoReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradedesk",
			Subsystem: "account",
			Name:      "demo_reloads_total",
			Help:      "Demo balance reload attempts.",
		},
		[]string{"result"},
	)

	outboxPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradedesk",
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox messages handed to the broker.",
		},
		[]string{"topic", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		webhookOutcomes,
		demoReloads,
		outboxPublished,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}

func RecordWebhookOutcome(outcome string) {
	webhookOutcomes.WithLabelValues(outcome).Inc()
}

func RecordDemoReload(result string) {
	demoReloads.WithLabelValues(result).Inc()
}

func RecordOutboxPublish(topic string, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	outboxPublished.WithLabelValues(topic, label).Inc()
}
