package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	WebhookReceivedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_received_count",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"provider", "outcome"}, // outcome: processed, duplicate, failed
	)

	QuoteCreatedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_created_count",
			Help: "Total number of quotes created",
		},
		[]string{"origin"}, // origin: milestone, manual
	)

	InvoiceSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_send_duration_seconds",
			Help:    "Invoice render-and-send duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"status"}, // status: success, failed
	)

	AttachmentUploadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_upload_count",
			Help: "Total number of inbound attachment uploads",
		},
		[]string{"status"}, // status: success, failed
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementWebhookReceived(provider, outcome string) {
	WebhookReceivedCount.WithLabelValues(provider, outcome).Inc()
}

func IncrementQuoteCreated(origin string) {
	QuoteCreatedCount.WithLabelValues(origin).Inc()
}

func RecordInvoiceSendDuration(status string, duration time.Duration) {
	InvoiceSendDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func IncrementAttachmentUpload(status string) {
	AttachmentUploadCount.WithLabelValues(status).Inc()
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}
