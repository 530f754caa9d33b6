package telemetry

import (
	"intake/config"
	"intake/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal    *prometheus.CounterVec
	HttpRequestDuration  *prometheus.HistogramVec
	WebhookReceivedTotal prometheus.Counter
	WebhookAdmittedTotal prometheus.Counter
	WebhookRejectedTotal *prometheus.CounterVec
	PersistFailTotal     prometheus.Counter
	RateLimitedTotal     *prometheus.CounterVec
	RetentionDeleted     prometheus.Counter
	config               *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received HTTP requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "Request handling duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		WebhookReceivedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricWebhookReceived),
				Help: "Webhook deliveries that entered the filter chain",
			},
		),
		WebhookAdmittedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricWebhookAdmitted),
				Help: "Webhook deliveries admitted and persisted",
			},
		),
		WebhookRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricWebhookRejected),
				Help: "Webhook deliveries rejected, by filter",
			},
			labelNames(core.MetricLabelFilter),
		),
		PersistFailTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricPersistFailTotal),
				Help: "Admitted deliveries that failed to persist",
			},
		),
		RateLimitedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricRateLimitedTotal),
				Help: "Deliveries blocked by the rate limiter",
			},
			labelNames(core.MetricLabelReason),
		),
		RetentionDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricRetentionDeleted),
				Help: "Stored records removed by retention sweeps",
			},
		),
	}
}

// CountRejection 依 filter 記一次拒絕；metric 未啟用時為 no-op
func (m *Metric) CountRejection(filter core.FilterName) {
	if m.WebhookRejectedTotal == nil {
		return
	}
	m.WebhookRejectedTotal.WithLabelValues(string(filter)).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
