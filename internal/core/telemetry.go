package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAdminAuth          TraceSpanName = "admin_auth_middleware"
	SpanCapturePipeline    TraceSpanName = "capture_pipeline"
	SpanFilterChain        TraceSpanName = "filter_chain"
	SpanRetentionSweep     TraceSpanName = "retention_sweep"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal   MetricName = "requests_total"
	MetricHttpRequestDuration MetricName = "request_duration_seconds"
	MetricWebhookReceived     MetricName = "webhook_received_total"
	MetricWebhookAdmitted     MetricName = "webhook_admitted_total"
	MetricWebhookRejected     MetricName = "webhook_rejected_total"
	MetricPersistFailTotal    MetricName = "persist_fail_total"
	MetricRateLimitedTotal    MetricName = "rate_limited_total"
	MetricRetentionDeleted    MetricName = "retention_deleted_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelFilter   MetricLabelName = "filter"
	MetricLabelReason   MetricLabelName = "reason"
)

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"url.path"`
	UrlScheme         string `trace:"url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"trace.id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
}

type TraceCaptureMeta struct {
	RequestID    string  `trace:"capture.request_id"`
	SourceAddr   string  `trace:"capture.source_address"`
	SourcePort   int     `trace:"capture.source_port"`
	BodyBytes    int     `trace:"capture.body_bytes"`
	ContentType  string  `trace:"capture.content_type"`
	Outcome      string  `trace:"capture.outcome"`
	RejectFilter string  `trace:"capture.reject_filter"`
	DurationMs   float64 `trace:"capture.duration_ms"`
}

type TraceFilterMeta struct {
	Filter     string `trace:"filter.name"`
	Passed     bool   `trace:"filter.passed"`
	Reason     string `trace:"filter.reason"`
	ConfigVer  int64  `trace:"filter.config_version"`
	ClientAddr string `trace:"filter.client_address"`
}

type TraceRateLimitMeta struct {
	ClientKey   string `trace:"ratelimit.client_key"`
	MinuteCount int    `trace:"ratelimit.minute_count"`
	HourCount   int    `trace:"ratelimit.hour_count"`
	Blocked     bool   `trace:"ratelimit.blocked"`
	RetryAfter  int64  `trace:"ratelimit.retry_after_sec"`
}

type TraceStoreMeta struct {
	Op        string `trace:"store.op"`
	RecordID  string `trace:"store.record_id"`
	Partition string `trace:"store.partition"`
	Count     int    `trace:"store.count"`
}

type TraceRetentionMeta struct {
	CutoffDays int    `trace:"retention.cutoff_days"`
	Deleted    int    `trace:"retention.deleted"`
	Trigger    string `trace:"retention.trigger"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.duration_ms"`
	Message    string  `trace:"panic.message"`
	Stack      string  `trace:"panic.stack"`
	Status     int     `trace:"http.status_code"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.duration_ms"`
	Data       string  `trace:"response.data"`
}

type TraceAdminAuthMeta struct {
	Operator string `trace:"auth.operator"`
	Status   string `trace:"auth.status"`
	ClientIP string `trace:"net.peer.ip"`
}
