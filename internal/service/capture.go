package service

import (
	"context"
	"time"

	"intake/config"
	"intake/internal/core"
	filestoreModel "intake/internal/database/filestore/model"
	filestoreRepo "intake/internal/database/filestore/repository"
	fluentdModel "intake/internal/database/fluentd/model"
	fluentdRepo "intake/internal/database/fluentd/repository"
	"intake/internal/gate"
	cErr "intake/internal/pkg/error"
	"intake/internal/telemetry"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CaptureResult 單筆投遞的處理結果
type CaptureResult struct {
	RequestID  string
	ReceivedAt time.Time
	Outcome    core.CaptureOutcome

	// Outcome == OutcomeRejected 時有值
	Reject       *cErr.Error
	RejectFilter core.FilterName
	RetryAfter   time.Duration

	// 落盤失敗但設定為照樣回應 2xx
	Degraded bool
}

// CaptureService 是 webhook 投遞的主流程：
// filter chain → 建立不可變紀錄 → 落盤 → 稽核/指標。
type CaptureService struct {
	logger          *zap.Logger
	trace           *telemetry.Trace
	metric          *telemetry.Metric
	config          *config.Configuration
	chain           *gate.Chain
	recordRepo      *filestoreRepo.RecordRepository
	auditRepository *fluentdRepo.AuditRepository
	now             func() time.Time
}

func NewCaptureService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	chain *gate.Chain,
	recordRepo *filestoreRepo.RecordRepository,
	auditRepository *fluentdRepo.AuditRepository,
) *CaptureService {
	return &CaptureService{
		logger:          logger,
		trace:           trace,
		metric:          metric,
		config:          config,
		chain:           chain,
		recordRepo:      recordRepo,
		auditRepository: auditRepository,
		now:             time.Now,
	}
}

// Capture 處理一筆投遞。req.Body 必須已完整緩衝。
func (service *CaptureService) Capture(ctx context.Context, req *gate.Request, headers []filestoreModel.HeaderField) (result CaptureResult, returnedError error) {
	ctx, span, end := service.trace.WithSpan(ctx, string(core.SpanCapturePipeline))
	defer func() { end(returnedError) }()

	start := service.now()
	// 接收時間取 UTC，毫秒精度即足夠排序與分區
	receivedAt := start.UTC().Truncate(time.Millisecond)

	requestID := newRequestID()
	result = CaptureResult{RequestID: requestID, ReceivedAt: receivedAt}

	if service.metric.WebhookReceivedTotal != nil {
		service.metric.WebhookReceivedTotal.Inc()
	}

	// ---- filter chain ----
	reject, filterName, snap := service.chain.Admit(ctx, req)
	if reject != nil {
		result.Outcome = core.OutcomeRejected
		result.Reject = reject
		result.RejectFilter = filterName
		result.RetryAfter = req.RetryAfterHint

		service.metric.CountRejection(filterName)
		if filterName == core.FilterRateLimit && service.metric.RateLimitedTotal != nil {
			service.metric.RateLimitedTotal.WithLabelValues(sourceLabel(req)).Inc()
		}

		service.trace.ApplyTraceAttributes(span, core.TraceCaptureMeta{
			RequestID:    requestID,
			SourceAddr:   sourceLabel(req),
			BodyBytes:    len(req.Body),
			ContentType:  req.ContentType,
			Outcome:      string(core.OutcomeRejected),
			RejectFilter: string(filterName),
			DurationMs:   float64(time.Since(start).Milliseconds()),
		})
		service.logger.Info("webhook rejected",
			zap.String("request_id", requestID),
			zap.String("filter", string(filterName)),
			zap.Int("status", reject.HttpCode()),
			zap.String("reason", reject.ErrorDesc()),
			zap.String("source", sourceLabel(req)),
			zap.Int64("config_version", snap.Version),
		)

		if err := service.auditRepository.LogRejection(ctx, fluentdModel.RejectionEvent{
			RequestID:  requestID,
			Filter:     string(filterName),
			StatusCode: reject.HttpCode(),
			ErrorCode:  reject.ErrorCode(),
			Reason:     reject.ErrorDesc(),
			Method:     req.Method,
			Path:       req.Path,
			SourceIP:   sourceLabel(req),
		}); err != nil {
			service.logger.Warn("audit rejection forward failed", zap.Error(err))
		}
		return result, nil
	}

	// chain 通過後、落盤前再確認一次連線仍在；斷線的投遞不留紀錄
	if err := ctx.Err(); err != nil {
		result.Outcome = core.OutcomeCancelled
		service.logger.Info("webhook cancelled before persist",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		returnedError = cErr.ServiceUnavailable("request cancelled")
		return result, returnedError
	}

	// ---- 建立紀錄 ----
	record := service.buildRecord(requestID, receivedAt, req, headers)

	// ---- 落盤 ----
	if err := service.recordRepo.Save(ctx, record); err != nil {
		result.Outcome = core.OutcomeStoreFault
		result.Degraded = service.config.Capture.AckOnStoreFault

		if service.metric.PersistFailTotal != nil {
			service.metric.PersistFailTotal.Inc()
		}
		service.logger.Error("webhook persist failed",
			zap.String("request_id", requestID),
			zap.Bool("acked", result.Degraded),
			zap.Error(err),
		)
		if auditErr := service.auditRepository.LogStoreFault(ctx, fluentdModel.StoreFaultEvent{
			RequestID: requestID,
			Partition: record.Partition(),
			Error:     err.Error(),
			Acked:     result.Degraded,
		}); auditErr != nil {
			service.logger.Warn("audit store fault forward failed", zap.Error(auditErr))
		}

		if !result.Degraded {
			returnedError = cErr.StorageError("failed to persist request")
			return result, returnedError
		}
		return result, nil
	}

	result.Outcome = core.OutcomePersisted
	if service.metric.WebhookAdmittedTotal != nil {
		service.metric.WebhookAdmittedTotal.Inc()
	}
	service.trace.ApplyTraceAttributes(span, core.TraceCaptureMeta{
		RequestID:   requestID,
		SourceAddr:  sourceLabel(req),
		SourcePort:  req.SourcePort,
		BodyBytes:   len(req.Body),
		ContentType: req.ContentType,
		Outcome:     string(core.OutcomePersisted),
		DurationMs:  float64(time.Since(start).Milliseconds()),
	})
	service.logger.Info("webhook persisted",
		zap.String("request_id", requestID),
		zap.String("partition", record.Partition()),
		zap.Int("body_bytes", len(req.Body)),
		zap.String("source", sourceLabel(req)),
	)
	return result, nil
}

func (service *CaptureService) buildRecord(requestID string, receivedAt time.Time, req *gate.Request, headers []filestoreModel.HeaderField) *filestoreModel.CapturedRequest {
	record := &filestoreModel.CapturedRequest{
		ID:            requestID,
		ReceivedAt:    receivedAt,
		Method:        req.Method,
		Path:          req.Path,
		Query:         req.RawQuery,
		Headers:       headers,
		RawBody:       req.Body,
		ContentLength: req.DeclaredLength,
		ContentType:   req.ContentType,
	}
	if req.HasSource {
		record.SourceAddress = req.SourceAddr.String()
		record.SourcePort = req.SourcePort
	}

	// JSON 分類只是標註，不影響 admission；非 JSON content-type 不嘗試解析。
	// 空 body 不是解析失敗，parse error 只給「看起來有 payload 但解不開」的情況。
	if req.ContentType == "application/json" && len(req.Body) > 0 {
		if !sonic.Valid(req.Body) {
			record.ParseError = "invalid json"
		} else {
			record.IsValidJSON = true
		}
	}
	return record
}

// newRequestID 偏好 UUIDv7（時間有序，利於依 id 排查），失敗退回 v4
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

func sourceLabel(req *gate.Request) string {
	if !req.HasSource {
		return "unknown"
	}
	return req.SourceAddr.String()
}
