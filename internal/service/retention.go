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
	"intake/internal/telemetry"

	"go.uber.org/zap"
)

// RetentionService 依保存天數刪除過期的擷取紀錄
type RetentionService struct {
	logger          *zap.Logger
	trace           *telemetry.Trace
	metric          *telemetry.Metric
	config          *config.Configuration
	recordRepo      *filestoreRepo.RecordRepository
	auditRepository *fluentdRepo.AuditRepository
	now             func() time.Time
}

func NewRetentionService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	recordRepo *filestoreRepo.RecordRepository,
	auditRepository *fluentdRepo.AuditRepository,
) *RetentionService {
	return &RetentionService{
		logger:          logger,
		trace:           trace,
		metric:          metric,
		config:          config,
		recordRepo:      recordRepo,
		auditRepository: auditRepository,
		now:             time.Now,
	}
}

// Sweep 執行一次清理。trigger 標明來源（cron / manual）。
func (service *RetentionService) Sweep(ctx context.Context, trigger string) (deleted int, returnedError error) {
	ctx, span, end := service.trace.WithSpan(ctx, string(core.SpanRetentionSweep))
	defer func() { end(returnedError) }()

	days := service.config.Retention.Days
	if days <= 0 {
		service.logger.Warn("retention sweep skipped, non-positive day count", zap.Int("days", days))
		return 0, nil
	}

	cutoff := service.now().UTC().AddDate(0, 0, -days)
	deleted, err := service.recordRepo.DeleteOlderThan(ctx, cutoff)

	service.trace.ApplyTraceAttributes(span, core.TraceRetentionMeta{
		CutoffDays: days,
		Deleted:    deleted,
		Trigger:    trigger,
	})

	event := fluentdModel.RetentionEvent{
		CutoffDay:    cutoff.Format(filestoreModel.PartitionLayout),
		DeletedCount: deleted,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if auditErr := service.auditRepository.LogRetention(ctx, event); auditErr != nil {
		service.logger.Warn("audit retention forward failed", zap.Error(auditErr))
	}

	if err != nil {
		service.logger.Error("retention sweep finished with errors",
			zap.Int("deleted", deleted),
			zap.String("trigger", trigger),
			zap.Error(err),
		)
		returnedError = err
		return deleted, returnedError
	}

	if service.metric.RetentionDeleted != nil && deleted > 0 {
		service.metric.RetentionDeleted.Add(float64(deleted))
	}
	service.logger.Info("retention sweep done",
		zap.Int("deleted", deleted),
		zap.Int("days", days),
		zap.String("trigger", trigger),
	)
	return deleted, nil
}
