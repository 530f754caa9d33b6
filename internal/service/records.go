package service

import (
	"context"
	"errors"
	"time"

	"intake/internal/database/filestore/repository"
	"intake/internal/dto"
	cErr "intake/internal/pkg/error"
	"intake/internal/telemetry"

	"go.uber.org/zap"
)

// RecordService 管理端檢視已擷取的請求
type RecordService struct {
	logger     *zap.Logger
	trace      *telemetry.Trace
	recordRepo *repository.RecordRepository
}

func NewRecordService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	recordRepo *repository.RecordRepository,
) *RecordService {
	return &RecordService{
		logger:     logger,
		trace:      trace,
		recordRepo: recordRepo,
	}
}

func (service *RecordService) ListRecords(ctx context.Context, query dto.ListRecordsQueryDto) (summaries []dto.RecordSummaryDto, returnedError error) {
	_, _, end := service.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	records, err := service.recordRepo.ListRecent(ctx, limit, query.Search)
	if err != nil {
		returnedError = cErr.StorageError("list records failed")
		service.logger.Error("list records failed", zap.Error(err))
		return nil, returnedError
	}

	summaries = make([]dto.RecordSummaryDto, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, dto.NewRecordSummaryDto(record))
	}
	return summaries, nil
}

// DeleteOlderThan 管理端手動刪除 days 天前的紀錄
func (service *RecordService) DeleteOlderThan(ctx context.Context, days int) (deleted int, returnedError error) {
	_, _, end := service.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if days <= 0 {
		returnedError = cErr.BadRequestParams("olderThanDays must be positive")
		return 0, returnedError
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	deleted, err := service.recordRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		returnedError = cErr.StorageError("delete records failed")
		service.logger.Error("delete records failed", zap.Int("days", days), zap.Error(err))
		return deleted, returnedError
	}
	service.logger.Info("records deleted", zap.Int("days", days), zap.Int("deleted", deleted))
	return deleted, nil
}

func (service *RecordService) GetRecord(ctx context.Context, id string) (detail dto.RecordDetailDto, returnedError error) {
	_, _, end := service.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	record, err := service.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			returnedError = cErr.NotFound("record " + id + " not found")
			return dto.RecordDetailDto{}, returnedError
		}
		returnedError = cErr.StorageError("read record failed")
		service.logger.Error("read record failed", zap.String("id", id), zap.Error(err))
		return dto.RecordDetailDto{}, returnedError
	}
	return dto.NewRecordDetailDto(record), nil
}
