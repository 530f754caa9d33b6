package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"intake/config"
	filestoreModel "intake/internal/database/filestore/model"
	filestoreRepo "intake/internal/database/filestore/repository"
	"intake/internal/dto"
	cErr "intake/internal/pkg/error"
	"intake/internal/telemetry"

	"go.uber.org/zap"
)

func newRecordFixture(t *testing.T) (*RecordService, *filestoreRepo.RecordRepository) {
	t.Helper()
	conf := &config.Configuration{Storage: config.Storage{Root: t.TempDir()}}
	logger := zap.NewNop()

	trace, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace: %v", err)
	}
	repo, err := filestoreRepo.NewRecordRepository(conf, logger, trace)
	if err != nil {
		t.Fatalf("NewRecordRepository: %v", err)
	}
	return NewRecordService(logger, trace, repo), repo
}

func TestListRecordsSummaries(t *testing.T) {
	service, repo := newRecordFixture(t)
	receivedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	longBody := strings.Repeat("a", 300)
	err := repo.Save(context.Background(), &filestoreModel.CapturedRequest{
		ID:            "req-1",
		ReceivedAt:    receivedAt,
		Method:        "POST",
		Path:          "/webhook",
		SourceAddress: "203.0.113.7",
		RawBody:       []byte(longBody),
		ContentType:   "text/plain",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	summaries, err := service.ListRecords(context.Background(), dto.ListRecordsQueryDto{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len = %d, want 1", len(summaries))
	}
	summary := summaries[0]
	if summary.ID != "req-1" || summary.Method != "POST" {
		t.Errorf("summary = %+v", summary)
	}
	// 預覽截斷在 256 字元加省略符
	if len(summary.BodyPreview) >= 300 || !strings.HasSuffix(summary.BodyPreview, "…") {
		t.Errorf("body preview not truncated: %d chars", len(summary.BodyPreview))
	}
}

func TestGetRecordNotFound(t *testing.T) {
	service, _ := newRecordFixture(t)

	_, err := service.GetRecord(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	appErr, ok := err.(*cErr.Error)
	if !ok {
		t.Fatalf("err type = %T, want *cErr.Error", err)
	}
	if appErr.HttpCode() != http.StatusNotFound {
		t.Errorf("http code = %d, want 404", appErr.HttpCode())
	}
}

func TestGetRecordDetail(t *testing.T) {
	service, repo := newRecordFixture(t)
	receivedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	err := repo.Save(context.Background(), &filestoreModel.CapturedRequest{
		ID:         "req-2",
		ReceivedAt: receivedAt,
		Method:     "POST",
		Path:       "/webhook",
		Headers: []filestoreModel.HeaderField{
			{Name: "X-Multi", Values: []string{"one", "two"}},
		},
		RawBody:     []byte(`{"n":1}`),
		ContentType: "application/json",
		IsValidJSON: true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	detail, err := service.GetRecord(context.Background(), "req-2")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if string(detail.RawBody) != `{"n":1}` || !detail.IsValidJSON {
		t.Errorf("detail = %+v", detail)
	}
	if len(detail.Headers) != 1 || detail.Headers[0].Values[1] != "two" {
		t.Errorf("headers = %+v", detail.Headers)
	}
}

func TestDeleteOlderThanValidatesDays(t *testing.T) {
	service, _ := newRecordFixture(t)

	for _, days := range []int{0, -3} {
		_, err := service.DeleteOlderThan(context.Background(), days)
		if err == nil {
			t.Errorf("DeleteOlderThan(%d) should fail", days)
			continue
		}
		if appErr, ok := err.(*cErr.Error); !ok || appErr.HttpCode() != http.StatusBadRequest {
			t.Errorf("DeleteOlderThan(%d) err = %v, want 400", days, err)
		}
	}
}
