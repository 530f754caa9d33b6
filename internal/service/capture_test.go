package service

import (
	"context"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"intake/config"
	"intake/internal/core"
	"intake/internal/database/client"
	filestoreModel "intake/internal/database/filestore/model"
	filestoreRepo "intake/internal/database/filestore/repository"
	fluentdRepo "intake/internal/database/fluentd/repository"
	"intake/internal/gate"
	"intake/internal/ratelimit"
	"intake/internal/telemetry"

	"go.uber.org/zap"
)

type captureFixture struct {
	service *CaptureService
	repo    *filestoreRepo.RecordRepository
	root    string
}

func newCaptureFixture(t *testing.T, gateConf config.Gate, captureConf config.Capture) *captureFixture {
	t.Helper()

	root := t.TempDir()
	conf := &config.Configuration{
		Gate:    gateConf,
		Capture: captureConf,
		Storage: config.Storage{Root: root},
	}
	logger := zap.NewNop()

	trace, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace: %v", err)
	}
	metric := telemetry.NewMetric(nil)

	store, err := gate.NewStore(conf, logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	chain := gate.NewChain(store, ratelimit.NewLimiter())

	repo, err := filestoreRepo.NewRecordRepository(conf, logger, trace)
	if err != nil {
		t.Fatalf("NewRecordRepository: %v", err)
	}

	fluentdClient, err := client.NewClient(logger, conf)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	audit := fluentdRepo.NewAuditRepository(conf, fluentdClient)

	return &captureFixture{
		service: NewCaptureService(logger, trace, metric, conf, chain, repo, audit),
		repo:    repo,
		root:    root,
	}
}

func captureRequest(body string) (*gate.Request, []filestoreModel.HeaderField) {
	req := &gate.Request{
		Method:         http.MethodPost,
		Path:           "/webhook",
		RawQuery:       "source=ci",
		Header:         http.Header{"Content-Type": []string{"application/json"}},
		DeclaredLength: int64(len(body)),
		ContentType:    "application/json",
		Body:           []byte(body),
		SourceAddr:     netip.MustParseAddr("203.0.113.7"),
		SourcePort:     50123,
		HasSource:      true,
	}
	headers := []filestoreModel.HeaderField{
		{Name: "Content-Type", Values: []string{"application/json"}},
	}
	return req, headers
}

func TestCapturePersistsAdmittedRequest(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{}, config.Capture{})
	req, headers := captureRequest(`{"event":"push"}`)

	result, err := fixture.service.Capture(context.Background(), req, headers)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if result.Outcome != core.OutcomePersisted {
		t.Fatalf("outcome = %s, want persisted", result.Outcome)
	}
	if result.RequestID == "" {
		t.Fatal("request id missing")
	}
	if result.ReceivedAt.Location() != time.UTC {
		t.Error("receivedAt must be UTC")
	}
	if since := time.Since(result.ReceivedAt); since < 0 || since > time.Minute {
		t.Errorf("receivedAt %v not near now", result.ReceivedAt)
	}

	record, err := fixture.repo.GetByID(context.Background(), result.RequestID)
	if err != nil {
		t.Fatalf("persisted record not retrievable: %v", err)
	}
	if !record.IsValidJSON || record.ParseError != "" {
		t.Errorf("json classification wrong: valid=%v parseErr=%q", record.IsValidJSON, record.ParseError)
	}
	if record.SourceAddress != "203.0.113.7" || record.SourcePort != 50123 {
		t.Errorf("source not recorded: %s:%d", record.SourceAddress, record.SourcePort)
	}
}

func TestCaptureClassifiesInvalidJSON(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{}, config.Capture{})

	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantErr   string
	}{
		{"valid object", `{"a":1}`, true, ""},
		{"truncated json", `{"a":`, false, "invalid json"},
		// 空 body 不是解析失敗，不設 parse error
		{"empty body", ``, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, headers := captureRequest(tt.body)
			result, err := fixture.service.Capture(context.Background(), req, headers)
			if err != nil {
				t.Fatalf("Capture: %v", err)
			}
			if result.Outcome != core.OutcomePersisted {
				t.Fatalf("outcome = %s, want persisted (classification must not reject)", result.Outcome)
			}
			record, err := fixture.repo.GetByID(context.Background(), result.RequestID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if record.IsValidJSON != tt.wantValid || record.ParseError != tt.wantErr {
				t.Errorf("classification = (%v, %q), want (%v, %q)",
					record.IsValidJSON, record.ParseError, tt.wantValid, tt.wantErr)
			}
		})
	}
}

func TestCaptureRejectionDoesNotPersist(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{
		Credential: config.CredentialFilter{Enabled: true, Keys: []string{"k"}},
	}, config.Capture{})

	req, headers := captureRequest(`{"event":"push"}`)
	result, err := fixture.service.Capture(context.Background(), req, headers)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if result.Outcome != core.OutcomeRejected {
		t.Fatalf("outcome = %s, want rejected", result.Outcome)
	}
	if result.RejectFilter != core.FilterCredential {
		t.Errorf("reject filter = %s, want credential", result.RejectFilter)
	}
	if result.Reject == nil || result.Reject.HttpCode() != http.StatusUnauthorized {
		t.Errorf("reject = %v, want 401", result.Reject)
	}
	if got := fixture.repo.Count(); got != 0 {
		t.Errorf("rejected delivery persisted %d record(s), want 0", got)
	}
}

func TestCaptureRateLimitSetsRetryAfter(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{
		RateLimit: config.RateLimitFilter{Enabled: true, PerMinute: 1},
	}, config.Capture{})

	req, headers := captureRequest(`{}`)
	if _, err := fixture.service.Capture(context.Background(), req, headers); err != nil {
		t.Fatalf("first Capture: %v", err)
	}

	req, headers = captureRequest(`{}`)
	result, err := fixture.service.Capture(context.Background(), req, headers)
	if err != nil {
		t.Fatalf("second Capture: %v", err)
	}
	if result.Outcome != core.OutcomeRejected || result.RejectFilter != core.FilterRateLimit {
		t.Fatalf("outcome = %s filter = %s, want rate_limit rejection", result.Outcome, result.RejectFilter)
	}
	if result.RetryAfter < time.Second {
		t.Errorf("retry after = %v, want at least 1s", result.RetryAfter)
	}
	if got := fixture.repo.Count(); got != 1 {
		t.Errorf("record count = %d, want only the first delivery", got)
	}
}

// lapsingContext 前 allow 次 Err() 回 nil，之後視為已取消。
// admission chain 對每道 filter 各檢查一次 ctx，allow 設為 filter 數
// 即可模擬「通過 admission 後、落盤前斷線」。
type lapsingContext struct {
	context.Context
	allow int
	calls int
}

func (c *lapsingContext) Err() error {
	c.calls++
	if c.calls > c.allow {
		return context.Canceled
	}
	return nil
}

func TestCaptureCancelledBeforePersist(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{}, config.Capture{})
	req, headers := captureRequest(`{"event":"push"}`)

	ctx := &lapsingContext{Context: context.Background(), allow: 5}
	result, err := fixture.service.Capture(ctx, req, headers)
	if err == nil {
		t.Fatal("expected cancellation to surface as error")
	}
	if result.Outcome != core.OutcomeCancelled {
		t.Fatalf("outcome = %s, want cancelled", result.Outcome)
	}
	if got := fixture.repo.Count(); got != 0 {
		t.Errorf("cancelled delivery persisted %d record(s), want 0", got)
	}
}

// 把當日分區路徑占成一般檔案，迫使落盤失敗
func breakPartition(t *testing.T, fixture *captureFixture, at time.Time) {
	t.Helper()
	partition := at.UTC().Format(filestoreModel.PartitionLayout)
	if err := os.WriteFile(filepath.Join(fixture.root, partition), []byte("blocker"), 0o644); err != nil {
		t.Fatalf("block partition: %v", err)
	}
}

func TestCaptureStoreFaultDegradedAck(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{}, config.Capture{AckOnStoreFault: true})
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	fixture.service.now = func() time.Time { return now }
	breakPartition(t, fixture, now)

	req, headers := captureRequest(`{}`)
	result, err := fixture.service.Capture(context.Background(), req, headers)
	if err != nil {
		t.Fatalf("degraded capture must still ack, got error: %v", err)
	}
	if result.Outcome != core.OutcomeStoreFault {
		t.Errorf("outcome = %s, want store_fault", result.Outcome)
	}
	if !result.Degraded {
		t.Error("degraded flag not set")
	}
}

func TestCaptureStoreFaultFailsWithoutAck(t *testing.T) {
	fixture := newCaptureFixture(t, config.Gate{}, config.Capture{AckOnStoreFault: false})
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	fixture.service.now = func() time.Time { return now }
	breakPartition(t, fixture, now)

	req, headers := captureRequest(`{}`)
	result, err := fixture.service.Capture(context.Background(), req, headers)
	if err == nil {
		t.Fatal("expected persist failure to surface as error")
	}
	if result.Outcome != core.OutcomeStoreFault || result.Degraded {
		t.Errorf("result = %+v, want non-degraded store_fault", result)
	}
}
