package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intake/config"
	"intake/internal/database/client"
	filestoreRepo "intake/internal/database/filestore/repository"
	fluentdRepo "intake/internal/database/fluentd/repository"
	"intake/internal/gate"
	"intake/internal/ratelimit"
	"intake/internal/service"
	"intake/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type webhookFixture struct {
	engine *gin.Engine
	repo   *filestoreRepo.RecordRepository
}

func newWebhookFixture(t *testing.T, gateConf config.Gate, captureConf config.Capture) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.Configuration{
		Gate:    gateConf,
		Capture: captureConf,
		Storage: config.Storage{Root: t.TempDir()},
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
	captureService := service.NewCaptureService(logger, trace, metric, conf, chain, repo, audit)

	h := NewWebhookHandler(logger, trace, store, captureService)
	engine := gin.New()
	engine.Any("/webhook", h.Capture)

	return &webhookFixture{engine: engine, repo: repo}
}

func (f *webhookFixture) deliver(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func TestWebhookCaptureSuccess(t *testing.T) {
	fixture := newWebhookFixture(t, config.Gate{}, config.Capture{})

	w := fixture.deliver(http.MethodPost, "/webhook?source=ci", "application/json", `{"event":"push"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s, want 200", w.Code, w.Body.String())
	}

	payload := decodeBody(t, w)
	if payload["status"] != "received" {
		t.Errorf("status field = %v, want received", payload["status"])
	}
	requestID, _ := payload["requestId"].(string)
	if requestID == "" {
		t.Fatal("requestId missing")
	}
	receivedRaw, _ := payload["receivedAtUtc"].(string)
	receivedAt, err := time.Parse(time.RFC3339Nano, receivedRaw)
	if err != nil {
		t.Fatalf("receivedAtUtc %q not RFC3339: %v", receivedRaw, err)
	}
	if since := time.Since(receivedAt); since < 0 || since > time.Minute {
		t.Errorf("receivedAtUtc %v not near now", receivedAt)
	}

	record, err := fixture.repo.GetByID(context.Background(), requestID)
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if record.Method != http.MethodPost || record.Query != "source=ci" {
		t.Errorf("record = %s %q, want POST source=ci", record.Method, record.Query)
	}
	if !record.IsValidJSON {
		t.Error("json body should be classified valid")
	}
	if record.SourceAddress == "" {
		t.Error("source address not captured")
	}
}

func TestWebhookAcceptsAnyMethod(t *testing.T) {
	fixture := newWebhookFixture(t, config.Gate{}, config.Capture{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := fixture.deliver(method, "/webhook", "", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
		})
	}
}

func TestWebhookRejections(t *testing.T) {
	tests := []struct {
		name        string
		gate        config.Gate
		capture     config.Capture
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "payload too large",
			capture:     config.Capture{MaxBodyBytes: 8},
			contentType: "application/json",
			body:        `{"way":"too large"}`,
			wantStatus:  http.StatusRequestEntityTooLarge,
		},
		{
			name:        "unsupported media type",
			contentType: "application/xml",
			body:        `<a/>`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name: "missing credential",
			gate: config.Gate{
				Credential: config.CredentialFilter{Enabled: true, Keys: []string{"k"}},
			},
			contentType: "application/json",
			body:        `{}`,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name: "source not allowlisted",
			gate: config.Gate{
				Network: config.NetworkFilter{Enabled: true, AllowedIPs: []string{"203.0.113.7"}},
			},
			contentType: "application/json",
			body:        `{}`,
			wantStatus:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newWebhookFixture(t, tt.gate, tt.capture)
			w := fixture.deliver(http.MethodPost, "/webhook", tt.contentType, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d body = %s, want %d", w.Code, w.Body.String(), tt.wantStatus)
			}

			payload := decodeBody(t, w)
			if payload["status"] != "rejected" {
				t.Errorf("status field = %v, want rejected", payload["status"])
			}
			if id, _ := payload["requestId"].(string); id == "" {
				t.Error("rejection must still carry a requestId")
			}
			if _, ok := payload["code"].(float64); !ok {
				t.Errorf("numeric error code missing: %v", payload["code"])
			}
			if fixture.repo.Count() != 0 {
				t.Error("rejected delivery must not persist")
			}
		})
	}
}

func TestWebhookRateLimitRetryAfterHeader(t *testing.T) {
	fixture := newWebhookFixture(t, config.Gate{
		RateLimit: config.RateLimitFilter{Enabled: true, PerMinute: 1},
	}, config.Capture{})

	if w := fixture.deliver(http.MethodPost, "/webhook", "application/json", `{}`); w.Code != http.StatusOK {
		t.Fatalf("first delivery status = %d, want 200", w.Code)
	}

	w := fixture.deliver(http.MethodPost, "/webhook", "application/json", `{}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second delivery status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing on rate limit rejection")
	}
}

func TestWebhookCredentialAccepted(t *testing.T) {
	fixture := newWebhookFixture(t, config.Gate{
		Credential: config.CredentialFilter{Enabled: true, Keys: []string{"topsecret"}},
	}, config.Capture{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Key", "topsecret")
	w := httptest.NewRecorder()
	fixture.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s, want 200", w.Code, w.Body.String())
	}
	if fixture.repo.Count() != 1 {
		t.Errorf("record count = %d, want 1", fixture.repo.Count())
	}
}
