package handler

import (
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"sort"
	"strconv"
	"strings"
	"time"

	"intake/internal/core"
	filestoreModel "intake/internal/database/filestore/model"
	"intake/internal/gate"
	"intake/internal/service"
	"intake/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	logger         *zap.Logger
	trace          *telemetry.Trace
	store          *gate.Store
	captureService *service.CaptureService
}

func NewWebhookHandler(
	logger *zap.Logger,
	trace *telemetry.Trace,
	store *gate.Store,
	captureService *service.CaptureService,
) *WebhookHandler {
	return &WebhookHandler{
		logger:         logger,
		trace:          trace,
		store:          store,
		captureService: captureService,
	}
}

// Capture 接收一筆 webhook 投遞
// @Summary 接收 webhook
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /webhook [post]
func (h *WebhookHandler) Capture(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	req, headers := h.buildRequest(c)

	result, err := h.captureService.Capture(ctx, req, headers)

	// sender 契約是固定的 raw JSON，不走統一 envelope
	switch {
	case result.Outcome == core.OutcomeRejected:
		if result.RetryAfter > 0 {
			c.Header("Retry-After", strconv.FormatInt(int64(result.RetryAfter/time.Second), 10))
		}
		c.JSON(result.Reject.HttpCode(), gin.H{
			"requestId": result.RequestID,
			"status":    "rejected",
			"code":      result.Reject.ErrorCode(),
			"error":     result.Reject.ErrorDesc(),
		})
	case result.Outcome == core.OutcomeCancelled:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"requestId": result.RequestID,
			"status":    "cancelled",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"requestId": result.RequestID,
			"status":    "error",
			"error":     "failed to persist request",
		})
	case result.Degraded:
		c.JSON(http.StatusOK, gin.H{
			"requestId":     result.RequestID,
			"receivedAtUtc": result.ReceivedAt.Format(time.RFC3339Nano),
			"status":        "degraded",
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"requestId":     result.RequestID,
			"receivedAtUtc": result.ReceivedAt.Format(time.RFC3339Nano),
			"status":        "received",
		})
	}
	c.Abort()
}

// buildRequest 把 gin 請求攤平成 filter 的輸入視圖。
// body 只讀到 max+1 bytes：filter 能分辨「剛好在上限」與「超過」，又不被灌爆。
func (h *WebhookHandler) buildRequest(c *gin.Context) (*gate.Request, []filestoreModel.HeaderField) {
	snap := h.store.Current()

	var body []byte
	if c.Request.Body != nil {
		limited := io.LimitReader(c.Request.Body, snap.MaxBodyBytes+1)
		data, err := io.ReadAll(limited)
		if err != nil {
			h.logger.Warn("webhook body read failed", zap.Error(err))
		}
		body = data
	}

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))

	req := &gate.Request{
		Method:         c.Request.Method,
		Path:           c.Request.URL.Path,
		RawQuery:       c.Request.URL.RawQuery,
		Header:         c.Request.Header,
		DeclaredLength: c.Request.ContentLength,
		ContentType:    strings.ToLower(mediaType),
		Body:           body,
	}

	// trusted proxy 已在 gin 層套用，ClientIP 即是可信的來源位址
	if addr, err := netip.ParseAddr(c.ClientIP()); err == nil {
		req.SourceAddr = addr.Unmap()
		req.HasSource = true
	}
	if _, portStr, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		if port, err := strconv.Atoi(portStr); err == nil {
			req.SourcePort = port
		}
	}

	return req, orderedHeaders(c.Request.Header)
}

// orderedHeaders 同名 header 的值保持原始順序；名稱間以字典序固定輸出
func orderedHeaders(header http.Header) []filestoreModel.HeaderField {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]filestoreModel.HeaderField, 0, len(names))
	for _, name := range names {
		fields = append(fields, filestoreModel.HeaderField{
			Name:   name,
			Values: header[name],
		})
	}
	return fields
}
