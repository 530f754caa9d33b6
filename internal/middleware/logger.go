package middleware

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"intake/config"
	"intake/internal/core"
	"intake/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Logger struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
) *Logger {
	return &Logger{
		logger: logger,
		trace:  trace,
		config: config,
	}
}

// LoggerHandler 記錄每個請求的詳細資訊（避免讀取二進位 body；文字 body 做安全截斷與 UTF-8 處理）。
// /webhook 的 body 由 capture pipeline 完整落盤，這裡不重複讀取。
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if strings.HasPrefix(endpoint, "/swagger") ||
			strings.HasPrefix(endpoint, "/metrics") ||
			strings.HasPrefix(endpoint, "/version") ||
			strings.HasPrefix(endpoint, "/health-check") {
			c.Next()
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		ct := c.GetHeader("Content-Type")

		if _, exists := c.Get("requestDuration"); !exists {
			c.Set("requestDuration", time.Now().UTC())
		}

		mediaType, _, _ := mime.ParseMediaType(ct)
		isBinary := isBinaryContent(mediaType)
		isCapture := strings.HasPrefix(endpoint, "/webhook")

		var bodyRaw string
		if isCapture {
			if c.Request.ContentLength > 0 {
				bodyRaw = fmt.Sprintf("(capture body, %d bytes)", c.Request.ContentLength)
			}
		} else if !isBinary && c.Request.Body != nil && c.Request.ContentLength != 0 {
			// 讀完整 body 後回填，確保下游仍可讀取
			data, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
			bodyRaw = toSafePreview(data, 2000)
		} else if isBinary {
			if c.Request.ContentLength > 0 {
				bodyRaw = fmt.Sprintf("(binary %s, %d bytes)", mediaType, c.Request.ContentLength)
			} else {
				bodyRaw = fmt.Sprintf("(binary %s)", mediaType)
			}
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		// headers → map[string]string（lowercase key）
		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			lk := strings.ToLower(k)
			headerMap[lk] = strings.Join(v, ",")
		}

		meta := core.LoggerRequestMeta{
			Method:     method,
			Path:       path,
			Query:      query,
			Body:       bodyRaw,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
		}
		m.trace.ApplyTraceAttributes(span, meta)

		logFields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Any("headers", headerMap),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		logFields = append(logFields, zap.String("spanId", fmt.Sprintf("%x", spanID[:])))
		logFields = append(logFields, zap.String("traceId", fmt.Sprintf("%x", traceID[:])))

		m.logger.Info("[Request] logging middleware message", logFields...)

		end(nil)
		c.Next()
	}
}

// 僅對文字內容做安全預覽：UTF-8 直接截斷；非 UTF-8 以 Base64 表示
func toSafePreview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	// 非 UTF-8 -> base64（先截斷，避免輸出過大）
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

// 是否為二進位內容（不讀 body）
func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}
