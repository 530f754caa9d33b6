package model

import (
	"time"
	"unicode/utf8"
)

// PartitionLayout 日期分區目錄名格式（UTC）
const PartitionLayout = "2006-01-02"

// HeaderField 保留同名 header 多值的原始順序
type HeaderField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// CapturedRequest 通過全部 filter 後落盤的不可變紀錄。
// RawBody 保留原始 bytes（JSON 序列化時為 base64），即使不是合法 JSON。
type CapturedRequest struct {
	ID            string        `json:"id"`
	ReceivedAt    time.Time     `json:"receivedAt"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Query         string        `json:"query"`
	SourceAddress string        `json:"sourceAddress"`
	SourcePort    int           `json:"sourcePort"`
	Headers       []HeaderField `json:"headers"`
	RawBody       []byte        `json:"rawBody"`
	ContentLength int64         `json:"contentLength"`
	ContentType   string        `json:"contentType"`
	IsValidJSON   bool          `json:"isValidJson"`
	ParseError    string        `json:"parseError,omitempty"`
}

// Partition 此紀錄所屬的日期分區
func (r *CapturedRequest) Partition() string {
	return r.ReceivedAt.UTC().Format(PartitionLayout)
}

// BodyPreview 供列表顯示的安全預覽：非 UTF-8 或超長時截斷
func (r *CapturedRequest) BodyPreview(max int) string {
	if len(r.RawBody) == 0 {
		return ""
	}
	b := r.RawBody
	if len(b) > max {
		b = b[:max]
	}
	if !utf8.Valid(b) {
		return "(binary)"
	}
	if len(r.RawBody) > max {
		return string(b) + "…"
	}
	return string(b)
}
