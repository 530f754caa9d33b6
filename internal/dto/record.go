package dto

import (
	"time"

	"intake/internal/database/filestore/model"
)

// 列表用的摘要（不含完整 body）
type RecordSummaryDto struct {
	ID            string    `json:"id"`
	ReceivedAt    time.Time `json:"receivedAt"`
	Method        string    `json:"method"`
	Path          string    `json:"path"`
	Query         string    `json:"query,omitempty"`
	SourceAddress string    `json:"sourceAddress"`
	ContentType   string    `json:"contentType,omitempty"`
	ContentLength int64     `json:"contentLength"`
	IsValidJSON   bool      `json:"isValidJson"`
	BodyPreview   string    `json:"bodyPreview,omitempty"`
}

// 單筆完整紀錄
type RecordDetailDto struct {
	ID            string              `json:"id"`
	ReceivedAt    time.Time           `json:"receivedAt"`
	Method        string              `json:"method"`
	Path          string              `json:"path"`
	Query         string              `json:"query,omitempty"`
	SourceAddress string              `json:"sourceAddress"`
	SourcePort    int                 `json:"sourcePort"`
	Headers       []model.HeaderField `json:"headers"`
	RawBody       []byte              `json:"rawBody"`
	ContentLength int64               `json:"contentLength"`
	ContentType   string              `json:"contentType,omitempty"`
	IsValidJSON   bool                `json:"isValidJson"`
	ParseError    string              `json:"parseError,omitempty"`
}

// 列表查詢參數
type ListRecordsQueryDto struct {
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Search string `form:"search" binding:"omitempty,max=256"`
}

func NewRecordSummaryDto(record *model.CapturedRequest) RecordSummaryDto {
	return RecordSummaryDto{
		ID:            record.ID,
		ReceivedAt:    record.ReceivedAt,
		Method:        record.Method,
		Path:          record.Path,
		Query:         record.Query,
		SourceAddress: record.SourceAddress,
		ContentType:   record.ContentType,
		ContentLength: record.ContentLength,
		IsValidJSON:   record.IsValidJSON,
		BodyPreview:   record.BodyPreview(256),
	}
}

func NewRecordDetailDto(record *model.CapturedRequest) RecordDetailDto {
	return RecordDetailDto{
		ID:            record.ID,
		ReceivedAt:    record.ReceivedAt,
		Method:        record.Method,
		Path:          record.Path,
		Query:         record.Query,
		SourceAddress: record.SourceAddress,
		SourcePort:    record.SourcePort,
		Headers:       record.Headers,
		RawBody:       record.RawBody,
		ContentLength: record.ContentLength,
		ContentType:   record.ContentType,
		IsValidJSON:   record.IsValidJSON,
		ParseError:    record.ParseError,
	}
}
