package model

// RejectionEvent 請求在 filter 被擋下時的稽核事件
type RejectionEvent struct {
	RequestID  string `json:"request_id"`
	Filter     string `json:"filter"`
	StatusCode int    `json:"status_code"`
	ErrorCode  int    `json:"error_code"`
	Reason     string `json:"reason"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	SourceIP   string `json:"source_ip,omitempty"`
	Version    string `json:"version,omitempty"`
	LoggedAt   string `json:"logged_at"`
}

// StoreFaultEvent 紀錄已通過 filter 但落盤失敗的事件
type StoreFaultEvent struct {
	RequestID string `json:"request_id"`
	Partition string `json:"partition,omitempty"`
	Error     string `json:"error"`
	Acked     bool   `json:"acked"`
	Version   string `json:"version,omitempty"`
	LoggedAt  string `json:"logged_at"`
}

// RetentionEvent 保存期清理批次的結果
type RetentionEvent struct {
	CutoffDay    string `json:"cutoff_day"`
	DeletedCount int    `json:"deleted_count"`
	Error        string `json:"error,omitempty"`
	Version      string `json:"version,omitempty"`
	LoggedAt     string `json:"logged_at"`
}
