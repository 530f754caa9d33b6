package config

// Capture 控制 webhook 擷取入口的體積與形狀上限
type Capture struct {
	// Body 上限（bytes），宣告值與實際緩衝值皆受此限制
	MaxBodyBytes int64 `mapstructure:"MAX_BODY_BYTES" json:"maxBodyBytes" yaml:"maxBodyBytes"`
	// Query string 長度上限
	MaxQueryLength int `mapstructure:"MAX_QUERY_LENGTH" json:"maxQueryLength" yaml:"maxQueryLength"`
	// Header 數量上限
	MaxHeaderCount int `mapstructure:"MAX_HEADER_COUNT" json:"maxHeaderCount" yaml:"maxHeaderCount"`
	// 單一 header（name + value）長度上限
	MaxHeaderBytes int `mapstructure:"MAX_HEADER_BYTES" json:"maxHeaderBytes" yaml:"maxHeaderBytes"`
	// 允許的 Content-Type（media type，不含參數）
	AllowedContentTypes []string `mapstructure:"ALLOWED_CONTENT_TYPES" json:"allowedContentTypes" yaml:"allowedContentTypes"`
	// 儲存失敗時仍回 200 給 sender（避免 sender 端重送風暴）
	AckOnStoreFault bool `mapstructure:"ACK_ON_STORE_FAULT" json:"ackOnStoreFault" yaml:"ackOnStoreFault"`
}

const (
	DefaultMaxBodyBytes   = int64(1 << 20) // 1 MiB
	DefaultMaxQueryLength = 2048
	DefaultMaxHeaderCount = 64
	DefaultMaxHeaderBytes = 8192
)

// Normalize 套用預設值（0 值視為未設定）
func (c *Capture) Normalize() {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxQueryLength <= 0 {
		c.MaxQueryLength = DefaultMaxQueryLength
	}
	if c.MaxHeaderCount <= 0 {
		c.MaxHeaderCount = DefaultMaxHeaderCount
	}
	if c.MaxHeaderBytes <= 0 {
		c.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if len(c.AllowedContentTypes) == 0 {
		c.AllowedContentTypes = []string{"application/json", "text/plain", "application/x-www-form-urlencoded"}
	}
}
