package dto

import "time"

// 更新 filter 設定（整包取代 gate 區段）
type UpdateSettingsDto struct {
	Network    NetworkSettingsDto   `json:"network"`
	Credential CredentialDto        `json:"credential"`
	Signature  SignatureSettingsDto `json:"signature"`
	RateLimit  RateLimitSettingsDto `json:"rateLimit"`
}

type NetworkSettingsDto struct {
	Enabled      bool     `json:"enabled"`
	AllowedIPs   []string `json:"allowedIps" binding:"omitempty,dive,ip"`
	AllowedCIDRs []string `json:"allowedCidrs" binding:"omitempty,dive,cidr"`
	AllowPrivate bool     `json:"allowPrivate"`
}

type CredentialDto struct {
	Enabled bool     `json:"enabled"`
	Header  string   `json:"header,omitempty" binding:"omitempty,max=128"`
	Keys    []string `json:"keys" binding:"omitempty,dive,min=8,max=256"`
}

type SignatureSettingsDto struct {
	Enabled   bool   `json:"enabled"`
	Header    string `json:"header,omitempty" binding:"omitempty,max=128"`
	Secret    string `json:"secret,omitempty" binding:"omitempty,min=8,max=512"`
	Algorithm string `json:"algorithm,omitempty" binding:"omitempty,oneof=sha1 sha256 sha512"`
}

type RateLimitSettingsDto struct {
	Enabled   bool   `json:"enabled"`
	PerMinute int    `json:"perMinute" binding:"omitempty,min=0,max=1000000"`
	PerHour   int    `json:"perHour" binding:"omitempty,min=0,max=10000000"`
	Scope     string `json:"scope,omitempty" binding:"omitempty,oneof=source global"`
}

// 目前生效的設定視圖。credential key 與 signature secret 一律做遮蔽，
// 管理端只能看到雜湊與長度，看不到明文。
type SettingsViewDto struct {
	Version    int64                `json:"version"`
	AppliedAt  time.Time            `json:"appliedAt"`
	Capture    CaptureViewDto       `json:"capture"`
	Network    NetworkSettingsDto   `json:"network"`
	Credential CredentialViewDto    `json:"credential"`
	Signature  SignatureViewDto     `json:"signature"`
	RateLimit  RateLimitSettingsDto `json:"rateLimit"`
}

type CaptureViewDto struct {
	MaxBodyBytes        int64    `json:"maxBodyBytes"`
	MaxQueryLength      int      `json:"maxQueryLength"`
	MaxHeaderCount      int      `json:"maxHeaderCount"`
	MaxHeaderBytes      int      `json:"maxHeaderBytes"`
	AllowedContentTypes []string `json:"allowedContentTypes"`
}

type CredentialViewDto struct {
	Enabled   bool     `json:"enabled"`
	Header    string   `json:"header"`
	KeyCount  int      `json:"keyCount"`
	KeyHashes []string `json:"keyHashes"`
}

type SignatureViewDto struct {
	Enabled   bool   `json:"enabled"`
	Header    string `json:"header"`
	Algorithm string `json:"algorithm"`
	SecretSet bool   `json:"secretSet"`
}

// 產生新 credential 的回應；明文只在這一次回應出現
type GeneratedCredentialDto struct {
	Key     string `json:"key"`
	KeyHash string `json:"keyHash"`
}
