package config

// Gate 是五道 admission filter 的設定來源。
// 任何一段更新都會經由 gate.Store 驗證後整包原子切換，不會出現半新半舊。
type Gate struct {
	// 管理端更新後的覆寫檔（YAML）；啟動時若存在會覆蓋靜態設定
	OverridesFile string `mapstructure:"OVERRIDES_FILE" json:"overridesFile" yaml:"overridesFile"`

	Network    NetworkFilter    `mapstructure:"NETWORK" json:"network" yaml:"network"`
	Credential CredentialFilter `mapstructure:"CREDENTIAL" json:"credential" yaml:"credential"`
	Signature  SignatureFilter  `mapstructure:"SIGNATURE" json:"signature" yaml:"signature"`
	RateLimit  RateLimitFilter  `mapstructure:"RATE_LIMIT" json:"rateLimit" yaml:"rateLimit"`
}

type NetworkFilter struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// 明確允許的單一 IP
	AllowedIPs []string `mapstructure:"ALLOWED_IPS" json:"allowedIps" yaml:"allowedIps"`
	// 允許的 CIDR 區段
	AllowedCIDRs []string `mapstructure:"ALLOWED_CIDRS" json:"allowedCidrs" yaml:"allowedCidrs"`
	// 允許 RFC1918 / loopback / link-local / unique-local
	AllowPrivate bool `mapstructure:"ALLOW_PRIVATE" json:"allowPrivate" yaml:"allowPrivate"`
	// 只有來自這些 proxy 的連線才信任 forwarded 類標頭
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" json:"trustedProxies" yaml:"trustedProxies"`
}

type CredentialFilter struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// 取 key 的 header 名稱，預設 X-Webhook-Key
	Header string `mapstructure:"HEADER" json:"header" yaml:"header"`
	// 有效的 key 清單（比對時只使用 SHA-256 雜湊）
	Keys []string `mapstructure:"KEYS" json:"keys" yaml:"keys"`
}

type SignatureFilter struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// 取簽章的 header 名稱，預設 X-Webhook-Signature
	Header string `mapstructure:"HEADER" json:"header" yaml:"header"`
	// HMAC 共享密鑰
	Secret string `mapstructure:"SECRET" json:"secret" yaml:"secret"`
	// sha1 / sha256 / sha512，預設 sha256
	Algorithm string `mapstructure:"ALGORITHM" json:"algorithm" yaml:"algorithm"`
}

type RateLimitFilter struct {
	Enabled   bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	PerMinute int  `mapstructure:"PER_MINUTE" json:"perMinute" yaml:"perMinute"`
	PerHour   int  `mapstructure:"PER_HOUR" json:"perHour" yaml:"perHour"`
	// source（預設，逐來源位址）或 global（單一全域 key）
	Scope string `mapstructure:"SCOPE" json:"scope" yaml:"scope"`
}
