package gate

import (
	"crypto/sha256"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"intake/config"
	"intake/internal/core"
)

// Snapshot 是一份不可變的 filter 設定視圖。
// 每次 reload 都整包重建後原子切換；進行中的請求繼續使用取得當下的那份。
type Snapshot struct {
	Version   int64
	AppliedAt time.Time

	// size / shape
	MaxBodyBytes        int64
	MaxQueryLength      int
	MaxHeaderCount      int
	MaxHeaderBytes      int
	AllowedContentTypes map[string]struct{}

	// network allowlist
	NetworkEnabled bool
	AllowPrivate   bool
	allowedIPs     map[netip.Addr]struct{}
	allowedCIDRs   []netip.Prefix

	// credential
	CredentialEnabled bool
	CredentialHeader  string
	keyHashes         map[[sha256.Size]byte]struct{}

	// signature
	SignatureEnabled bool
	SignatureHeader  string
	SignatureAlg     core.SignatureAlgorithm
	signatureSecret  []byte

	// rate limit
	RateEnabled   bool
	RatePerMinute int
	RatePerHour   int
	RateScope     core.RateLimitScope
}

// BuildSnapshot 驗證並編譯一份設定。
// 驗證失敗回傳 error，呼叫端必須拒絕套用（啟動時拒絕啟動、reload 時保留舊版）。
func BuildSnapshot(gateConf config.Gate, captureConf config.Capture, version int64) (*Snapshot, error) {
	captureConf.Normalize()

	snap := &Snapshot{
		Version:        version,
		AppliedAt:      time.Now().UTC(),
		MaxBodyBytes:   captureConf.MaxBodyBytes,
		MaxQueryLength: captureConf.MaxQueryLength,
		MaxHeaderCount: captureConf.MaxHeaderCount,
		MaxHeaderBytes: captureConf.MaxHeaderBytes,
	}

	snap.AllowedContentTypes = make(map[string]struct{}, len(captureConf.AllowedContentTypes))
	for _, ct := range captureConf.AllowedContentTypes {
		ct = strings.ToLower(strings.TrimSpace(ct))
		if ct != "" {
			snap.AllowedContentTypes[ct] = struct{}{}
		}
	}

	if err := snap.buildNetwork(gateConf.Network); err != nil {
		return nil, err
	}
	if err := snap.buildCredential(gateConf.Credential); err != nil {
		return nil, err
	}
	if err := snap.buildSignature(gateConf.Signature); err != nil {
		return nil, err
	}
	if err := snap.buildRateLimit(gateConf.RateLimit); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Snapshot) buildNetwork(conf config.NetworkFilter) error {
	s.NetworkEnabled = conf.Enabled
	s.AllowPrivate = conf.AllowPrivate
	s.allowedIPs = make(map[netip.Addr]struct{}, len(conf.AllowedIPs))

	for _, raw := range conf.AllowedIPs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return fmt.Errorf("gate.network: invalid ip %q: %w", raw, err)
		}
		s.allowedIPs[addr.Unmap()] = struct{}{}
	}
	for _, raw := range conf.AllowedCIDRs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return fmt.Errorf("gate.network: invalid cidr %q: %w", raw, err)
		}
		s.allowedCIDRs = append(s.allowedCIDRs, prefix.Masked())
	}

	// 啟用但沒有任何可通過的來源 ⇒ 所有流量都會被擋，視為設定錯誤
	if conf.Enabled && len(s.allowedIPs) == 0 && len(s.allowedCIDRs) == 0 && !conf.AllowPrivate {
		return fmt.Errorf("gate.network: enabled with no allowed ips, cidrs or private-network flag")
	}
	return nil
}

func (s *Snapshot) buildCredential(conf config.CredentialFilter) error {
	s.CredentialEnabled = conf.Enabled
	s.CredentialHeader = conf.Header
	if s.CredentialHeader == "" {
		s.CredentialHeader = core.DefaultCredentialHeader
	}

	s.keyHashes = make(map[[sha256.Size]byte]struct{}, len(conf.Keys))
	for _, key := range conf.Keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		s.keyHashes[sha256.Sum256([]byte(key))] = struct{}{}
	}

	if conf.Enabled && len(s.keyHashes) == 0 {
		return fmt.Errorf("gate.credential: enabled with no usable keys")
	}
	return nil
}

func (s *Snapshot) buildSignature(conf config.SignatureFilter) error {
	s.SignatureEnabled = conf.Enabled
	s.SignatureHeader = conf.Header
	if s.SignatureHeader == "" {
		s.SignatureHeader = core.DefaultSignatureHeader
	}

	alg := core.SignatureAlgorithm(strings.ToLower(strings.TrimSpace(conf.Algorithm)))
	if alg == "" {
		alg = core.SignatureSHA256
	}
	switch alg {
	case core.SignatureSHA1, core.SignatureSHA256, core.SignatureSHA512:
	default:
		return fmt.Errorf("gate.signature: unsupported algorithm %q", conf.Algorithm)
	}
	s.SignatureAlg = alg
	s.signatureSecret = []byte(conf.Secret)

	if conf.Enabled && len(s.signatureSecret) == 0 {
		return fmt.Errorf("gate.signature: enabled with empty secret")
	}
	return nil
}

func (s *Snapshot) buildRateLimit(conf config.RateLimitFilter) error {
	s.RateEnabled = conf.Enabled
	s.RatePerMinute = conf.PerMinute
	s.RatePerHour = conf.PerHour

	scope := core.RateLimitScope(strings.ToLower(strings.TrimSpace(conf.Scope)))
	if scope == "" {
		scope = core.RateScopeSource
	}
	switch scope {
	case core.RateScopeSource, core.RateScopeGlobal:
	default:
		return fmt.Errorf("gate.rate_limit: unknown scope %q", conf.Scope)
	}
	s.RateScope = scope

	if conf.Enabled && conf.PerMinute <= 0 && conf.PerHour <= 0 {
		return fmt.Errorf("gate.rate_limit: enabled with no positive threshold")
	}
	return nil
}

// HasKey 以 SHA-256 雜湊做 O(1) 成員檢查；不保留明文 key
func (s *Snapshot) HasKey(candidate string) bool {
	_, ok := s.keyHashes[sha256.Sum256([]byte(candidate))]
	return ok
}

// KeyCount 有效 credential 數（管理端顯示用）
func (s *Snapshot) KeyCount() int {
	return len(s.keyHashes)
}

// KeyHashes 回傳全部 credential 雜湊（hex），供管理端在不洩漏明文下檢視
func (s *Snapshot) KeyHashes() []string {
	out := make([]string, 0, len(s.keyHashes))
	for digest := range s.keyHashes {
		out = append(out, fmt.Sprintf("%x", digest))
	}
	return out
}

// SecretConfigured 簽章密鑰是否已設定（管理端顯示用，不洩漏內容）
func (s *Snapshot) SecretConfigured() bool {
	return len(s.signatureSecret) > 0
}

// AddrAllowed 來源位址是否通過 allowlist
func (s *Snapshot) AddrAllowed(addr netip.Addr) bool {
	addr = addr.Unmap()
	if _, ok := s.allowedIPs[addr]; ok {
		return true
	}
	for _, prefix := range s.allowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	if s.AllowPrivate {
		if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() {
			return true
		}
	}
	return false
}

// ContentTypeAllowed 比對 media type（呼叫端先去除參數並轉小寫）
func (s *Snapshot) ContentTypeAllowed(mediaType string) bool {
	_, ok := s.AllowedContentTypes[mediaType]
	return ok
}
