package gate

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"intake/config"
	"intake/utils/path"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Store 持有目前生效的 Snapshot，以 atomic pointer 發布。
// 讀取端（filter）永遠拿到完整的一份；Apply 為 all-or-nothing。
type Store struct {
	logger *zap.Logger

	current atomic.Pointer[Snapshot]

	// 序列化 Apply / Persist，讀取不經過此鎖
	mu            sync.Mutex
	version       int64
	gateConf      config.Gate
	captureConf   config.Capture
	overridesFile string
}

// NewStore 以靜態設定（含覆寫檔）建立初始 Snapshot。
// 初始設定無效時回傳 error：寧可拒絕啟動，也不要帶著擋掉所有流量的 gate 上線。
func NewStore(conf *config.Configuration, logger *zap.Logger) (*Store, error) {
	store := &Store{
		logger:        logger,
		captureConf:   conf.Capture,
		overridesFile: conf.Gate.OverridesFile,
	}

	gateConf := conf.Gate
	if loaded, ok, err := store.loadOverrides(); err != nil {
		return nil, err
	} else if ok {
		gateConf = loaded
		logger.Info("gate overrides loaded", zap.String("file", store.overridesFile))
	}

	if err := store.apply(gateConf); err != nil {
		return nil, err
	}
	return store, nil
}

// Current 目前生效的 Snapshot；永不為 nil
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// GateConfig 最近一次成功套用的 gate 設定複本，slice 與內部狀態不共用
func (s *Store) GateConfig() config.Gate {
	s.mu.Lock()
	defer s.mu.Unlock()

	conf := s.gateConf
	conf.Network.AllowedIPs = append([]string(nil), conf.Network.AllowedIPs...)
	conf.Network.AllowedCIDRs = append([]string(nil), conf.Network.AllowedCIDRs...)
	conf.Network.TrustedProxies = append([]string(nil), conf.Network.TrustedProxies...)
	conf.Credential.Keys = append([]string(nil), conf.Credential.Keys...)
	return conf
}

// Apply 驗證並原子切換新設定；驗證失敗保留舊版並回傳 error
func (s *Store) Apply(gateConf config.Gate, captureConf config.Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captureConf = captureConf
	return s.apply(gateConf)
}

// ApplyAndPersist 套用成功後把 gate 區段寫入覆寫檔（管理端更新路徑）
func (s *Store) ApplyAndPersist(gateConf config.Gate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(gateConf); err != nil {
		return err
	}
	if s.overridesFile == "" {
		s.logger.Warn("gate overrides file not configured, update not persisted")
		return nil
	}
	return s.persist(gateConf)
}

// apply 呼叫端須持有 s.mu
func (s *Store) apply(gateConf config.Gate) error {
	snap, err := BuildSnapshot(gateConf, s.captureConf, s.version+1)
	if err != nil {
		return err
	}
	s.version = snap.Version
	s.gateConf = gateConf
	s.current.Store(snap)

	s.logger.Info("gate snapshot applied",
		zap.Int64("version", snap.Version),
		zap.Bool("network", snap.NetworkEnabled),
		zap.Bool("credential", snap.CredentialEnabled),
		zap.Bool("signature", snap.SignatureEnabled),
		zap.Bool("rate_limit", snap.RateEnabled),
		zap.Int("credential_keys", snap.KeyCount()),
	)
	return nil
}

func (s *Store) loadOverrides() (config.Gate, bool, error) {
	var gateConf config.Gate
	if s.overridesFile == "" {
		return gateConf, false, nil
	}
	if ok, err := path.Exists(s.overridesFile); err != nil || !ok {
		return gateConf, false, err
	}

	v := viper.New()
	v.SetConfigFile(s.overridesFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return gateConf, false, fmt.Errorf("read gate overrides: %w", err)
	}
	if err := v.Unmarshal(&gateConf); err != nil {
		return gateConf, false, fmt.Errorf("unmarshal gate overrides: %w", err)
	}
	// 覆寫檔不重新指定自己的路徑
	gateConf.OverridesFile = s.overridesFile
	return gateConf, true, nil
}

// persist 呼叫端須持有 s.mu
func (s *Store) persist(gateConf config.Gate) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("network", map[string]any{
		"enabled":         gateConf.Network.Enabled,
		"allowed_ips":     gateConf.Network.AllowedIPs,
		"allowed_cidrs":   gateConf.Network.AllowedCIDRs,
		"allow_private":   gateConf.Network.AllowPrivate,
		"trusted_proxies": gateConf.Network.TrustedProxies,
	})
	v.Set("credential", map[string]any{
		"enabled": gateConf.Credential.Enabled,
		"header":  gateConf.Credential.Header,
		"keys":    gateConf.Credential.Keys,
	})
	v.Set("signature", map[string]any{
		"enabled":   gateConf.Signature.Enabled,
		"header":    gateConf.Signature.Header,
		"secret":    gateConf.Signature.Secret,
		"algorithm": gateConf.Signature.Algorithm,
	})
	v.Set("rate_limit", map[string]any{
		"enabled":    gateConf.RateLimit.Enabled,
		"per_minute": gateConf.RateLimit.PerMinute,
		"per_hour":   gateConf.RateLimit.PerHour,
		"scope":      gateConf.RateLimit.Scope,
	})

	if err := v.WriteConfigAs(s.overridesFile); err != nil {
		return fmt.Errorf("persist gate overrides: %w", err)
	}
	if info, err := os.Stat(s.overridesFile); err == nil {
		s.logger.Info("gate overrides persisted",
			zap.String("file", s.overridesFile),
			zap.Int64("bytes", info.Size()),
		)
	}
	return nil
}
