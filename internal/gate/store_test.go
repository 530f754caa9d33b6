package gate

import (
	"os"
	"path/filepath"
	"testing"

	"intake/config"

	"go.uber.org/zap"
)

func TestNewStoreRejectsInvalidConfig(t *testing.T) {
	conf := &config.Configuration{
		Gate: config.Gate{Credential: config.CredentialFilter{Enabled: true}},
	}
	if _, err := NewStore(conf, zap.NewNop()); err == nil {
		t.Fatal("expected startup to fail on invalid gate config")
	}
}

func TestStoreApplyKeepsPreviousOnFailure(t *testing.T) {
	conf := &config.Configuration{
		Gate: config.Gate{Credential: config.CredentialFilter{Enabled: true, Keys: []string{"k"}}},
	}
	store, err := NewStore(conf, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	before := store.Current()
	if before == nil || !before.CredentialEnabled {
		t.Fatal("initial snapshot not applied")
	}

	bad := config.Gate{Signature: config.SignatureFilter{Enabled: true}}
	if err := store.Apply(bad, conf.Capture); err == nil {
		t.Fatal("expected apply to fail on invalid config")
	}

	after := store.Current()
	if after != before {
		t.Error("failed apply must keep the previous snapshot")
	}
	if after.Version != before.Version {
		t.Errorf("version changed on failed apply: %d -> %d", before.Version, after.Version)
	}
}

func TestStoreApplyBumpsVersion(t *testing.T) {
	store, err := NewStore(&config.Configuration{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	v1 := store.Current().Version

	next := config.Gate{RateLimit: config.RateLimitFilter{Enabled: true, PerMinute: 10}}
	if err := store.Apply(next, config.Capture{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	snap := store.Current()
	if snap.Version != v1+1 {
		t.Errorf("version = %d, want %d", snap.Version, v1+1)
	}
	if !snap.RateEnabled || snap.RatePerMinute != 10 {
		t.Error("new snapshot does not reflect applied config")
	}
}

func TestStoreApplyAndPersistRoundTrip(t *testing.T) {
	overrides := filepath.Join(t.TempDir(), "gate.yaml")
	conf := &config.Configuration{
		Gate: config.Gate{OverridesFile: overrides},
	}
	store, err := NewStore(conf, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	update := config.Gate{
		OverridesFile: overrides,
		Credential:    config.CredentialFilter{Enabled: true, Keys: []string{"fresh-key"}},
		RateLimit:     config.RateLimitFilter{Enabled: true, PerMinute: 5, Scope: "source"},
	}
	if err := store.ApplyAndPersist(update); err != nil {
		t.Fatalf("ApplyAndPersist: %v", err)
	}
	if _, err := os.Stat(overrides); err != nil {
		t.Fatalf("overrides file not written: %v", err)
	}

	// 重新啟動：覆寫檔應蓋過靜態設定
	reloaded, err := NewStore(conf, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore with overrides: %v", err)
	}
	snap := reloaded.Current()
	if !snap.CredentialEnabled || !snap.HasKey("fresh-key") {
		t.Error("persisted credential config not restored")
	}
	if !snap.RateEnabled || snap.RatePerMinute != 5 {
		t.Error("persisted rate limit config not restored")
	}
}

func TestStoreApplyAndPersistInvalidNotWritten(t *testing.T) {
	overrides := filepath.Join(t.TempDir(), "gate.yaml")
	store, err := NewStore(&config.Configuration{
		Gate: config.Gate{OverridesFile: overrides},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	bad := config.Gate{OverridesFile: overrides, Credential: config.CredentialFilter{Enabled: true}}
	if err := store.ApplyAndPersist(bad); err == nil {
		t.Fatal("expected persist of invalid config to fail")
	}
	if _, err := os.Stat(overrides); !os.IsNotExist(err) {
		t.Error("invalid config must not be persisted")
	}
}
