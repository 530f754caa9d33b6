package service

import (
	"context"
	"sort"

	"intake/config"
	"intake/internal/dto"
	"intake/internal/gate"
	cErr "intake/internal/pkg/error"
	"intake/internal/telemetry"
	"intake/utils/secrets"

	"go.uber.org/zap"
)

// SettingsService 管理端檢視與更新 filter 設定
type SettingsService struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
	store  *gate.Store
}

func NewSettingsService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	store *gate.Store,
) *SettingsService {
	return &SettingsService{
		logger: logger,
		trace:  trace,
		config: config,
		store:  store,
	}
}

// View 目前生效設定；credential 與 secret 一律遮蔽
func (service *SettingsService) View(ctx context.Context) dto.SettingsViewDto {
	_, _, end := service.trace.WithSpan(ctx)
	defer end(nil)

	snap := service.store.Current()

	contentTypes := make([]string, 0, len(snap.AllowedContentTypes))
	for ct := range snap.AllowedContentTypes {
		contentTypes = append(contentTypes, ct)
	}
	sort.Strings(contentTypes)

	hashes := snap.KeyHashes()
	sort.Strings(hashes)

	return dto.SettingsViewDto{
		Version:   snap.Version,
		AppliedAt: snap.AppliedAt,
		Capture: dto.CaptureViewDto{
			MaxBodyBytes:        snap.MaxBodyBytes,
			MaxQueryLength:      snap.MaxQueryLength,
			MaxHeaderCount:      snap.MaxHeaderCount,
			MaxHeaderBytes:      snap.MaxHeaderBytes,
			AllowedContentTypes: contentTypes,
		},
		Network: dto.NetworkSettingsDto{
			Enabled:      snap.NetworkEnabled,
			AllowPrivate: snap.AllowPrivate,
		},
		Credential: dto.CredentialViewDto{
			Enabled:   snap.CredentialEnabled,
			Header:    snap.CredentialHeader,
			KeyCount:  snap.KeyCount(),
			KeyHashes: hashes,
		},
		Signature: dto.SignatureViewDto{
			Enabled:   snap.SignatureEnabled,
			Header:    snap.SignatureHeader,
			Algorithm: string(snap.SignatureAlg),
			SecretSet: snap.SecretConfigured(),
		},
		RateLimit: dto.RateLimitSettingsDto{
			Enabled:   snap.RateEnabled,
			PerMinute: snap.RatePerMinute,
			PerHour:   snap.RatePerHour,
			Scope:     string(snap.RateScope),
		},
	}
}

// Update 以整包取代的方式套用新設定。
// 驗證失敗時舊設定原封不動，回傳 CONFIG_INVALID。
func (service *SettingsService) Update(ctx context.Context, payload dto.UpdateSettingsDto) (view dto.SettingsViewDto, returnedError error) {
	_, _, end := service.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	gateConf := config.Gate{
		OverridesFile: service.config.Gate.OverridesFile,
		Network: config.NetworkFilter{
			Enabled:      payload.Network.Enabled,
			AllowedIPs:   payload.Network.AllowedIPs,
			AllowedCIDRs: payload.Network.AllowedCIDRs,
			AllowPrivate: payload.Network.AllowPrivate,
			// trusted proxy 清單只在啟動時套到 gin，不開放線上修改
			TrustedProxies: service.config.Gate.Network.TrustedProxies,
		},
		Credential: config.CredentialFilter{
			Enabled: payload.Credential.Enabled,
			Header:  payload.Credential.Header,
			Keys:    payload.Credential.Keys,
		},
		Signature: config.SignatureFilter{
			Enabled:   payload.Signature.Enabled,
			Header:    payload.Signature.Header,
			Secret:    payload.Signature.Secret,
			Algorithm: payload.Signature.Algorithm,
		},
		RateLimit: config.RateLimitFilter{
			Enabled:   payload.RateLimit.Enabled,
			PerMinute: payload.RateLimit.PerMinute,
			PerHour:   payload.RateLimit.PerHour,
			Scope:     payload.RateLimit.Scope,
		},
	}

	if err := service.store.ApplyAndPersist(gateConf); err != nil {
		service.logger.Warn("settings update rejected", zap.Error(err))
		returnedError = cErr.ConfigInvalid(err.Error())
		return dto.SettingsViewDto{}, returnedError
	}

	service.logger.Info("settings updated",
		zap.Int64("version", service.store.Current().Version),
	)
	return service.View(ctx), nil
}

// GenerateCredential 產生新的隨機 key，加入有效清單並持久化。
// 明文只出現在這次回應，之後僅能看到 hash。
func (service *SettingsService) GenerateCredential(ctx context.Context) (generated dto.GeneratedCredentialDto, returnedError error) {
	_, _, end := service.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	key, err := secrets.GenerateKey(32)
	if err != nil {
		returnedError = cErr.InternalServer("generate credential failed")
		return dto.GeneratedCredentialDto{}, returnedError
	}

	gateConf := service.store.GateConfig()
	gateConf.Credential.Keys = append(gateConf.Credential.Keys, key)
	if err := service.store.ApplyAndPersist(gateConf); err != nil {
		service.logger.Warn("credential registration rejected", zap.Error(err))
		returnedError = cErr.ConfigInvalid(err.Error())
		return dto.GeneratedCredentialDto{}, returnedError
	}

	service.logger.Info("credential generated",
		zap.Int("key_count", service.store.Current().KeyCount()),
		zap.Int64("version", service.store.Current().Version),
	)
	return dto.GeneratedCredentialDto{
		Key:     key,
		KeyHash: secrets.HashKey(key),
	}, nil
}
