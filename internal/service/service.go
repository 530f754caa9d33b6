package service

import (
	"intake/internal/gate"
	"intake/internal/ratelimit"

	"github.com/google/wire"
)

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	ratelimit.NewLimiter,
	gate.NewStore,
	gate.NewChain,
	NewHealthService,
	NewCaptureService,
	NewRecordService,
	NewSettingsService,
	NewRetentionService,
)
