package gate

import (
	"fmt"
	"time"

	"intake/internal/core"
	cErr "intake/internal/pkg/error"
	"intake/internal/ratelimit"
)

// RateLimitFilter 滑動視窗流量檢查，是串上唯一會改共享狀態的 filter。
// 先記帳再判斷：當下這筆請求計入自己的額度。
type RateLimitFilter struct {
	limiter *ratelimit.Limiter
	now     func() time.Time
}

func NewRateLimitFilter(limiter *ratelimit.Limiter) *RateLimitFilter {
	return &RateLimitFilter{
		limiter: limiter,
		now:     time.Now,
	}
}

func (f *RateLimitFilter) Name() core.FilterName {
	return core.FilterRateLimit
}

func (f *RateLimitFilter) Evaluate(req *Request, snap *Snapshot) *cErr.Error {
	if !snap.RateEnabled {
		return nil
	}

	key := core.GlobalRateKey
	if snap.RateScope == core.RateScopeSource && req.HasSource {
		key = req.SourceAddr.String()
	}

	res := f.limiter.Take(key, f.now(), snap.RatePerMinute, snap.RatePerHour)
	if res.Allowed {
		return nil
	}

	req.RetryAfterHint = res.RetryAfter
	return cErr.RateLimitExceeded(fmt.Sprintf("too many requests (minute=%d hour=%d)", res.MinuteCount, res.HourCount))
}
