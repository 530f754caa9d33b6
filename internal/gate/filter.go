package gate

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"intake/internal/core"
	cErr "intake/internal/pkg/error"
	"intake/internal/ratelimit"
)

// Request 是 filter 看到的請求視圖。
// Body 已由 pipeline 緩衝完成；filter 不做任何 I/O。
type Request struct {
	Method         string
	Path           string
	RawQuery       string
	Header         http.Header
	DeclaredLength int64
	ContentType    string // 已去除參數、轉小寫的 media type
	Body           []byte

	SourceAddr netip.Addr
	SourcePort int
	HasSource  bool

	// rate limit filter 擋下時填入，handler 轉成 Retry-After header
	RetryAfterHint time.Duration
}

// Filter 單一 admission 檢查；回傳 nil 表示通過
type Filter interface {
	Name() core.FilterName
	Evaluate(req *Request, snap *Snapshot) *cErr.Error
}

// Chain 固定順序的 filter 串。
// 順序集中定義在這裡，不散落在路由註冊點：先做便宜的形狀檢查，
// 再做網路與憑證，簽章驗證需要完整 body，rate limit 最後才記帳。
type Chain struct {
	store   *Store
	filters []Filter
}

func NewChain(store *Store, limiter *ratelimit.Limiter) *Chain {
	return &Chain{
		store: store,
		filters: []Filter{
			&SizeFilter{},
			&NetworkFilter{},
			&CredentialFilter{},
			&SignatureFilter{},
			NewRateLimitFilter(limiter),
		},
	}
}

// Admit 依序執行 filter，第一個 rejection 即短路。
// 回傳 rejection（nil 表示全數通過）、攔下的 filter 名稱、使用的 Snapshot。
func (c *Chain) Admit(ctx context.Context, req *Request) (*cErr.Error, core.FilterName, *Snapshot) {
	snap := c.store.Current()
	for _, f := range c.filters {
		if err := ctx.Err(); err != nil {
			return cErr.ServiceUnavailable("request cancelled"), "", snap
		}
		if reject := f.Evaluate(req, snap); reject != nil {
			return reject, f.Name(), snap
		}
	}
	return nil, "", snap
}

// Filters 目前的固定順序（測試與文件用）
func (c *Chain) Filters() []core.FilterName {
	names := make([]core.FilterName, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name()
	}
	return names
}
