package gate

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/netip"
	"strings"
	"testing"
	"time"

	"intake/config"
	"intake/internal/core"
	"intake/internal/ratelimit"

	"go.uber.org/zap"
)

func jsonRequest(body string) *Request {
	return &Request{
		Method:         http.MethodPost,
		Path:           "/webhook",
		Header:         http.Header{},
		DeclaredLength: int64(len(body)),
		ContentType:    "application/json",
		Body:           []byte(body),
		SourceAddr:     netip.MustParseAddr("203.0.113.7"),
		SourcePort:     50123,
		HasSource:      true,
	}
}

func TestSizeFilter(t *testing.T) {
	captureConf := config.Capture{
		MaxBodyBytes:   64,
		MaxQueryLength: 16,
		MaxHeaderCount: 4,
		MaxHeaderBytes: 32,
	}
	snap := mustSnapshot(t, config.Gate{}, captureConf)
	filter := &SizeFilter{}

	tests := []struct {
		name     string
		mutate   func(req *Request)
		wantHttp int
	}{
		{
			name:   "small json passes",
			mutate: func(req *Request) {},
		},
		{
			name:     "negative declared length",
			mutate:   func(req *Request) { req.DeclaredLength = -2 },
			wantHttp: http.StatusBadRequest,
		},
		{
			name:     "declared length over limit",
			mutate:   func(req *Request) { req.DeclaredLength = 65 },
			wantHttp: http.StatusRequestEntityTooLarge,
		},
		{
			// 上限是含而非不含
			name: "body exactly at limit passes",
			mutate: func(req *Request) {
				req.Body = []byte(strings.Repeat("x", 64))
				req.DeclaredLength = 64
			},
		},
		{
			name: "body one byte over limit",
			mutate: func(req *Request) {
				req.Body = []byte(strings.Repeat("x", 65))
				req.DeclaredLength = 65
			},
			wantHttp: http.StatusRequestEntityTooLarge,
		},
		{
			name: "buffered body over limit",
			mutate: func(req *Request) {
				req.Body = []byte(strings.Repeat("x", 65))
				req.DeclaredLength = -1 // chunked，宣告值不可用
			},
			wantHttp: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "content type not in allowlist",
			mutate:   func(req *Request) { req.ContentType = "application/xml" },
			wantHttp: http.StatusUnsupportedMediaType,
		},
		{
			name: "body without content type",
			mutate: func(req *Request) {
				req.ContentType = ""
			},
			wantHttp: http.StatusUnsupportedMediaType,
		},
		{
			name: "empty body without content type passes",
			mutate: func(req *Request) {
				req.ContentType = ""
				req.Body = nil
				req.DeclaredLength = 0
			},
		},
		{
			name:     "path traversal",
			mutate:   func(req *Request) { req.Path = "/webhook/../admin" },
			wantHttp: http.StatusBadRequest,
		},
		{
			name:     "encoded path traversal in query",
			mutate:   func(req *Request) { req.RawQuery = "f=%2E%2e%2fsecret" },
			wantHttp: http.StatusBadRequest,
		},
		{
			name:     "query too long",
			mutate:   func(req *Request) { req.RawQuery = strings.Repeat("q", 17) },
			wantHttp: http.StatusRequestURITooLong,
		},
		{
			name: "single header too large",
			mutate: func(req *Request) {
				req.Header.Set("X-Big", strings.Repeat("v", 30))
			},
			wantHttp: http.StatusRequestHeaderFieldsTooLarge,
		},
		{
			name: "too many headers",
			mutate: func(req *Request) {
				req.Header["X-Multi"] = []string{"a", "b", "c", "d", "e"}
			},
			wantHttp: http.StatusRequestHeaderFieldsTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(`{"ok":true}`)
			tt.mutate(req)
			reject := filter.Evaluate(req, snap)
			if tt.wantHttp == 0 {
				if reject != nil {
					t.Fatalf("unexpected rejection: %d %s", reject.HttpCode(), reject.ErrorDesc())
				}
				return
			}
			if reject == nil {
				t.Fatal("expected rejection, got pass")
			}
			if reject.HttpCode() != tt.wantHttp {
				t.Errorf("http code = %d, want %d", reject.HttpCode(), tt.wantHttp)
			}
		})
	}
}

func TestNetworkFilter(t *testing.T) {
	filter := &NetworkFilter{}

	disabled := mustSnapshot(t, config.Gate{}, config.Capture{})
	if reject := filter.Evaluate(jsonRequest("{}"), disabled); reject != nil {
		t.Fatalf("disabled filter should pass, got %s", reject.ErrorDesc())
	}

	snap := mustSnapshot(t, config.Gate{
		Network: config.NetworkFilter{Enabled: true, AllowedIPs: []string{"203.0.113.7"}},
	}, config.Capture{})

	if reject := filter.Evaluate(jsonRequest("{}"), snap); reject != nil {
		t.Fatalf("allowlisted source should pass, got %s", reject.ErrorDesc())
	}

	req := jsonRequest("{}")
	req.SourceAddr = netip.MustParseAddr("198.51.100.9")
	reject := filter.Evaluate(req, snap)
	if reject == nil || reject.HttpCode() != http.StatusForbidden {
		t.Fatalf("unlisted source should be rejected with 403, got %v", reject)
	}

	req = jsonRequest("{}")
	req.HasSource = false
	reject = filter.Evaluate(req, snap)
	if reject == nil || reject.HttpCode() != http.StatusForbidden {
		t.Fatalf("unresolved source should be rejected with 403, got %v", reject)
	}
}

func TestCredentialFilter(t *testing.T) {
	filter := &CredentialFilter{}
	snap := mustSnapshot(t, config.Gate{
		Credential: config.CredentialFilter{Enabled: true, Keys: []string{"topsecret"}},
	}, config.Capture{})

	tests := []struct {
		name     string
		key      string
		wantCode int
	}{
		{"valid key", "topsecret", 0},
		{"valid key with surrounding spaces", "  topsecret  ", 0},
		{"missing key", "", 40101},
		{"wrong key", "nope", 40102},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest("{}")
			if tt.key != "" {
				req.Header.Set(core.DefaultCredentialHeader, tt.key)
			}
			reject := filter.Evaluate(req, snap)
			if tt.wantCode == 0 {
				if reject != nil {
					t.Fatalf("unexpected rejection: %s", reject.ErrorDesc())
				}
				return
			}
			if reject == nil {
				t.Fatal("expected rejection")
			}
			if reject.ErrorCode() != tt.wantCode {
				t.Errorf("error code = %d, want %d", reject.ErrorCode(), tt.wantCode)
			}
			if reject.HttpCode() != http.StatusUnauthorized {
				t.Errorf("http code = %d, want 401", reject.HttpCode())
			}
		})
	}
}

func TestCredentialFilterCustomHeader(t *testing.T) {
	filter := &CredentialFilter{}
	snap := mustSnapshot(t, config.Gate{
		Credential: config.CredentialFilter{Enabled: true, Header: "X-Api-Token", Keys: []string{"k"}},
	}, config.Capture{})

	req := jsonRequest("{}")
	req.Header.Set("X-Api-Token", "k")
	if reject := filter.Evaluate(req, snap); reject != nil {
		t.Fatalf("custom header key should pass, got %s", reject.ErrorDesc())
	}
}

func TestSignatureFilter(t *testing.T) {
	filter := &SignatureFilter{}
	secret := "hush"
	body := `{"event":"push"}`
	snap := mustSnapshot(t, config.Gate{
		Signature: config.SignatureFilter{Enabled: true, Secret: secret},
	}, config.Capture{})

	valid := hex.EncodeToString(ComputeMAC(core.SignatureSHA256, []byte(secret), []byte(body)))

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"valid hex signature", valid, 0},
		{"valid with algorithm prefix", "sha256=" + valid, 0},
		{"prefix algorithm mismatch", "sha1=" + valid, 40104},
		{"missing signature", "", 40103},
		{"not hex", "zzzz", 40104},
		{"wrong mac", hex.EncodeToString(ComputeMAC(core.SignatureSHA256, []byte("other"), []byte(body))), 40104},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(body)
			if tt.header != "" {
				req.Header.Set(core.DefaultSignatureHeader, tt.header)
			}
			reject := filter.Evaluate(req, snap)
			if tt.wantCode == 0 {
				if reject != nil {
					t.Fatalf("unexpected rejection: %s", reject.ErrorDesc())
				}
				return
			}
			if reject == nil {
				t.Fatal("expected rejection")
			}
			if reject.ErrorCode() != tt.wantCode {
				t.Errorf("error code = %d, want %d", reject.ErrorCode(), tt.wantCode)
			}
		})
	}
}

func TestSignatureFilterAlgorithms(t *testing.T) {
	filter := &SignatureFilter{}
	body := `payload`

	for _, alg := range []core.SignatureAlgorithm{core.SignatureSHA1, core.SignatureSHA256, core.SignatureSHA512} {
		t.Run(string(alg), func(t *testing.T) {
			snap := mustSnapshot(t, config.Gate{
				Signature: config.SignatureFilter{Enabled: true, Secret: "s", Algorithm: string(alg)},
			}, config.Capture{})
			req := jsonRequest(body)
			req.Header.Set(core.DefaultSignatureHeader,
				string(alg)+"="+hex.EncodeToString(ComputeMAC(alg, []byte("s"), []byte(body))))
			if reject := filter.Evaluate(req, snap); reject != nil {
				t.Fatalf("valid %s signature rejected: %s", alg, reject.ErrorDesc())
			}
		})
	}
}

func newTestChain(t *testing.T, gateConf config.Gate, captureConf config.Capture) *Chain {
	t.Helper()
	conf := &config.Configuration{Gate: gateConf, Capture: captureConf}
	store, err := NewStore(conf, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return NewChain(store, ratelimit.NewLimiter())
}

func TestChainFilterOrder(t *testing.T) {
	chain := newTestChain(t, config.Gate{}, config.Capture{})

	want := []core.FilterName{
		core.FilterSize,
		core.FilterNetwork,
		core.FilterCredential,
		core.FilterSignature,
		core.FilterRateLimit,
	}
	got := chain.Filters()
	if len(got) != len(want) {
		t.Fatalf("filter count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filter[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestChainShortCircuitsOnFirstRejection(t *testing.T) {
	// credential 也會擋，但體積檢查排在前面
	chain := newTestChain(t, config.Gate{
		Credential: config.CredentialFilter{Enabled: true, Keys: []string{"k"}},
	}, config.Capture{MaxBodyBytes: 8})

	req := jsonRequest(`{"way":"too large for the limit"}`)
	reject, filterName, snap := chain.Admit(context.Background(), req)
	if reject == nil {
		t.Fatal("expected rejection")
	}
	if filterName != core.FilterSize {
		t.Errorf("rejecting filter = %s, want size", filterName)
	}
	if snap == nil || snap.Version == 0 {
		t.Error("admit should return the snapshot in effect")
	}
}

func TestChainAllPass(t *testing.T) {
	chain := newTestChain(t, config.Gate{}, config.Capture{})

	reject, filterName, snap := chain.Admit(context.Background(), jsonRequest(`{"ok":1}`))
	if reject != nil {
		t.Fatalf("unexpected rejection by %s: %s", filterName, reject.ErrorDesc())
	}
	if snap == nil {
		t.Fatal("snapshot missing")
	}
}

func TestChainRateLimit(t *testing.T) {
	chain := newTestChain(t, config.Gate{
		RateLimit: config.RateLimitFilter{Enabled: true, PerMinute: 1},
	}, config.Capture{})

	if reject, _, _ := chain.Admit(context.Background(), jsonRequest("{}")); reject != nil {
		t.Fatalf("first request rejected: %s", reject.ErrorDesc())
	}

	req := jsonRequest("{}")
	reject, filterName, _ := chain.Admit(context.Background(), req)
	if reject == nil {
		t.Fatal("second request within window should be rejected")
	}
	if filterName != core.FilterRateLimit {
		t.Errorf("rejecting filter = %s, want rate_limit", filterName)
	}
	if reject.HttpCode() != http.StatusTooManyRequests {
		t.Errorf("http code = %d, want 429", reject.HttpCode())
	}
	if req.RetryAfterHint < time.Second {
		t.Errorf("retry after hint = %v, want at least 1s", req.RetryAfterHint)
	}
}

func TestChainRateLimitGlobalScope(t *testing.T) {
	chain := newTestChain(t, config.Gate{
		RateLimit: config.RateLimitFilter{Enabled: true, PerMinute: 1, Scope: "global"},
	}, config.Capture{})

	if reject, _, _ := chain.Admit(context.Background(), jsonRequest("{}")); reject != nil {
		t.Fatalf("first request rejected: %s", reject.ErrorDesc())
	}

	// global scope 下換來源也共用同一額度
	req := jsonRequest("{}")
	req.SourceAddr = netip.MustParseAddr("198.51.100.1")
	reject, filterName, _ := chain.Admit(context.Background(), req)
	if reject == nil || filterName != core.FilterRateLimit {
		t.Fatalf("different source should share the global window, got %v from %s", reject, filterName)
	}
}

func TestChainCredentialRejectionPrecedesRateLimit(t *testing.T) {
	chain := newTestChain(t, config.Gate{
		Credential: config.CredentialFilter{Enabled: true, Keys: []string{"k"}},
		RateLimit:  config.RateLimitFilter{Enabled: true, PerMinute: 1},
	}, config.Capture{})

	// 先用有效 key 把額度用滿
	req := jsonRequest("{}")
	req.Header.Set(core.DefaultCredentialHeader, "k")
	if reject, _, _ := chain.Admit(context.Background(), req); reject != nil {
		t.Fatalf("first request rejected: %s", reject.ErrorDesc())
	}

	// 額度已滿且缺 key：credential 排在 rate limit 前，必須回 401 而非 429
	for i := 0; i < 3; i++ {
		req = jsonRequest("{}")
		reject, filterName, _ := chain.Admit(context.Background(), req)
		if reject == nil {
			t.Fatal("expected rejection")
		}
		if filterName != core.FilterCredential {
			t.Fatalf("rejecting filter = %s, want credential", filterName)
		}
		if reject.HttpCode() != http.StatusUnauthorized {
			t.Fatalf("http code = %d, want 401", reject.HttpCode())
		}
	}

	// 被 credential 擋下的請求不得記入額度：帶 key 的下一筆才碰到 rate limit
	req = jsonRequest("{}")
	req.Header.Set(core.DefaultCredentialHeader, "k")
	reject, filterName, _ := chain.Admit(context.Background(), req)
	if reject == nil || filterName != core.FilterRateLimit {
		t.Fatalf("authenticated request over quota should hit rate limit, got %v from %s", reject, filterName)
	}
	if reject.HttpCode() != http.StatusTooManyRequests {
		t.Errorf("http code = %d, want 429", reject.HttpCode())
	}
}

func TestChainCancelledContext(t *testing.T) {
	chain := newTestChain(t, config.Gate{}, config.Capture{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reject, _, _ := chain.Admit(ctx, jsonRequest("{}"))
	if reject == nil || reject.HttpCode() != http.StatusServiceUnavailable {
		t.Fatalf("cancelled context should return 503, got %v", reject)
	}
}
