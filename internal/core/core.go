package core

// FilterName 是 admission filter 的固定識別；Chain 依此順序執行
type FilterName string

const (
	FilterSize       FilterName = "size"
	FilterNetwork    FilterName = "network"
	FilterCredential FilterName = "credential"
	FilterSignature  FilterName = "signature"
	FilterRateLimit  FilterName = "rate_limit"
)

// SignatureAlgorithm 支援的 MAC 演算法
type SignatureAlgorithm string

const (
	SignatureSHA1   SignatureAlgorithm = "sha1"
	SignatureSHA256 SignatureAlgorithm = "sha256"
	SignatureSHA512 SignatureAlgorithm = "sha512"
)

// RateLimitScope 決定 rate limit 的 client key 來源
type RateLimitScope string

const (
	RateScopeSource RateLimitScope = "source" // 逐來源位址
	RateScopeGlobal RateLimitScope = "global" // 單一全域 key
)

// GlobalRateKey 是 global scope 下所有請求共用的 client key
const GlobalRateKey = "_global"

// 擷取結果狀態（audit / log 用）
type CaptureOutcome string

const (
	OutcomePersisted  CaptureOutcome = "persisted"
	OutcomeRejected   CaptureOutcome = "rejected"
	OutcomeStoreFault CaptureOutcome = "store_fault"
	OutcomeCancelled  CaptureOutcome = "cancelled"
)

type FluentdSubTag string

const (
	FluentdAuditRejection  FluentdSubTag = "audit_rejection"
	FluentdAuditStoreFault FluentdSubTag = "audit_store_fault"
	FluentdAuditRetention  FluentdSubTag = "audit_retention"
)

// 預設 header 名稱
const (
	DefaultCredentialHeader = "X-Webhook-Key"
	DefaultSignatureHeader  = "X-Webhook-Signature"
)
