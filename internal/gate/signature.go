package gate

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"intake/internal/core"
	cErr "intake/internal/pkg/error"
)

// SignatureFilter 驗證 sender 以共享密鑰對原始 body 計算的 HMAC。
// 依賴 pipeline 已把 body 完整緩衝（SizeFilter 階段之前完成），
// 比對使用 hmac.Equal 常數時間比較。
type SignatureFilter struct{}

func (f *SignatureFilter) Name() core.FilterName {
	return core.FilterSignature
}

func (f *SignatureFilter) Evaluate(req *Request, snap *Snapshot) *cErr.Error {
	if !snap.SignatureEnabled {
		return nil
	}

	provided := strings.TrimSpace(req.Header.Get(snap.SignatureHeader))
	if provided == "" {
		return cErr.SignatureRequired("signature required")
	}

	// 接受 GitHub 風格的 "sha256=<hex>" 前綴；有前綴時必須與設定的演算法一致
	if idx := strings.IndexByte(provided, '='); idx >= 0 {
		prefix := strings.ToLower(provided[:idx])
		if prefix != string(snap.SignatureAlg) {
			return cErr.SignatureInvalid("invalid signature")
		}
		provided = provided[idx+1:]
	}

	sig, err := hex.DecodeString(provided)
	if err != nil {
		return cErr.SignatureInvalid("invalid signature")
	}

	expected := ComputeMAC(snap.SignatureAlg, snap.signatureSecret, req.Body)
	if !hmac.Equal(sig, expected) {
		return cErr.SignatureInvalid("invalid signature")
	}
	return nil
}

// ComputeMAC 以指定演算法計算 HMAC（測試與 keygen 工具共用）
func ComputeMAC(alg core.SignatureAlgorithm, secret, body []byte) []byte {
	var newHash func() hash.Hash
	switch alg {
	case core.SignatureSHA1:
		newHash = sha1.New
	case core.SignatureSHA512:
		newHash = sha512.New
	default:
		newHash = sha256.New
	}
	mac := hmac.New(newHash, secret)
	mac.Write(body)
	return mac.Sum(nil)
}
