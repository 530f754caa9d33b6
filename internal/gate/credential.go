package gate

import (
	"strings"

	"intake/internal/core"
	cErr "intake/internal/pkg/error"
)

// CredentialFilter 共享 key 檢查。
// 比對走 Snapshot 預先算好的 SHA-256 雜湊集合：每個候選值只雜湊一次做
// O(1) 查表，記憶體中的比對結構不含明文 key。
type CredentialFilter struct{}

func (f *CredentialFilter) Name() core.FilterName {
	return core.FilterCredential
}

func (f *CredentialFilter) Evaluate(req *Request, snap *Snapshot) *cErr.Error {
	if !snap.CredentialEnabled {
		return nil
	}

	candidate := strings.TrimSpace(req.Header.Get(snap.CredentialHeader))
	if candidate == "" {
		return cErr.CredentialRequired("api key required")
	}
	if !snap.HasKey(candidate) {
		return cErr.CredentialInvalid("invalid api key")
	}
	return nil
}
