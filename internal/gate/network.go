package gate

import (
	"intake/internal/core"
	cErr "intake/internal/pkg/error"
)

// NetworkFilter 來源位址 allowlist。
// 位址由入口解析（只有在直連 peer 是受信任 proxy 時才採用 forwarded 標頭），
// filter 本身只對已解析的位址做成員檢查。
type NetworkFilter struct{}

func (f *NetworkFilter) Name() core.FilterName {
	return core.FilterNetwork
}

func (f *NetworkFilter) Evaluate(req *Request, snap *Snapshot) *cErr.Error {
	if !snap.NetworkEnabled {
		return nil
	}
	if !req.HasSource {
		return cErr.NetworkNotAllowed("source address unresolved")
	}
	if !snap.AddrAllowed(req.SourceAddr) {
		return cErr.NetworkNotAllowed("source address not in allowlist")
	}
	return nil
}
