package gate

import (
	"fmt"
	"strings"

	"intake/internal/core"
	cErr "intake/internal/pkg/error"
)

// SizeFilter 前置的體積與形狀檢查：在任何密碼學或 I/O 工作之前，
// 先把資源用量鎖在設定的上限內。宣告長度與實際緩衝長度各自獨立檢查，
// 因為 client 可能漏報或謊報 Content-Length。
type SizeFilter struct{}

func (f *SizeFilter) Name() core.FilterName {
	return core.FilterSize
}

func (f *SizeFilter) Evaluate(req *Request, snap *Snapshot) *cErr.Error {
	if req.DeclaredLength < -1 {
		return cErr.BadContentLength("negative content length")
	}
	if req.DeclaredLength > snap.MaxBodyBytes {
		return cErr.PayloadTooLarge(fmt.Sprintf("declared content length %d exceeds limit %d", req.DeclaredLength, snap.MaxBodyBytes))
	}
	if int64(len(req.Body)) > snap.MaxBodyBytes {
		return cErr.PayloadTooLarge(fmt.Sprintf("request body exceeds limit %d", snap.MaxBodyBytes))
	}

	if req.ContentType != "" || len(req.Body) > 0 {
		if !snap.ContentTypeAllowed(req.ContentType) {
			return cErr.UnsupportedMediaType(fmt.Sprintf("content type %q not allowed", req.ContentType))
		}
	}

	if hasTraversal(req.Path) || hasTraversal(req.RawQuery) {
		return cErr.PathTraversal("path traversal sequence in request")
	}

	if len(req.RawQuery) > snap.MaxQueryLength {
		return cErr.QueryTooLong(fmt.Sprintf("query string exceeds limit %d", snap.MaxQueryLength))
	}

	headerCount := 0
	for name, values := range req.Header {
		headerCount += len(values)
		for _, value := range values {
			if len(name)+len(value) > snap.MaxHeaderBytes {
				return cErr.HeadersTooLarge(fmt.Sprintf("header %q exceeds limit %d", name, snap.MaxHeaderBytes))
			}
		}
	}
	if headerCount > snap.MaxHeaderCount {
		return cErr.HeadersTooLarge(fmt.Sprintf("header count %d exceeds limit %d", headerCount, snap.MaxHeaderCount))
	}

	return nil
}

// hasTraversal 偵測 ".." 的原文與 percent-encoded 變體
func hasTraversal(s string) bool {
	if strings.Contains(s, "..") {
		return true
	}
	lower := strings.ToLower(s)
	return strings.Contains(lower, "%2e%2e") ||
		strings.Contains(lower, ".%2e") ||
		strings.Contains(lower, "%2e.")
}
