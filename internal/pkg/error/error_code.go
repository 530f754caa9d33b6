package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY    = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS  = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_HEADERS = 40002 // 400 - 無效的請求標頭
	BAD_CONTENT_LENGTH  = 40003 // 400 - Content-Length 非法
	PATH_TRAVERSAL      = 40004 // 400 - 路徑包含 traversal 片段

	// 40100 ~ 40399: 驗證與權限錯誤 (401 403 系列)
	UNAUTHORIZED        = 40100 // 401 - 未授權
	CREDENTIAL_REQUIRED = 40101 // 401 - 缺少 webhook key
	CREDENTIAL_INVALID  = 40102 // 401 - webhook key 無效
	SIGNATURE_REQUIRED  = 40103 // 401 - 缺少簽章
	SIGNATURE_INVALID   = 40104 // 401 - 簽章不符
	FORBIDDEN           = 40301 // 403 - 禁止訪問
	NETWORK_NOT_ALLOWED = 40302 // 403 - 來源位址不在允許清單

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND = 40400 // 404 - 資源未找到

	// 41300 ~ 43199: 請求體積 / 流量限制
	PAYLOAD_TOO_LARGE   = 41300 // 413 - body 超過上限
	QUERY_TOO_LONG      = 41400 // 414 - query string 超過上限
	UNSUPPORTED_MEDIA   = 41500 // 415 - Content-Type 不在允許清單
	RATE_LIMIT_EXCEEDED = 42900 // 429 - 速率限制超過
	HEADERS_TOO_LARGE   = 43100 // 431 - header 數量或長度超過上限

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	STORAGE_ERROR       = 50001 // 500 - 儲存層錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停 (維護模式)
	CONFIG_INVALID      = 50003 // 500 - 設定無法套用
)
