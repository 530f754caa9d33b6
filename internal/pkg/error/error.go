package error

import "net/http"

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}
}

func From(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return InternalServer(err.Error())
}

// ✅ 用戶請求錯誤 (400 系列)
func ValidateErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request/body", errorDesc)
}

func ValidatePathParamsErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request/params", errorDesc)
}

func BadRequest(errorDesc string, errorCode ...int) *Error {
	errCode := BAD_REQUEST_BODY
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusBadRequest, errCode, "bad-request", errorDesc)
}

func BadRequestParams(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request-params", errorDesc)
}

func BadContentLength(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_CONTENT_LENGTH, "bad-content-length", errorDesc)
}

func PathTraversal(errorDesc string) *Error {
	return New(http.StatusBadRequest, PATH_TRAVERSAL, "path-traversal", errorDesc)
}

// ✅ 體積與形狀超限 (413 414 431 系列)
func PayloadTooLarge(errorDesc string) *Error {
	return New(http.StatusRequestEntityTooLarge, PAYLOAD_TOO_LARGE, "payload-too-large", errorDesc)
}

func QueryTooLong(errorDesc string) *Error {
	return New(http.StatusRequestURITooLong, QUERY_TOO_LONG, "query-too-long", errorDesc)
}

func UnsupportedMediaType(errorDesc string) *Error {
	return New(http.StatusUnsupportedMediaType, UNSUPPORTED_MEDIA, "unsupported-media-type", errorDesc)
}

func HeadersTooLarge(errorDesc string) *Error {
	return New(http.StatusRequestHeaderFieldsTooLarge, HEADERS_TOO_LARGE, "headers-too-large", errorDesc)
}

// ✅ 權限錯誤 (401, 403)
func Unauthorized(errorDesc string, errorCode ...int) *Error {
	errCode := UNAUTHORIZED
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusUnauthorized, errCode, "unauthorized", errorDesc)
}

func CredentialRequired(errorDesc string) *Error {
	return New(http.StatusUnauthorized, CREDENTIAL_REQUIRED, "credential-required", errorDesc)
}

func CredentialInvalid(errorDesc string) *Error {
	return New(http.StatusUnauthorized, CREDENTIAL_INVALID, "credential-invalid", errorDesc)
}

func SignatureRequired(errorDesc string) *Error {
	return New(http.StatusUnauthorized, SIGNATURE_REQUIRED, "signature-required", errorDesc)
}

func SignatureInvalid(errorDesc string) *Error {
	return New(http.StatusUnauthorized, SIGNATURE_INVALID, "signature-invalid", errorDesc)
}

func Forbidden(errorDesc string, errorCode ...int) *Error {
	errCode := FORBIDDEN
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusForbidden, errCode, "forbidden", errorDesc)
}

func NetworkNotAllowed(errorDesc string) *Error {
	return New(http.StatusForbidden, NETWORK_NOT_ALLOWED, "network-not-allowed", errorDesc)
}

func RateLimitExceeded(errorDesc string) *Error {
	return New(http.StatusTooManyRequests, RATE_LIMIT_EXCEEDED, "rate-limit-exceeded", errorDesc)
}

// ✅ 資源找不到 (404)
func NotFound(errorDesc string, errorCode ...int) *Error {
	errCode := NOT_FOUND
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusNotFound, errCode, "not-found", errorDesc)
}

// ✅ 伺服器內部錯誤 (500 系列)
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

func StorageError(errorDesc string) *Error {
	return New(http.StatusInternalServerError, STORAGE_ERROR, "storage-error", errorDesc)
}

func ConfigInvalid(errorDesc string) *Error {
	return New(http.StatusInternalServerError, CONFIG_INVALID, "config-invalid", errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "service-unavailable", errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}

func (e *Error) ErrorDesc() string {
	return e.errorDesc
}

func (e *Error) Error() string {
	return e.errorMsg
}

func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequest(desc)
	case http.StatusUnauthorized:
		return Unauthorized(desc)
	case http.StatusForbidden:
		return Forbidden(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusRequestEntityTooLarge:
		return PayloadTooLarge(desc)
	case http.StatusTooManyRequests:
		return RateLimitExceeded(desc)
	case http.StatusInternalServerError:
		return InternalServer(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	default:
		return InternalServer(desc)
	}
}
