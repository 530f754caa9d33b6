package middleware

import (
	"strings"

	"intake/config"
	"intake/internal/core"
	cErr "intake/internal/pkg/error"
	"intake/internal/pkg/response"
	"intake/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Auth 管理介面的 JWT Bearer 驗證
type Auth struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewAuth(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
) *Auth {
	return &Auth{
		logger: logger,
		trace:  trace,
		config: config,
	}
}

func (m *Auth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanAdminAuth))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			m.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{
				Status:   "missing_token",
				ClientIP: c.ClientIP(),
			})
			cause := cErr.Unauthorized("missing bearer token")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &core.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.config.App.SecretKey), nil
		})
		if err != nil || !token.Valid {
			m.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{
				Status:   "invalid_token",
				ClientIP: c.ClientIP(),
			})
			m.logger.Warn("admin token rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
			cause := cErr.Unauthorized("invalid bearer token")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		// 成功
		m.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{
			Operator: claims.Operator,
			Status:   "ok",
			ClientIP: c.ClientIP(),
		})
		c.Set("operator", claims.Operator)
		end(nil)
		c.Next()
	}
}
