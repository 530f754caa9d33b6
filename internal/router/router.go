package router

import (
	"net/http"
	"time"

	docs "intake/cmd/docs"
	"intake/config"
	"intake/internal/middleware"
	"intake/internal/pkg/response"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewWebhookRouter,
	NewAdminRouter,
	NewHealthRouter,
)

// 透過依賴注入將
func NewRouter(
	config *config.Configuration,
	logger *zap.Logger,
	traceEntry *middleware.TraceEntry,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	loggerMiddleware *middleware.Logger,
	responseMiddleware *middleware.Response,
	webhookRouter *WebhookRouter,
	adminRouter *AdminRouter,
	healthRouter *HealthRouter,
) *gin.Engine {

	switch config.App.Env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// forwarded 類標頭只信任設定清單內的 proxy；清單為空時一律使用 socket peer
	if err := router.SetTrustedProxies(config.Gate.Network.TrustedProxies); err != nil {
		logger.Error("set trusted proxies failed", zap.Error(err))
	}

	router.Use(traceEntry.Handler())
	router.Use(loggerMiddleware.LoggerHandler())
	router.Use(cors.CorsHandler())
	router.Use(recovery.ErrorHandler())
	router.Use(responseMiddleware.FormatHandler())
	router.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Response{
			Code: 0,
			Data: gin.H{
				"status":  "ok",
				"name":    config.App.Name,
				"version": config.App.Version,
				"ts":      time.Now().UTC().Format(time.RFC3339),
			},
			Message:     "success",
			Description: "service is alive",
		})
		c.Abort()
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host

			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
				docs.SwaggerInfo.BasePath = "/"
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	webhookRouter.RegisterRoutes(router)
	adminRouter.RegisterRoutes(router)
	healthRouter.RegisterHealthRoutes(router)
	pprof.Register(router)
	return router
}
