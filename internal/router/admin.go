package router

import (
	"intake/internal/handler"
	"intake/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	auth            *middleware.Auth
	recordHandler   *handler.AdminRecordHandler
	settingsHandler *handler.AdminSettingsHandler
}

func NewAdminRouter(
	auth *middleware.Auth,
	recordHandler *handler.AdminRecordHandler,
	settingsHandler *handler.AdminSettingsHandler,
) *AdminRouter {
	return &AdminRouter{
		auth:            auth,
		recordHandler:   recordHandler,
		settingsHandler: settingsHandler,
	}
}

func (adminRouter *AdminRouter) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/admin", adminRouter.auth.Handler())
	{
		g.GET("/requests", adminRouter.recordHandler.List)
		g.GET("/requests/:requestID", adminRouter.recordHandler.Get)
		g.DELETE("/requests", adminRouter.recordHandler.Delete)
		g.POST("/retention/sweep", adminRouter.recordHandler.Sweep)

		g.GET("/settings", adminRouter.settingsHandler.Get)
		g.PUT("/settings", adminRouter.settingsHandler.Update)
		g.POST("/credentials", adminRouter.settingsHandler.GenerateCredential)
	}
}
