package router

import (
	"intake/internal/handler"

	"github.com/gin-gonic/gin"
)

type WebhookRouter struct {
	webhookHandler *handler.WebhookHandler
}

func NewWebhookRouter(
	webhookHandler *handler.WebhookHandler,
) *WebhookRouter {
	return &WebhookRouter{
		webhookHandler: webhookHandler,
	}
}

// RegisterRoutes 任何 method 都收；admission 交給 filter chain 決定
func (webhookRouter *WebhookRouter) RegisterRoutes(r *gin.Engine) {
	r.Any("/webhook", webhookRouter.webhookHandler.Capture)
}
