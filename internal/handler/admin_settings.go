package handler

import (
	"intake/internal/dto"
	"intake/internal/pkg/response"
	"intake/internal/service"
	"intake/internal/telemetry"
	"intake/utils/validate"

	"github.com/gin-gonic/gin"
)

type AdminSettingsHandler struct {
	trace           *telemetry.Trace
	settingsService *service.SettingsService
}

func NewAdminSettingsHandler(
	trace *telemetry.Trace,
	settingsService *service.SettingsService,
) *AdminSettingsHandler {
	return &AdminSettingsHandler{
		trace:           trace,
		settingsService: settingsService,
	}
}

// Get 目前生效的 filter 設定
// @Summary 取得目前設定（credential 與 secret 遮蔽）
// @Tags Admin-Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SettingsViewDto
// @Router /admin/settings [get]
func (h *AdminSettingsHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	response.Success(c, h.settingsService.View(ctx))
}

// Update 套用新的 filter 設定
// @Summary 整包更新 filter 設定（驗證失敗保留舊版）
// @Tags Admin-Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param settings body dto.UpdateSettingsDto true "新設定"
// @Success 200 {object} dto.SettingsViewDto
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/settings [put]
func (h *AdminSettingsHandler) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var payload dto.UpdateSettingsDto
	if cause, respErr := validate.BindAndValidate(c, &payload); respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	view, err := h.settingsService.Update(ctx, payload)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, view)
}

// GenerateCredential 產生並註冊新的 webhook key
// @Summary 產生隨機 webhook key 並加入有效清單（明文只回傳一次）
// @Tags Admin-Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.GeneratedCredentialDto
// @Failure 500 {object} map[string]string
// @Router /admin/credentials [post]
func (h *AdminSettingsHandler) GenerateCredential(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	generated, err := h.settingsService.GenerateCredential(ctx)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, generated)
}
