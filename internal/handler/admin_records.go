package handler

import (
	"strconv"

	"intake/internal/core"
	"intake/internal/dto"
	cErr "intake/internal/pkg/error"
	"intake/internal/pkg/response"
	"intake/internal/service"
	"intake/internal/telemetry"
	"intake/utils/validate"

	"github.com/gin-gonic/gin"
)

type AdminRecordHandler struct {
	trace            *telemetry.Trace
	recordService    *service.RecordService
	retentionService *service.RetentionService
}

func NewAdminRecordHandler(
	trace *telemetry.Trace,
	recordService *service.RecordService,
	retentionService *service.RetentionService,
) *AdminRecordHandler {
	return &AdminRecordHandler{
		trace:            trace,
		recordService:    recordService,
		retentionService: retentionService,
	}
}

// List 擷取紀錄列表
// @Summary 取得擷取紀錄列表（新到舊）
// @Tags Admin-Record
// @Security BearerAuth
// @Produce json
// @Param limit query int false "筆數上限（預設 50）"
// @Param search query string false "不分大小寫子字串過濾"
// @Success 200 {array} dto.RecordSummaryDto
// @Failure 500 {object} map[string]string
// @Router /admin/requests [get]
func (h *AdminRecordHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ListRecordsQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	summaries, err := h.recordService.ListRecords(ctx, query)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, summaries)
}

// Get 單筆擷取紀錄
// @Summary 取得單筆擷取紀錄（含完整 header 與 body）
// @Tags Admin-Record
// @Security BearerAuth
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {object} dto.RecordDetailDto
// @Failure 404 {object} map[string]string
// @Router /admin/requests/{requestID} [get]
func (h *AdminRecordHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id := c.Param("requestID")
	if id == "" {
		err := cErr.ValidatePathParamsErr("missing requestID")
		end(err)
		response.AbortWithError(c, err)
		return
	}

	detail, err := h.recordService.GetRecord(ctx, id)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, detail)
}

// Delete 刪除過期紀錄
// @Summary 刪除早於指定天數的紀錄
// @Tags Admin-Record
// @Security BearerAuth
// @Produce json
// @Param olderThanDays query int true "天數"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Router /admin/requests [delete]
func (h *AdminRecordHandler) Delete(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)
	defer end(nil)

	days, err := strconv.Atoi(c.Query("olderThanDays"))
	if err != nil {
		cause := cErr.BadRequestParams("olderThanDays must be an integer")
		end(cause)
		response.AbortWithError(c, cause)
		return
	}

	deleted, svcErr := h.recordService.DeleteOlderThan(ctx, days)
	h.trace.ApplyTraceAttributes(span, core.TraceRetentionMeta{
		CutoffDays: days,
		Deleted:    deleted,
		Trigger:    "manual",
	})
	if svcErr != nil {
		end(svcErr)
		response.AbortWithError(c, svcErr)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// Sweep 立即執行保存期清理
// @Summary 以設定的保存天數立即清理
// @Tags Admin-Record
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} map[string]string
// @Router /admin/retention/sweep [post]
func (h *AdminRecordHandler) Sweep(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	deleted, err := h.retentionService.Sweep(ctx, "manual")
	if err != nil {
		end(err)
		response.AbortWithError(c, cErr.StorageError("retention sweep failed"))
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}
