package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/service"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/response"
)

// AlertHandler 告警 HTTP 处理器
type AlertHandler struct {
	alertSvc service.AlertService
}

// NewAlertHandler 创建 AlertHandler
func NewAlertHandler(alertSvc service.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// List 告警流
// GET /api/v1/alerts
func (h *AlertHandler) List(c *gin.Context) {
	var req dto.AlertListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.alertSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// MarkRead 标记告警已读
// PUT /api/v1/alerts/:id/read
func (h *AlertHandler) MarkRead(c *gin.Context) {
	if err := h.alertSvc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nil)
}

// CountUnread 未读告警数
// GET /api/v1/alerts/unread-count
func (h *AlertHandler) CountUnread(c *gin.Context) {
	count, err := h.alertSvc.CountUnread(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}
