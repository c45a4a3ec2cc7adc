package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/service"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/response"
)

// MetricsHandler 绩效指标 HTTP 处理器
type MetricsHandler struct {
	metricsSvc service.MetricsService
}

// NewMetricsHandler 创建 MetricsHandler
func NewMetricsHandler(metricsSvc service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsSvc: metricsSvc}
}

// Range 指标区间查询
// GET /api/v1/metrics
func (h *MetricsHandler) Range(c *gin.Context) {
	var req dto.MetricRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.metricsSvc.Range(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// TeamSummary 团队单日汇总（仪表盘）
// GET /api/v1/metrics/team-summary?date=2025-01-15
func (h *MetricsHandler) TeamSummary(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().Format(model.DateOnly))
	date, err := time.Parse(model.DateOnly, dateStr)
	if err != nil {
		response.BadRequest(c, 10001, "日期格式无效")
		return
	}

	result, err := h.metricsSvc.TeamSummary(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// Recompute 手动触发指标重算（幂等）
// POST /api/v1/metrics/recompute?technician_id=...&date=2025-01-15
func (h *MetricsHandler) Recompute(c *gin.Context) {
	technicianID := c.Query("technician_id")
	if technicianID == "" {
		response.BadRequest(c, 10001, "缺少 technician_id")
		return
	}
	date, err := time.Parse(model.DateOnly, c.Query("date"))
	if err != nil {
		response.BadRequest(c, 10001, "日期格式无效")
		return
	}

	result, err := h.metricsSvc.Recompute(c.Request.Context(), technicianID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}
