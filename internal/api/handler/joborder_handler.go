package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/service"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/response"
)

// JobOrderHandler 工单模块 HTTP 处理器
type JobOrderHandler struct {
	jobOrderSvc service.JobOrderService
}

// NewJobOrderHandler 创建 JobOrderHandler
func NewJobOrderHandler(jobOrderSvc service.JobOrderService) *JobOrderHandler {
	return &JobOrderHandler{jobOrderSvc: jobOrderSvc}
}

// List 工单列表
// GET /api/v1/job-orders
func (h *JobOrderHandler) List(c *gin.Context) {
	var req dto.JobOrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.jobOrderSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 工单详情
// GET /api/v1/job-orders/:id
func (h *JobOrderHandler) Get(c *gin.Context) {
	result, err := h.jobOrderSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// MarkComplete 工单报完工，进入质检审批
// POST /api/v1/job-orders/:id/complete
func (h *JobOrderHandler) MarkComplete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.jobOrderSvc.MarkComplete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// RecomputeProgress 手动触发工单进度重算（幂等）
// POST /api/v1/job-orders/:id/recompute
func (h *JobOrderHandler) RecomputeProgress(c *gin.Context) {
	progress, err := h.jobOrderSvc.RecomputeProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"progress_percentage": progress})
}
