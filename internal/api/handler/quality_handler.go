package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/service"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/response"
)

// QualityHandler 质检审批 HTTP 处理器
type QualityHandler struct {
	qualitySvc service.QualityService
}

// NewQualityHandler 创建 QualityHandler
func NewQualityHandler(qualitySvc service.QualityService) *QualityHandler {
	return &QualityHandler{qualitySvc: qualitySvc}
}

// Decide 质检裁决
// POST /api/v1/quality-approvals/:id/decision
func (h *QualityHandler) Decide(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.DecideQualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.qualitySvc.Decide(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ListPending 待裁决的质检审批单
// GET /api/v1/quality-approvals
func (h *QualityHandler) ListPending(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.qualitySvc.ListPending(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
