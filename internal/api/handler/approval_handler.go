package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/service"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/response"
)

// ApprovalHandler 任务审批 HTTP 处理器
type ApprovalHandler struct {
	approvalSvc service.ApprovalService
}

// NewApprovalHandler 创建 ApprovalHandler
func NewApprovalHandler(approvalSvc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// Decide 主管审批裁决
// POST /api/v1/tasks/:id/decision
func (h *ApprovalHandler) Decide(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.DecideApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.approvalSvc.Decide(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// History 任务审批历史
// GET /api/v1/tasks/:id/approvals
func (h *ApprovalHandler) History(c *gin.Context) {
	result, err := h.approvalSvc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}
