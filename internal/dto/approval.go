package dto

// ── 审批模块 DTO ──

// DecideApprovalRequest 主管审批裁决请求
type DecideApprovalRequest struct {
	Action   string `json:"action"   binding:"required,oneof=approve reject"`
	Comments string `json:"comments" binding:"omitempty,max=2000"`
}

// DecideApprovalResponse 审批裁决结果
type DecideApprovalResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// ApprovalRecordResponse 审批历史记录
type ApprovalRecordResponse struct {
	ID             string `json:"id"`
	TaskID         string `json:"task_id"`
	SupervisorID   string `json:"supervisor_id"`
	SupervisorName string `json:"supervisor_name,omitempty"`
	ActionType     string `json:"action_type"`
	Comments       string `json:"comments,omitempty"`
	ApprovalDate   string `json:"approval_date"`
}

// ── 质检审批 DTO ──

// DecideQualityRequest 质检裁决请求
type DecideQualityRequest struct {
	Action   string `json:"action"   binding:"required,oneof=approve reject"`
	Comments string `json:"comments" binding:"omitempty,max=2000"`
}

// DecideQualityResponse 质检裁决结果
type DecideQualityResponse struct {
	ApprovalID string `json:"approval_id"`
	Status     string `json:"status"`
}

// QualityApprovalResponse 质检审批单响应
type QualityApprovalResponse struct {
	ID        string         `json:"id"`
	JobOrder  *JobOrderBrief `json:"job_order,omitempty"`
	Status    string         `json:"status"`
	Comments  string         `json:"comments,omitempty"`
	DecidedAt string         `json:"decided_at,omitempty"`
	CreatedAt string         `json:"created_at"`
}
