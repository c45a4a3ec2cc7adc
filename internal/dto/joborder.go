package dto

// ── 工单模块 DTO ──

// JobOrderListRequest 工单列表查询参数
type JobOrderListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active pending_quality completed rejected overdue due_soon"`
	PaginationRequest
}

// JobOrderResponse 工单响应
// status 为派生展示状态（active/due_soon/overdue/pending_quality/completed/rejected）
type JobOrderResponse struct {
	ID                 string  `json:"id"`
	OrderNumber        string  `json:"order_number"`
	Title              string  `json:"title"`
	TotalDevices       int     `json:"total_devices"`
	DevicesApproved    int     `json:"devices_approved"`
	DueDate            string  `json:"due_date"`
	Status             string  `json:"status"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CreatedAt          string  `json:"created_at"`
}

// MarkCompleteResponse 报完工结果（进入质检审批）
type MarkCompleteResponse struct {
	JobOrderID        string `json:"job_order_id"`
	QualityApprovalID string `json:"quality_approval_id"`
	Status            string `json:"status"`
}
