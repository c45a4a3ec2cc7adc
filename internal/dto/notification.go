package dto

// ── 主管通知 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending read resolved"`
	PaginationRequest
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID               string           `json:"id"`
	NotificationType string           `json:"notification_type"`
	Status           string           `json:"status"`
	TaskID           string           `json:"task_id"`
	Technician       *TechnicianBrief `json:"technician,omitempty"`
	JobOrder         *JobOrderBrief   `json:"job_order,omitempty"`
	CreatedAt        string           `json:"created_at"`
}
