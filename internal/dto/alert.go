package dto

// ── 告警 DTO ──

// AlertListRequest 告警列表查询参数
type AlertListRequest struct {
	Severity   string `form:"severity"    binding:"omitempty,oneof=info warning critical"`
	UnreadOnly bool   `form:"unread_only"`
	Date       string `form:"date"        binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// AlertResponse 告警响应
type AlertResponse struct {
	ID         string           `json:"id"`
	AlertType  string           `json:"alert_type"`
	Severity   string           `json:"severity"`
	Message    string           `json:"message"`
	Technician *TechnicianBrief `json:"technician,omitempty"`
	AlertDate  string           `json:"alert_date"`
	ReadStatus bool             `json:"read_status"`
	CreatedAt  string           `json:"created_at"`
}
