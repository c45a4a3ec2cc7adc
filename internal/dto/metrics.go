package dto

// ── 绩效指标 DTO ──

// MetricRangeRequest 指标区间查询参数
type MetricRangeRequest struct {
	TechnicianID string `form:"technician_id" binding:"omitempty,uuid"`
	StartDate    string `form:"start_date"    binding:"required,datetime=2006-01-02"`
	EndDate      string `form:"end_date"      binding:"required,datetime=2006-01-02"`
}

// MetricResponse 单日绩效指标
type MetricResponse struct {
	Technician       *TechnicianBrief `json:"technician,omitempty"`
	MetricDate       string           `json:"metric_date"`
	Productivity     float64          `json:"productivity"`
	Efficiency       float64          `json:"efficiency"`
	Utilization      float64          `json:"utilization"`
	JobOrderProgress float64          `json:"job_order_progress"`
}

// TeamSummaryResponse 团队单日汇总（仪表盘）
type TeamSummaryResponse struct {
	Date              string           `json:"date"`
	TechnicianCount   int              `json:"technician_count"`
	AvgEfficiency     float64          `json:"avg_efficiency"`
	AvgUtilization    float64          `json:"avg_utilization"`
	TotalDevices      int              `json:"total_devices"`
	PendingTasks      int64            `json:"pending_tasks"`
	UnreadAlerts      int64            `json:"unread_alerts"`
	Metrics           []MetricResponse `json:"metrics"`
}
