package dto

// ── 任务模块 DTO ──

// SubmitTaskRequest 技术员提交工作上报
// devices_completed 由序列号数量推出，不单独传
type SubmitTaskRequest struct {
	JobOrderID        string   `json:"job_order_id"        binding:"required,uuid"`
	OperationName     string   `json:"operation_name"      binding:"required,min=1,max=100"`
	ActualTimeMinutes int      `json:"actual_time_minutes" binding:"required,gt=0"`
	SerialNumbers     []string `json:"serial_numbers"      binding:"required,min=1,dive,required,max=100"`
	Notes             string   `json:"notes"               binding:"omitempty,max=2000"`
}

// SubmitTaskResponse 提交结果
type SubmitTaskResponse struct {
	TaskID               string  `json:"task_id"`
	EfficiencyPercentage float64 `json:"efficiency_percentage"`
}

// TaskListRequest 任务列表查询参数
type TaskListRequest struct {
	Status       string `form:"status"        binding:"omitempty,oneof=pending approved rejected"`
	TechnicianID string `form:"technician_id" binding:"omitempty,uuid"`
	JobOrderID   string `form:"job_order_id"  binding:"omitempty,uuid"`
	Date         string `form:"date"          binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID                   string           `json:"id"`
	Technician           *TechnicianBrief `json:"technician,omitempty"`
	JobOrder             *JobOrderBrief   `json:"job_order,omitempty"`
	OperationName        string           `json:"operation_name"`
	DevicesCompleted     int              `json:"devices_completed"`
	ActualTimeMinutes    int              `json:"actual_time_minutes"`
	StandardTimeMinutes  int              `json:"standard_time_minutes"`
	EfficiencyPercentage float64          `json:"efficiency_percentage"`
	Status               string           `json:"status"`
	TaskDate             string           `json:"task_date"`
	Notes                string           `json:"notes,omitempty"`
	SerialNumbers        []string         `json:"serial_numbers,omitempty"`
	CreatedAt            string           `json:"created_at"`
}
