package model

import "time"

// 工单持久化状态
// overdue / due_soon 是读取时派生的展示状态，不落库
const (
	JobOrderStatusActive         = "active"
	JobOrderStatusPendingQuality = "pending_quality"
	JobOrderStatusCompleted      = "completed"
	JobOrderStatusRejected       = "rejected"

	// 派生展示状态
	JobOrderDisplayOverdue = "overdue"
	JobOrderDisplayDueSoon = "due_soon"
)

// JobOrder 生产工单表 — 对应 job_orders
// progress_percentage 为派生字段：每次审批通过后由已批准任务完成量全量重算
type JobOrder struct {
	JobOrderID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"job_order_id"`
	OrderNumber        string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"order_number"`
	Title              string    `gorm:"type:varchar(200);not null"                     json:"title"`
	TotalDevices       int       `gorm:"not null"                                       json:"total_devices"`
	DueDate            time.Time `gorm:"type:date;not null"                             json:"due_date"`
	Status             string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	ProgressPercentage float64   `gorm:"type:numeric(5,1);not null;default:0"           json:"progress_percentage"`
	BaseModel
}

// TableName 指定表名
func (JobOrder) TableName() string { return "job_orders" }

// DisplayStatus 派生展示状态
// 质检态（pending_quality/completed/rejected）原样返回，
// active 工单按截止日期派生 overdue / due_soon
func (j *JobOrder) DisplayStatus(now time.Time, dueSoonDays int) string {
	if j.Status != JobOrderStatusActive {
		return j.Status
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due := time.Date(j.DueDate.Year(), j.DueDate.Month(), j.DueDate.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		return JobOrderDisplayOverdue
	}
	if due.Sub(today) <= time.Duration(dueSoonDays)*24*time.Hour {
		return JobOrderDisplayDueSoon
	}
	return JobOrderStatusActive
}

// Operation 工序表 — 对应 operations
// 提交任务时按名称查询标准工时；未登记的工序使用配置的兜底值
type Operation struct {
	OperationID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"operation_id"`
	Name                string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	StandardTimeMinutes int    `gorm:"not null"                                       json:"standard_time_minutes"`
	Description         string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Operation) TableName() string { return "operations" }
