package model

import (
	"math"
	"time"
)

// 任务状态：pending 只能流转一次，approved / rejected 均为终态
const (
	TaskStatusPending  = "pending"
	TaskStatusApproved = "approved"
	TaskStatusRejected = "rejected"
)

// Task 工作任务表 — 对应 tasks
// 一行代表一名技术员某日对某工单/工序的一次工作上报
type Task struct {
	TaskID               string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	TechnicianID         string    `gorm:"type:uuid;not null;index:idx_tasks_technician_date" json:"technician_id"`
	JobOrderID           string    `gorm:"type:uuid;not null;index"                       json:"job_order_id"`
	OperationName        string    `gorm:"type:varchar(100);not null"                     json:"operation_name"`
	DevicesCompleted     int       `gorm:"not null"                                       json:"devices_completed"`
	ActualTimeMinutes    int       `gorm:"not null"                                       json:"actual_time_minutes"`
	StandardTimeMinutes  int       `gorm:"not null"                                       json:"standard_time_minutes"`
	EfficiencyPercentage float64   `gorm:"type:numeric(7,2);not null"                     json:"efficiency_percentage"`
	Status               string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TaskDate             time.Time `gorm:"type:date;not null;index:idx_tasks_technician_date" json:"task_date"`
	Notes                string    `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel

	// 关联
	Technician *Technician    `gorm:"foreignKey:TechnicianID;references:TechnicianID" json:"technician,omitempty"`
	JobOrder   *JobOrder      `gorm:"foreignKey:JobOrderID;references:JobOrderID"     json:"job_order,omitempty"`
	Serials    []DeviceSerial `gorm:"foreignKey:TaskID"                               json:"serials,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// ComputeEfficiency 效率 = 标准工时 / 实际工时 × 100，保留两位小数
// 提交时计算一次，审批后不再改动；不设上限，>100 表示快于标准
func ComputeEfficiency(standardMinutes, actualMinutes int) float64 {
	if actualMinutes <= 0 {
		return 0
	}
	raw := float64(standardMinutes) / float64(actualMinutes) * 100
	return math.Round(raw*100) / 100
}

// DeviceSerial 设备序列号表 — 对应 device_serials
// 仅随所属 Task 在同一事务内创建，生命周期级联
type DeviceSerial struct {
	DeviceSerialID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"device_serial_id"`
	TaskID         string    `gorm:"type:uuid;not null;index"                       json:"task_id"`
	SerialNumber   string    `gorm:"type:varchar(100);not null"                     json:"serial_number"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (DeviceSerial) TableName() string { return "device_serials" }
