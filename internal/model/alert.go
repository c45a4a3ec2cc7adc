package model

import "time"

// 告警级别
const (
	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

// 告警类型
const (
	AlertTypeLowEfficiency  = "low_efficiency"
	AlertTypeLowUtilization = "low_utilization"
)

// Alert 告警表 — 对应 alerts
// 只创建不更新（read_status 翻转除外）；不去重，
// 同一技术员持续低于阈值时每次审批都会产生新告警
type Alert struct {
	AlertID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"alert_id"`
	AlertType    string    `gorm:"type:varchar(50);not null"                      json:"alert_type"`
	Severity     string    `gorm:"type:varchar(10);not null"                      json:"severity"`
	Message      string    `gorm:"type:varchar(500);not null"                     json:"message"`
	TechnicianID *string   `gorm:"type:uuid"                                      json:"technician_id,omitempty"`
	AlertDate    time.Time `gorm:"type:date;not null;index"                       json:"alert_date"`
	ReadStatus   bool      `gorm:"not null;default:false;index"                   json:"read_status"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Technician *Technician `gorm:"foreignKey:TechnicianID;references:TechnicianID" json:"technician,omitempty"`
}

// TableName 指定表名
func (Alert) TableName() string { return "alerts" }
