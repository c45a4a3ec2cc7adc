package model

import "time"

// PerformanceMetric 绩效指标表 — 对应 performance_metrics
// (technician_id, metric_date) 唯一；派生实体，每次审批通过后
// 从该键的全部已批准任务整体重算，而非增量修补
type PerformanceMetric struct {
	MetricID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"metric_id"`
	TechnicianID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_metric_key"   json:"technician_id"`
	MetricDate       time.Time `gorm:"type:date;not null;uniqueIndex:uq_metric_key"   json:"metric_date"`
	Productivity     float64   `gorm:"type:numeric(10,4);not null;default:0"          json:"productivity"`
	Efficiency       float64   `gorm:"type:numeric(7,2);not null;default:0"           json:"efficiency"`
	Utilization      float64   `gorm:"type:numeric(7,2);not null;default:0"           json:"utilization"`
	JobOrderProgress float64   `gorm:"type:numeric(5,1);not null;default:0"           json:"job_order_progress"`
	BaseModel

	// 关联
	Technician *Technician `gorm:"foreignKey:TechnicianID;references:TechnicianID" json:"technician,omitempty"`
}

// TableName 指定表名
func (PerformanceMetric) TableName() string { return "performance_metrics" }
