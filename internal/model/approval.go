package model

import "time"

// 审批动作
const (
	ApprovalActionApprove = "approve"
	ApprovalActionReject  = "reject"
)

// 质检审批状态：pending 只能流转一次
const (
	QualityStatusPending  = "pending"
	QualityStatusApproved = "approved"
	QualityStatusRejected = "rejected"
)

// ApprovalRecord 审批记录表 — 对应 approval_records
// 仅追加，每次任务裁决恰好一条；supervisor_id 必须指向主管角色用户
type ApprovalRecord struct {
	ApprovalRecordID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"approval_record_id"`
	TaskID           string    `gorm:"type:uuid;not null;index"                       json:"task_id"`
	SupervisorID     string    `gorm:"type:uuid;not null"                             json:"supervisor_id"`
	ActionType       string    `gorm:"type:varchar(10);not null"                      json:"action_type"`
	Comments         string    `gorm:"type:text"                                      json:"comments,omitempty"`
	ApprovalDate     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"approval_date"`

	// 关联
	Task       *Task `gorm:"foreignKey:TaskID;references:TaskID"       json:"task,omitempty"`
	Supervisor *User `gorm:"foreignKey:SupervisorID;references:UserID" json:"supervisor,omitempty"`
}

// TableName 指定表名
func (ApprovalRecord) TableName() string { return "approval_records" }

// QualityApproval 质检审批表 — 对应 quality_approvals
// 工单级二次审批：工单报完工后创建，pending → approved/rejected
type QualityApproval struct {
	QualityApprovalID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"quality_approval_id"`
	JobOrderID        string     `gorm:"type:uuid;not null;index"                       json:"job_order_id"`
	RequestedBy       string     `gorm:"type:uuid;not null"                             json:"requested_by"`
	DecidedBy         *string    `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Comments          string     `gorm:"type:text"                                      json:"comments,omitempty"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	BaseModel

	// 关联
	JobOrder *JobOrder `gorm:"foreignKey:JobOrderID;references:JobOrderID" json:"job_order,omitempty"`
}

// TableName 指定表名
func (QualityApproval) TableName() string { return "quality_approvals" }
