package model

// 通知状态：只允许单向推进 pending → read → resolved
const (
	NotificationStatusPending  = "pending"
	NotificationStatusRead     = "read"
	NotificationStatusResolved = "resolved"
)

// 通知类型
const (
	NotificationTypeTaskSubmitted = "task_submitted"
)

// SupervisorNotification 主管通知表 — 对应 supervisor_notifications
// 任务提交时创建，审批裁决时标记 resolved，供仪表盘消费
type SupervisorNotification struct {
	NotificationID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	JobOrderID       string `gorm:"type:uuid;not null"                             json:"job_order_id"`
	TechnicianID     string `gorm:"type:uuid;not null"                             json:"technician_id"`
	TaskID           string `gorm:"type:uuid;not null;index"                       json:"task_id"`
	NotificationType string `gorm:"type:varchar(50);not null"                      json:"notification_type"`
	Status           string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	BaseModel

	// 关联
	Task       *Task       `gorm:"foreignKey:TaskID;references:TaskID"             json:"task,omitempty"`
	Technician *Technician `gorm:"foreignKey:TechnicianID;references:TechnicianID" json:"technician,omitempty"`
	JobOrder   *JobOrder   `gorm:"foreignKey:JobOrderID;references:JobOrderID"     json:"job_order,omitempty"`
}

// TableName 指定表名
func (SupervisorNotification) TableName() string { return "supervisor_notifications" }

// CanAdvanceTo 通知状态只能单向推进，不允许回退
func (n *SupervisorNotification) CanAdvanceTo(next string) bool {
	rank := map[string]int{
		NotificationStatusPending:  0,
		NotificationStatusRead:     1,
		NotificationStatusResolved: 2,
	}
	cur, ok1 := rank[n.Status]
	nxt, ok2 := rank[next]
	return ok1 && ok2 && nxt > cur
}
