package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Technician   TechnicianRepository
	Operation    OperationRepository
	JobOrder     JobOrderRepository
	Task         TaskRepository
	Approval     ApprovalRecordRepository
	Quality      QualityApprovalRepository
	Metric       MetricRepository
	Alert        AlertRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Technician:   NewTechnicianRepo(db),
		Operation:    NewOperationRepo(db),
		JobOrder:     NewJobOrderRepo(db),
		Task:         NewTaskRepo(db),
		Approval:     NewApprovalRecordRepo(db),
		Quality:      NewQualityApprovalRepo(db),
		Metric:       NewMetricRepo(db),
		Alert:        NewAlertRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn
// fn 收到绑定事务连接的聚合；fn 返回错误时整体回滚。
// 审批裁决、任务提交等多步写入都必须经由此处，保证
// 任务状态、审批记录、指标、告警、工单进度要么全部落库要么全不落库。
//
// 未绑定 gorm.DB 的聚合（单元测试的内存实现）直接执行 fn，
// 不提供原子性，由集成测试覆盖回滚语义。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
