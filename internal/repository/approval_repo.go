package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// ApprovalRecordRepository 审批记录数据访问接口（仅追加）
type ApprovalRecordRepository interface {
	Create(ctx context.Context, record *model.ApprovalRecord) error
	ListByTask(ctx context.Context, taskID string) ([]model.ApprovalRecord, error)
}

// QualityApprovalRepository 质检审批数据访问接口
type QualityApprovalRepository interface {
	Create(ctx context.Context, approval *model.QualityApproval) error
	GetByID(ctx context.Context, id string) (*model.QualityApproval, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.QualityApproval, int64, error)
	// HasOpen 工单是否已有待裁决的质检审批单
	HasOpen(ctx context.Context, jobOrderID string) (bool, error)
	// DecideIfPending 仅当审批单仍为 pending 时写入终态，
	// 返回实际更新的行数；0 表示审批单不存在或已被裁决
	DecideIfPending(ctx context.Context, id, status, decidedBy, comments string, decidedAt time.Time) (int64, error)
}

// ── ApprovalRecord Repository 实现 ──

type approvalRecordRepo struct {
	db *gorm.DB
}

func NewApprovalRecordRepo(db *gorm.DB) ApprovalRecordRepository {
	return &approvalRecordRepo{db: db}
}

func (r *approvalRecordRepo) Create(ctx context.Context, record *model.ApprovalRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *approvalRecordRepo) ListByTask(ctx context.Context, taskID string) ([]model.ApprovalRecord, error) {
	var records []model.ApprovalRecord
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("task_id = ?", taskID).
		Order("approval_date ASC").
		Find(&records).Error
	return records, err
}

// ── QualityApproval Repository 实现 ──

type qualityApprovalRepo struct {
	db *gorm.DB
}

func NewQualityApprovalRepo(db *gorm.DB) QualityApprovalRepository {
	return &qualityApprovalRepo{db: db}
}

func (r *qualityApprovalRepo) Create(ctx context.Context, approval *model.QualityApproval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

func (r *qualityApprovalRepo) GetByID(ctx context.Context, id string) (*model.QualityApproval, error) {
	var approval model.QualityApproval
	err := r.db.WithContext(ctx).
		Preload("JobOrder").
		Where("quality_approval_id = ?", id).
		First(&approval).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *qualityApprovalRepo) ListPending(ctx context.Context, offset, limit int) ([]model.QualityApproval, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.QualityApproval{}).
		Where("status = ?", model.QualityStatusPending)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var approvals []model.QualityApproval
	err := q.Preload("JobOrder").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&approvals).Error
	if err != nil {
		return nil, 0, err
	}
	return approvals, total, nil
}

func (r *qualityApprovalRepo) HasOpen(ctx context.Context, jobOrderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.QualityApproval{}).
		Where("job_order_id = ? AND status = ?", jobOrderID, model.QualityStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *qualityApprovalRepo) DecideIfPending(ctx context.Context, id, status, decidedBy, comments string, decidedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.QualityApproval{}).
		Where("quality_approval_id = ? AND status = ?", id, model.QualityStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"comments":   comments,
			"decided_at": decidedAt,
		})
	return result.RowsAffected, result.Error
}
