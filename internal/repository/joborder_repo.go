package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// JobOrderRepository 工单数据访问接口
type JobOrderRepository interface {
	GetByID(ctx context.Context, id string) (*model.JobOrder, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.JobOrder, int64, error)
	UpdateProgress(ctx context.Context, id string, progress float64) error
	// UpdateStatusIf 仅当工单处于 fromStatus 时写入 toStatus，
	// 返回实际更新的行数；0 表示状态已被并发流转
	UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type jobOrderRepo struct {
	db *gorm.DB
}

func NewJobOrderRepo(db *gorm.DB) JobOrderRepository {
	return &jobOrderRepo{db: db}
}

func (r *jobOrderRepo) GetByID(ctx context.Context, id string) (*model.JobOrder, error) {
	var order model.JobOrder
	err := r.db.WithContext(ctx).
		Where("job_order_id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *jobOrderRepo) List(ctx context.Context, status string, offset, limit int) ([]model.JobOrder, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.JobOrder{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.JobOrder
	err := q.Order("due_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *jobOrderRepo) UpdateProgress(ctx context.Context, id string, progress float64) error {
	return r.db.WithContext(ctx).
		Model(&model.JobOrder{}).
		Where("job_order_id = ?", id).
		Update("progress_percentage", progress).Error
}

func (r *jobOrderRepo) UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.JobOrder{}).
		Where("job_order_id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	return result.RowsAffected, result.Error
}

func (r *jobOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.JobOrder{}).
		Where("job_order_id = ?", id).
		Update("status", status).Error
}
