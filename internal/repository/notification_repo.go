package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// NotificationRepository 主管通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.SupervisorNotification) error
	GetByID(ctx context.Context, id string) (*model.SupervisorNotification, error)
	GetByTask(ctx context.Context, taskID string) (*model.SupervisorNotification, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.SupervisorNotification, int64, error)
	// UpdateStatus 直接写入新状态；单调性由服务层校验
	UpdateStatus(ctx context.Context, id, status string) error
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.SupervisorNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.SupervisorNotification, error) {
	var n model.SupervisorNotification
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) GetByTask(ctx context.Context, taskID string) (*model.SupervisorNotification, error) {
	var n model.SupervisorNotification
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) List(ctx context.Context, status string, offset, limit int) ([]model.SupervisorNotification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SupervisorNotification{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.SupervisorNotification
	err := q.Preload("Technician").
		Preload("JobOrder").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *notificationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.SupervisorNotification{}).
		Where("notification_id = ?", id).
		Update("status", status).Error
}
