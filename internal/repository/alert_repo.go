package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// AlertFilter 告警列表过滤条件
type AlertFilter struct {
	Severity   string
	UnreadOnly bool
	Date       *time.Time
	Offset     int
	Limit      int
}

// AlertRepository 告警数据访问接口
// 告警只创建不更新，read_status 翻转除外
type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	List(ctx context.Context, filter AlertFilter) ([]model.Alert, int64, error)
	MarkRead(ctx context.Context, id string) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) Create(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepo) List(ctx context.Context, filter AlertFilter) ([]model.Alert, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Alert{})
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.UnreadOnly {
		q = q.Where("read_status = FALSE")
	}
	if filter.Date != nil {
		q = q.Where("alert_date = ?", filter.Date.Format(model.DateOnly))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []model.Alert
	err := q.Preload("Technician").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&alerts).Error
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

func (r *alertRepo) MarkRead(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("alert_id = ?", id).
		Update("read_status", true)
	return result.RowsAffected, result.Error
}

func (r *alertRepo) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("read_status = FALSE").
		Count(&count).Error
	return count, err
}
