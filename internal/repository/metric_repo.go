package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// MetricRepository 绩效指标数据访问接口
// 重算前先 EnsureAndLock 拿到键级行锁，
// 避免同一技术员同日的两笔并发审批互相覆盖重算结果
type MetricRepository interface {
	GetByKey(ctx context.Context, technicianID string, date time.Time) (*model.PerformanceMetric, error)
	// EnsureAndLock 确保 (technician_id, metric_date) 行存在并以 FOR UPDATE 锁定，
	// 必须在事务内调用
	EnsureAndLock(ctx context.Context, technicianID string, date time.Time) (*model.PerformanceMetric, error)
	// Save 按主键写回重算后的指标值
	Save(ctx context.Context, metric *model.PerformanceMetric) error
	ListRange(ctx context.Context, technicianID string, start, end time.Time) ([]model.PerformanceMetric, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.PerformanceMetric, error)
}

type metricRepo struct {
	db *gorm.DB
}

func NewMetricRepo(db *gorm.DB) MetricRepository {
	return &metricRepo{db: db}
}

func (r *metricRepo) GetByKey(ctx context.Context, technicianID string, date time.Time) (*model.PerformanceMetric, error) {
	var metric model.PerformanceMetric
	err := r.db.WithContext(ctx).
		Where("technician_id = ? AND metric_date = ?", technicianID, date.Format(model.DateOnly)).
		First(&metric).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

func (r *metricRepo) EnsureAndLock(ctx context.Context, technicianID string, date time.Time) (*model.PerformanceMetric, error) {
	// 行不存在时先插入（冲突忽略），保证随后的行锁总有行可锁
	seed := model.PerformanceMetric{
		TechnicianID: technicianID,
		MetricDate:   date,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "technician_id"}, {Name: "metric_date"}},
			DoNothing: true,
		}).
		Create(&seed).Error
	if err != nil {
		return nil, err
	}

	var metric model.PerformanceMetric
	err = r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("technician_id = ? AND metric_date = ?", technicianID, date.Format(model.DateOnly)).
		First(&metric).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

func (r *metricRepo) Save(ctx context.Context, metric *model.PerformanceMetric) error {
	return r.db.WithContext(ctx).
		Model(&model.PerformanceMetric{}).
		Where("metric_id = ?", metric.MetricID).
		Updates(map[string]interface{}{
			"productivity":       metric.Productivity,
			"efficiency":         metric.Efficiency,
			"utilization":        metric.Utilization,
			"job_order_progress": metric.JobOrderProgress,
		}).Error
}

func (r *metricRepo) ListRange(ctx context.Context, technicianID string, start, end time.Time) ([]model.PerformanceMetric, error) {
	q := r.db.WithContext(ctx).
		Preload("Technician").
		Where("metric_date BETWEEN ? AND ?", start.Format(model.DateOnly), end.Format(model.DateOnly))
	if technicianID != "" {
		q = q.Where("technician_id = ?", technicianID)
	}

	var metrics []model.PerformanceMetric
	err := q.Order("metric_date ASC").Find(&metrics).Error
	return metrics, err
}

func (r *metricRepo) ListByDate(ctx context.Context, date time.Time) ([]model.PerformanceMetric, error) {
	var metrics []model.PerformanceMetric
	err := r.db.WithContext(ctx).
		Preload("Technician").
		Where("metric_date = ?", date.Format(model.DateOnly)).
		Order("efficiency DESC").
		Find(&metrics).Error
	return metrics, err
}
