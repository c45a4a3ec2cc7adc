package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// ApprovedAggregate 某技术员某日全部已批准任务的聚合值
type ApprovedAggregate struct {
	TaskCount          int64
	TotalDevices       int
	TotalActualMinutes int
	AvgEfficiency      float64
}

// TaskFilter 任务列表过滤条件
type TaskFilter struct {
	Status       string
	TechnicianID string
	JobOrderID   string
	Date         *time.Time
	Offset       int
	Limit        int
}

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	// Create 连同序列号子行一起落库（同一事务）
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]model.Task, int64, error)
	// UpdateStatusIfPending 仅当任务仍为 pending 时写入终态，
	// 返回实际更新的行数；0 表示任务不存在或已被处理
	UpdateStatusIfPending(ctx context.Context, taskID, newStatus string) (int64, error)
	// AggregateApproved 聚合某技术员某日全部已批准任务
	AggregateApproved(ctx context.Context, technicianID string, date time.Time) (*ApprovedAggregate, error)
	// SumApprovedDevices 某工单下已批准任务的设备完成量之和
	SumApprovedDevices(ctx context.Context, jobOrderID string) (int, error)
	// AvgJobOrderProgress 某技术员某日已批准任务涉及工单的平均进度
	AvgJobOrderProgress(ctx context.Context, technicianID string, date time.Time) (float64, error)
}

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Technician").
		Preload("JobOrder").
		Preload("Serials").
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) List(ctx context.Context, filter TaskFilter) ([]model.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TechnicianID != "" {
		q = q.Where("technician_id = ?", filter.TechnicianID)
	}
	if filter.JobOrderID != "" {
		q = q.Where("job_order_id = ?", filter.JobOrderID)
	}
	if filter.Date != nil {
		q = q.Where("task_date = ?", filter.Date.Format(model.DateOnly))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	err := q.Preload("Technician").
		Preload("JobOrder").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *taskRepo) UpdateStatusIfPending(ctx context.Context, taskID, newStatus string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("task_id = ? AND status = ?", taskID, model.TaskStatusPending).
		Update("status", newStatus)
	return result.RowsAffected, result.Error
}

func (r *taskRepo) AggregateApproved(ctx context.Context, technicianID string, date time.Time) (*ApprovedAggregate, error) {
	var agg ApprovedAggregate
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select(
			"COUNT(*) AS task_count, "+
				"COALESCE(SUM(devices_completed), 0) AS total_devices, "+
				"COALESCE(SUM(actual_time_minutes), 0) AS total_actual_minutes, "+
				"COALESCE(AVG(efficiency_percentage), 0) AS avg_efficiency").
		Where("technician_id = ? AND task_date = ? AND status = ?",
			technicianID, date.Format(model.DateOnly), model.TaskStatusApproved).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *taskRepo) SumApprovedDevices(ctx context.Context, jobOrderID string) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("COALESCE(SUM(devices_completed), 0)").
		Where("job_order_id = ? AND status = ?", jobOrderID, model.TaskStatusApproved).
		Scan(&sum).Error
	return sum, err
}

func (r *taskRepo) AvgJobOrderProgress(ctx context.Context, technicianID string, date time.Time) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&model.JobOrder{}).
		Select("COALESCE(AVG(progress_percentage), 0)").
		Where("job_order_id IN (?)",
			r.db.Model(&model.Task{}).
				Select("DISTINCT job_order_id").
				Where("technician_id = ? AND task_date = ? AND status = ?",
					technicianID, date.Format(model.DateOnly), model.TaskStatusApproved)).
		Scan(&avg).Error
	return avg, err
}
