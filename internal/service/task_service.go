package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
)

// ── 任务模块业务错误 ──

var (
	ErrTechnicianNotResolved = apperrors.NotFound("当前用户无法解析为技术员")
	ErrJobOrderNotFound      = apperrors.NotFound("工单不存在")
	ErrJobOrderNotActive     = apperrors.Conflict("工单不在进行中，无法提交任务")
	ErrDuplicateSerials      = apperrors.Validation("序列号存在重复")
	ErrTaskNotFound          = apperrors.NotFound("任务不存在")
)

// TaskService 任务业务接口
type TaskService interface {
	// Submit 技术员提交工作上报：任务行 + 序列号子行 + 主管通知，原子落库
	Submit(ctx context.Context, actor Actor, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error)
	// List 任务列表（主管端待审队列 / 技术员端历史）
	List(ctx context.Context, req *dto.TaskListRequest) ([]dto.TaskResponse, int64, error)
	// ListMine 当前技术员的任务
	ListMine(ctx context.Context, actor Actor, req *dto.TaskListRequest) ([]dto.TaskResponse, int64, error)
	// Get 任务详情（含序列号）
	Get(ctx context.Context, taskID string) (*dto.TaskResponse, error)
}

type taskService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{cfg: cfg, repo: repo, logger: logger}
}

func (s *taskService) Submit(ctx context.Context, actor Actor, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error) {
	// 1. 解析技术员身份
	technicianID := actor.TechnicianID
	if technicianID == "" {
		tech, err := s.repo.Technician.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTechnicianNotResolved
			}
			s.logger.Error("查询技术员失败", zap.Error(err))
			return nil, apperrors.Storage("查询技术员失败", err)
		}
		technicianID = tech.TechnicianID
	}

	// 2. 校验序列号无重复
	seen := make(map[string]struct{}, len(req.SerialNumbers))
	for _, sn := range req.SerialNumbers {
		if _, dup := seen[sn]; dup {
			return nil, ErrDuplicateSerials
		}
		seen[sn] = struct{}{}
	}

	// 3. 校验工单
	order, err := s.repo.JobOrder.GetByID(ctx, req.JobOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobOrderNotFound
		}
		s.logger.Error("查询工单失败", zap.Error(err))
		return nil, apperrors.Storage("查询工单失败", err)
	}
	if order.Status != model.JobOrderStatusActive {
		return nil, ErrJobOrderNotActive
	}

	// 4. 查询工序标准工时；未登记的工序兜底为配置默认值（降级策略，不视为失败）
	standardMinutes := s.cfg.Pipeline.DefaultStandardTimeMinutes
	op, err := s.repo.Operation.GetByName(ctx, req.OperationName)
	switch {
	case err == nil:
		standardMinutes = op.StandardTimeMinutes
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn("工序未登记，使用默认标准工时",
			zap.String("operation", req.OperationName),
			zap.Int("default_minutes", standardMinutes))
	default:
		s.logger.Error("查询工序失败", zap.Error(err))
		return nil, apperrors.Storage("查询工序失败", err)
	}

	// 5. 效率在提交时计算一次，审批后不再改动
	efficiency := model.ComputeEfficiency(standardMinutes, req.ActualTimeMinutes)

	now := time.Now()
	task := &model.Task{
		TechnicianID:         technicianID,
		JobOrderID:           req.JobOrderID,
		OperationName:        req.OperationName,
		DevicesCompleted:     len(req.SerialNumbers),
		ActualTimeMinutes:    req.ActualTimeMinutes,
		StandardTimeMinutes:  standardMinutes,
		EfficiencyPercentage: efficiency,
		Status:               model.TaskStatusPending,
		TaskDate:             time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Notes:                req.Notes,
	}
	for _, sn := range req.SerialNumbers {
		task.Serials = append(task.Serials, model.DeviceSerial{SerialNumber: sn})
	}

	// 6. 任务 + 序列号 + 主管通知在同一事务内落库
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Task.Create(ctx, task); err != nil {
			return apperrors.Storage("创建任务失败", err)
		}
		notification := &model.SupervisorNotification{
			JobOrderID:       task.JobOrderID,
			TechnicianID:     task.TechnicianID,
			TaskID:           task.TaskID,
			NotificationType: model.NotificationTypeTaskSubmitted,
			Status:           model.NotificationStatusPending,
		}
		if err := tx.Notification.Create(ctx, notification); err != nil {
			return apperrors.Storage("创建主管通知失败", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("任务提交事务失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("任务已提交",
		zap.String("task_id", task.TaskID),
		zap.String("technician_id", technicianID),
		zap.Float64("efficiency", efficiency))

	return &dto.SubmitTaskResponse{
		TaskID:               task.TaskID,
		EfficiencyPercentage: efficiency,
	}, nil
}

func (s *taskService) List(ctx context.Context, req *dto.TaskListRequest) ([]dto.TaskResponse, int64, error) {
	filter := repository.TaskFilter{
		Status:       req.Status,
		TechnicianID: req.TechnicianID,
		JobOrderID:   req.JobOrderID,
		Offset:       req.GetOffset(),
		Limit:        req.GetPageSize(),
	}
	if req.Date != "" {
		d, err := time.Parse(model.DateOnly, req.Date)
		if err != nil {
			return nil, 0, apperrors.Validation("日期格式无效")
		}
		filter.Date = &d
	}

	tasks, total, err := s.repo.Task.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, 0, apperrors.Storage("查询任务列表失败", err)
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, toTaskResponse(&tasks[i]))
	}
	return result, total, nil
}

func (s *taskService) ListMine(ctx context.Context, actor Actor, req *dto.TaskListRequest) ([]dto.TaskResponse, int64, error) {
	technicianID := actor.TechnicianID
	if technicianID == "" {
		tech, err := s.repo.Technician.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrTechnicianNotResolved
			}
			return nil, 0, apperrors.Storage("查询技术员失败", err)
		}
		technicianID = tech.TechnicianID
	}
	scoped := *req
	scoped.TechnicianID = technicianID
	return s.List(ctx, &scoped)
}

func (s *taskService) Get(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, apperrors.Storage("查询任务失败", err)
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

// toTaskResponse 转换任务响应
func toTaskResponse(task *model.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:                   task.TaskID,
		OperationName:        task.OperationName,
		DevicesCompleted:     task.DevicesCompleted,
		ActualTimeMinutes:    task.ActualTimeMinutes,
		StandardTimeMinutes:  task.StandardTimeMinutes,
		EfficiencyPercentage: task.EfficiencyPercentage,
		Status:               task.Status,
		TaskDate:             task.TaskDate.Format(model.DateOnly),
		Notes:                task.Notes,
		CreatedAt:            task.CreatedAt.Format(time.RFC3339),
	}
	if task.Technician != nil {
		resp.Technician = &dto.TechnicianBrief{
			ID:         task.Technician.TechnicianID,
			Name:       task.Technician.Name,
			EmployeeNo: task.Technician.EmployeeNo,
		}
	}
	if task.JobOrder != nil {
		resp.JobOrder = &dto.JobOrderBrief{
			ID:          task.JobOrder.JobOrderID,
			OrderNumber: task.JobOrder.OrderNumber,
			Title:       task.JobOrder.Title,
		}
	}
	for _, sn := range task.Serials {
		resp.SerialNumbers = append(resp.SerialNumbers, sn.SerialNumber)
	}
	return resp
}
