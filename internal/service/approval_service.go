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
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/redis"
)

// ── 审批模块业务错误 ──

var (
	ErrTaskAlreadyDecided  = apperrors.Conflict("任务已被处理，不能重复审批")
	ErrSupervisorNotBound  = apperrors.Authorization("审批人身份无法核验")
	ErrNoSupervisorOnFile  = apperrors.Authorization("系统中不存在可用主管")
	ErrInvalidApprovalRole = apperrors.Authorization("仅主管可执行审批")
)

// ApprovalService 任务审批业务接口
// Decide 是整条「审批 → 指标重算 → 告警 → 工单进度」流水线的唯一入口
type ApprovalService interface {
	// Decide 对 pending 任务做出裁决；全部副作用在同一事务内提交
	Decide(ctx context.Context, actor Actor, taskID string, req *dto.DecideApprovalRequest) (*dto.DecideApprovalResponse, error)
	// History 任务的审批历史（仅追加）
	History(ctx context.Context, taskID string) ([]dto.ApprovalRecordResponse, error)
}

type approvalService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewApprovalService 创建 ApprovalService 实例
func NewApprovalService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ApprovalService {
	return &approvalService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

// Decide 审批裁决流水线：
//  1. 条件更新任务状态（pending → approved/rejected），影响行数为 0 即冲突——
//     这是同一任务并发裁决的唯一并发闸门
//  2. 核验审批人主管身份（宽松模式下回退到花名册首个主管）
//  3. 追加审批记录
//  4. 将任务的主管通知标记为 resolved
//  5. 仅当 approve：重算绩效指标 → 评估告警阈值 → 重算工单进度
//
// 以上步骤全部在一个事务内，任一步失败整体回滚，
// 不会出现「状态已翻转但指标未更新」的中间态
func (s *approvalService) Decide(ctx context.Context, actor Actor, taskID string, req *dto.DecideApprovalRequest) (*dto.DecideApprovalResponse, error) {
	newStatus := model.TaskStatusApproved
	if req.Action == model.ApprovalActionReject {
		newStatus = model.TaskStatusRejected
	}

	var task *model.Task
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 条件更新：只有仍为 pending 的任务能被翻转，且恰好翻转一次
		rows, err := tx.Task.UpdateStatusIfPending(ctx, taskID, newStatus)
		if err != nil {
			return apperrors.Storage("更新任务状态失败", err)
		}
		if rows == 0 {
			if _, err := tx.Task.GetByID(ctx, taskID); errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return ErrTaskAlreadyDecided
		}

		task, err = tx.Task.GetByID(ctx, taskID)
		if err != nil {
			return apperrors.Storage("查询任务失败", err)
		}

		// 2. 核验审批人
		supervisorID, err := resolveSupervisor(ctx, tx, &s.cfg.Pipeline, actor)
		if err != nil {
			return err
		}

		// 3. 追加审批记录
		record := &model.ApprovalRecord{
			TaskID:       taskID,
			SupervisorID: supervisorID,
			ActionType:   req.Action,
			Comments:     req.Comments,
			ApprovalDate: time.Now(),
		}
		if err := tx.Approval.Create(ctx, record); err != nil {
			return apperrors.Storage("创建审批记录失败", err)
		}

		// 4. 解决主管通知；通知缺失不阻断裁决
		notification, err := tx.Notification.GetByTask(ctx, taskID)
		switch {
		case err == nil:
			if notification.CanAdvanceTo(model.NotificationStatusResolved) {
				if err := tx.Notification.UpdateStatus(ctx, notification.NotificationID, model.NotificationStatusResolved); err != nil {
					return apperrors.Storage("更新通知状态失败", err)
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warn("任务无对应主管通知", zap.String("task_id", taskID))
		default:
			return apperrors.Storage("查询通知失败", err)
		}

		// 5. 驳回不触发任何派生计算
		if newStatus != model.TaskStatusApproved {
			return nil
		}

		metric, err := recomputeMetrics(ctx, tx, &s.cfg.Pipeline, task.TechnicianID, task.TaskDate)
		if err != nil {
			return err
		}
		if err := evaluateAlerts(ctx, tx, &s.cfg.Pipeline, metric); err != nil {
			return err
		}
		if _, err := recomputeJobOrderProgress(ctx, tx, task.JobOrderID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后失效仪表盘缓存；失败仅记录日志
	if s.rdb != nil {
		if err := s.rdb.InvalidateCached(ctx, dashboardCacheKey(task.TaskDate)); err != nil {
			s.logger.Warn("仪表盘缓存失效失败", zap.Error(err))
		}
	}

	s.logger.Info("审批裁决完成",
		zap.String("task_id", taskID),
		zap.String("action", req.Action),
		zap.String("actor_id", actor.UserID))

	return &dto.DecideApprovalResponse{TaskID: taskID, Status: newStatus}, nil
}

// resolveSupervisor 解析审批人对应的主管用户 ID
// 严格模式下操作者必须是可核验的主管；宽松模式沿用旧系统策略，
// 核验失败时回退到花名册中的首个主管
func resolveSupervisor(ctx context.Context, repo *repository.Repository, cfg *config.PipelineConfig, actor Actor) (string, error) {
	user, err := repo.User.GetByID(ctx, actor.UserID)
	switch {
	case err == nil:
		if user.Role == model.RoleSupervisor || user.Role == model.RoleAdmin {
			return user.UserID, nil
		}
		if cfg.StrictActorBinding {
			return "", ErrInvalidApprovalRole
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if cfg.StrictActorBinding {
			return "", ErrSupervisorNotBound
		}
	default:
		return "", apperrors.Storage("查询审批人失败", err)
	}

	// 宽松回退
	fallback, err := repo.User.FirstSupervisor(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoSupervisorOnFile
		}
		return "", apperrors.Storage("查询主管失败", err)
	}
	return fallback.UserID, nil
}

func (s *approvalService) History(ctx context.Context, taskID string) ([]dto.ApprovalRecordResponse, error) {
	records, err := s.repo.Approval.ListByTask(ctx, taskID)
	if err != nil {
		s.logger.Error("查询审批历史失败", zap.Error(err))
		return nil, apperrors.Storage("查询审批历史失败", err)
	}

	result := make([]dto.ApprovalRecordResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		resp := dto.ApprovalRecordResponse{
			ID:           r.ApprovalRecordID,
			TaskID:       r.TaskID,
			SupervisorID: r.SupervisorID,
			ActionType:   r.ActionType,
			Comments:     r.Comments,
			ApprovalDate: r.ApprovalDate.Format(time.RFC3339),
		}
		if r.Supervisor != nil {
			resp.SupervisorName = r.Supervisor.Name
		}
		result = append(result, resp)
	}
	return result, nil
}
