package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationNotFound  = apperrors.NotFound("通知不存在")
	ErrNotificationRegressed = apperrors.Conflict("通知状态只能单向推进")
)

// NotificationService 主管通知业务接口
type NotificationService interface {
	// List 通知列表（仪表盘消费）
	List(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	// MarkRead 标记通知已读；resolved 的通知不可回退
	MarkRead(ctx context.Context, notificationID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, 0, apperrors.Storage("查询通知列表失败", err)
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		resp := dto.NotificationResponse{
			ID:               n.NotificationID,
			NotificationType: n.NotificationType,
			Status:           n.Status,
			TaskID:           n.TaskID,
			CreatedAt:        n.CreatedAt.Format(time.RFC3339),
		}
		if n.Technician != nil {
			resp.Technician = &dto.TechnicianBrief{
				ID:         n.Technician.TechnicianID,
				Name:       n.Technician.Name,
				EmployeeNo: n.Technician.EmployeeNo,
			}
		}
		if n.JobOrder != nil {
			resp.JobOrder = &dto.JobOrderBrief{
				ID:          n.JobOrder.JobOrderID,
				OrderNumber: n.JobOrder.OrderNumber,
				Title:       n.JobOrder.Title,
			}
		}
		result = append(result, resp)
	}
	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID string) error {
	notification, err := s.repo.Notification.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("查询通知失败", zap.Error(err))
		return apperrors.Storage("查询通知失败", err)
	}

	if !notification.CanAdvanceTo(model.NotificationStatusRead) {
		return ErrNotificationRegressed
	}

	if err := s.repo.Notification.UpdateStatus(ctx, notificationID, model.NotificationStatusRead); err != nil {
		s.logger.Error("更新通知状态失败", zap.Error(err))
		return apperrors.Storage("更新通知状态失败", err)
	}
	return nil
}
