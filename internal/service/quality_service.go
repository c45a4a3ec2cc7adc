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

// ── 质检模块业务错误 ──

var (
	ErrQualityNotFound       = apperrors.NotFound("质检审批单不存在")
	ErrQualityAlreadyDecided = apperrors.Conflict("质检审批单已被裁决，不能重复处理")
)

// QualityService 质检审批业务接口
// 与任务审批结构同形，但作用于整张工单，且没有指标/告警副作用
type QualityService interface {
	// Decide 裁决质检审批单；审批单与工单状态在同一事务内翻转
	Decide(ctx context.Context, actor Actor, approvalID string, req *dto.DecideQualityRequest) (*dto.DecideQualityResponse, error)
	// ListPending 待裁决的质检审批单
	ListPending(ctx context.Context, req *dto.PaginationRequest) ([]dto.QualityApprovalResponse, int64, error)
}

type qualityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQualityService 创建 QualityService 实例
func NewQualityService(repo *repository.Repository, logger *zap.Logger) QualityService {
	return &qualityService{repo: repo, logger: logger}
}

func (s *qualityService) Decide(ctx context.Context, actor Actor, approvalID string, req *dto.DecideQualityRequest) (*dto.DecideQualityResponse, error) {
	newStatus := model.QualityStatusApproved
	orderStatus := model.JobOrderStatusCompleted
	if req.Action == model.ApprovalActionReject {
		newStatus = model.QualityStatusRejected
		orderStatus = model.JobOrderStatusRejected
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		approval, err := tx.Quality.GetByID(ctx, approvalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQualityNotFound
			}
			return apperrors.Storage("查询质检审批单失败", err)
		}

		// 条件更新：pending 只能翻转一次
		rows, err := tx.Quality.DecideIfPending(ctx, approvalID, newStatus, actor.UserID, req.Comments, time.Now())
		if err != nil {
			return apperrors.Storage("更新质检审批单失败", err)
		}
		if rows == 0 {
			return ErrQualityAlreadyDecided
		}

		if err := tx.JobOrder.UpdateStatus(ctx, approval.JobOrderID, orderStatus); err != nil {
			return apperrors.Storage("更新工单状态失败", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("质检裁决完成",
		zap.String("quality_approval_id", approvalID),
		zap.String("action", req.Action),
		zap.String("actor_id", actor.UserID))

	return &dto.DecideQualityResponse{ApprovalID: approvalID, Status: newStatus}, nil
}

func (s *qualityService) ListPending(ctx context.Context, req *dto.PaginationRequest) ([]dto.QualityApprovalResponse, int64, error) {
	approvals, total, err := s.repo.Quality.ListPending(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询待裁决质检审批单失败", zap.Error(err))
		return nil, 0, apperrors.Storage("查询待裁决质检审批单失败", err)
	}

	result := make([]dto.QualityApprovalResponse, 0, len(approvals))
	for i := range approvals {
		a := &approvals[i]
		resp := dto.QualityApprovalResponse{
			ID:        a.QualityApprovalID,
			Status:    a.Status,
			Comments:  a.Comments,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
		if a.DecidedAt != nil {
			resp.DecidedAt = a.DecidedAt.Format(time.RFC3339)
		}
		if a.JobOrder != nil {
			resp.JobOrder = &dto.JobOrderBrief{
				ID:          a.JobOrder.JobOrderID,
				OrderNumber: a.JobOrder.OrderNumber,
				Title:       a.JobOrder.Title,
			}
		}
		result = append(result, resp)
	}
	return result, total, nil
}
