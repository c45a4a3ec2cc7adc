package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
)

// ── 工单模块业务错误 ──

var (
	ErrJobOrderNotCompletable = apperrors.Conflict("工单不在进行中，无法报完工")
	ErrQualityAlreadyOpen     = apperrors.Conflict("工单已有未裁决的质检审批单")
)

// JobOrderService 工单业务接口
type JobOrderService interface {
	// List 工单列表，status 为派生展示状态
	List(ctx context.Context, req *dto.JobOrderListRequest) ([]dto.JobOrderResponse, int64, error)
	// Get 工单详情
	Get(ctx context.Context, jobOrderID string) (*dto.JobOrderResponse, error)
	// RecomputeProgress 按已批准任务全量重算工单进度；幂等
	RecomputeProgress(ctx context.Context, jobOrderID string) (float64, error)
	// MarkComplete 工单报完工：创建质检审批单并转入 pending_quality
	MarkComplete(ctx context.Context, actor Actor, jobOrderID string) (*dto.MarkCompleteResponse, error)
}

type jobOrderService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewJobOrderService 创建 JobOrderService 实例
func NewJobOrderService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) JobOrderService {
	return &jobOrderService{cfg: cfg, repo: repo, logger: logger}
}

// recomputeJobOrderProgress 工单进度全量重算
// progress = SUM(已批准任务 devices_completed) / total_devices × 100，保留一位小数
// 无已批准任务时为 0；超报设备可以把进度推过 100，不做截断
func recomputeJobOrderProgress(ctx context.Context, repo *repository.Repository, jobOrderID string) (float64, error) {
	order, err := repo.JobOrder.GetByID(ctx, jobOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrJobOrderNotFound
		}
		return 0, apperrors.Storage("查询工单失败", err)
	}

	approved, err := repo.Task.SumApprovedDevices(ctx, jobOrderID)
	if err != nil {
		return 0, apperrors.Storage("聚合已批准设备量失败", err)
	}

	var progress float64
	if order.TotalDevices > 0 {
		progress = math.Round(float64(approved)/float64(order.TotalDevices)*1000) / 10
	}

	if err := repo.JobOrder.UpdateProgress(ctx, jobOrderID, progress); err != nil {
		return 0, apperrors.Storage("更新工单进度失败", err)
	}
	return progress, nil
}

func (s *jobOrderService) RecomputeProgress(ctx context.Context, jobOrderID string) (float64, error) {
	var progress float64
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		progress, err = recomputeJobOrderProgress(ctx, tx, jobOrderID)
		return err
	})
	if err != nil {
		s.logger.Error("工单进度重算失败",
			zap.String("job_order_id", jobOrderID),
			zap.Error(err))
		return 0, err
	}
	return progress, nil
}

func (s *jobOrderService) List(ctx context.Context, req *dto.JobOrderListRequest) ([]dto.JobOrderResponse, int64, error) {
	// overdue / due_soon 是派生状态，持久化层按 active 查询后在内存过滤
	storedStatus := req.Status
	derived := ""
	if req.Status == model.JobOrderDisplayOverdue || req.Status == model.JobOrderDisplayDueSoon {
		storedStatus = model.JobOrderStatusActive
		derived = req.Status
	}

	orders, total, err := s.repo.JobOrder.List(ctx, storedStatus, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询工单列表失败", zap.Error(err))
		return nil, 0, apperrors.Storage("查询工单列表失败", err)
	}

	now := time.Now()
	result := make([]dto.JobOrderResponse, 0, len(orders))
	for i := range orders {
		resp, err := s.toJobOrderResponse(ctx, &orders[i], now)
		if err != nil {
			return nil, 0, err
		}
		if derived != "" && resp.Status != derived {
			continue
		}
		result = append(result, *resp)
	}
	return result, total, nil
}

func (s *jobOrderService) Get(ctx context.Context, jobOrderID string) (*dto.JobOrderResponse, error) {
	order, err := s.repo.JobOrder.GetByID(ctx, jobOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobOrderNotFound
		}
		s.logger.Error("查询工单失败", zap.Error(err))
		return nil, apperrors.Storage("查询工单失败", err)
	}
	return s.toJobOrderResponse(ctx, order, time.Now())
}

func (s *jobOrderService) MarkComplete(ctx context.Context, actor Actor, jobOrderID string) (*dto.MarkCompleteResponse, error) {
	var approval *model.QualityApproval
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		open, err := tx.Quality.HasOpen(ctx, jobOrderID)
		if err != nil {
			return apperrors.Storage("查询质检审批单失败", err)
		}
		if open {
			return ErrQualityAlreadyOpen
		}

		// 条件更新兜住并发报完工：只有 active 工单能进入质检
		rows, err := tx.JobOrder.UpdateStatusIf(ctx, jobOrderID,
			model.JobOrderStatusActive, model.JobOrderStatusPendingQuality)
		if err != nil {
			return apperrors.Storage("更新工单状态失败", err)
		}
		if rows == 0 {
			if _, err := tx.JobOrder.GetByID(ctx, jobOrderID); errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobOrderNotFound
			}
			return ErrJobOrderNotCompletable
		}

		approval = &model.QualityApproval{
			JobOrderID:  jobOrderID,
			RequestedBy: actor.UserID,
			Status:      model.QualityStatusPending,
		}
		if err := tx.Quality.Create(ctx, approval); err != nil {
			return apperrors.Storage("创建质检审批单失败", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("工单已报完工，进入质检",
		zap.String("job_order_id", jobOrderID),
		zap.String("quality_approval_id", approval.QualityApprovalID))

	return &dto.MarkCompleteResponse{
		JobOrderID:        jobOrderID,
		QualityApprovalID: approval.QualityApprovalID,
		Status:            model.JobOrderStatusPendingQuality,
	}, nil
}

func (s *jobOrderService) toJobOrderResponse(ctx context.Context, order *model.JobOrder, now time.Time) (*dto.JobOrderResponse, error) {
	approved, err := s.repo.Task.SumApprovedDevices(ctx, order.JobOrderID)
	if err != nil {
		return nil, apperrors.Storage("聚合已批准设备量失败", err)
	}
	return &dto.JobOrderResponse{
		ID:                 order.JobOrderID,
		OrderNumber:        order.OrderNumber,
		Title:              order.Title,
		TotalDevices:       order.TotalDevices,
		DevicesApproved:    approved,
		DueDate:            order.DueDate.Format(model.DateOnly),
		Status:             order.DisplayStatus(now, s.cfg.Pipeline.DueSoonDays),
		ProgressPercentage: order.ProgressPercentage,
		CreatedAt:          order.CreatedAt.Format(time.RFC3339),
	}, nil
}
