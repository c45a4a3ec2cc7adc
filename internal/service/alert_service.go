package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
)

// ErrAlertNotFound 告警不存在
var ErrAlertNotFound = apperrors.NotFound("告警不存在")

// AlertService 告警业务接口
type AlertService interface {
	// Evaluate 对某技术员某日的指标行评估阈值并产生告警
	Evaluate(ctx context.Context, technicianID string, date time.Time) error
	// List 告警流
	List(ctx context.Context, req *dto.AlertListRequest) ([]dto.AlertResponse, int64, error)
	// MarkRead 标记告警已读
	MarkRead(ctx context.Context, alertID string) error
	// CountUnread 未读告警数
	CountUnread(ctx context.Context) (int64, error)
}

type alertService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAlertService 创建 AlertService 实例
func NewAlertService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AlertService {
	return &alertService{cfg: cfg, repo: repo, logger: logger}
}

// evaluateAlerts 阈值评估：效率低于阈值记 warning，利用率低于阈值记 info
// 不做去重——同一技术员持续低于阈值时，每次触发审批都会产生新告警
func evaluateAlerts(ctx context.Context, repo *repository.Repository, cfg *config.PipelineConfig, metric *model.PerformanceMetric) error {
	technicianID := metric.TechnicianID

	if metric.Efficiency < cfg.EfficiencyAlertThreshold {
		alert := &model.Alert{
			AlertType:    model.AlertTypeLowEfficiency,
			Severity:     model.AlertSeverityWarning,
			Message:      fmt.Sprintf("Low efficiency detected: %.1f%%", metric.Efficiency),
			TechnicianID: &technicianID,
			AlertDate:    metric.MetricDate,
		}
		if err := repo.Alert.Create(ctx, alert); err != nil {
			return apperrors.Storage("创建效率告警失败", err)
		}
	}

	if metric.Utilization < cfg.UtilizationAlertThreshold {
		alert := &model.Alert{
			AlertType:    model.AlertTypeLowUtilization,
			Severity:     model.AlertSeverityInfo,
			Message:      fmt.Sprintf("Low utilization detected: %.1f%%", metric.Utilization),
			TechnicianID: &technicianID,
			AlertDate:    metric.MetricDate,
		}
		if err := repo.Alert.Create(ctx, alert); err != nil {
			return apperrors.Storage("创建利用率告警失败", err)
		}
	}
	return nil
}

func (s *alertService) Evaluate(ctx context.Context, technicianID string, date time.Time) error {
	metric, err := s.repo.Metric.GetByKey(ctx, technicianID, date)
	if err != nil {
		s.logger.Error("查询指标失败", zap.Error(err))
		return apperrors.Storage("查询指标失败", err)
	}
	return evaluateAlerts(ctx, s.repo, &s.cfg.Pipeline, metric)
}

func (s *alertService) List(ctx context.Context, req *dto.AlertListRequest) ([]dto.AlertResponse, int64, error) {
	filter := repository.AlertFilter{
		Severity:   req.Severity,
		UnreadOnly: req.UnreadOnly,
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	}
	if req.Date != "" {
		d, err := time.Parse(model.DateOnly, req.Date)
		if err != nil {
			return nil, 0, apperrors.Validation("日期格式无效")
		}
		filter.Date = &d
	}

	alerts, total, err := s.repo.Alert.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询告警列表失败", zap.Error(err))
		return nil, 0, apperrors.Storage("查询告警列表失败", err)
	}

	result := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		resp := dto.AlertResponse{
			ID:         a.AlertID,
			AlertType:  a.AlertType,
			Severity:   a.Severity,
			Message:    a.Message,
			AlertDate:  a.AlertDate.Format(model.DateOnly),
			ReadStatus: a.ReadStatus,
			CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		}
		if a.Technician != nil {
			resp.Technician = &dto.TechnicianBrief{
				ID:         a.Technician.TechnicianID,
				Name:       a.Technician.Name,
				EmployeeNo: a.Technician.EmployeeNo,
			}
		}
		result = append(result, resp)
	}
	return result, total, nil
}

func (s *alertService) MarkRead(ctx context.Context, alertID string) error {
	rows, err := s.repo.Alert.MarkRead(ctx, alertID)
	if err != nil {
		s.logger.Error("标记告警已读失败", zap.Error(err))
		return apperrors.Storage("标记告警已读失败", err)
	}
	if rows == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (s *alertService) CountUnread(ctx context.Context) (int64, error) {
	count, err := s.repo.Alert.CountUnread(ctx)
	if err != nil {
		return 0, apperrors.Storage("统计未读告警失败", err)
	}
	return count, nil
}
