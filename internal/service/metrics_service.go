package service

import (
	"context"
	"encoding/json"
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
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/redis"
)

// MetricsService 绩效指标业务接口
type MetricsService interface {
	// Recompute 对某技术员某日全量重算指标；幂等，可安全重跑
	Recompute(ctx context.Context, technicianID string, date time.Time) (*dto.MetricResponse, error)
	// Range 区间指标序列
	Range(ctx context.Context, req *dto.MetricRangeRequest) ([]dto.MetricResponse, error)
	// TeamSummary 团队单日汇总（带缓存的仪表盘投影）
	TeamSummary(ctx context.Context, date time.Time) (*dto.TeamSummaryResponse, error)
}

type metricsService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewMetricsService 创建 MetricsService 实例
func NewMetricsService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) MetricsService {
	return &metricsService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

// recomputeMetrics 某 (technician_id, date) 键的指标全量重算
//
// 先 EnsureAndLock 对指标行取行级锁，把同一键的并发重算串行化，
// 再从该键全部已批准任务整体重算各指标——不做增量修补：
//   - productivity = SUM(devices) / SUM(actual_minutes)
//   - efficiency   = AVG(efficiency_percentage)
//   - utilization  = SUM(actual_minutes) / 标准工作日 × 100
//   - job_order_progress = 涉及工单的平均进度
//
// 效率与利用率不设上限，>100 属正常值域
func recomputeMetrics(ctx context.Context, repo *repository.Repository, cfg *config.PipelineConfig, technicianID string, date time.Time) (*model.PerformanceMetric, error) {
	metric, err := repo.Metric.EnsureAndLock(ctx, technicianID, date)
	if err != nil {
		return nil, apperrors.Storage("锁定指标行失败", err)
	}

	agg, err := repo.Task.AggregateApproved(ctx, technicianID, date)
	if err != nil {
		return nil, apperrors.Storage("聚合已批准任务失败", err)
	}

	metric.Productivity = 0
	if agg.TotalActualMinutes > 0 {
		metric.Productivity = round4(float64(agg.TotalDevices) / float64(agg.TotalActualMinutes))
	}
	metric.Efficiency = round2(agg.AvgEfficiency)
	metric.Utilization = 0
	if cfg.StandardWorkdayMinutes > 0 {
		metric.Utilization = round2(float64(agg.TotalActualMinutes) / float64(cfg.StandardWorkdayMinutes) * 100)
	}

	progress, err := repo.Task.AvgJobOrderProgress(ctx, technicianID, date)
	if err != nil {
		return nil, apperrors.Storage("聚合工单进度失败", err)
	}
	metric.JobOrderProgress = round1(progress)

	if err := repo.Metric.Save(ctx, metric); err != nil {
		return nil, apperrors.Storage("保存指标失败", err)
	}
	return metric, nil
}

func (s *metricsService) Recompute(ctx context.Context, technicianID string, date time.Time) (*dto.MetricResponse, error) {
	var metric *model.PerformanceMetric
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		metric, err = recomputeMetrics(ctx, tx, &s.cfg.Pipeline, technicianID, date)
		return err
	})
	if err != nil {
		s.logger.Error("指标重算失败",
			zap.String("technician_id", technicianID),
			zap.Error(err))
		return nil, err
	}
	resp := toMetricResponse(metric)
	return &resp, nil
}

func (s *metricsService) Range(ctx context.Context, req *dto.MetricRangeRequest) ([]dto.MetricResponse, error) {
	start, err := time.Parse(model.DateOnly, req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("起始日期格式无效")
	}
	end, err := time.Parse(model.DateOnly, req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("结束日期格式无效")
	}
	if end.Before(start) {
		return nil, apperrors.Validation("结束日期早于起始日期")
	}

	metrics, err := s.repo.Metric.ListRange(ctx, req.TechnicianID, start, end)
	if err != nil {
		s.logger.Error("查询指标区间失败", zap.Error(err))
		return nil, apperrors.Storage("查询指标区间失败", err)
	}

	result := make([]dto.MetricResponse, 0, len(metrics))
	for i := range metrics {
		result = append(result, toMetricResponse(&metrics[i]))
	}
	return result, nil
}

func (s *metricsService) TeamSummary(ctx context.Context, date time.Time) (*dto.TeamSummaryResponse, error) {
	cacheKey := dashboardCacheKey(date)

	// 缓存命中直接返回；缓存故障降级为直查
	if s.rdb != nil && s.cfg.Pipeline.DashboardCacheTTL > 0 {
		if data, err := s.rdb.GetCached(ctx, cacheKey); err == nil && data != nil {
			var cached dto.TeamSummaryResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	metrics, err := s.repo.Metric.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("查询当日指标失败", zap.Error(err))
		return nil, apperrors.Storage("查询当日指标失败", err)
	}

	summary := &dto.TeamSummaryResponse{
		Date:            date.Format(model.DateOnly),
		TechnicianCount: len(metrics),
		Metrics:         make([]dto.MetricResponse, 0, len(metrics)),
	}

	var effSum, utilSum float64
	for i := range metrics {
		m := &metrics[i]
		effSum += m.Efficiency
		utilSum += m.Utilization
		summary.Metrics = append(summary.Metrics, toMetricResponse(m))
	}
	if len(metrics) > 0 {
		summary.AvgEfficiency = round2(effSum / float64(len(metrics)))
		summary.AvgUtilization = round2(utilSum / float64(len(metrics)))
	}

	// 当日已批准任务的设备总量
	var totalDevices int
	for i := range metrics {
		agg, err := s.repo.Task.AggregateApproved(ctx, metrics[i].TechnicianID, date)
		if err != nil {
			return nil, apperrors.Storage("聚合已批准任务失败", err)
		}
		totalDevices += agg.TotalDevices
	}
	summary.TotalDevices = totalDevices

	_, pending, err := s.repo.Task.List(ctx, repository.TaskFilter{
		Status: model.TaskStatusPending,
		Limit:  1,
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Storage("统计待审任务失败", err)
	}
	summary.PendingTasks = pending

	unread, err := s.repo.Alert.CountUnread(ctx)
	if err != nil {
		return nil, apperrors.Storage("统计未读告警失败", err)
	}
	summary.UnreadAlerts = unread

	if s.rdb != nil && s.cfg.Pipeline.DashboardCacheTTL > 0 {
		if data, err := json.Marshal(summary); err == nil {
			ttl := time.Duration(s.cfg.Pipeline.DashboardCacheTTL) * time.Second
			if err := s.rdb.SetCached(ctx, cacheKey, data, ttl); err != nil {
				s.logger.Warn("写入仪表盘缓存失败", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// dashboardCacheKey 仪表盘缓存键，按日期分片
func dashboardCacheKey(date time.Time) string {
	return "team_summary:" + date.Format(model.DateOnly)
}

func toMetricResponse(m *model.PerformanceMetric) dto.MetricResponse {
	resp := dto.MetricResponse{
		MetricDate:       m.MetricDate.Format(model.DateOnly),
		Productivity:     m.Productivity,
		Efficiency:       m.Efficiency,
		Utilization:      m.Utilization,
		JobOrderProgress: m.JobOrderProgress,
	}
	if m.Technician != nil {
		resp.Technician = &dto.TechnicianBrief{
			ID:         m.Technician.TechnicianID,
			Name:       m.Technician.Name,
			EmployeeNo: m.Technician.EmployeeNo,
		}
	}
	return resp
}

// ── 小数位取整 ──

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
