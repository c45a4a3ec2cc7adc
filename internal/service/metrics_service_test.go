package service

import (
	"context"
	"testing"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
)

func setupTestMetricsService(f *pipelineFixture) MetricsService {
	return NewMetricsService(f.cfg, f.repo, nil, testLogger())
}

// ── 重算 ──

func TestMetricsService_Recompute_FromApprovedTasks(t *testing.T) {
	f := newPipelineFixture()
	// 两条已批准：5台/20分钟(150%)、3台/40分钟(75%)
	f.addApprovedTask("task-001", "tech-001", "jo-001", 5, 20, 30)
	f.addApprovedTask("task-002", "tech-001", "jo-001", 3, 40, 30)
	// 其他技术员与待审任务不参与聚合
	f.addApprovedTask("task-003", "tech-other", "jo-001", 9, 60, 30)
	f.addPendingTask("task-004", "tech-001", "jo-001", 8, 10, 30)
	svc := setupTestMetricsService(f)

	result, err := svc.Recompute(context.Background(), "tech-001", testDate)
	if err != nil {
		t.Fatalf("Recompute 应成功: %v", err)
	}

	// productivity = (5+3) / (20+40) = 0.1333
	if result.Productivity != 0.1333 {
		t.Errorf("期望 productivity=0.1333，实际=%v", result.Productivity)
	}
	// efficiency = AVG(150, 75) = 112.5，不封顶
	if result.Efficiency != 112.5 {
		t.Errorf("期望 efficiency=112.5，实际=%v", result.Efficiency)
	}
	// utilization = 60 / 540 × 100 = 11.11
	if result.Utilization != 11.11 {
		t.Errorf("期望 utilization=11.11，实际=%v", result.Utilization)
	}
}

// 幂等：已批准集合不变时重跑产出完全一致
func TestMetricsService_Recompute_Idempotent(t *testing.T) {
	f := newPipelineFixture()
	f.addApprovedTask("task-001", "tech-001", "jo-001", 5, 20, 30)
	f.addApprovedTask("task-002", "tech-001", "jo-001", 3, 40, 30)
	svc := setupTestMetricsService(f)

	ctx := context.Background()
	first, err := svc.Recompute(ctx, "tech-001", testDate)
	if err != nil {
		t.Fatalf("Recompute 应成功: %v", err)
	}
	second, err := svc.Recompute(ctx, "tech-001", testDate)
	if err != nil {
		t.Fatalf("重跑应成功: %v", err)
	}

	if first.Productivity != second.Productivity ||
		first.Efficiency != second.Efficiency ||
		first.Utilization != second.Utilization ||
		first.JobOrderProgress != second.JobOrderProgress {
		t.Errorf("重算应幂等：first=%+v second=%+v", first, second)
	}
	if len(f.metrics.metrics) != 1 {
		t.Errorf("同一键只应有一行指标，实际=%d", len(f.metrics.metrics))
	}
}

// 效率超 100 不截断
func TestMetricsService_Recompute_UncappedEfficiency(t *testing.T) {
	f := newPipelineFixture()
	f.addApprovedTask("task-001", "tech-001", "jo-001", 5, 10, 30) // 300%
	svc := setupTestMetricsService(f)

	result, err := svc.Recompute(context.Background(), "tech-001", testDate)
	if err != nil {
		t.Fatalf("Recompute 应成功: %v", err)
	}
	if result.Efficiency != 300.0 {
		t.Errorf("效率不应封顶，期望300.0，实际=%v", result.Efficiency)
	}
}

// 无已批准任务：指标归零而非报错
func TestMetricsService_Recompute_EmptySet(t *testing.T) {
	f := newPipelineFixture()
	svc := setupTestMetricsService(f)

	result, err := svc.Recompute(context.Background(), "tech-001", testDate)
	if err != nil {
		t.Fatalf("空集合重算应成功: %v", err)
	}
	if result.Productivity != 0 || result.Efficiency != 0 || result.Utilization != 0 {
		t.Errorf("空集合指标应归零，实际=%+v", result)
	}
}

// ── 区间查询 ──

func TestMetricsService_Range_InvalidDates(t *testing.T) {
	f := newPipelineFixture()
	svc := setupTestMetricsService(f)

	_, err := svc.Range(context.Background(), &dto.MetricRangeRequest{
		StartDate: "2025-01-20",
		EndDate:   "2025-01-10",
	})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("区间颠倒应为校验错误，实际: %v", err)
	}
}

// ── 团队汇总 ──

func TestMetricsService_TeamSummary(t *testing.T) {
	f := newPipelineFixture()
	f.addApprovedTask("task-001", "tech-001", "jo-001", 5, 20, 30)
	svc := setupTestMetricsService(f)

	ctx := context.Background()
	if _, err := svc.Recompute(ctx, "tech-001", testDate); err != nil {
		t.Fatalf("Recompute 应成功: %v", err)
	}

	summary, err := svc.TeamSummary(ctx, testDate)
	if err != nil {
		t.Fatalf("TeamSummary 应成功: %v", err)
	}
	if summary.TechnicianCount != 1 {
		t.Errorf("期望1名技术员，实际=%d", summary.TechnicianCount)
	}
	if summary.TotalDevices != 5 {
		t.Errorf("期望设备总量5，实际=%d", summary.TotalDevices)
	}
	if summary.AvgEfficiency != 150.0 {
		t.Errorf("期望平均效率150.0，实际=%v", summary.AvgEfficiency)
	}
}
