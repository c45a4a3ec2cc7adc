package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

func setupTestJobOrderService(f *pipelineFixture) JobOrderService {
	return NewJobOrderService(f.cfg, f.repo, testLogger())
}

// ── 进度重算 ──

func TestJobOrderService_RecomputeProgress(t *testing.T) {
	f := newPipelineFixture()
	f.addApprovedTask("task-001", "tech-001", "jo-001", 3, 30, 30)
	f.addApprovedTask("task-002", "tech-001", "jo-001", 4, 30, 30)
	// 待审与驳回的不计入
	f.addPendingTask("task-003", "tech-001", "jo-001", 2, 30, 30)
	svc := setupTestJobOrderService(f)

	progress, err := svc.RecomputeProgress(context.Background(), "jo-001")
	if err != nil {
		t.Fatalf("RecomputeProgress 应成功: %v", err)
	}
	if progress != 70.0 {
		t.Errorf("7/10 期望进度70.0，实际=%v", progress)
	}
	if f.jobOrders.orders["jo-001"].ProgressPercentage != 70.0 {
		t.Errorf("进度应落库，实际=%v", f.jobOrders.orders["jo-001"].ProgressPercentage)
	}
}

func TestJobOrderService_RecomputeProgress_Idempotent(t *testing.T) {
	f := newPipelineFixture()
	f.addApprovedTask("task-001", "tech-001", "jo-001", 3, 30, 30)
	svc := setupTestJobOrderService(f)

	ctx := context.Background()
	first, err := svc.RecomputeProgress(ctx, "jo-001")
	if err != nil {
		t.Fatalf("RecomputeProgress 应成功: %v", err)
	}
	second, err := svc.RecomputeProgress(ctx, "jo-001")
	if err != nil {
		t.Fatalf("重跑应成功: %v", err)
	}
	if first != second {
		t.Errorf("无新批准时重算应幂等：first=%v second=%v", first, second)
	}
}

// 超报设备可把进度推过 100，不做截断
func TestJobOrderService_RecomputeProgress_Uncapped(t *testing.T) {
	f := newPipelineFixture()
	f.addApprovedTask("task-001", "tech-001", "jo-001", 12, 30, 30)
	svc := setupTestJobOrderService(f)

	progress, err := svc.RecomputeProgress(context.Background(), "jo-001")
	if err != nil {
		t.Fatalf("RecomputeProgress 应成功: %v", err)
	}
	if progress != 120.0 {
		t.Errorf("12/10 期望进度120.0（不封顶），实际=%v", progress)
	}
}

func TestJobOrderService_RecomputeProgress_NoApprovedTasks(t *testing.T) {
	f := newPipelineFixture()
	svc := setupTestJobOrderService(f)

	progress, err := svc.RecomputeProgress(context.Background(), "jo-001")
	if err != nil {
		t.Fatalf("RecomputeProgress 应成功: %v", err)
	}
	if progress != 0 {
		t.Errorf("无批准任务进度应为0，实际=%v", progress)
	}
}

// ── 派生展示状态 ──

func TestJobOrderService_Get_DerivesDueSoon(t *testing.T) {
	f := newPipelineFixture()
	f.jobOrders.orders["jo-001"].DueDate = time.Now().AddDate(0, 0, 2)
	svc := setupTestJobOrderService(f)

	result, err := svc.Get(context.Background(), "jo-001")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.Status != model.JobOrderDisplayDueSoon {
		t.Errorf("距截止2天应展示 due_soon，实际=%s", result.Status)
	}
}

func TestJobOrderService_Get_DerivesOverdue(t *testing.T) {
	f := newPipelineFixture()
	f.jobOrders.orders["jo-001"].DueDate = time.Now().AddDate(0, 0, -1)
	svc := setupTestJobOrderService(f)

	result, err := svc.Get(context.Background(), "jo-001")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.Status != model.JobOrderDisplayOverdue {
		t.Errorf("已过截止应展示 overdue，实际=%s", result.Status)
	}
}

// 质检态原样透出，不参与到期派生
func TestJobOrderService_Get_QualityStatesPassThrough(t *testing.T) {
	f := newPipelineFixture()
	f.jobOrders.orders["jo-001"].Status = model.JobOrderStatusCompleted
	f.jobOrders.orders["jo-001"].DueDate = time.Now().AddDate(0, 0, -10)
	svc := setupTestJobOrderService(f)

	result, err := svc.Get(context.Background(), "jo-001")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.Status != model.JobOrderStatusCompleted {
		t.Errorf("completed 不应被 overdue 覆盖，实际=%s", result.Status)
	}
}

// ── 报完工 ──

func TestJobOrderService_MarkComplete(t *testing.T) {
	f := newPipelineFixture()
	svc := setupTestJobOrderService(f)

	result, err := svc.MarkComplete(context.Background(), supervisorActor, "jo-001")
	if err != nil {
		t.Fatalf("MarkComplete 应成功: %v", err)
	}
	if result.Status != model.JobOrderStatusPendingQuality {
		t.Errorf("期望 pending_quality，实际=%s", result.Status)
	}
	if f.jobOrders.orders["jo-001"].Status != model.JobOrderStatusPendingQuality {
		t.Errorf("工单状态应翻转，实际=%s", f.jobOrders.orders["jo-001"].Status)
	}

	qa, err := f.quality.GetByID(context.Background(), result.QualityApprovalID)
	if err != nil {
		t.Fatal("应创建质检审批单")
	}
	if qa.Status != model.QualityStatusPending {
		t.Errorf("质检审批单应为 pending，实际=%s", qa.Status)
	}
	if qa.RequestedBy != "user-sup" {
		t.Errorf("发起人应为操作者，实际=%s", qa.RequestedBy)
	}
}

func TestJobOrderService_MarkComplete_NotActive(t *testing.T) {
	f := newPipelineFixture()
	f.jobOrders.orders["jo-001"].Status = model.JobOrderStatusCompleted
	svc := setupTestJobOrderService(f)

	_, err := svc.MarkComplete(context.Background(), supervisorActor, "jo-001")
	if !errors.Is(err, ErrJobOrderNotCompletable) {
		t.Errorf("期望 ErrJobOrderNotCompletable，实际: %v", err)
	}
}

func TestJobOrderService_MarkComplete_AlreadyOpen(t *testing.T) {
	f := newPipelineFixture()
	svc := setupTestJobOrderService(f)

	ctx := context.Background()
	if _, err := svc.MarkComplete(ctx, supervisorActor, "jo-001"); err != nil {
		t.Fatalf("第一次 MarkComplete 应成功: %v", err)
	}
	_, err := svc.MarkComplete(ctx, supervisorActor, "jo-001")
	if err == nil {
		t.Fatal("重复报完工应失败")
	}
	if !errors.Is(err, ErrQualityAlreadyOpen) && !errors.Is(err, ErrJobOrderNotCompletable) {
		t.Errorf("期望冲突类错误，实际: %v", err)
	}
}

// ── 列表派生过滤 ──

func TestJobOrderService_List_FilterByDerivedStatus(t *testing.T) {
	f := newPipelineFixture()
	f.jobOrders.orders["jo-001"].DueDate = time.Now().AddDate(0, 0, -1)
	f.jobOrders.orders["jo-002"] = &model.JobOrder{
		JobOrderID: "jo-002", OrderNumber: "JO-2025-002", Title: "正常工单",
		TotalDevices: 5, Status: model.JobOrderStatusActive,
		DueDate: time.Now().AddDate(0, 1, 0),
	}
	svc := setupTestJobOrderService(f)

	list, _, err := svc.List(context.Background(), &dto.JobOrderListRequest{Status: model.JobOrderDisplayOverdue})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望1张逾期工单，实际=%d", len(list))
	}
	if list[0].ID != "jo-001" {
		t.Errorf("期望 jo-001，实际=%s", list[0].ID)
	}
}
