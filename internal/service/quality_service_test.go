package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
)

func setupTestQualityService(f *pipelineFixture) QualityService {
	return NewQualityService(f.repo, testLogger())
}

var qualityActor = Actor{UserID: "user-quality", Role: model.RoleQuality}

// addPendingQuality 预置一张待裁决质检单（工单已在 pending_quality）
func (f *pipelineFixture) addPendingQuality(id, jobOrderID string) {
	f.jobOrders.orders[jobOrderID].Status = model.JobOrderStatusPendingQuality
	f.quality.approvals[id] = &model.QualityApproval{
		QualityApprovalID: id,
		JobOrderID:        jobOrderID,
		RequestedBy:       "user-sup",
		Status:            model.QualityStatusPending,
	}
}

func TestQualityService_Decide_Approve(t *testing.T) {
	f := newPipelineFixture()
	f.addPendingQuality("qa-001", "jo-001")
	svc := setupTestQualityService(f)

	result, err := svc.Decide(context.Background(), qualityActor, "qa-001",
		&dto.DecideQualityRequest{Action: model.ApprovalActionApprove, Comments: "抽检合格"})
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if result.Status != model.QualityStatusApproved {
		t.Errorf("期望 approved，实际=%s", result.Status)
	}

	// 审批单与工单状态同事务翻转
	qa := f.quality.approvals["qa-001"]
	if qa.Status != model.QualityStatusApproved {
		t.Errorf("质检单应为 approved，实际=%s", qa.Status)
	}
	if qa.DecidedBy == nil || *qa.DecidedBy != "user-quality" {
		t.Error("裁决人应被记录")
	}
	if qa.DecidedAt == nil {
		t.Error("裁决时间应被记录")
	}
	if f.jobOrders.orders["jo-001"].Status != model.JobOrderStatusCompleted {
		t.Errorf("工单应为 completed，实际=%s", f.jobOrders.orders["jo-001"].Status)
	}
}

func TestQualityService_Decide_Reject(t *testing.T) {
	f := newPipelineFixture()
	f.addPendingQuality("qa-001", "jo-001")
	svc := setupTestQualityService(f)

	result, err := svc.Decide(context.Background(), qualityActor, "qa-001",
		&dto.DecideQualityRequest{Action: model.ApprovalActionReject, Comments: "外观不合格"})
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if result.Status != model.QualityStatusRejected {
		t.Errorf("期望 rejected，实际=%s", result.Status)
	}
	if f.jobOrders.orders["jo-001"].Status != model.JobOrderStatusRejected {
		t.Errorf("工单应为 rejected，实际=%s", f.jobOrders.orders["jo-001"].Status)
	}
}

// 已裁决的质检单再次提交：冲突，工单状态保持不变
func TestQualityService_Decide_AlreadyDecidedConflicts(t *testing.T) {
	f := newPipelineFixture()
	f.addPendingQuality("qa-001", "jo-001")
	svc := setupTestQualityService(f)

	ctx := context.Background()
	if _, err := svc.Decide(ctx, qualityActor, "qa-001",
		&dto.DecideQualityRequest{Action: model.ApprovalActionApprove}); err != nil {
		t.Fatalf("第一次 Decide 应成功: %v", err)
	}

	_, err := svc.Decide(ctx, qualityActor, "qa-001",
		&dto.DecideQualityRequest{Action: model.ApprovalActionReject})
	if !errors.Is(err, ErrQualityAlreadyDecided) {
		t.Fatalf("期望 ErrQualityAlreadyDecided，实际: %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("应为冲突类错误，实际=%s", apperrors.KindOf(err))
	}

	// 第二次 reject 不得改动已落定的状态
	if f.quality.approvals["qa-001"].Status != model.QualityStatusApproved {
		t.Errorf("质检单应保持 approved，实际=%s", f.quality.approvals["qa-001"].Status)
	}
	if f.jobOrders.orders["jo-001"].Status != model.JobOrderStatusCompleted {
		t.Errorf("工单应保持 completed，实际=%s", f.jobOrders.orders["jo-001"].Status)
	}
}

func TestQualityService_Decide_NotFound(t *testing.T) {
	f := newPipelineFixture()
	svc := setupTestQualityService(f)

	_, err := svc.Decide(context.Background(), qualityActor, "qa-missing",
		&dto.DecideQualityRequest{Action: model.ApprovalActionApprove})
	if !errors.Is(err, ErrQualityNotFound) {
		t.Errorf("期望 ErrQualityNotFound，实际: %v", err)
	}
}

func TestQualityService_ListPending(t *testing.T) {
	f := newPipelineFixture()
	f.addPendingQuality("qa-001", "jo-001")
	svc := setupTestQualityService(f)

	list, total, err := svc.ListPending(context.Background(), &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("ListPending 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("期望1张待裁决质检单，实际 total=%d len=%d", total, len(list))
	}
	if list[0].ID != "qa-001" {
		t.Errorf("期望 qa-001，实际=%s", list[0].ID)
	}
}
