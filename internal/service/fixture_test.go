package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
)

// pipelineFixture 流水线单测的共享夹具：
// 全部 Mock 仓储 + 默认配置 + 预置的用户/技术员/工序/工单
type pipelineFixture struct {
	repo *repository.Repository
	cfg  *config.Config

	users         *mockUserRepo
	technicians   *mockTechnicianRepo
	operations    *mockOperationRepo
	jobOrders     *mockJobOrderRepo
	tasks         *mockTaskRepo
	approvals     *mockApprovalRepo
	quality       *mockQualityRepo
	metrics       *mockMetricRepo
	alerts        *mockAlertRepo
	notifications *mockNotificationRepo
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		users:         newMockUserRepo(),
		technicians:   newMockTechnicianRepo(),
		operations:    newMockOperationRepo(),
		jobOrders:     newMockJobOrderRepo(),
		approvals:     newMockApprovalRepo(),
		quality:       newMockQualityRepo(),
		metrics:       newMockMetricRepo(),
		alerts:        newMockAlertRepo(),
		notifications: newMockNotificationRepo(),
	}
	f.tasks = newMockTaskRepo(f.jobOrders)

	f.repo = &repository.Repository{
		User:         f.users,
		Technician:   f.technicians,
		Operation:    f.operations,
		JobOrder:     f.jobOrders,
		Task:         f.tasks,
		Approval:     f.approvals,
		Quality:      f.quality,
		Metric:       f.metrics,
		Alert:        f.alerts,
		Notification: f.notifications,
	}

	f.cfg = &config.Config{
		Pipeline: config.PipelineConfig{
			StandardWorkdayMinutes:     540,
			DefaultStandardTimeMinutes: 30,
			EfficiencyAlertThreshold:   80,
			UtilizationAlertThreshold:  60,
			DueSoonDays:                3,
			StrictActorBinding:         false,
		},
	}

	// 预置数据：一名主管、一名技术员、一道工序、一张进行中的工单
	f.users.users["user-sup"] = &model.User{
		UserID: "user-sup", Name: "王班长", Username: "supervisor1",
		Role: model.RoleSupervisor, IsActive: true,
	}
	f.users.users["user-tech"] = &model.User{
		UserID: "user-tech", Name: "李技师", Username: "tech1",
		Role: model.RoleTechnician, IsActive: true,
	}
	f.technicians.technicians["tech-001"] = &model.Technician{
		TechnicianID: "tech-001", UserID: "user-tech",
		Name: "李技师", EmployeeNo: "EMP-001", IsActive: true,
	}
	f.operations.operations["焊接"] = &model.Operation{
		OperationID: "op-001", Name: "焊接", StandardTimeMinutes: 30,
	}
	f.jobOrders.orders["jo-001"] = &model.JobOrder{
		JobOrderID: "jo-001", OrderNumber: "JO-2025-001", Title: "测试工单",
		TotalDevices: 10, Status: model.JobOrderStatusActive,
		DueDate: time.Now().AddDate(0, 1, 0),
	}

	return f
}

var testDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// addApprovedTask 直接塞入一条已批准任务（绕过提交流程）
func (f *pipelineFixture) addApprovedTask(id, technicianID, jobOrderID string, devices, actualMin, standardMin int) *model.Task {
	task := &model.Task{
		TaskID:               id,
		TechnicianID:         technicianID,
		JobOrderID:           jobOrderID,
		OperationName:        "焊接",
		DevicesCompleted:     devices,
		ActualTimeMinutes:    actualMin,
		StandardTimeMinutes:  standardMin,
		EfficiencyPercentage: model.ComputeEfficiency(standardMin, actualMin),
		Status:               model.TaskStatusApproved,
		TaskDate:             testDate,
	}
	f.tasks.tasks[id] = task
	return task
}

// addPendingTask 塞入一条待审任务及其通知
func (f *pipelineFixture) addPendingTask(id, technicianID, jobOrderID string, devices, actualMin, standardMin int) *model.Task {
	task := &model.Task{
		TaskID:               id,
		TechnicianID:         technicianID,
		JobOrderID:           jobOrderID,
		OperationName:        "焊接",
		DevicesCompleted:     devices,
		ActualTimeMinutes:    actualMin,
		StandardTimeMinutes:  standardMin,
		EfficiencyPercentage: model.ComputeEfficiency(standardMin, actualMin),
		Status:               model.TaskStatusPending,
		TaskDate:             testDate,
	}
	f.tasks.tasks[id] = task
	f.notifications.notifications["sn-"+id] = &model.SupervisorNotification{
		NotificationID:   "sn-" + id,
		JobOrderID:       jobOrderID,
		TechnicianID:     technicianID,
		TaskID:           id,
		NotificationType: model.NotificationTypeTaskSubmitted,
		Status:           model.NotificationStatusPending,
	}
	return task
}

func testLogger() *zap.Logger { return zap.NewNop() }

var supervisorActor = Actor{UserID: "user-sup", Role: model.RoleSupervisor}

var technicianActor = Actor{UserID: "user-tech", Role: model.RoleTechnician, TechnicianID: "tech-001"}
