package handler

import "github.com/Altamayyoz/Altamayyoz-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Task         *TaskHandler
	Approval     *ApprovalHandler
	JobOrder     *JobOrderHandler
	Quality      *QualityHandler
	Metrics      *MetricsHandler
	Alert        *AlertHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Task:         NewTaskHandler(svc.Task),
		Approval:     NewApprovalHandler(svc.Approval),
		JobOrder:     NewJobOrderHandler(svc.JobOrder),
		Quality:      NewQualityHandler(svc.Quality),
		Metrics:      NewMetricsHandler(svc.Metrics),
		Alert:        NewAlertHandler(svc.Alert),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
