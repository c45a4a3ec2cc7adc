package service

import (
	"go.uber.org/zap"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/jwt"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/redis"
)

// Actor 操作者身份
// 由边界的认证协作方（JWT 中间件）解析一次，
// 之后以显式参数传入每个流水线操作，不使用任何隐式会话状态
type Actor struct {
	UserID       string
	Role         string
	TechnicianID string // 技术员角色携带，其余角色为空
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Task         TaskService
	Approval     ApprovalService
	Metrics      MetricsService
	Alert        AlertService
	JobOrder     JobOrderService
	Quality      QualityService
	Notification NotificationService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时黑名单与仪表盘缓存降级关闭）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Task:         NewTaskService(cfg, repo, logger),
		Approval:     NewApprovalService(cfg, repo, rdb, logger),
		Metrics:      NewMetricsService(cfg, repo, rdb, logger),
		Alert:        NewAlertService(cfg, repo, logger),
		JobOrder:     NewJobOrderService(cfg, repo, logger),
		Quality:      NewQualityService(repo, logger),
		Notification: NewNotificationService(repo, logger),
	}
}
