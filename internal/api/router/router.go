package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/api/handler"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/api/middleware"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/jwt"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	supervisory := []string{model.RoleSupervisor, model.RoleAdmin}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			loginWindow := time.Duration(cfg.Auth.LoginRateLimitWindowSec) * time.Second
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, loginWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 任务模块：提交（技术员）、审批（主管）
			tasks := authorized.Group("/tasks")
			{
				tasks.POST("", middleware.RoleAuth(model.RoleTechnician), h.Task.Submit)
				tasks.GET("/my", middleware.RoleAuth(model.RoleTechnician), h.Task.ListMine)
				tasks.GET("", middleware.RoleAuth(supervisory...), h.Task.List)
				tasks.GET("/:id", h.Task.Get)
				tasks.POST("/:id/decision", middleware.RoleAuth(supervisory...), h.Approval.Decide)
				tasks.GET("/:id/approvals", middleware.RoleAuth(supervisory...), h.Approval.History)
			}

			// 工单模块
			jobOrders := authorized.Group("/job-orders")
			{
				jobOrders.GET("", h.JobOrder.List)
				jobOrders.GET("/:id", h.JobOrder.Get)
				jobOrders.POST("/:id/complete", middleware.RoleAuth(supervisory...), h.JobOrder.MarkComplete)
				jobOrders.POST("/:id/recompute", middleware.RoleAuth(supervisory...), h.JobOrder.RecomputeProgress)
			}

			// 质检审批模块
			quality := authorized.Group("/quality-approvals")
			quality.Use(middleware.RoleAuth(model.RoleQuality, model.RoleAdmin))
			{
				quality.GET("", h.Quality.ListPending)
				quality.POST("/:id/decision", h.Quality.Decide)
			}

			// 绩效指标模块
			metrics := authorized.Group("/metrics")
			metrics.Use(middleware.RoleAuth(supervisory...))
			{
				metrics.GET("", h.Metrics.Range)
				metrics.GET("/team-summary", h.Metrics.TeamSummary)
				metrics.POST("/recompute", h.Metrics.Recompute)
			}

			// 告警模块
			alerts := authorized.Group("/alerts")
			alerts.Use(middleware.RoleAuth(supervisory...))
			{
				alerts.GET("", h.Alert.List)
				alerts.GET("/unread-count", h.Alert.CountUnread)
				alerts.PUT("/:id/read", h.Alert.MarkRead)
			}

			// 主管通知模块
			notifications := authorized.Group("/notifications")
			notifications.Use(middleware.RoleAuth(supervisory...))
			{
				notifications.GET("", h.Notification.List)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}
		}
	}

	return r
}
