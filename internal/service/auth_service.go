package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/config"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/dto"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/jwt"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = apperrors.Authorization("用户名或密码错误")
	ErrUserDisabled       = apperrors.Authorization("账号已被停用")
	ErrInvalidRefresh     = apperrors.Authorization("刷新凭证无效")
	ErrLoginRateLimited   = apperrors.Conflict("登录尝试过于频繁，请稍后再试")
	ErrUserNotFound       = apperrors.NotFound("用户不存在")
	ErrWrongOldPassword   = apperrors.Validation("原密码不正确")
)

// AuthService 认证业务接口（流水线的边界协作方）
// 解析出的 Actor 以显式参数进入各流水线操作
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	// Logout 拉黑当前 Access Token 直到其自然过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, actor Actor) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 登录限流：固定窗口计数；Redis 不可用时降级放行
	if s.rdb != nil && s.cfg.Auth.LoginRateLimit > 0 {
		key := fmt.Sprintf("login:%s", req.Username)
		window := time.Duration(s.cfg.Auth.LoginRateLimitWindowSec) * time.Second
		allowed, err := s.rdb.CheckRateLimit(ctx, key, s.cfg.Auth.LoginRateLimit, window)
		if err != nil {
			s.logger.Warn("登录限流检查失败，降级放行", zap.Error(err))
		} else if !allowed {
			return nil, ErrLoginRateLimited
		}
	}

	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, apperrors.Storage("查询用户失败", err)
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	technicianID, err := s.technicianIDFor(ctx, user.UserID, user.Role)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(user.UserID, user.Role, technicianID)
	if err != nil {
		return nil, err
	}
	resp.User = dto.UserResponse{
		ID:           user.UserID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		TechnicianID: technicianID,
	}

	s.logger.Info("用户登录成功",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role))
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, apperrors.Storage("查询用户失败", err)
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	resp, err := s.issueTokens(user.UserID, user.Role, claims.TechnicianID)
	if err != nil {
		return nil, err
	}
	resp.User = dto.UserResponse{
		ID:           user.UserID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		TechnicianID: claims.TechnicianID,
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("拉黑 token 失败", zap.Error(err))
		return apperrors.Storage("退出登录失败", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, actor Actor) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.Storage("查询用户失败", err)
	}
	return &dto.UserResponse{
		ID:           user.UserID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		TechnicianID: actor.TechnicianID,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return apperrors.Storage("查询用户失败", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Storage("密码加密失败", err)
	}
	if err := s.repo.User.UpdatePassword(ctx, user.UserID, string(hash)); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return apperrors.Storage("更新密码失败", err)
	}
	return nil
}

// technicianIDFor 技术员角色解析其技术员档案 ID，其余角色为空
func (s *authService) technicianIDFor(ctx context.Context, userID, role string) (string, error) {
	if role != model.RoleTechnician {
		return "", nil
	}
	tech, err := s.repo.Technician.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.Storage("查询技术员失败", err)
	}
	return tech.TechnicianID, nil
}

func (s *authService) issueTokens(userID, role, technicianID string) (*dto.TokenResponse, error) {
	access, err := s.jwtMgr.GenerateAccessToken(userID, role, technicianID)
	if err != nil {
		return nil, apperrors.Storage("生成 access token 失败", err)
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(userID, role, technicianID)
	if err != nil {
		return nil, apperrors.Storage("生成 refresh token 失败", err)
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
	}, nil
}
