package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/service"
	apperrors "github.com/Altamayyoz/Altamayyoz-sub001/pkg/errors"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/jwt"
	"github.com/Altamayyoz/Altamayyoz-sub001/pkg/response"
)

// MustGetActor 从 Gin 上下文中提取操作者身份
// 认证中间件逐字段注入，这里组装成显式 Actor 下传 Service 层
// 注入缺失时写入 401 响应并返回 false，调用方应直接 return
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:       userID,
		Role:         role,
		TechnicianID: c.GetString("technician_id"),
	}, true
}

// GetClaims 提取认证中间件缓存的完整 JWT 声明（登出时使用）
func GetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		return nil
	}
	return claims
}

// respondError 按错误类别映射 HTTP 状态与业务码
// Service 层统一返回带类别标签的错误，Handler 不再逐个 errors.Is
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsError(err)
	msg := "服务器内部错误"
	if ok {
		msg = appErr.Msg
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		response.Error(c, http.StatusBadRequest, 10001, msg)
	case apperrors.KindAuthorization:
		response.Error(c, http.StatusForbidden, 10003, msg)
	case apperrors.KindNotFound:
		response.Error(c, http.StatusNotFound, 10006, msg)
	case apperrors.KindConflict:
		response.Error(c, http.StatusConflict, 10007, msg)
	default:
		response.InternalError(c)
	}
}
