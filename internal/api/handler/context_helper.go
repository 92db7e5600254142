package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id（即 profile_id）。
// 如果 Auth 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取主角色。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetIdentity 从 Gin 上下文中提取完整身份。
func MustGetIdentity(c *gin.Context) (*service.Identity, bool) {
	v, exists := c.Get("identity")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	id, ok := v.(*service.Identity)
	if !ok || id == nil {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	return id, true
}
