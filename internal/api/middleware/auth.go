package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/jwt"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// 上下文键，与 handler.MustGetXxx 保持一致
const (
	ctxUserID       = "user_id"
	ctxRoles        = "roles"
	ctxRole         = "role"
	ctxDepartmentID = "department_id"
	ctxIdentity     = "identity"
)

// IdentityResolver 根据令牌主体加载档案与角色
type IdentityResolver interface {
	Resolve(ctx context.Context, profileID string) (*service.Identity, error)
}

// Auth 身份认证中间件
// 校验 Authorization: Bearer <token>，加载档案后注入 user_id / roles / role / department_id
func Auth(jwtMgr *jwt.Manager, resolver IdentityResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, 10002, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "invalid or expired token")
			c.Abort()
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), claims.ProfileID())
		if err != nil {
			switch {
			case errors.Is(err, service.ErrProfileNotFound):
				response.Unauthorized(c, 10002, "profile not found")
			case errors.Is(err, service.ErrNoRole):
				response.Forbidden(c, 10003, "profile has no role assigned")
			default:
				logger.Error("加载用户身份失败", zap.String("profile_id", claims.ProfileID()), zap.Error(err))
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Set(ctxUserID, id.ProfileID)
		c.Set(ctxRoles, id.Roles)
		c.Set(ctxRole, id.PrimaryRole())
		c.Set(ctxDepartmentID, id.DepartmentID)
		c.Set(ctxIdentity, id)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 当前用户持有任一指定角色即放行
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ctxRoles)
		if !exists {
			response.Unauthorized(c, 10002, "unauthenticated")
			c.Abort()
			return
		}

		roles, _ := v.([]string)
		for _, have := range roles {
			for _, want := range allowedRoles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, 10003, "forbidden")
		c.Abort()
	}
}

// CronAuth 定时任务触发接口鉴权
// 外部调度器以 Bearer CRON_SECRET 调用；未配置密钥时一律拒绝
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok || secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
