package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KGLikith/Seminar-Hub-sub000/pkg/redis"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件（按客户端 IP + 路由）
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// rdb 为 nil 时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(rdb, limit, window, func(c *gin.Context) string {
		return fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
	})
}

// ProfileRateLimit 按已认证用户限流，须挂在 Auth 之后
func ProfileRateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(rdb, limit, window, func(c *gin.Context) string {
		uid := c.GetString(ctxUserID)
		if uid == "" {
			uid = c.ClientIP()
		}
		return fmt.Sprintf("rate_limit:%s:%s", uid, c.FullPath())
	})
}

func rateLimit(rdb *redis.Client, limit int, window time.Duration, keyOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), keyOf(c), limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
