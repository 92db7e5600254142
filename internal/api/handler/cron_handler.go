package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
)

// CronHandler 外部定时触发器 HTTP 处理器
// 响应体为 {success, rejected|completed}，与调度器约定保持一致
type CronHandler struct {
	autoSvc service.AutoTransitionService
	logger  *zap.Logger
	now     func() time.Time
}

// NewCronHandler 创建 CronHandler
func NewCronHandler(autoSvc service.AutoTransitionService, logger *zap.Logger) *CronHandler {
	return &CronHandler{autoSvc: autoSvc, logger: logger, now: time.Now}
}

// AutoReject 驳回已过开始时间的待审批预约
// POST /api/cron/auto-reject
func (h *CronHandler) AutoReject(c *gin.Context) {
	h.run(c, "auto-reject", "rejected", h.autoSvc.AutoReject)
}

// AutoComplete 将已结束的预约置为完成
// POST /api/cron/auto-complete
func (h *CronHandler) AutoComplete(c *gin.Context) {
	h.run(c, "auto-complete", "completed", h.autoSvc.AutoComplete)
}

func (h *CronHandler) run(c *gin.Context, job, countKey string, fn func(context.Context, time.Time) (int, error)) {
	n, err := fn(c.Request.Context(), h.now())
	if err != nil {
		h.logger.Error("定时任务执行失败", zap.String("job", job), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.logger.Info("定时任务已触发", zap.String("job", job), zap.Int(countKey, n))
	c.JSON(http.StatusOK, gin.H{"success": true, countKey: n})
}
