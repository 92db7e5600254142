package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/api/handler"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/api/middleware"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/jwt"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	resolver middleware.IdentityResolver,
	rdb *redis.Client,
	logger *zap.Logger,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("注册校验规则失败: %w", err)
		}
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(jwtMgr, resolver, logger)

	// ── 对外契约接口（裸 JSON） ──
	cron := r.Group("/api/cron")
	cron.Use(middleware.CronAuth(cfg.Cron.Secret))
	{
		cron.POST("/auto-reject", h.Cron.AutoReject)
		cron.POST("/auto-complete", h.Cron.AutoComplete)
	}

	r.POST("/api/chatbot", auth,
		middleware.ProfileRateLimit(rdb, cfg.Chatbot.RateLimit, time.Minute),
		h.Chatbot.Reply)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(auth)
	{
		hod := middleware.RoleAuth(model.RoleHOD)
		teacher := middleware.RoleAuth(model.RoleTeacher)
		staff := middleware.RoleAuth(model.RoleTechStaff, model.RoleHOD)

		authorized.GET("/me", h.Me.GetMe)
		authorized.GET("/departments", h.Me.ListDepartments)

		// 预约模块
		bookings := authorized.Group("/bookings")
		{
			bookings.GET("/availability", h.Booking.CheckAvailability)
			bookings.POST("", teacher, middleware.RateLimit(rdb, 20, time.Minute), h.Booking.Create)
			bookings.GET("/mine", teacher, h.Booking.ListMine)
			bookings.GET("/pending", hod, h.Booking.ListPending)
			bookings.GET("/:id", h.Booking.Get)
			bookings.GET("/:id/logs", h.Booking.ListLogs)
			bookings.GET("/:id/calendar", h.Booking.ExportICS)
			bookings.GET("/:id/report", h.Report.BookingReport)
			bookings.POST("/:id/approve", hod, h.Booking.Approve)
			bookings.POST("/:id/reject", hod, h.Booking.Reject)
			bookings.POST("/:id/cancel", teacher, h.Booking.Cancel)
			bookings.PUT("/:id/summary", teacher, h.Booking.AddSummary)
		}

		// 研讨厅模块
		halls := authorized.Group("/halls")
		{
			halls.GET("", h.Hall.List)
			halls.GET("/:id", h.Hall.Get)
			halls.POST("", hod, h.Hall.Create)
			halls.PUT("/:id", hod, h.Hall.Update)
			halls.PUT("/:id/tech-staff", hod, h.Hall.AssignTechStaff)
			halls.PUT("/:id/image", hod, h.Hall.SetImage)
			halls.GET("/:id/report", staff, h.Report.HallReport)

			halls.GET("/:id/equipment", h.Asset.ListEquipment)
			halls.POST("/:id/equipment", staff, h.Asset.CreateEquipment)
			halls.GET("/:id/components", h.Asset.ListComponents)
			halls.POST("/:id/components", staff, h.Asset.CreateComponent)
		}

		// 设备/部件模块（管理权限在 Service 层按研讨厅校验）
		authorized.PATCH("/equipment/:id/status", staff, h.Asset.UpdateEquipmentStatus)
		authorized.GET("/equipment/:id/logs", h.Asset.ListEquipmentLogs)
		authorized.PATCH("/components/:id/status", staff, h.Asset.UpdateComponentStatus)
		authorized.GET("/components/:id/logs", h.Asset.ListComponentLogs)

		// 维修申请模块
		maintenance := authorized.Group("/maintenance")
		{
			maintenance.GET("", staff, h.Maintenance.List)
			maintenance.POST("", middleware.RoleAuth(model.RoleTechStaff), h.Maintenance.Create)
			maintenance.POST("/:id/approve", hod, h.Maintenance.Approve)
			maintenance.POST("/:id/reject", hod, h.Maintenance.Reject)
			maintenance.POST("/:id/complete", staff, h.Maintenance.Complete)
		}

		// 通知模块
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.GET("/unread-count", h.Notification.UnreadCount)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		// 上传模块
		uploads := authorized.Group("/uploads")
		{
			uploads.POST("/presign", middleware.RateLimit(rdb, 30, time.Minute), h.Upload.Presign)
			uploads.DELETE("", h.Upload.Delete)
		}

		// 导出模块
		export := authorized.Group("/export")
		{
			export.GET("/bookings", hod, h.Export.ExportBookings)
		}
	}

	return r, nil
}
