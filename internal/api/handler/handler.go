package handler

import (
	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Me           *MeHandler
	Booking      *BookingHandler
	Hall         *HallHandler
	Asset        *AssetHandler
	Maintenance  *MaintenanceHandler
	Notification *NotificationHandler
	Upload       *UploadHandler
	Export       *ExportHandler
	Report       *ReportHandler
	Chatbot      *ChatbotHandler
	Cron         *CronHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Me:           NewMeHandler(svc.Profile),
		Booking:      NewBookingHandler(svc.Booking),
		Hall:         NewHallHandler(svc.Hall),
		Asset:        NewAssetHandler(svc.Asset),
		Maintenance:  NewMaintenanceHandler(svc.Maintenance),
		Notification: NewNotificationHandler(svc.Notification),
		Upload:       NewUploadHandler(svc.Upload),
		Export:       NewExportHandler(svc.Export),
		Report:       NewReportHandler(svc.Report),
		Chatbot:      NewChatbotHandler(svc.Chatbot, logger.Named("chatbot")),
		Cron:         NewCronHandler(svc.AutoTransition, logger.Named("cron")),
	}
}
