package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service/chatbot"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service/report"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/mailer"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/redis"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

// ChatbotService 聊天机器人接口，由 chatbot.Bot 实现
type ChatbotService interface {
	Reply(ctx context.Context, profileID, message string) (string, error)
}

// ReportService PDF 报表接口，由 report.Generator 实现
type ReportService interface {
	BookingReport(ctx context.Context, bookingID string) ([]byte, string, error)
	HallReport(ctx context.Context, hallID string, from, to time.Time) ([]byte, string, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Profile        ProfileService
	Booking        BookingService
	AutoTransition AutoTransitionService
	Hall           HallService
	Asset          AssetService
	Maintenance    MaintenanceService
	Notification   NotificationService
	Upload         UploadService
	Export         ExportService
	Chatbot        ChatbotService
	Report         ReportService
}

// NewService 创建 Service 聚合
// rdb、store、pub 可为 nil：分别降级为不缓存、不可上传、不发布事件
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	store storage.ObjectStore,
	mail mailer.Sender,
	pub events.Publisher,
	logger *zap.Logger,
) *Service {
	loc := cfg.Server.Location()
	out := newDispatcher(repo, mail, pub, cfg.Server.BaseURL, logger)

	maintenance := NewMaintenanceService(repo, out, logger)

	var cache chatbot.Cache
	if rdb != nil {
		cache = rdb
	}

	return &Service{
		Profile:        NewProfileService(repo, logger),
		Booking:        NewBookingService(repo, out, loc, logger),
		AutoTransition: NewAutoTransitionService(repo, out, loc, logger),
		Hall:           NewHallService(repo, store, cache, logger),
		Asset:          NewAssetService(repo, logger),
		Maintenance:    maintenance,
		Notification:   NewNotificationService(repo, logger),
		Upload:         NewUploadService(repo, store, logger),
		Export:         NewExportService(repo, loc, logger),
		Chatbot:        chatbot.New(repo, maintenance, cache, loc, &cfg.Chatbot, logger.Named("chatbot")),
		Report: report.NewGenerator(repo,
			report.NewHTTPFetcher(cfg.Report.ImageFetchTimeout, cfg.Report.MaxImageBytes),
			loc, logger.Named("report")),
	}
}
