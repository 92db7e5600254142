package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ErrNotificationNotFound 通知不存在或不属于当前用户
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService 站内通知业务接口
type NotificationService interface {
	List(ctx context.Context, profileID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, profileID string) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id, profileID string) error
	MarkAllRead(ctx context.Context, profileID string) (*dto.MarkAllReadResponse, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, profileID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.List(ctx, profileID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("profile_id", profileID), zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		result = append(result, toNotificationResponse(&list[i]))
	}
	return result, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, profileID string) (*dto.UnreadCountResponse, error) {
	n, err := s.repo.Notification.CountUnread(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Unread: n}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, profileID string) error {
	if err := s.repo.Notification.MarkRead(ctx, id, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, profileID string) (*dto.MarkAllReadResponse, error) {
	n, err := s.repo.Notification.MarkAllRead(ctx, profileID)
	if err != nil {
		s.logger.Error("批量标记已读失败", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: n}, nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:                   n.NotificationID,
		Type:                 n.Type,
		Title:                n.Title,
		Message:              n.Message,
		IsRead:               n.IsRead,
		BookingID:            n.BookingID,
		MaintenanceRequestID: n.MaintenanceRequestID,
		CreatedAt:            dto.FormatTime(n.CreatedAt),
	}
}
