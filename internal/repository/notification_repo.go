package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, profileID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, profileID string) (int64, error)
	// MarkRead 仅能标记本人的通知，未命中返回 gorm.ErrRecordNotFound
	MarkRead(ctx context.Context, id, profileID string) error
	MarkAllRead(ctx context.Context, profileID string) (int64, error)
}

// notificationRepo NotificationRepository 的 GORM 实现
type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) List(ctx context.Context, profileID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("profile_id = ?", profileID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Notification
	err := db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *notificationRepo) CountUnread(ctx context.Context, profileID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, profileID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ? AND profile_id = ?", id, profileID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, profileID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
