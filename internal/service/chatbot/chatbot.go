// Package chatbot 基于规则的聊天查询路由：识别意图后分派到各查询处理函数
package chatbot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
)

// ErrUnknownProfile 调用方档案不存在
var ErrUnknownProfile = errors.New("profile not found")

// UnknownReply 无法识别意图时的固定回复
const UnknownReply = "I'm not sure how to help with that. You can ask about hall availability, your bookings, pending approvals, equipment, hall details or maintenance."

// MaintenanceCreator 维修申请创建能力，由维修服务实现
type MaintenanceCreator interface {
	Create(ctx context.Context, req *dto.CreateMaintenanceRequest, actorID string) (*dto.MaintenanceResponse, error)
}

// Bot 聊天机器人
type Bot struct {
	repo     *repository.Repository
	maint    MaintenanceCreator
	cache    Cache
	loc      *time.Location
	defaults WindowDefaults
	now      func() time.Time
	logger   *zap.Logger
}

// New 创建 Bot；cache 可为 nil
func New(repo *repository.Repository, maint MaintenanceCreator, cache Cache, loc *time.Location, cfg *config.ChatbotConfig, logger *zap.Logger) *Bot {
	if loc == nil {
		loc = time.UTC
	}
	def := DefaultWindow
	if cfg != nil && cfg.DefaultDuration > 0 {
		def = WindowDefaults{StartHour: cfg.DefaultStartHour, Duration: cfg.DefaultDuration}
	}
	return &Bot{
		repo:     repo,
		maint:    maint,
		cache:    cache,
		loc:      loc,
		defaults: def,
		now:      time.Now,
		logger:   logger,
	}
}

// caller 本次对话的调用方
type caller struct {
	profile *model.Profile
	role    string
}

// Reply 处理一条消息并返回回复文本
func (b *Bot) Reply(ctx context.Context, profileID, message string) (string, error) {
	p, err := b.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnknownProfile
		}
		return "", err
	}
	c := &caller{profile: p, role: primaryRole(p)}

	intent := Classify(message, c.role)
	b.logger.Debug("聊天意图识别",
		zap.String("profile_id", profileID),
		zap.String("role", c.role),
		zap.String("intent", string(intent)),
	)

	switch intent {
	case IntentAvailability:
		return b.availability(ctx, message)
	case IntentMyBookings:
		return b.myBookings(ctx, c)
	case IntentHODPendingBookings:
		return b.hodPending(ctx, c)
	case IntentEquipment:
		return b.equipment(ctx, message)
	case IntentHallInfo:
		return b.hallInfo(ctx, message)
	case IntentMaintenance:
		return b.maintenance(ctx, c, message)
	}
	return UnknownReply, nil
}

// halls 全部礼堂名称，命中缓存时不查库
func (b *Bot) halls(ctx context.Context) ([]HallRef, error) {
	var refs []HallRef
	if b.cache != nil {
		if err := b.cache.GetJSON(ctx, hallCacheKey, &refs); err == nil {
			return refs, nil
		}
	}

	halls, err := b.repo.Hall.List(ctx, "")
	if err != nil {
		return nil, err
	}
	refs = make([]HallRef, 0, len(halls))
	for _, h := range halls {
		refs = append(refs, HallRef{ID: h.HallID, Name: h.Name})
	}

	if b.cache != nil {
		if err := b.cache.SetJSON(ctx, hallCacheKey, refs, hallCacheTTL); err != nil {
			b.logger.Debug("写入礼堂名称缓存失败", zap.Error(err))
		}
	}
	return refs, nil
}

// resolve 消息中提到的礼堂，未提到返回 nil
func (b *Bot) resolve(ctx context.Context, message string) (*HallRef, []HallRef, error) {
	refs, err := b.halls(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ResolveHall(message, refs), refs, nil
}

func primaryRole(p *model.Profile) string {
	for _, r := range []string{model.RoleHOD, model.RoleTechStaff, model.RoleTeacher} {
		if p.HasRole(r) {
			return r
		}
	}
	return ""
}
