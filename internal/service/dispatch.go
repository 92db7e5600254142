package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/mailer"
)

// dispatcher 事务提交后的下游投递：站内通知、邮件、领域事件
// 任一投递失败只记录 Warn 日志，不影响主流程结果
type dispatcher struct {
	repo    *repository.Repository
	mail    mailer.Sender
	pub     events.Publisher
	baseURL string
	logger  *zap.Logger
}

func newDispatcher(repo *repository.Repository, mail mailer.Sender, pub events.Publisher, baseURL string, logger *zap.Logger) *dispatcher {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &dispatcher{
		repo:    repo,
		mail:    mail,
		pub:     pub,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// notify 写入一条站内通知
func (d *dispatcher) notify(ctx context.Context, n *model.Notification) {
	if n.ProfileID == "" {
		return
	}
	if err := d.repo.Notification.Create(ctx, n); err != nil {
		d.logger.Warn("写入通知失败",
			zap.String("profile_id", n.ProfileID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
	}
}

// email 发送邮件
func (d *dispatcher) email(ctx context.Context, msg mailer.Message) {
	if d.mail == nil || len(msg.To) == 0 || msg.To[0] == "" {
		return
	}
	if err := d.mail.Send(ctx, msg); err != nil {
		d.logger.Warn("发送邮件失败",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
}

// publish 发布领域事件
func (d *dispatcher) publish(ctx context.Context, routingKey, aggregateID string, payload interface{}) {
	if err := d.pub.Publish(ctx, events.NewEvent(routingKey, aggregateID, payload)); err != nil {
		d.logger.Warn("发布事件失败",
			zap.String("routing_key", routingKey),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}

func (d *dispatcher) bookingLink(id string) string {
	return d.baseURL + "/bookings/" + id
}

func (d *dispatcher) maintenanceLink(id string) string {
	return d.baseURL + "/maintenance/" + id
}

func strPtr(s string) *string {
	return &s
}
