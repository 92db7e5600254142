package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
)

// 路由键
const (
	BookingCreated      = "booking.created"
	BookingApproved     = "booking.approved"
	BookingRejected     = "booking.rejected"
	BookingCancelled    = "booking.cancelled"
	BookingAutoRejected = "booking.auto_rejected"
	BookingCompleted    = "booking.completed"

	MaintenanceCreated   = "maintenance.created"
	MaintenanceApproved  = "maintenance.approved"
	MaintenanceRejected  = "maintenance.rejected"
	MaintenanceCompleted = "maintenance.completed"
)

// Event 领域事件信封
type Event struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload,omitempty"`
}

// NewEvent 构造事件信封
func NewEvent(routingKey, aggregateID string, payload interface{}) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        routingKey,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

func (e Event) encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("序列化事件失败: %w", err)
	}
	return body, nil
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// New 根据 events.driver 创建发布器
func New(cfg *config.EventsConfig, logger *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "rabbitmq":
		return NewRabbitMQ(cfg.AMQPURL, cfg.Exchange, logger)
	case "kafka":
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	case "", "none":
		return NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("不支持的事件驱动: %s", cfg.Driver)
	}
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error { return nil }
