package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const exchangeKind = "topic"

// RabbitMQPublisher 发布到 topic 交换机，消息持久化
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewRabbitMQ 建立连接并声明交换机
func NewRabbitMQ(url, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if exchange == "" {
		return nil, errors.New("events.exchange 不能为空")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接 RabbitMQ 失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("打开 RabbitMQ 通道失败: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("声明交换机失败: %w", err)
	}

	logger.Info("RabbitMQ 事件发布器就绪", zap.String("exchange", exchange))
	return &RabbitMQPublisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// Publish 以事件类型作为路由键发布
func (p *RabbitMQPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.encode()
	if err != nil {
		return err
	}

	// amqp.Channel 不支持并发发布
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, evt.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Timestamp:    evt.OccurredAt,
		Type:         evt.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}

	p.logger.Debug("事件已发布",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", evt.Type),
		zap.String("aggregate_id", evt.AggregateID),
	)
	return nil
}

// Close 关闭通道与连接
func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
