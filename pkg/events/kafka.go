package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher 以聚合 ID 为消息键写入单一主题，保证同一聚合有序
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafka 创建 Kafka 写入器（首次发布时才建立连接）
func NewKafka(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("events.kafka_brokers 不能为空")
	}
	if topic == "" {
		return nil, errors.New("events.kafka_topic 不能为空")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Sugar().Warnf("kafka: "+msg, args...)
		}),
	}

	logger.Info("Kafka 事件发布器就绪", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &KafkaPublisher{writer: writer, logger: logger}, nil
}

// Publish 写入一条事件消息
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.encode()
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.AggregateID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
			{Key: "id", Value: []byte(evt.ID)},
		},
	})
	if err != nil {
		return fmt.Errorf("写入 Kafka 失败: %w", err)
	}
	return nil
}

// Close 刷新并关闭写入器
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
