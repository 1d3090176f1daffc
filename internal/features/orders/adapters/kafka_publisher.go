package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"restaurant-orders/internal/core/config"
	"restaurant-orders/internal/core/logger"
)

// kafkaWriter is the subset of kafka.Writer the publisher needs.
// Narrowed for testability.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher implements the EventPublisher interface on a Kafka
// producer. Events are JSON-serialized; the message key is the order id when
// the payload carries one, so events for the same order land on one partition.
type KafkaEventPublisher struct {
	writer       kafkaWriter
	defaultTopic string
}

// NewKafkaEventPublisher creates a producer for the configured brokers.
func NewKafkaEventPublisher(cfg config.KafkaConfig) *KafkaEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.Brokers, ",")...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &KafkaEventPublisher{
		writer:       writer,
		defaultTopic: cfg.OrderTopic,
	}
}

// PublishEvent publishes a single event. An empty topic selects the default
// topic. Failures propagate to the caller; there is no retry here.
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, eventType string, payload any, topic string) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	if topic == "" {
		topic = p.defaultTopic
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   eventKey(value),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Get().Error("Failed to publish event",
			zap.String("event_type", eventType),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	logger.Get().Info("Event published",
		zap.String("event_type", eventType),
		zap.String("topic", topic),
	)
	return nil
}

// Close flushes and closes the underlying producer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

// eventKey extracts the order id from the serialized payload for partitioning.
// Payloads without an order id get a nil key and are balanced freely.
func eventKey(value []byte) []byte {
	var probe struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(value, &probe); err != nil || probe.OrderID == "" {
		return nil
	}
	return []byte(probe.OrderID)
}
