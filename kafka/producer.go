package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order events keyed by user id, so one user's orders
// land on one partition in order.
type Producer struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info("kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return newProducer(w, topic, logger)
}

func newProducer(w messageWriter, topic string, logger *zap.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: logger}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", evt.Event, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Event)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish order event",
			zap.String("order_id", evt.OrderID),
			zap.String("topic", p.topic),
			zap.Error(err),
		)
		return err
	}

	p.logger.Info("order event published",
		zap.String("order_id", evt.OrderID),
		zap.String("total", evt.Total),
		zap.String("topic", p.topic),
	)
	return nil
}

func (p *Producer) Close() error {
	p.logger.Info("closing kafka writer", zap.String("topic", p.topic))
	return p.writer.Close()
}
