package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/abrekoglu/lignovia-store-sub001/logger"
	"github.com/abrekoglu/lignovia-store-sub001/models"
)

// ProducerAPI is the subset of Producer the services depend on.
type ProducerAPI interface {
	Publish(ctx context.Context, key, value []byte) error
	SendOrderCreated(ctx context.Context, evt models.OrderCreatedEvent) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Log.Info("Kafka producer initialized",
		zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: w, topic: topic}
}

// Publish writes a raw message keyed for per-order partition ordering.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

// SendOrderCreated publishes an order-created event keyed by order id.
func (p *Producer) SendOrderCreated(ctx context.Context, evt models.OrderCreatedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := p.Publish(ctx, []byte(evt.OrderID), data); err != nil {
		logger.Log.Error("failed to publish order-created event",
			zap.String("order_id", evt.OrderID), zap.String("topic", p.topic), zap.Error(err))
		return err
	}
	logger.Log.Info("order-created event published",
		zap.String("order_id", evt.OrderID), zap.String("topic", p.topic))
	return nil
}

func (p *Producer) Close() error {
	logger.Log.Info("closing Kafka producer", zap.String("topic", p.topic))
	return p.writer.Close()
}
