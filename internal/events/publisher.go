// Package events publishes order lifecycle events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// OrderPlaced is emitted once a canonical order has been stored.
type OrderPlaced struct {
	StorageID      string              `json:"id"`
	OrderID        string              `json:"orderId"`
	BuyerID        string              `json:"userId"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	PaymentMethod  model.PaymentMethod `json:"paymentMethod"`
	SellerIDs      []string            `json:"sellerIds"`
	SellerFailures int                 `json:"sellerFailures"`
	OccurredAt     time.Time           `json:"occurredAt"`
}

// NewOrderPlaced builds the event for order.
func NewOrderPlaced(order *model.Order, sellerFailures int) OrderPlaced {
	return OrderPlaced{
		StorageID:      order.StorageID,
		OrderID:        order.OrderID,
		BuyerID:        order.BuyerID,
		TotalAmount:    order.TotalAmount,
		PaymentMethod:  order.PaymentMethod,
		SellerIDs:      append([]string(nil), order.SellerIDs...),
		SellerFailures: sellerFailures,
		OccurredAt:     order.CreatedAt,
	}
}

// Publisher sends order events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	// batchTimeout bounds how long a single event waits for company in a
	// batch; publishing sits on the checkout request path.
	batchTimeout = 10 * time.Millisecond
	// publishTimeout caps one publish including the writer's retries.
	publishTimeout = 5 * time.Second
)

// KafkaPublisher writes events to a Kafka topic keyed by storage id, so
// every event for one order lands on the same partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewKafkaPublisher creates a publisher for topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		timeout: publishTimeout,
		logger:  logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// PublishOrderPlaced writes event to the topic.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.StorageID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("order.placed")},
		},
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("order_id", event.OrderID).Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().Str("order_id", event.OrderID).Msg("order event published")
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards events. It is used when no brokers are configured.
type Nop struct{}

// PublishOrderPlaced implements Publisher.
func (Nop) PublishOrderPlaced(context.Context, OrderPlaced) error {
	return nil
}

// Close implements Publisher.
func (Nop) Close() error {
	return nil
}
