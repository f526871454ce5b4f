package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fefebeatz/moungshop/internal/domain"
)

// OrderRecordedEvent is the payload published after a completed payment has
// been reconciled into an order document.
type OrderRecordedEvent struct {
	OrderID     string                 `json:"order_id"`
	OrderNumber string                 `json:"order_number"`
	SessionID   string                 `json:"session_id"`
	UserID      string                 `json:"user_id"`
	TotalPrice  int64                  `json:"total_price"`
	Currency    string                 `json:"currency"`
	Items       []domain.OrderLineItem `json:"items"`
	RecordedAt  time.Time              `json:"recorded_at"`
}

type OrderEventPublisher struct {
	writer *kafka.Writer
}

func NewOrderEventPublisher(brokers ...string) *OrderEventPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OrderEventPublisher{writer: w}
}

func (p *OrderEventPublisher) PublishOrderRecorded(ctx context.Context, order *domain.Order) error {
	event := OrderRecordedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		SessionID:   order.SessionID,
		UserID:      order.UserID,
		TotalPrice:  order.TotalPrice,
		Currency:    order.Currency,
		Items:       order.Items,
		RecordedAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.SessionID), // session id for ordering
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	return nil
}

func (p *OrderEventPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}
