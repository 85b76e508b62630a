package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ordertrack/order-service/internal/models"
)

const Topic = "order_events"

type orderEvent struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Keyed by order id so every event for one order lands on the same partition.
func (p *Producer) PublishOrderEvent(ctx context.Context, eventType string, order *models.Order) error {
	data, err := json.Marshal(orderEvent{Type: eventType, Order: order})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
