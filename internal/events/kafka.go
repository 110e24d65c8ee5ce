package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher keys every message by order id so that all events of
// one order land on the same partition.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *kafkaPublisher) PublishOrderSubmitted(ctx context.Context, order *models.SubmittedOrder) error {
	ev := NewOrderSubmitted(order)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.EventType, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.w.WriteMessages(pubCtx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
			{Key: "event_id", Value: []byte(ev.EventID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", ev.EventType, err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.w.Close()
}
