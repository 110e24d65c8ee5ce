package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type rabbitPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
}

func NewRabbitPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newRabbitPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn

	return p, nil
}

// newRabbitPublisher declares the topic exchange up front so a publish
// never fails on missing infrastructure.
func newRabbitPublisher(ch amqpChannel, exchange string) (*rabbitPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &rabbitPublisher{ch: ch, exchange: exchange}, nil
}

func (p *rabbitPublisher) PublishOrderSubmitted(ctx context.Context, order *models.SubmittedOrder) error {
	ev := NewOrderSubmitted(order)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.EventType, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		OrderSubmittedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID.String(),
			Type:         ev.EventType,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

func (p *rabbitPublisher) Close() error {
	err := p.ch.Close()

	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}

	return err
}
