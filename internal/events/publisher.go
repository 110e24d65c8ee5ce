// Package events publishes domain events about submitted orders to a
// message broker. Publishing is best effort: a failed publish never
// fails the submission that triggered it.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/config"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderSubmittedEvent      = "order.submitted"
	OrderSubmittedRoutingKey = "order.submitted.v1"

	publishTimeout = 3 * time.Second
)

type Publisher interface {
	PublishOrderSubmitted(ctx context.Context, order *models.SubmittedOrder) error
	Close() error
}

type Envelope struct {
	EventID    uuid.UUID      `json:"event_id"`
	EventType  string         `json:"event_type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       OrderSubmitted `json:"data"`
}

type OrderLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderSubmitted struct {
	OrderID      uuid.UUID           `json:"order_id"`
	SessionID    string              `json:"session_id,omitempty"`
	Lines        []OrderLine         `json:"lines"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Discount     decimal.Decimal     `json:"discount"`
	Total        decimal.Decimal     `json:"total"`
	PaymentTerms models.PaymentTerms `json:"payment_terms"`
	CreatedAt    time.Time           `json:"created_at"`
}

func NewOrderSubmitted(order *models.SubmittedOrder) Envelope {
	lines := make([]OrderLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, OrderLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	return Envelope{
		EventID:    uuid.New(),
		EventType:  OrderSubmittedEvent,
		OccurredAt: time.Now().UTC(),
		Data: OrderSubmitted{
			OrderID:      order.ID,
			SessionID:    order.SessionID,
			Lines:        lines,
			Subtotal:     order.Subtotal,
			Discount:     order.Discount,
			Total:        order.Total,
			PaymentTerms: order.PaymentTerms,
			CreatedAt:    order.CreatedAt,
		},
	}
}

// New builds the publisher selected by cfg.Driver.
func New(cfg config.Events) (Publisher, error) {
	switch cfg.Driver {
	case "kafka":
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic), nil
	case "rabbitmq":
		return NewRabbitPublisher(cfg.AMQPURL, cfg.Exchange)
	case "none", "":
		return NewNoopPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
