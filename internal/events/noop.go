package events

import (
	"context"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
)

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishOrderSubmitted(context.Context, *models.SubmittedOrder) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
