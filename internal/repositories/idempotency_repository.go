package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository maps client request tokens to the order they created.
// Postgres holds the durable copy through the unique request_token column.
type IdempotencyRepository interface {
	Lookup(ctx context.Context, token string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, token string, orderID uuid.UUID) error
}

type idempotencyRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewIdempotencyRepo(client redis.UniversalClient, ttl time.Duration) IdempotencyRepository {
	return &idempotencyRepository{client: client, ttl: ttl}
}

func (r *idempotencyRepository) Lookup(ctx context.Context, token string) (uuid.UUID, bool, error) {
	raw, err := r.client.Get(ctx, cache.Key(cache.IdempotencyPrefix, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}

		return uuid.Nil, false, fmt.Errorf("failed to look up request token: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt request token entry: %w", err)
	}

	return id, true, nil
}

func (r *idempotencyRepository) Remember(ctx context.Context, token string, orderID uuid.UUID) error {
	err := r.client.Set(ctx, cache.Key(cache.IdempotencyPrefix, token), orderID.String(), r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store request token: %w", err)
	}

	return nil
}
