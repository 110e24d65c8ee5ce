package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/orderbuilder"
	"github.com/redis/go-redis/v9"
)

// SessionRepository owns the one order-building workflow of each session.
type SessionRepository interface {
	// GetWorkflow returns a fresh Building workflow when none is stored.
	GetWorkflow(ctx context.Context, sessionID string) (*orderbuilder.Workflow, error)
	SaveWorkflow(ctx context.Context, sessionID string, wf *orderbuilder.Workflow) error
	DeleteWorkflow(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSessionRepo(client redis.UniversalClient, ttl time.Duration) SessionRepository {
	return &sessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return cache.Key(cache.SessionKeyPrefix, sessionID)
}

func (r *sessionRepository) GetWorkflow(ctx context.Context, sessionID string) (*orderbuilder.Workflow, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return orderbuilder.NewWorkflow(), nil
		}

		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var wf orderbuilder.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}

	return &wf, nil
}

func (r *sessionRepository) SaveWorkflow(ctx context.Context, sessionID string, wf *orderbuilder.Workflow) error {
	data, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}

	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	return nil
}

func (r *sessionRepository) DeleteWorkflow(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	return nil
}
