package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionLock allows at most one in-flight submission per session.
type SubmissionLock interface {
	// Acquire returns acquired=false when another submission holds the lock.
	// release must be called once the submission settles.
	Acquire(ctx context.Context, sessionID string) (release func(), acquired bool, err error)
}

// deletes the key only if it still belongs to the caller
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisSubmissionLock struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSubmissionLock(client redis.UniversalClient, ttl time.Duration) SubmissionLock {
	return &redisSubmissionLock{client: client, ttl: ttl}
}

func (l *redisSubmissionLock) Acquire(ctx context.Context, sessionID string) (func(), bool, error) {
	key := cache.Key(cache.LockKeyPrefix, sessionID)
	owner := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, owner, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire submission lock: %w", err)
	}

	if !ok {
		return func() {}, false, nil
	}

	release := func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, owner).Err(); err != nil {
			slog.Warn("Failed to release submission lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return release, true, nil
}
