package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	// CheckSubmissionRateLimit records one attempt and returns
	// isAllowed, attempts left, seconds to wait.
	CheckSubmissionRateLimit(ctx context.Context, sessionID string) (bool, int, int, error)
}

type redisRepository struct {
	client redis.UniversalClient
	cfg    config.RateConfig
}

func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	slog.Info("Connecting to Redis", slog.String("addr", cfg.RedisConnect.Addr()), slog.Int("db", cfg.RedisConnect.DB))

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis")

	return client, nil
}

func NewRateLimitRepo(client redis.UniversalClient, cfg config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg}
}

// Sliding window over a sorted set: one unique member per attempt, scored by
// its unix time in nanoseconds.
func (r *redisRepository) CheckSubmissionRateLimit(ctx context.Context, sessionID string) (bool, int, int, error) {
	logger := middleware.LoggerFromContext(ctx)

	key := cache.Key(cache.RateLimitPrefix, sessionID)
	window := r.cfg.WindowSize

	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10) + "-" + uuid.NewString()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))

		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()

	if attempts > r.cfg.MaxAttempts {
		scores, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil || len(scores) == 0 {
			return false, 0, int(window.Seconds()), fmt.Errorf("failed to get oldest attempt time: %w", err)
		}

		oldest := int64(scores[0].Score)
		retryAfter := time.Duration(max(oldest+window.Nanoseconds()-now, 0))

		logger.Warn("Submission rate limit exceeded", slog.String("sessionID", sessionID), slog.Int64("attempts", attempts))

		return false, 0, int(retryAfter.Round(time.Second).Seconds()), nil
	}

	remaining := r.cfg.MaxAttempts - attempts

	logger.Debug("Rate limit check passed", slog.String("sessionID", sessionID), slog.Int64("remaining", remaining))

	return true, int(remaining), 0, nil
}
