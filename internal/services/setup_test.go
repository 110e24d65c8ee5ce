package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/config"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/orderbuilder"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func newReadThrough(client redis.UniversalClient) *cache.ReadThrough {
	return cache.NewReadThrough(cache.NewRedisCache(client, &config.Cache{DefaultTTL: time.Minute}))
}

func productByID(t *testing.T, id string) models.Product {
	t.Helper()

	p, ok := orderbuilder.FindProduct(repository.SeedProducts(), id)
	require.True(t, ok, "seed product %s", id)

	return p
}

// seedCart stores a Building workflow holding the given products, one unit
// per occurrence.
func seedCart(t *testing.T, sessions repository.SessionRepository, sessionID string, products ...models.Product) *orderbuilder.Workflow {
	t.Helper()

	wf := orderbuilder.NewWorkflow()
	for _, p := range products {
		require.NoError(t, wf.Mutate(func(c models.Cart) models.Cart { return orderbuilder.AddItem(c, p) }))
	}

	require.NoError(t, sessions.SaveWorkflow(t.Context(), sessionID, wf))

	return wf
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []*models.SubmittedOrder
}

func (p *recordingPublisher) PublishOrderSubmitted(_ context.Context, order *models.SubmittedOrder) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.orders = append(p.orders, order)

	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []*models.SubmittedOrder {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*models.SubmittedOrder, len(p.orders))
	copy(out, p.orders)

	return out
}
