// Package resilience guards calls to a flaky dependency with bounded retries
// and a circuit breaker.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type Settings struct {
	Name               string
	MaxRetries         int
	InitialInterval    time.Duration
	MaxInterval        time.Duration
	BreakerFailures    int
	BreakerOpenTimeout time.Duration
	// IsPermanent marks errors that are neither retried nor counted
	// against the breaker.
	IsPermanent   func(error) bool
	OnStateChange func(name string, from, to gobreaker.State)
}

func (s Settings) withDefaults() Settings {
	if s.InitialInterval <= 0 {
		s.InitialInterval = 50 * time.Millisecond
	}

	if s.MaxInterval <= 0 {
		s.MaxInterval = time.Second
	}

	if s.BreakerFailures <= 0 {
		s.BreakerFailures = 5
	}

	if s.BreakerOpenTimeout <= 0 {
		s.BreakerOpenTimeout = 30 * time.Second
	}

	if s.MaxRetries < 0 {
		s.MaxRetries = 0
	}

	if s.IsPermanent == nil {
		s.IsPermanent = func(error) bool { return false }
	}

	return s
}

type Executor[T any] struct {
	cb       *gobreaker.CircuitBreaker[T]
	settings Settings
}

func NewExecutor[T any](s Settings) *Executor[T] {
	s = s.withDefaults()

	failures := uint32(s.BreakerFailures)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || s.IsPermanent(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: s.OnStateChange,
	})

	return &Executor[T]{cb: cb, settings: s}
}

// Do runs op through the breaker, retrying transient failures with
// exponential backoff until MaxRetries or ctx is exhausted. An open breaker
// fails fast with ErrCircuitOpen.
func (e *Executor[T]) Do(ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.settings.InitialInterval
	b.MaxInterval = e.settings.MaxInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.settings.MaxRetries)), ctx)

	return backoff.RetryWithData(func() (T, error) {
		v, err := e.cb.Execute(func() (T, error) {
			return op(ctx)
		})
		if err == nil {
			return v, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) {
			return v, backoff.Permanent(ErrCircuitOpen)
		}

		if errors.Is(err, gobreaker.ErrTooManyRequests) {
			return v, backoff.Permanent(fmt.Errorf("%w: %w", ErrCircuitOpen, err))
		}

		if e.settings.IsPermanent(err) || ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}

		return v, err
	}, policy)
}

func (e *Executor[T]) State() gobreaker.State {
	return e.cb.State()
}
