package dph

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/dph-client/internal/constants"
)

// BatchResult is the outcome of draining the pager of one key.
type BatchResult[T any] struct {
	Key      string
	Items    []T
	Error    error
	Duration time.Duration
}

// BatchExecutor drains many independent pagers, a bounded number at a time.
// Every pager is owned by a single goroutine.
type BatchExecutor struct {
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor. A non-positive concurrency uses the default.
func NewBatchExecutor(concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		concurrency: concurrency,
	}
}

// SetTimeout bounds the time spent draining each pager. Zero means no bound.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// DrainPagers builds one pager per key with newPager and drains it with All.
//
// Results are returned in key order. A failing key does not stop the others;
// its error is reported in its BatchResult. Cancelling ctx stops pending keys.
func DrainPagers[T any](ctx context.Context, executor *BatchExecutor, keys []string, newPager func(key string) (*Pager[T], error)) []BatchResult[T] {
	if executor == nil {
		executor = NewBatchExecutor(0)
	}

	results := make([]BatchResult[T], len(keys))

	var group errgroup.Group

	group.SetLimit(executor.concurrency)

	for index, key := range keys {
		group.Go(func() error {
			results[index] = drainOne(ctx, executor.timeout, key, newPager)

			return nil
		})
	}

	_ = group.Wait()

	return results
}

func drainOne[T any](ctx context.Context, timeout time.Duration, key string, newPager func(key string) (*Pager[T], error)) BatchResult[T] {
	start := time.Now()
	items, err := drainKey(ctx, timeout, key, newPager)

	return BatchResult[T]{Key: key, Items: items, Error: err, Duration: time.Since(start)}
}

func drainKey[T any](ctx context.Context, timeout time.Duration, key string, newPager func(key string) (*Pager[T], error)) ([]T, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pager, err := newPager(key)
	if err != nil {
		return nil, err
	}

	return pager.All(ctx)
}
