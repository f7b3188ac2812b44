// Package session owns the stateful side of the CRM: fetching order lists
// with retry and cache, the per-order edit buffer with dirty tracking, and
// the save paths that persist it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kendall-kelly/garment-crm/config"
)

var (
	// ErrAborted is returned by a fetch that was superseded or cancelled. It is never reported.
	ErrAborted = errors.New("fetch aborted")
	// ErrTimeout is returned by an attempt that outlived the fetch timeout
	ErrTimeout = errors.New("fetch timed out")
)

// FetchOptions bound a fetch. Attempt n that fails waits n*Delay before the next one.
type FetchOptions struct {
	Timeout  time.Duration
	Attempts int
	Delay    time.Duration
}

// DefaultFetchOptions: 15s per attempt, 3 attempts, 1s linear backoff step
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{Timeout: 15 * time.Second, Attempts: 3, Delay: time.Second}
}

// FetchOptionsFromConfig reads the fetch bounds from the configuration
func FetchOptionsFromConfig(cfg *config.Config) FetchOptions {
	opts := DefaultFetchOptions()
	if cfg.FetchTimeout > 0 {
		opts.Timeout = cfg.FetchTimeout
	}
	if cfg.FetchAttempts > 0 {
		opts.Attempts = cfg.FetchAttempts
	}
	return opts
}

// Fetcher runs one fetch family: at most one fetch is live, and starting a
// new one aborts the previous. Cached values are painted before the network
// answers; a failure is notified once, after the last attempt.
type Fetcher[T any] struct {
	name  string
	opts  FetchOptions
	cache KeyValueCache
	sink  NotificationSink

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	loading bool
}

type attemptResult[T any] struct {
	value T
	err   error
}

// NewFetcher creates a fetch family named name (used in logs and notifications)
func NewFetcher[T any](name string, cache KeyValueCache, sink NotificationSink, opts FetchOptions) *Fetcher[T] {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &Fetcher[T]{name: name, opts: opts, cache: cache, sink: sink}
}

// Loading reports whether a fetch is in flight
func (f *Fetcher[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Abort cancels the live fetch. Its results are dropped.
func (f *Fetcher[T]) Abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	f.loading = false
}

// Fetch loads the value stored under key. paint receives the cached value
// (if any) and then the fresh one, and is never called for an aborted fetch.
// paint runs under the fetcher's lock and must not call back into it.
func (f *Fetcher[T]) Fetch(ctx context.Context, key string, load func(context.Context) (T, error), paint func(T)) (T, error) {
	var zero T

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	f.gen++
	gen := f.gen
	f.cancel = cancel
	f.loading = true
	f.mu.Unlock()
	defer cancel()

	if cached, ok := loadCached[T](f.cache, key); ok {
		f.deliver(gen, false, func() { paint(cached) })
	}

	var lastErr error
	for attempt := 1; attempt <= f.opts.Attempts; attempt++ {
		value, err := f.attempt(ctx, load)
		if ctx.Err() != nil || errors.Is(err, ErrAborted) {
			f.deliver(gen, true, func() {})
			return zero, ErrAborted
		}
		if err == nil {
			if !f.deliver(gen, true, func() {
				storeCached(f.cache, key, value)
				paint(value)
			}) {
				return zero, ErrAborted
			}
			return value, nil
		}

		lastErr = err
		log.Printf("[FETCH] %s attempt %d/%d failed: %v", f.name, attempt, f.opts.Attempts, err)
		if attempt < f.opts.Attempts {
			if err := wait(ctx, time.Duration(attempt)*f.opts.Delay); err != nil {
				f.deliver(gen, true, func() {})
				return zero, ErrAborted
			}
		}
	}

	err := fmt.Errorf("failed to load %s after %d attempts: %w", f.name, f.opts.Attempts, lastErr)
	if !f.deliver(gen, true, func() {
		notify(f.sink, LevelError, fmt.Sprintf("Failed to load %s. Please try again.", f.name))
	}) {
		return zero, ErrAborted
	}
	return zero, err
}

// deliver runs fn when gen is still the live fetch. done marks the fetch finished.
func (f *Fetcher[T]) deliver(gen uint64, done bool, fn func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return false
	}
	if done {
		f.loading = false
		f.cancel = nil
	}
	fn()
	return true
}

// attempt races one load against the timeout
func (f *Fetcher[T]) attempt(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	var zero T
	actx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	ch := make(chan attemptResult[T], 1)
	go func() {
		v, err := load(actx)
		ch <- attemptResult[T]{value: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-actx.Done():
		if ctx.Err() != nil {
			return zero, ErrAborted
		}
		return zero, fmt.Errorf("%w after %s", ErrTimeout, f.opts.Timeout)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
