package learning

import (
	"context"
	"log/slog"
	"sync"
)

// BackgroundSyncer pushes the local state to the cloud off the caller's path. Requests
// made while a push is pending are coalesced into it and failures are only logged.
type BackgroundSyncer struct {
	store  *Store
	logger *slog.Logger

	requests chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stop     chan struct{}
}

func NewBackgroundSyncer(store *Store, logger *slog.Logger) *BackgroundSyncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackgroundSyncer{
		store:    store,
		logger:   logger,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
	}
}

// Start runs the worker until ctx is canceled or Close is called.
func (b *BackgroundSyncer) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stop:
				// flush a request that raced with Close
				select {
				case <-b.requests:
					b.push(ctx)
				default:
				}
				return
			case <-b.requests:
				b.push(ctx)
			}
		}
	}()
}

// Request schedules a push without blocking.
func (b *BackgroundSyncer) Request() {
	select {
	case b.requests <- struct{}{}:
	default:
	}
}

// Close flushes a pending request and waits for the worker to exit. Start must have
// been called.
func (b *BackgroundSyncer) Close() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	<-b.done
}

func (b *BackgroundSyncer) push(ctx context.Context) {
	if err := b.store.SyncToCloud(ctx); err != nil {
		b.logger.Warn("background learning sync failed", slog.Any("error", err))
	}
}
