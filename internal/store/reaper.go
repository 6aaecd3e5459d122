package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sujalbistaa/messmate/pkg/logger"
)

// DefaultReapInterval is how often the reaper prunes expired rows. The
// read-side visibility filter makes the exact cadence a storage-hygiene
// concern rather than a correctness one.
const DefaultReapInterval = time.Minute

// Reaper periodically deletes expired posts from storage.
type Reaper struct {
	store    *Store
	interval time.Duration
}

func NewReaper(store *Store, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &Reaper{store: store, interval: interval}
}

// Start launches the sweep loop and returns a stop function that blocks
// until the loop has exited (or the passed context is done).
func (r *Reaper) Start() func(context.Context) error {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				n, err := r.store.Sweep(ctx)
				cancel()
				if err != nil {
					logger.Warn("reaper sweep failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("reaper pruned expired posts", zap.Int64("count", n))
				}
			case <-stopCh:
				return
			}
		}
	}()

	return func(ctx context.Context) error {
		close(stopCh)
		select {
		case <-doneCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
