// Package purger runs the background worker that drops expired blacklist
// entries.
package purger

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/videohub/internal/logging"
)

type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.ticker.C }
func (t timeTicker) Stop()               { t.ticker.Stop() }

type TickerFactory func(time.Duration) Ticker

// Start launches the worker and returns a stop function that waits for it to
// exit. A nil target or a non-positive interval starts nothing.
func Start(ctx context.Context, logger logging.Logger, target Purger, interval time.Duration) func() {
	return StartWithTicker(ctx, logger, target, interval, func(d time.Duration) Ticker {
		return timeTicker{ticker: time.NewTicker(d)}
	})
}

func StartWithTicker(
	ctx context.Context,
	logger logging.Logger,
	target Purger,
	interval time.Duration,
	newTicker TickerFactory,
) func() {
	if target == nil || interval <= 0 {
		return func() {}
	}
	workerCtx, cancel := context.WithCancel(ctx)
	ticker := newTicker(interval)
	done := make(chan struct{})
	go func() {
		defer func() {
			ticker.Stop()
			close(done)
		}()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C():
				n, err := target.PurgeExpired(workerCtx)
				if err != nil {
					logger.Error(workerCtx, "failed to purge expired blacklist entries", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug(workerCtx, "purged expired blacklist entries", "count", n)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
