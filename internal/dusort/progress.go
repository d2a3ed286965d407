package dusort

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ProgressFunc receives the number of sized nodes and bytes seen so far.
type ProgressFunc func(files, bytes int64)

// counter tracks scan progress across walker goroutines.
type counter struct {
	files atomic.Int64
	bytes atomic.Int64
}

func (c *counter) record(size int64) {
	if c == nil {
		return
	}

	c.files.Add(1)
	c.bytes.Add(size)
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is
// done or stop is called. stop returns once no hook call is in flight.
func startProgressReporter(ctx context.Context, c *counter, hook ProgressFunc, interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.files.Load(), c.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
