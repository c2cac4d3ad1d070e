package background

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Background tracks the goroutines spawned by handlers (payment and
// download timers, recovery emails) so shutdown can wait for them.
type Background struct {
	log logrus.FieldLogger
	wg  sync.WaitGroup
}

func New(log logrus.FieldLogger) *Background {
	return &Background{log: log}
}

// Add runs fn on its own goroutine, recovering panics into the log.
func (b *Background) Add(fn func()) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		defer func() {
			if rec := recover(); rec != nil {
				b.log.WithField("message", fmt.Sprintf("%v", rec)).Error("PANIC in background task")
			}
		}()

		fn()
	}()
}

// Shutdown waits for all tracked tasks, bounded by ctx.
func (b *Background) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for background tasks: %w", ctx.Err())
	}
}
