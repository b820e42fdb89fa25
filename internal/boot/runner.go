package boot

import (
	"context"
	"time"
)

// Runner drives an Engine from the wall clock.
type Runner struct {
	engine   *Engine
	interval time.Duration
}

// NewRunner returns a Runner that advances e every interval. A non-positive
// interval uses the engine's tick.
func NewRunner(e *Engine, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = e.Timing().Tick
	}
	return &Runner{engine: e, interval: interval}
}

// Engine returns the driven engine.
func (r *Runner) Engine() *Engine { return r.engine }

// Run starts the engine with queue and blocks until the sequence completes,
// the engine is disposed, or ctx is done. Cancelling ctx disposes the engine,
// so onComplete never fires afterwards. All callbacks run on the calling
// goroutine.
func (r *Runner) Run(ctx context.Context, queue []BootMessage, onActivate ActivateFunc, onComplete CompleteFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := r.engine.Start(queue, onActivate, onComplete); err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for !r.engine.Done() {
		select {
		case <-ctx.Done():
			r.engine.Dispose()
			return ctx.Err()
		case <-ticker.C:
			r.engine.Advance(time.Since(start))
		}
	}
	return nil
}
