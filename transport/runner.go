package transport

import (
	"context"
	"time"

	"go-pulse/debug"
	"go-pulse/engine"
)

// Runner drives an engine from a clock in real time: one process block
// per tick, paced by the block's wall-clock duration. It owns the only
// goroutine that calls Engine.Process, so the engine sees the strictly
// serialized window stream it requires.
type Runner struct {
	clock  *Clock
	engine *engine.Engine

	// UpdateChan receives a signal after every processed block. Buffered
	// with capacity 1; sends never block.
	UpdateChan chan struct{}
}

// NewRunner pairs a clock with an engine.
func NewRunner(clock *Clock, eng *engine.Engine) *Runner {
	return &Runner{
		clock:      clock,
		engine:     eng,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Clock returns the transport clock for UI control.
func (r *Runner) Clock() *Clock { return r.clock }

// Engine returns the driven engine.
func (r *Runner) Engine() *engine.Engine { return r.engine }

// Run processes blocks until ctx is cancelled. The tick interval is
// the block's wall-clock length, which depends only on block size and
// sample rate: tempo changes alter how many beats a block covers, not
// how long it takes.
func (r *Runner) Run(ctx context.Context) {
	secPerBeat := 60.0 / r.clock.Tempo()
	blockDur := time.Duration(r.clock.BlockBeats() * secPerBeat * float64(time.Second))
	ticker := time.NewTicker(blockDur)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final stopped block so sounding notes are silenced.
			r.clock.Stop()
			r.engine.Process(r.clock.Next())
			return
		case <-ticker.C:
			w := r.clock.Next()
			r.engine.Process(w)
			debug.LogEvery(500, "transport", "block %s", w)
			select {
			case r.UpdateChan <- struct{}{}:
			default:
			}
		}
	}
}
