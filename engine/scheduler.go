package engine

import (
	"math"

	"go-pulse/debug"
)

// ScanStep is the scheduler's scan increment in beats: finer than the
// finest schedulable note length, so at least one scan iteration lands
// on every trigger beat.
const ScanStep = 0.001

// epsilon absorbs float accumulation error when comparing beats that
// were advanced along the same scan grid.
const epsilon = 1e-9

// triggerUnset marks a trigger with no position; beats start at 1.0 so
// any negative value is safe.
const triggerUnset = -1.0

// Scheduler maintains one voice's trigger cursor across windows. Given
// each window's bounds and loop state it produces the trigger beats
// falling inside that window, advancing the trigger by the voice's
// step size after each firing and folding beats that cross the loop's
// right edge back inside the region.
//
// Not safe for concurrent use; calls are serialized by the window
// callback chain.
type Scheduler struct {
	trigger float64
}

// NewScheduler returns a scheduler with an unset trigger.
func NewScheduler() *Scheduler {
	return &Scheduler{trigger: triggerUnset}
}

// Reset clears the trigger. The next playing window re-initializes it
// to that window's start, so nothing stale from before a stop can
// fire.
func (s *Scheduler) Reset() { s.trigger = triggerUnset }

// Trigger returns the pending trigger beat, or a negative value when
// unset.
func (s *Scheduler) Trigger() float64 { return s.trigger }

// Advance walks the window and returns the fired beats in
// non-decreasing order. step is the beat distance between firings.
func (s *Scheduler) Advance(w Window, step float64) []float64 {
	var fired []float64
	s.Scan(w, step, nil, func(beat float64) {
		fired = append(fired, beat)
	})
	return fired
}

// Scan walks the window in ScanStep increments. tick (optional) runs
// once per increment so per-note envelopes stay phase-locked to the
// scan; fire runs at each trigger beat, which is also passed to tick
// first. A non-playing window resets the trigger and scans nothing;
// the caller is responsible for silencing any sounding output.
func (s *Scheduler) Scan(w Window, step float64, tick, fire func(beat float64)) {
	if !w.Playing {
		s.trigger = triggerUnset
		return
	}
	w.checkLoop()

	if s.trigger == triggerUnset {
		s.trigger = w.Start
	}

	// A prior block's step increment can overshoot the loop's right
	// edge. Re-anchor ahead of the window so the fold realigns it,
	// except straight after the seam where that would re-fire the
	// same musical position: there the window start takes over.
	if w.Looping && s.trigger >= w.Loop.Right-epsilon {
		anchor := math.Max(w.Loop.Right, w.End)
		if math.Abs(anchor-w.Loop.Right) < epsilon && math.Floor(w.Start) == w.Loop.Left {
			anchor = w.Start
		}
		s.trigger = anchor
	}

	// The beat at which wrapped positions re-enter this window.
	cycleEnd := math.Inf(-1)
	if w.Looping && w.End >= w.Loop.Right {
		cycleEnd = w.End - w.Loop.Len()
	}

	inRange := func(c float64) bool {
		return (c >= w.Start-epsilon && c < w.End-epsilon) ||
			(w.Looping && c < cycleEnd-epsilon)
	}
	for c := w.Start; inRange(c); c += ScanStep {
		if w.Looping && c >= w.Loop.Right-epsilon {
			c -= w.Loop.Len()
			s.trigger = c // the fold forces realignment
			if c < w.Loop.Left-epsilon {
				debug.LogBeat(c, "drift", "fell below loop left %.3f in %s", w.Loop.Left, w)
			}
		}
		if tick != nil {
			tick(c)
		}
		if c >= s.trigger-ScanStep/2 {
			fire(c)
			s.trigger += step
			if s.trigger < c {
				// Step sizes below the scan increment would leave the
				// trigger unreachable behind the cursor; snap forward.
				s.trigger = c
			}
		}
	}
}
