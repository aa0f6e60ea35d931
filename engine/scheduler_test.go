package engine

import (
	"math"
	"testing"
)

func beatsEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSchedulerContiguousWindowsNoMissNoDuplicate(t *testing.T) {
	s := NewScheduler()
	step := 0.25

	var fired []float64
	for start := 1.0; start < 5.0; start++ {
		w := Window{Start: start, End: start + 1, Playing: true}
		fired = append(fired, s.Advance(w, step)...)
	}

	if want, got := 16, len(fired); want != got {
		t.Fatalf("wrong firing count: want %v, got %v (%v)", want, got, fired)
	}
	for i, beat := range fired {
		if want := 1.0 + float64(i)*step; !beatsEqual(want, beat) {
			t.Errorf("firing %d: want beat %v, got %v", i, want, beat)
		}
	}
}

func TestSchedulerFirstWindowStartsAtWindowStart(t *testing.T) {
	s := NewScheduler()
	fired := s.Advance(Window{Start: 3.0, End: 4.0, Playing: true}, 0.5)
	if len(fired) == 0 || !beatsEqual(fired[0], 3.0) {
		t.Errorf("want first firing at 3.0, got %v", fired)
	}
}

func TestSchedulerStopResetsTrigger(t *testing.T) {
	s := NewScheduler()
	step := 0.5

	s.Advance(Window{Start: 1.0, End: 2.0, Playing: true}, step)
	if fired := s.Advance(Window{Start: 2.0, End: 3.0, Playing: false}, step); len(fired) != 0 {
		t.Fatalf("stopped window fired: %v", fired)
	}

	// Resuming elsewhere must fire from the new window's start, not
	// from any pre-stop trigger.
	fired := s.Advance(Window{Start: 5.0, End: 6.0, Playing: true}, step)
	if len(fired) == 0 || !beatsEqual(fired[0], 5.0) {
		t.Errorf("want first post-stop firing at 5.0, got %v", fired)
	}
}

func TestSchedulerLoopWraparound(t *testing.T) {
	s := NewScheduler()
	loop := LoopRegion{Left: 4, Right: 8}
	w := Window{Start: 7, End: 9, Playing: true, Looping: true, Loop: loop}

	fired := s.Advance(w, 0.5)

	for _, beat := range fired {
		if beat >= loop.Right {
			t.Errorf("firing beat %v not folded below loop right %v", beat, loop.Right)
		}
	}

	// Beats before the seam, then wrapped beats in [4, 6).
	want := []float64{7.0, 7.5, 4.0, 4.5}
	if len(fired) != len(want) {
		t.Fatalf("wrong firings: want %v, got %v", want, fired)
	}
	for i := range want {
		if !beatsEqual(want[i], fired[i]) {
			t.Errorf("firing %d: want %v, got %v", i, want[i], fired[i])
		}
	}
}

func TestSchedulerLoopSeamNoDoubleFire(t *testing.T) {
	s := NewScheduler()
	loop := LoopRegion{Left: 4, Right: 8}

	w1 := Window{Start: 7, End: 8, Playing: true, Looping: true, Loop: loop}
	first := s.Advance(w1, 0.5)

	// Host folds the playhead: next window starts at the loop left.
	w2 := Window{Start: 4, End: 5, Playing: true, Looping: true, Loop: loop}
	second := s.Advance(w2, 0.5)

	if want := []float64{7.0, 7.5}; len(first) != len(want) {
		t.Fatalf("pre-seam firings: want %v, got %v", want, first)
	}
	if len(second) == 0 || !beatsEqual(second[0], 4.0) {
		t.Fatalf("want post-seam firing at 4.0 exactly once, got %v", second)
	}
	for i := 1; i < len(second); i++ {
		if beatsEqual(second[i], second[0]) {
			t.Errorf("beat %v fired twice across the loop seam", second[0])
		}
	}
}

func TestSchedulerTriggerReanchorAfterOvershoot(t *testing.T) {
	s := NewScheduler()
	loop := LoopRegion{Left: 4, Right: 8}

	// Step of 0.6 overshoots the right edge: last firing at 7.8 leaves
	// the trigger at 8.4, outside the loop.
	w1 := Window{Start: 7, End: 8, Playing: true, Looping: true, Loop: loop}
	s.Advance(w1, 0.6)
	if s.Trigger() < loop.Right {
		t.Fatalf("expected overshot trigger >= %v, got %v", loop.Right, s.Trigger())
	}

	w2 := Window{Start: 4, End: 5, Playing: true, Looping: true, Loop: loop}
	fired := s.Advance(w2, 0.6)
	if len(fired) == 0 || !beatsEqual(fired[0], 4.0) {
		t.Errorf("want re-anchored firing at 4.0, got %v", fired)
	}
}

func TestSchedulerStepBelowScanIncrement(t *testing.T) {
	s := NewScheduler()
	w := Window{Start: 1.0, End: 1.01, Playing: true}

	// A step smaller than the scan increment snaps forward: one firing
	// per scan iteration, never a stall.
	fired := s.Advance(w, ScanStep/4)
	if want, got := 10, len(fired); want != got {
		t.Errorf("want %v firings, got %v (%v)", want, got, fired)
	}
	for i := 1; i < len(fired); i++ {
		if fired[i] < fired[i-1] {
			t.Fatalf("firings not non-decreasing: %v", fired)
		}
	}
}

func TestSchedulerTickPhaseLock(t *testing.T) {
	s := NewScheduler()
	w := Window{Start: 1.0, End: 2.0, Playing: true}

	ticks := 0
	s.Scan(w, 0.25, func(float64) { ticks++ }, func(float64) {})
	if want := 1000; ticks != want {
		t.Errorf("want %v scan ticks for a 1-beat window, got %v", want, ticks)
	}
}

func TestSchedulerMalformedLoopPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for malformed loop region")
		}
	}()
	s := NewScheduler()
	w := Window{Start: 1, End: 2, Playing: true, Looping: true, Loop: LoopRegion{Left: 8, Right: 4}}
	s.Advance(w, 0.25)
}
