package transport

import (
	"math"
	"testing"
)

func TestClockBlockBeats(t *testing.T) {
	// 6000 samples at 48kHz is 125ms; at 120 BPM that is a quarter beat.
	c := NewClock(120, 6000, 48000)
	if want, got := 0.25, c.BlockBeats(); math.Abs(want-got) > 1e-12 {
		t.Errorf("want %v beats per block, got %v", want, got)
	}
}

func TestClockStoppedDoesNotAdvance(t *testing.T) {
	c := NewClock(120, 6000, 48000)
	w := c.Next()
	if w.Playing {
		t.Errorf("new clock should be stopped")
	}
	if c.Beat() != 1.0 {
		t.Errorf("stopped clock advanced to %v", c.Beat())
	}
}

func TestClockContiguousWindows(t *testing.T) {
	c := NewClock(120, 6000, 48000)
	c.Play()

	prevEnd := 1.0
	for i := 0; i < 16; i++ {
		w := c.Next()
		if !w.Playing {
			t.Fatalf("block %d: want playing window", i)
		}
		if math.Abs(w.Start-prevEnd) > 1e-9 {
			t.Fatalf("block %d: gap between windows: prev end %v, start %v", i, prevEnd, w.Start)
		}
		if math.Abs((w.End-w.Start)-0.25) > 1e-9 {
			t.Fatalf("block %d: wrong window length %v", i, w.End-w.Start)
		}
		prevEnd = w.End
	}
	if math.Abs(c.Beat()-5.0) > 1e-9 {
		t.Errorf("want playhead at 5.0 after 16 quarter-beat blocks, got %v", c.Beat())
	}
}

func TestClockLoopFoldsPlayhead(t *testing.T) {
	c := NewClock(120, 6000, 48000)
	if err := c.SetLoop(1, 2); err != nil {
		t.Fatal(err)
	}
	c.Play()

	for i := 0; i < 4; i++ {
		c.Next() // playhead reaches 2.0, the loop's right edge
	}
	if math.Abs(c.Beat()-1.0) > 1e-9 {
		t.Errorf("want playhead folded to 1.0, got %v", c.Beat())
	}

	w := c.Next()
	if math.Abs(w.Start-1.0) > 1e-9 {
		t.Errorf("window after the fold starts at %v, want 1.0", w.Start)
	}
	if !w.Looping || w.Loop.Left != 1 || w.Loop.Right != 2 {
		t.Errorf("window does not carry the loop region: %+v", w)
	}
}

func TestClockMalformedLoopRejected(t *testing.T) {
	c := NewClock(120, 6000, 48000)
	if err := c.SetLoop(4, 4); err == nil {
		t.Errorf("want error for empty loop region")
	}
	if err := c.SetLoop(5, 4); err == nil {
		t.Errorf("want error for inverted loop region")
	}
	if looping, _ := c.Looping(); looping {
		t.Errorf("rejected loop left the clock looping")
	}
}

func TestClockTempoClamped(t *testing.T) {
	c := NewClock(120, 6000, 48000)
	c.SetTempo(5)
	if c.Tempo() != 20 {
		t.Errorf("want tempo clamped to 20, got %v", c.Tempo())
	}
	c.SetTempo(1000)
	if c.Tempo() != 300 {
		t.Errorf("want tempo clamped to 300, got %v", c.Tempo())
	}
}

func TestClockStopKeepsPosition(t *testing.T) {
	c := NewClock(120, 6000, 48000)
	c.Play()
	c.Next()
	c.Next()
	c.Stop()

	pos := c.Beat()
	w := c.Next()
	if w.Playing {
		t.Errorf("stopped clock emitted a playing window")
	}
	if c.Beat() != pos {
		t.Errorf("stop moved the playhead from %v to %v", pos, c.Beat())
	}

	c.Rewind()
	if c.Beat() != 1.0 {
		t.Errorf("want rewind to 1.0, got %v", c.Beat())
	}
}
