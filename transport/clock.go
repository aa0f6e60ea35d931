// Package transport provides a simulated window source: a clock that
// plays the role a host transport would, emitting one scheduling
// window per process block. The engine treats it as opaque; it exists
// so the demo binary and end-to-end tests have a host to run against.
package transport

import (
	"fmt"
	"sync"

	"go-pulse/engine"
)

// Clock produces consecutive windows from tempo, block size and sample
// rate. While playing and not looping the windows are contiguous; when
// the playhead crosses the loop's right edge it folds back to the
// left, so the following window starts at a lower beat.
type Clock struct {
	mu sync.Mutex

	tempo      float64 // BPM
	blockSize  int     // samples per process block
	sampleRate float64

	beat    float64 // playhead; 1.0 = start of the composition
	playing bool
	looping bool
	loop    engine.LoopRegion
}

// NewClock creates a stopped clock at beat 1.0.
func NewClock(tempo float64, blockSize int, sampleRate float64) *Clock {
	return &Clock{
		tempo:      tempo,
		blockSize:  blockSize,
		sampleRate: sampleRate,
		beat:       1.0,
	}
}

// BlockBeats returns the beat length of one process block.
func (c *Clock) BlockBeats() float64 {
	return float64(c.blockSize) / c.sampleRate * c.tempo / 60.0
}

// Play starts the transport.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
}

// Stop halts the transport, keeping the playhead position.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Playing reports whether the transport is running.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Rewind moves the playhead back to the start of the composition.
func (c *Clock) Rewind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beat = 1.0
}

// Beat returns the current playhead position.
func (c *Clock) Beat() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beat
}

// Tempo returns the current BPM.
func (c *Clock) Tempo() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tempo
}

// SetTempo clamps and sets the BPM.
func (c *Clock) SetTempo(bpm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	c.tempo = bpm
}

// SetLoop enables looping over [left, right).
func (c *Clock) SetLoop(left, right float64) error {
	if right <= left {
		return fmt.Errorf("transport: malformed loop region [%v,%v)", left, right)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.looping = true
	c.loop = engine.LoopRegion{Left: left, Right: right}
	return nil
}

// ClearLoop disables looping.
func (c *Clock) ClearLoop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.looping = false
}

// Looping reports whether a loop region is active, and its bounds.
func (c *Clock) Looping() (bool, engine.LoopRegion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.looping, c.loop
}

// Next emits the window for the current block and advances the
// playhead. A stopped clock reports its position without advancing.
func (c *Clock) Next() engine.Window {
	c.mu.Lock()
	defer c.mu.Unlock()

	bb := float64(c.blockSize) / c.sampleRate * c.tempo / 60.0
	w := engine.Window{
		Start:   c.beat,
		End:     c.beat + bb,
		Playing: c.playing,
		Looping: c.looping,
		Loop:    c.loop,
	}
	if !c.playing {
		return w
	}

	c.beat += bb
	if c.looping && c.beat >= c.loop.Right {
		c.beat = c.loop.Left + (c.beat - c.loop.Right)
	}
	return w
}
