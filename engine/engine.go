// Package engine implements a beat-synchronized scheduling and
// generation engine: given a stream of process-block windows from a
// host transport, it fires musical events at computed trigger beats
// exactly once, across block boundaries and transport loop seams.
package engine

import (
	"math"
	"sort"

	"go-pulse/debug"
	"go-pulse/midi"
)

// Engine drives a set of voices from the transport's window stream and
// hands their events to a sink. Strictly single-threaded: the caller
// invokes Process once per block and never concurrently.
type Engine struct {
	voices []*Voice
	sink   midi.Sink

	active     []activeNote
	window     Window // window being processed; valid inside Process
	wasPlaying bool
}

// activeNote is a sounding note awaiting its note-off beat.
type activeNote struct {
	off     float64 // +Inf until the matching note-off is seen
	channel uint8
	key     uint8
}

// New creates an engine emitting into sink.
func New(sink midi.Sink, voices ...*Voice) *Engine {
	return &Engine{voices: voices, sink: sink}
}

// Voices returns the engine's voices.
func (e *Engine) Voices() []*Voice { return e.voices }

// Process handles one transport window. A non-playing window silences
// all sounding notes and resets every voice, unconditionally; events
// computed but not yet dispatched are simply gone.
func (e *Engine) Process(w Window) {
	if !w.Playing {
		if e.wasPlaying {
			e.silence(w.Start)
		}
		for _, v := range e.voices {
			v.Reset()
		}
		e.wasPlaying = false
		return
	}
	e.wasPlaying = true
	e.window = w

	for _, v := range e.voices {
		v.Process(w, e.emit)
	}
	e.prune(w.End)
}

// emit forwards an event to the sink and keeps the active-note
// bookkeeping needed for stop silencing.
func (e *Engine) emit(beat float64, ev midi.Event) {
	switch n := ev.(type) {
	case midi.NoteOn:
		e.active = append(e.active, activeNote{off: math.Inf(1), channel: n.Channel, key: n.Key})
	case midi.NoteOff:
		off := beat
		// A gate crossing the loop seam schedules its off past the
		// loop's right edge, a beat the window stream never reaches.
		// Fold it into the region for bookkeeping so the entry is
		// pruned once the playhead wraps; the sink still receives the
		// original beat.
		if e.window.Looping && off >= e.window.Loop.Right {
			off = e.window.Loop.Left + math.Mod(off-e.window.Loop.Right, e.window.Loop.Len())
		}
		for i := range e.active {
			if e.active[i].channel == n.Channel && e.active[i].key == n.Key && math.IsInf(e.active[i].off, 1) {
				e.active[i].off = off
				break
			}
		}
	}
	e.sink.Emit(beat, ev)
}

// prune drops active notes whose note-off beat the transport has
// passed.
func (e *Engine) prune(end float64) {
	live := e.active[:0]
	for _, n := range e.active {
		if n.off >= end {
			live = append(live, n)
		}
	}
	e.active = live
}

// silence emits a note-off for every still-sounding note plus an
// all-notes-off per channel, then forgets them.
func (e *Engine) silence(beat float64) {
	channels := make(map[uint8]bool)
	for _, n := range e.active {
		e.sink.Emit(beat, midi.NoteOff{Channel: n.channel, Key: n.key})
		channels[n.channel] = true
	}
	for _, v := range e.voices {
		channels[v.Channel()] = true
	}
	chs := make([]int, 0, len(channels))
	for ch := range channels {
		chs = append(chs, int(ch))
	}
	sort.Ints(chs)
	for _, ch := range chs {
		e.sink.Emit(beat, midi.ControlChange{Channel: uint8(ch), Controller: midi.AllNotesOff})
	}
	debug.LogBeat(beat, "engine", "stop: silenced %d notes on %d channels", len(e.active), len(chs))
	e.active = nil
}
