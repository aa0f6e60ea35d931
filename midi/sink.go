package midi

import (
	"sort"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pulse/debug"
)

// Sink consumes events at computed beats. Fire-and-forget: no return
// value, no acknowledgment. The beat is the musical timestamp the event
// was scheduled for, which may lie ahead of the window that produced it
// (note-offs in particular).
type Sink interface {
	Emit(beat float64, ev Event)
}

// TimedEvent pairs an event with its firing beat.
type TimedEvent struct {
	Beat  float64
	Event Event
}

// Buffer collects emitted events in memory. Used by tests and by the
// TUI to show recent output.
type Buffer struct {
	mu     sync.Mutex
	events []TimedEvent
	limit  int // 0 = unbounded
}

// NewBuffer returns a buffer keeping at most limit events (0 for all).
func NewBuffer(limit int) *Buffer {
	return &Buffer{limit: limit}
}

func (b *Buffer) Emit(beat float64, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, TimedEvent{Beat: beat, Event: ev})
	if b.limit > 0 && len(b.events) > b.limit {
		b.events = b.events[len(b.events)-b.limit:]
	}
}

// Events returns a snapshot of the collected events.
func (b *Buffer) Events() []TimedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]TimedEvent, len(b.events))
	copy(out, b.events)
	return out
}

// Sorted returns the collected events ordered by beat. Emission order
// is preserved for equal beats.
func (b *Buffer) Sorted() []TimedEvent {
	out := b.Events()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Beat < out[j].Beat })
	return out
}

// Reset drops all collected events.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// LogSink writes every event to the debug log.
type LogSink struct{}

func (LogSink) Emit(beat float64, ev Event) {
	debug.LogBeat(beat, "dispatch", "%s", ev)
}

// PortSink sends events to a real MIDI output immediately, ignoring the
// beat timestamp (the caller is expected to drive it in real time).
type PortSink struct {
	send func(gomidi.Message) error
}

// NewPortSink opens the named output port. The port list is supplied by
// whichever gomidi driver the binary registered.
func NewPortSink(portName string) (*PortSink, error) {
	out, err := gomidi.FindOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, err
	}
	return &PortSink{send: send}, nil
}

func (p *PortSink) Emit(beat float64, ev Event) {
	if err := p.send(Message(ev)); err != nil {
		debug.LogBeat(beat, "dispatch", "send failed: %v", err)
	}
}

// Tee fans an event out to several sinks.
type Tee []Sink

func (t Tee) Emit(beat float64, ev Event) {
	for _, s := range t {
		s.Emit(beat, ev)
	}
}
