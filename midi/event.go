package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Event is a scheduled MIDI event. It is a closed sum: NoteOn, NoteOff
// or ControlChange. Consumers switch on the concrete type rather than
// inspecting a status byte.
type Event interface {
	event()
	String() string
}

// NoteOn starts a note.
type NoteOn struct {
	Channel  uint8 // 0-15
	Key      uint8
	Velocity uint8
}

// NoteOff ends a note.
type NoteOff struct {
	Channel uint8
	Key     uint8
}

// ControlChange sets a controller value.
type ControlChange struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

func (NoteOn) event()        {}
func (NoteOff) event()       {}
func (ControlChange) event() {}

func (e NoteOn) String() string {
	return fmt.Sprintf("note-on ch=%d key=%d vel=%d", e.Channel, e.Key, e.Velocity)
}

func (e NoteOff) String() string {
	return fmt.Sprintf("note-off ch=%d key=%d", e.Channel, e.Key)
}

func (e ControlChange) String() string {
	return fmt.Sprintf("cc ch=%d ctrl=%d val=%d", e.Channel, e.Controller, e.Value)
}

// Expression is the controller number used for envelope output.
const Expression uint8 = 11

// AllNotesOff is the channel-mode controller that silences a channel.
const AllNotesOff uint8 = 123

// Message renders an Event as a wire-level MIDI message.
func Message(ev Event) gomidi.Message {
	switch e := ev.(type) {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Key, e.Velocity)
	case NoteOff:
		return gomidi.NoteOff(e.Channel, e.Key)
	case ControlChange:
		return gomidi.ControlChange(e.Channel, e.Controller, e.Value)
	}
	panic(fmt.Sprintf("midi: unknown event type %T", ev))
}
