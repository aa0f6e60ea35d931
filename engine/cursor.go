package engine

import "math/rand"

// PlayMode selects how a step cursor walks its pattern.
type PlayMode int

const (
	ModeForward PlayMode = iota
	ModeReverse
	ModePendulum
	ModeRandom
)

var modeNames = []string{"Forward", "Reverse", "Pendulum", "Random"}

func (m PlayMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Forward"
	}
	return modeNames[m]
}

// NumPlayModes is the count of playback modes, for cycling in UIs.
const NumPlayModes = 4

// StepCursor is an index into a fixed-length pattern, advanced by one
// of four policies each time its voice fires. Pendulum keeps a
// direction that flips at either end.
type StepCursor struct {
	pos       int
	direction int
	length    int
	mode      PlayMode
	rng       *rand.Rand
}

// NewStepCursor creates a cursor over a pattern of the given length.
// Reverse mode starts from the last step.
func NewStepCursor(length int, mode PlayMode, rng *rand.Rand) *StepCursor {
	c := &StepCursor{direction: 1, length: length, mode: mode, rng: rng}
	if mode == ModeReverse {
		c.pos = length - 1
	}
	return c
}

// Pos returns the current step index.
func (c *StepCursor) Pos() int { return c.pos }

// Mode returns the cursor's playback mode.
func (c *StepCursor) Mode() PlayMode { return c.mode }

// SetMode switches the playback policy without moving the cursor.
func (c *StepCursor) SetMode(m PlayMode) { c.mode = m }

// Reset moves the cursor back to its starting step.
func (c *StepCursor) Reset() {
	c.direction = 1
	if c.mode == ModeReverse {
		c.pos = c.length - 1
	} else {
		c.pos = 0
	}
}

// Advance moves the cursor one step and returns the new index.
func (c *StepCursor) Advance() int {
	switch c.mode {
	case ModeForward:
		c.pos = (c.pos + 1) % c.length
	case ModeReverse:
		c.pos--
		if c.pos < 0 {
			c.pos = c.length - 1
		}
	case ModePendulum:
		next := c.pos + c.direction
		if next >= c.length {
			c.direction = -1
			next = c.pos - 1
			if next < 0 {
				next = 0
			}
		} else if next < 0 {
			c.direction = 1
			next = 1
			if next >= c.length {
				next = 0
			}
		}
		c.pos = next
	case ModeRandom:
		c.pos = c.rng.Intn(c.length)
	default:
		c.pos = (c.pos + 1) % c.length
	}
	return c.pos
}
