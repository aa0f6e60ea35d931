package engine

import "fmt"

// Window is one scheduling callback's lookahead range: the half-open
// beat interval [Start, End) reported by the transport for the current
// process block, together with the transport's play and loop state.
type Window struct {
	Start   float64
	End     float64
	Playing bool
	Looping bool
	Loop    LoopRegion // valid only when Looping
}

// LoopRegion is the transport's cycle bounds [Left, Right). While
// looping, beats >= Right wrap back to Left.
type LoopRegion struct {
	Left  float64
	Right float64
}

// Len returns the loop length in beats.
func (l LoopRegion) Len() float64 { return l.Right - l.Left }

func (l LoopRegion) String() string {
	return fmt.Sprintf("[%.0f,%.0f)", l.Left, l.Right)
}

func (w Window) String() string {
	if w.Looping {
		return fmt.Sprintf("[%.3f,%.3f) loop=[%.3f,%.3f)", w.Start, w.End, w.Loop.Left, w.Loop.Right)
	}
	return fmt.Sprintf("[%.3f,%.3f)", w.Start, w.End)
}

// checkLoop panics on a malformed loop region. The scan loop's
// termination depends on the region being well-formed, so a bad region
// must fail fast instead of spinning.
func (w Window) checkLoop() {
	if w.Looping && w.Loop.Right <= w.Loop.Left {
		panic(fmt.Sprintf("engine: malformed loop region [%v,%v)", w.Loop.Left, w.Loop.Right))
	}
}
