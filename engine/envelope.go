package engine

import "math"

// EnvPhase is the current phase of an ADSR envelope.
type EnvPhase int

const (
	PhaseIdle EnvPhase = iota
	PhaseAttack
	PhaseDecay
	PhaseSustain
	PhaseRelease
)

var phaseNames = []string{"idle", "attack", "decay", "sustain", "release"}

func (p EnvPhase) String() string { return phaseNames[p] }

// EnvelopeConfig holds phase lengths in beats and the sustain level
// (0.0-1.0). A zero Sustain length skips the sustain phase entirely:
// decay falls all the way to silence and release starts from there.
type EnvelopeConfig struct {
	Attack       float64 `json:"attack"`
	Decay        float64 `json:"decay"`
	Sustain      float64 `json:"sustain"`
	SustainLevel float64 `json:"sustainLevel"`
	Release      float64 `json:"release"`
}

// Length returns the total envelope duration in beats.
func (c EnvelopeConfig) Length() float64 {
	return c.Attack + c.Decay + c.Sustain + c.Release
}

// Envelope is a per-note ADSR state machine producing a normalized
// 0.0-1.0 level. It advances in fixed ScanStep increments so it stays
// phase-locked to the scheduler's window walk. Every computed value is
// rounded to 3 decimals; phase boundaries are tested with >= so
// floating-point drift cannot strand a phase short of its boundary.
type Envelope struct {
	cfg EnvelopeConfig

	start      float64 // note-on beat
	attackEnd  float64
	decayEnd   float64
	sustainEnd float64
	releaseEnd float64

	cursor float64
	level  float64
	phase  EnvPhase
}

// NewEnvelope returns an idle envelope. Call Trigger to start it.
func NewEnvelope(cfg EnvelopeConfig) *Envelope {
	return &Envelope{cfg: cfg}
}

// Trigger starts (or restarts) the envelope at the given note-on beat,
// computing the absolute phase boundaries by cumulative addition.
func (e *Envelope) Trigger(startBeat float64) {
	e.start = round3(startBeat)
	e.attackEnd = round3(e.start + e.cfg.Attack)
	e.decayEnd = round3(e.attackEnd + e.cfg.Decay)
	e.sustainEnd = round3(e.decayEnd + e.cfg.Sustain)
	e.releaseEnd = round3(e.sustainEnd + e.cfg.Release)
	e.cursor = e.start
	e.level = 0
	e.phase = PhaseAttack
}

// Phase returns the current phase.
func (e *Envelope) Phase() EnvPhase { return e.phase }

// Level returns the most recent output level without advancing.
func (e *Envelope) Level() float64 { return e.level }

// Done reports whether the envelope has finished its release.
func (e *Envelope) Done() bool { return e.phase == PhaseIdle }

// decayTarget is the level decay falls to: the sustain level when a
// sustain phase exists, silence otherwise.
func (e *Envelope) decayTarget() float64 {
	if e.cfg.Sustain > 0 {
		return e.cfg.SustainLevel
	}
	return 0
}

// Process advances the envelope by one scan increment and returns the
// new output level, rounded to 3 decimals.
func (e *Envelope) Process() float64 {
	if e.phase == PhaseIdle {
		return e.level
	}
	e.cursor = round3(e.cursor + ScanStep)

	switch e.phase {
	case PhaseAttack:
		if e.cursor >= e.attackEnd {
			e.level = 1.0
			e.phase = PhaseDecay
			if e.cfg.Decay <= 0 {
				e.level = e.decayTarget()
				e.enterPostDecay()
			}
		} else {
			e.level = round3((e.cursor - e.start) / e.cfg.Attack)
		}
	case PhaseDecay:
		if e.cursor >= e.decayEnd {
			e.level = round3(e.decayTarget())
			e.enterPostDecay()
		} else {
			drop := (1.0 - e.decayTarget()) * (e.cursor - e.attackEnd) / e.cfg.Decay
			e.level = round3(1.0 - drop)
		}
	case PhaseSustain:
		e.level = round3(e.cfg.SustainLevel)
		if e.cursor >= e.sustainEnd {
			e.phase = PhaseRelease
			if e.cfg.Release <= 0 {
				e.level = 0
				e.phase = PhaseIdle
			}
		}
	case PhaseRelease:
		if e.cursor >= e.releaseEnd {
			e.level = 0
			e.phase = PhaseIdle
		} else {
			e.level = round3(e.decayTarget() * (1.0 - (e.cursor-e.sustainEnd)/e.cfg.Release))
		}
	}
	return e.level
}

// enterPostDecay moves past decay: into sustain when it has a length,
// straight to release otherwise.
func (e *Envelope) enterPostDecay() {
	if e.cfg.Sustain > 0 {
		e.phase = PhaseSustain
	} else {
		e.phase = PhaseRelease
		if e.cfg.Release <= 0 {
			e.level = 0
			e.phase = PhaseIdle
		}
	}
}

// round3 rounds to 3 decimal digits. Keeping every intermediate value
// on the same grid as the scan increment means boundary comparisons
// stay exact over long runs.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
