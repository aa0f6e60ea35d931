package engine

import (
	"fmt"
	"math"
	"math/rand"

	"go-pulse/debug"
	"go-pulse/midi"
	"go-pulse/params"
)

// VoiceKind selects what a voice plays on each onset.
type VoiceKind string

const (
	KindNote  VoiceKind = "note"  // single notes drawn from a degree pool
	KindChord VoiceKind = "chord" // triads walked by a Markov chain
)

// VoiceConfig describes one rhythmic line.
type VoiceConfig struct {
	Name     string    `json:"name"`
	Kind     VoiceKind `json:"kind"`
	Channel  uint8     `json:"channel"`
	Rate     float64   `json:"rate"`     // beats between steps, e.g. 0.25 = 16ths
	Gate     float64   `json:"gate"`     // note length as a fraction of Rate
	Velocity uint8     `json:"velocity"` // base velocity

	// Euclidean pattern
	Steps   int      `json:"steps"`
	Density int      `json:"density"` // percent
	Offset  int      `json:"offset"`
	Mode    PlayMode `json:"mode"`

	// Pitch material
	Scale  ScaleType `json:"scale"`
	Root   uint8     `json:"root"`
	Octave int       `json:"octave"`

	// Note voices: weighted scale degrees.
	Degrees []WeightedValue[int] `json:"degrees,omitempty"`

	// Chord voices: Markov transition rows over root degrees.
	Chords     map[int][]Transition `json:"chords,omitempty"`
	ChordStart int                  `json:"chordStart,omitempty"`

	// Optional per-note modulation envelope, emitted as an expression
	// CC stream.
	Envelope *EnvelopeConfig `json:"envelope,omitempty"`
}

// Voice is one independent rhythmic line: its own trigger scheduler,
// onset pattern, step cursor and pitch source. All state is owned by
// the single-threaded window callback; live settings cross over via
// the params registry.
type Voice struct {
	cfg     VoiceConfig
	sched   *Scheduler
	cursor  *StepCursor
	pattern []bool
	pool    *Pool[int]
	chain   *ChordChain
	rng     *rand.Rand

	envs   []*Envelope
	lastCC int

	reg      *params.Registry
	liveMode PlayMode
}

// NewVoice validates the config and builds the voice. Stochastic
// behavior draws from rng, which tests seed for reproducibility.
func NewVoice(cfg VoiceConfig, rng *rand.Rand) (*Voice, error) {
	if cfg.Rate <= 0 {
		return nil, fmt.Errorf("voice %q: rate must be positive", cfg.Name)
	}
	pattern, err := Euclidean(cfg.Steps, cfg.Density, cfg.Offset)
	if err != nil {
		return nil, fmt.Errorf("voice %q: %w", cfg.Name, err)
	}
	v := &Voice{
		cfg:     cfg,
		sched:   NewScheduler(),
		cursor:  NewStepCursor(cfg.Steps, cfg.Mode, rng),
		pattern: pattern,
		rng:     rng,
		lastCC:  -1,
	}
	switch cfg.Kind {
	case KindNote:
		pool, err := NewPool(cfg.Degrees)
		if err != nil {
			return nil, fmt.Errorf("voice %q: %w", cfg.Name, err)
		}
		v.pool = pool
	case KindChord:
		chain, err := NewChordChain(cfg.ChordStart, cfg.Chords)
		if err != nil {
			return nil, fmt.Errorf("voice %q: %w", cfg.Name, err)
		}
		v.chain = chain
	default:
		return nil, fmt.Errorf("voice %q: unknown kind %q", cfg.Name, cfg.Kind)
	}

	// Registration doubles as range validation for the config fields;
	// an out-of-range value is a configuration error, not a panic.
	v.reg = params.New()
	for _, p := range []struct {
		key  string
		set  params.Setter
		init interface{}
	}{
		{"density", params.Int(0, 100), cfg.Density},
		{"mode", params.Int(0, NumPlayModes-1), int(cfg.Mode)},
		{"rate", params.Float(1.0/64, 4), cfg.Rate},
		{"gate", params.Float(0, 4), cfg.Gate},
		{"velocity", params.Int(1, 127), int(cfg.Velocity)},
	} {
		if _, err := v.reg.Register(p.key, p.set, p.init); err != nil {
			return nil, fmt.Errorf("voice %q: %s: %w", cfg.Name, p.key, err)
		}
	}
	v.liveMode = cfg.Mode
	return v, nil
}

// Name returns the voice's display name.
func (v *Voice) Name() string { return v.cfg.Name }

// Channel returns the voice's MIDI channel.
func (v *Voice) Channel() uint8 { return v.cfg.Channel }

// Params exposes the voice's live parameter registry for UIs.
func (v *Voice) Params() *params.Registry { return v.reg }

// Pattern returns the current onset pattern (shared slice; read only).
func (v *Voice) Pattern() []bool { return v.pattern }

// StepPos returns the cursor's current step index.
func (v *Voice) StepPos() int { return v.cursor.Pos() }

// Mode returns the cursor's current playback mode.
func (v *Voice) Mode() PlayMode { return v.cursor.Mode() }

// EnvLevel returns the controlling envelope's current level, 0 when
// none is sounding.
func (v *Voice) EnvLevel() float64 {
	if len(v.envs) == 0 {
		return 0
	}
	return v.envs[len(v.envs)-1].Level()
}

// refresh pulls live parameters at the start of a window, rebuilding
// the onset pattern when density changed.
func (v *Voice) refresh() {
	density := mustInt(v.reg, "density")
	if density != v.cfg.Density {
		pattern, err := Euclidean(v.cfg.Steps, density, v.cfg.Offset)
		if err != nil {
			// Keep the old pattern; a bad setting must never kill the
			// callback loop.
			debug.Log("voice", "%s: pattern rebuild failed: %v", v.cfg.Name, err)
		} else {
			v.pattern = pattern
			v.cfg.Density = density
		}
	}
	if mode := PlayMode(mustInt(v.reg, "mode")); mode != v.liveMode {
		v.cursor.SetMode(mode)
		v.liveMode = mode
	}
	v.cfg.Rate = mustFloat(v.reg, "rate")
	v.cfg.Gate = mustFloat(v.reg, "gate")
	v.cfg.Velocity = uint8(mustInt(v.reg, "velocity"))
}

// Process walks one window, emitting note events at trigger beats and
// the envelope CC stream at scan ticks.
func (v *Voice) Process(w Window, emit func(beat float64, ev midi.Event)) {
	v.refresh()
	v.sched.Scan(w, v.cfg.Rate,
		func(beat float64) { v.tickEnvelopes(beat, emit) },
		func(beat float64) { v.fire(beat, emit) })
}

// Reset returns the voice to its pre-playback state. Envelopes and the
// CC latch are dropped; the trigger clears so nothing stale can fire
// after a restart.
func (v *Voice) Reset() {
	v.sched.Reset()
	v.cursor.Reset()
	v.envs = nil
	v.lastCC = -1
	if v.chain != nil {
		v.chain.Reset(v.cfg.ChordStart)
	}
}

// fire handles one trigger beat: consult the pattern step under the
// cursor, emit when it is an onset, advance the cursor.
func (v *Voice) fire(beat float64, emit func(float64, midi.Event)) {
	onset := v.pattern[v.cursor.Pos()%len(v.pattern)]
	v.cursor.Advance()
	if !onset {
		return
	}

	switch v.cfg.Kind {
	case KindNote:
		degree := v.pool.Draw(v.rng)
		v.emitNote(beat, degree, emit)
	case KindChord:
		root := v.chain.Next(v.rng)
		for _, d := range Triad(root) {
			v.emitNote(beat, d, emit)
		}
	}

	if v.cfg.Envelope != nil {
		env := NewEnvelope(*v.cfg.Envelope)
		env.Trigger(beat)
		v.envs = append(v.envs, env)
	}
}

func (v *Voice) emitNote(beat float64, degree int, emit func(float64, midi.Event)) {
	pitch := v.cfg.Scale.Pitch(v.cfg.Root, degree, v.cfg.Octave)
	emit(beat, midi.NoteOn{Channel: v.cfg.Channel, Key: pitch, Velocity: v.cfg.Velocity})

	// Clamp the note-off forward: it must resolve after its note-on.
	off := beat + v.cfg.Gate*v.cfg.Rate
	if off < beat+ScanStep {
		off = beat + ScanStep
	}
	emit(off, midi.NoteOff{Channel: v.cfg.Channel, Key: pitch})
}

// tickEnvelopes advances active envelopes one scan increment and emits
// an expression CC whenever the controlling level's 7-bit value moves.
// Finished envelopes are pruned.
func (v *Voice) tickEnvelopes(beat float64, emit func(float64, midi.Event)) {
	if len(v.envs) == 0 {
		return
	}
	live := v.envs[:0]
	for _, env := range v.envs {
		env.Process()
		if !env.Done() {
			live = append(live, env)
		}
	}
	v.envs = live
	if len(v.envs) == 0 {
		if v.lastCC != 0 {
			v.lastCC = 0
			emit(beat, midi.ControlChange{Channel: v.cfg.Channel, Controller: midi.Expression, Value: 0})
		}
		return
	}

	// The most recently triggered envelope drives the stream.
	level := v.envs[len(v.envs)-1].Level()
	value := int(math.Round(level * 127))
	if value != v.lastCC {
		v.lastCC = value
		emit(beat, midi.ControlChange{Channel: v.cfg.Channel, Controller: midi.Expression, Value: uint8(value)})
	}
}

func mustInt(r *params.Registry, key string) int {
	val, err := r.Get(key)
	if err != nil {
		panic(err)
	}
	return val.(int)
}

func mustFloat(r *params.Registry, key string) float64 {
	val, err := r.Get(key)
	if err != nil {
		panic(err)
	}
	return val.(float64)
}
