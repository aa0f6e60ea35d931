package engine

import "fmt"

// ScaleType selects an interval table for degree-to-pitch mapping.
type ScaleType int

const (
	ScaleChromatic ScaleType = iota
	ScaleMajor
	ScaleMinor
	ScalePentatonic
	ScaleDorian
	ScalePhrygian
	ScaleLydian
	ScaleMixolydian
	ScaleHarmonicMinor
	ScaleBlues
	ScaleWholeTone
	ScaleCount
)

// Scale definitions - intervals from root (semitones)
var scales = map[ScaleType][]int{
	ScaleChromatic:     {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	ScaleMajor:         {0, 2, 4, 5, 7, 9, 11, 12},
	ScaleMinor:         {0, 2, 3, 5, 7, 8, 10, 12},
	ScalePentatonic:    {0, 2, 4, 7, 9, 12, 14, 16},
	ScaleDorian:        {0, 2, 3, 5, 7, 9, 10, 12},
	ScalePhrygian:      {0, 1, 3, 5, 7, 8, 10, 12},
	ScaleLydian:        {0, 2, 4, 6, 7, 9, 11, 12},
	ScaleMixolydian:    {0, 2, 4, 5, 7, 9, 10, 12},
	ScaleHarmonicMinor: {0, 2, 3, 5, 7, 8, 11, 12},
	ScaleBlues:         {0, 3, 5, 6, 7, 10, 12, 15},
	ScaleWholeTone:     {0, 2, 4, 6, 8, 10, 12},
}

var scaleNames = []string{
	"Chromatic", "Major", "Minor", "Pentatonic",
	"Dorian", "Phrygian", "Lydian", "Mixolydian",
	"Harm Min", "Blues", "Whole Tone",
}

func (s ScaleType) String() string {
	if s < 0 || int(s) >= len(scaleNames) {
		return "Chromatic"
	}
	return scaleNames[s]
}

// Intervals returns the semitone offsets of the scale from its root.
func (s ScaleType) Intervals() []int {
	if iv, ok := scales[s]; ok {
		return iv
	}
	return scales[ScaleChromatic]
}

// Pitch maps a scale degree to a MIDI note number. Degrees beyond the
// table length wrap upward an octave per pass; octave shifts from the
// middle position (4). The result is clamped to 0-127.
func (s ScaleType) Pitch(root uint8, degree, octave int) uint8 {
	iv := s.Intervals()
	n := len(iv)

	idx := ((degree % n) + n) % n
	octaveShift := degree / n
	if degree < 0 && degree%n != 0 {
		octaveShift--
	}

	pitch := int(root) + iv[idx] + octaveShift*12 + (octave-4)*12
	if pitch < 0 {
		pitch = 0
	}
	if pitch > 127 {
		pitch = 127
	}
	return uint8(pitch)
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchName formats a MIDI note number as e.g. "C4".
func PitchName(pitch uint8) string {
	octave := int(pitch)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[pitch%12], octave)
}
