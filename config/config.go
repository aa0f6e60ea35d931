package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-pulse/engine"
)

// LoopConfig is an optional transport loop region.
type LoopConfig struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Config is the main configuration structure.
type Config struct {
	Tempo      float64              `json:"tempo"`
	BlockSize  int                  `json:"blockSize"`
	SampleRate float64              `json:"sampleRate"`
	Loop       *LoopConfig          `json:"loop,omitempty"`
	Voices     []engine.VoiceConfig `json:"voices"`
	Debug      bool                 `json:"debug,omitempty"`
}

// DefaultConfig returns a config with two demo voices: a Euclidean
// lead drawing weighted scale degrees, and a Markov chord pad.
func DefaultConfig() *Config {
	return &Config{
		Tempo:      120,
		BlockSize:  512,
		SampleRate: 44100,
		Voices: []engine.VoiceConfig{
			{
				Name:     "lead",
				Kind:     engine.KindNote,
				Channel:  0,
				Rate:     0.25,
				Gate:     0.5,
				Velocity: 100,
				Steps:    16,
				Density:  50,
				Offset:   0,
				Mode:     engine.ModeForward,
				Scale:    engine.ScaleMinor,
				Root:     48, // C3
				Octave:   5,
				Degrees: []engine.WeightedValue[int]{
					{Weight: 75, Value: 0},
					{Weight: 25, Value: 2},
				},
				Envelope: &engine.EnvelopeConfig{
					Attack:       0.05,
					Decay:        0.1,
					Sustain:      0.2,
					SustainLevel: 0.6,
					Release:      0.15,
				},
			},
			{
				Name:     "pad",
				Kind:     engine.KindChord,
				Channel:  1,
				Rate:     1.0,
				Gate:     0.9,
				Velocity: 80,
				Steps:    4,
				Density:  50,
				Offset:   0,
				Mode:     engine.ModeForward,
				Scale:    engine.ScaleMinor,
				Root:     48,
				Octave:   4,
				Chords: map[int][]engine.Transition{
					0: {{Weight: 2, To: 3}, {Weight: 1, To: 4}, {Weight: 1, To: 5}},
					3: {{Weight: 2, To: 4}, {Weight: 1, To: 0}},
					4: {{Weight: 3, To: 0}, {Weight: 1, To: 5}},
					5: {{Weight: 1, To: 3}, {Weight: 1, To: 4}},
				},
				ChordStart: 0,
			},
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pulse"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config from an explicit path, falling back to
// defaults when the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
