package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-pulse/config"
	"go-pulse/debug"
	"go-pulse/engine"
	"go-pulse/midi"
	"go-pulse/theme"
	"go-pulse/transport"
	"go-pulse/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-pulse/config.json)")
	portName := flag.String("port", "", "MIDI output port to send to")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	debugFlag := flag.Bool("debug", false, "write a debug log")
	flag.Parse()

	defer gomidi.CloseDriver()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	if *debugFlag || cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
			os.Exit(1)
		}
		defer debug.Disable()
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	voices := make([]*engine.Voice, 0, len(cfg.Voices))
	for _, vc := range cfg.Voices {
		v, err := engine.NewVoice(vc, rng)
		if err != nil {
			fmt.Printf("config: %v\n", err)
			os.Exit(1)
		}
		voices = append(voices, v)
	}

	buf := midi.NewBuffer(64)
	sinks := midi.Tee{buf, midi.LogSink{}}
	if *portName != "" {
		port, err := midi.NewPortSink(*portName)
		if err != nil {
			fmt.Printf("MIDI port %q: %v (run midiports to list ports)\n", *portName, err)
			os.Exit(1)
		}
		sinks = append(sinks, port)
	}

	clock := transport.NewClock(cfg.Tempo, cfg.BlockSize, cfg.SampleRate)
	defLoop := engine.LoopRegion{Left: 1, Right: 5}
	if cfg.Loop != nil {
		defLoop = engine.LoopRegion{Left: cfg.Loop.Left, Right: cfg.Loop.Right}
		if err := clock.SetLoop(cfg.Loop.Left, cfg.Loop.Right); err != nil {
			fmt.Printf("config: %v\n", err)
			os.Exit(1)
		}
	}

	runner := transport.NewRunner(clock, engine.New(sinks, voices...))
	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	m := tui.NewModel(runner, buf, theme.New(loadPalette()), defLoop)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	// Give the runner its final stopped block before the driver closes.
	time.Sleep(50 * time.Millisecond)

	if runErr != nil {
		fmt.Printf("Error: %v\n", runErr)
		os.Exit(1)
	}
}

// loadPalette reads palette.gpl from the config dir when present,
// falling back to the built-in gradient.
func loadPalette() *theme.Palette {
	dir, err := config.ConfigDir()
	if err != nil {
		return theme.Default()
	}
	p, err := theme.LoadGPL(filepath.Join(dir, "palette.gpl"))
	if err != nil {
		return theme.Default()
	}
	return p
}
