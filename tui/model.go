package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pulse/engine"
	"go-pulse/midi"
	"go-pulse/theme"
	"go-pulse/transport"
)

// recentEvents is how many dispatched events the event log shows.
const recentEvents = 8

type Model struct {
	Runner  *transport.Runner
	Buffer  *midi.Buffer
	Theme   *theme.Theme
	DefLoop engine.LoopRegion

	focused  int // voice index
	quitting bool
}

type UpdateMsg struct{}

func NewModel(runner *transport.Runner, buf *midi.Buffer, th *theme.Theme, loop engine.LoopRegion) Model {
	return Model{
		Runner:  runner,
		Buffer:  buf,
		Theme:   th,
		DefLoop: loop,
	}
}

func ListenForUpdates(runner *transport.Runner) tea.Cmd {
	return func() tea.Msg {
		<-runner.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Runner)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		clock := m.Runner.Clock()
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ":
			if clock.Playing() {
				clock.Stop()
			} else {
				clock.Play()
			}

		case "r":
			clock.Rewind()

		case "+", "=":
			clock.SetTempo(clock.Tempo() + 5)

		case "-", "_":
			clock.SetTempo(clock.Tempo() - 5)

		case "l":
			if looping, _ := clock.Looping(); looping {
				clock.ClearLoop()
			} else {
				clock.SetLoop(m.DefLoop.Left, m.DefLoop.Right)
			}

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0] - '1')
			if idx < len(m.Runner.Engine().Voices()) {
				m.focused = idx
			}

		case "d":
			m.adjustInt("density", -5)

		case "D":
			m.adjustInt("density", +5)

		case "m":
			m.cycleMode()
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Runner)
	}

	return m, nil
}

// adjustInt nudges an int parameter on the focused voice, clamping at
// the registry's range by simply ignoring the rejection.
func (m Model) adjustInt(key string, delta int) {
	v := m.focusedVoice()
	if v == nil {
		return
	}
	val, err := v.Params().Get(key)
	if err != nil {
		return
	}
	_ = v.Params().Set(key, val.(int)+delta)
}

func (m Model) cycleMode() {
	v := m.focusedVoice()
	if v == nil {
		return
	}
	val, err := v.Params().Get("mode")
	if err != nil {
		return
	}
	_ = v.Params().Set("mode", (val.(int)+1)%engine.NumPlayModes)
}

func (m Model) focusedVoice() *engine.Voice {
	voices := m.Runner.Engine().Voices()
	if m.focused >= len(voices) {
		return nil
	}
	return voices[m.focused]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	clock := m.Runner.Clock()
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	focusStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	playState := "STOP"
	if clock.Playing() {
		playState = "PLAY"
	}
	loopState := ""
	if looping, loop := clock.Looping(); looping {
		loopState = fmt.Sprintf("  loop:%s", loop)
	}

	header := headerStyle.Render(fmt.Sprintf(
		"go-pulse  %s  %3.0fbpm  beat:%7.2f%s", playState, clock.Tempo(), clock.Beat(), loopState))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	for i, v := range m.Runner.Engine().Voices() {
		marker := "  "
		style := dimStyle
		if i == m.focused {
			marker = "> "
			style = focusStyle
		}
		out.WriteString(style.Render(fmt.Sprintf("%s%d %-6s %-8s ", marker, i+1, v.Name(), v.Mode())))
		out.WriteString(m.patternRow(v, cursorStyle, dimStyle))
		out.WriteString("  ")
		out.WriteString(m.envMeter(v))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(m.eventLog(dimStyle))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("space:play  r:rewind  +/-:tempo  l:loop  1-9:voice  d/D:density  m:mode  q:quit"))

	return out.String()
}

func (m Model) patternRow(v *engine.Voice, cursorStyle, dimStyle lipgloss.Style) string {
	sym := m.Theme.Symbols
	pos := v.StepPos()
	var row strings.Builder
	for i, onset := range v.Pattern() {
		r := sym.StepRest
		if onset {
			r = sym.StepOnset
		}
		if i == pos {
			row.WriteString(cursorStyle.Render(string(sym.StepPlayhead)))
		} else {
			row.WriteString(dimStyle.Render(string(r)))
		}
	}
	return row.String()
}

// envMeter renders the voice's envelope level as a short bar colored by
// the palette position matching the level.
func (m Model) envMeter(v *engine.Voice) string {
	const width = 8
	level := v.EnvLevel()
	filled := int(level * width)
	sym := m.Theme.Symbols

	bar := strings.Repeat(string(sym.MeterFull), filled) +
		strings.Repeat(string(sym.MeterEmpty), width-filled)
	return lipgloss.NewStyle().Foreground(m.Theme.Color(level)).Render(bar)
}

func (m Model) eventLog(dimStyle lipgloss.Style) string {
	events := m.Buffer.Events()
	if len(events) > recentEvents {
		events = events[len(events)-recentEvents:]
	}
	var out strings.Builder
	for _, te := range events {
		out.WriteString(dimStyle.Render(fmt.Sprintf("  %8.3f  %s", te.Beat, te.Event)))
		out.WriteString("\n")
	}
	return out.String()
}
