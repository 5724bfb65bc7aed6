// Package terminals shows a playback in the terminal.
package terminals

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/reusee/tutor/events"
	"github.com/reusee/tutor/playbacks"
	"github.com/reusee/tutor/traces"
)

const (
	minSpeed = 0.25
	maxSpeed = 16
)

// changedMsg tells the model to re-read the player.
type changedMsg struct{}

// LoadedMsg replaces the program shown. A non-nil Err is shown instead of frames.
type LoadedMsg struct {
	Source string
	Frames []traces.Frame
	Err    error
}

type Model struct {
	player *playbacks.Player
	title  string
	source []string
	status playbacks.Status
	err    error
	width  int
	height int
}

var _ tea.Model = new(Model)

func NewModel(player *playbacks.Player, title string, source string) *Model {
	return &Model{
		player: player,
		title:  title,
		source: splitLines(source),
		status: player.Status(),
		width:  80,
		height: 24,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case changedMsg:
		m.status = m.player.Status()

	case LoadedMsg:
		m.source = splitLines(msg.Source)
		m.err = msg.Err
		if msg.Err != nil {
			m.player.Load(nil)
		} else {
			m.player.Load(msg.Frames)
		}
		m.status = m.player.Status()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.player.Pause()
			return m, tea.Quit
		case "right", "l":
			m.player.Next()
		case "left", "h":
			m.player.Prev()
		case " ", "space":
			if m.player.State() == playbacks.Playing {
				m.player.Pause()
			} else {
				m.player.Play()
			}
		case "+", "=":
			_ = m.player.SetSpeed(min(m.player.Speed()*2, maxSpeed))
		case "-", "_":
			_ = m.player.SetSpeed(max(m.player.Speed()/2, minSpeed))
		case "r":
			m.player.Reset()
		case "home", "g":
			m.player.Seek(0)
		case "end", "G":
			m.player.Seek(m.player.Len() - 1)
		}
		m.status = m.player.Status()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	// header
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(" ")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"%s  %d/%d  x%g",
		m.status.State,
		m.status.Cursor+1,
		m.status.Len,
		m.status.Speed,
	)))
	b.WriteString("\n\n")

	frame, hasFrame := m.player.Current()
	half := max(m.width/2-2, 20)

	left := m.sourcePane()
	var right string
	if m.err != nil {
		right = errorStyle.Render(wordwrap.String(m.err.Error(), half))
	} else {
		right = localsPane(frame, hasFrame, half)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right))
	b.WriteString("\n\n")

	if hasFrame {
		b.WriteString(detailPane(frame, max(m.width-2, 20)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("←/h prev  →/l next  space play/pause  +/- speed  r reset  q quit"))
	return b.String()
}

func (m *Model) sourcePane() string {
	var b strings.Builder
	width := len(fmt.Sprint(len(m.source)))
	for i, text := range m.source {
		lineNumber := i + 1
		number := lineNumberStyle.Render(fmt.Sprintf("%*d ", width, lineNumber))
		if lineNumber == m.status.Line {
			text = currentLineStyle.Render(text)
		}
		b.WriteString(number)
		b.WriteString(text)
		if i < len(m.source)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func localsPane(frame traces.Frame, ok bool, width int) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("locals"))
	if !ok {
		return b.String()
	}
	names := make([]string, 0, len(frame.Locals))
	for name := range frame.Locals {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(name+" = "+show(frame.Locals[name]), width))
	}
	return b.String()
}

func detailPane(frame traces.Frame, width int) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(frame.Action))
	fmt.Fprintf(&b, " line %d", frame.Line)
	if frame.Kind == events.KindReturn {
		b.WriteString("\n")
		b.WriteString(wordwrap.String("returned "+show(frame.ReturnValue), width))
	}
	if frame.Output != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(frame.Output, width))
	}
	if frame.Context != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(frame.Context, width))
	}
	return b.String()
}

func show(v any) string {
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(bs)
}

func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.TrimSuffix(source, "\n")
	if source == "" {
		return nil
	}
	return strings.Split(source, "\n")
}
