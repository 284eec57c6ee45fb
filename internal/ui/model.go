package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tw93/diskmap/internal/app"
	"github.com/tw93/diskmap/internal/sequencer"
)

// SendFunc enqueues an instruction for the consumer goroutine.
type SendFunc func(context.Context, sequencer.Instruction) error

// Model is the bubbletea side of the program. It owns no application
// state: input becomes instructions, and frames come back from the
// Renderer to be drawn.
type Model struct {
	ctx   context.Context
	send  SendFunc
	keys  KeyMap
	frame app.Frame
	ready bool
}

func NewModel(ctx context.Context, send SendFunc, keys KeyMap) Model {
	return Model{ctx: ctx, send: send, keys: keys}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.dispatch(
			sequencer.Resize{Width: msg.Width, Height: msg.Height},
			sequencer.ResetUIMode{},
			sequencer.Render{},
		)
	case tea.KeyMsg:
		return m, m.dispatch(sequencer.Keypress{Key: m.keys.Translate(msg)})
	case frameMsg:
		m.frame = msg.frame
		m.ready = true
		return m, nil
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

// dispatch sends synchronously so keys reach the consumer in the order
// they were typed.
func (m Model) dispatch(instructions ...sequencer.Instruction) tea.Cmd {
	for _, ins := range instructions {
		err := m.send(m.ctx, ins)
		if err == nil {
			continue
		}
		if errors.Is(err, sequencer.ErrClosed) || errors.Is(err, context.Canceled) {
			return tea.Quit
		}
		return nil
	}
	return nil
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return Draw(m.frame)
}
