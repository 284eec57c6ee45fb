package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tw93/diskmap/internal/sequencer"
)

// KeyMap defines the key bindings of the board view.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Enter key.Binding
	Back  key.Binding

	Delete key.Binding

	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap pairs arrow keys with vim-style hjkl.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "enter folder"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "parent folder"),
	),
	Delete: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("backspace", "delete"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	ZoomReset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset zoom"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "no"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Translate maps a terminal key to the abstract key the app understands.
func (k KeyMap) Translate(msg tea.KeyMsg) sequencer.Key {
	switch {
	case key.Matches(msg, k.Up):
		return sequencer.KeyUp
	case key.Matches(msg, k.Down):
		return sequencer.KeyDown
	case key.Matches(msg, k.Left):
		return sequencer.KeyLeft
	case key.Matches(msg, k.Right):
		return sequencer.KeyRight
	case key.Matches(msg, k.Enter):
		return sequencer.KeyEnter
	case key.Matches(msg, k.Back):
		return sequencer.KeyBack
	case key.Matches(msg, k.Delete):
		return sequencer.KeyDelete
	case key.Matches(msg, k.ZoomIn):
		return sequencer.KeyZoomIn
	case key.Matches(msg, k.ZoomOut):
		return sequencer.KeyZoomOut
	case key.Matches(msg, k.ZoomReset):
		return sequencer.KeyZoomReset
	case key.Matches(msg, k.Confirm):
		return sequencer.KeyConfirm
	case key.Matches(msg, k.Cancel):
		return sequencer.KeyCancel
	case key.Matches(msg, k.Quit):
		return sequencer.KeyQuit
	default:
		return sequencer.KeyOther
	}
}
