package ui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tw93/diskmap/internal/app"
)

// frameMsg carries a finished frame into the bubbletea program.
type frameMsg struct {
	frame app.Frame
}

// Sender is the part of *tea.Program the renderer needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Renderer hands frames from the consumer goroutine to the terminal
// program. Only the most recent frame is kept, so Render never blocks.
type Renderer struct {
	latest atomic.Pointer[app.Frame]
	notify chan struct{}
}

func NewRenderer() *Renderer {
	return &Renderer{notify: make(chan struct{}, 1)}
}

// Render publishes f, replacing any frame not yet forwarded.
func (r *Renderer) Render(f app.Frame) {
	r.latest.Store(&f)
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Latest returns the most recently published frame.
func (r *Renderer) Latest() (app.Frame, bool) {
	f := r.latest.Load()
	if f == nil {
		return app.Frame{}, false
	}
	return *f, true
}

// Forward delivers published frames to s until ctx is done.
func (r *Renderer) Forward(ctx context.Context, s Sender) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.notify:
			if f, ok := r.Latest(); ok {
				s.Send(frameMsg{frame: f})
			}
		}
	}
}
