// Package sequencer serializes scan reports, key events and render ticks into
// one ordered stream applied by a single consumer goroutine.
package sequencer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultCapacity bounds the queue so a fast walker cannot outrun the
// consumer. Producers block once it is full.
const DefaultCapacity = 100

// ErrClosed is returned by Send once the consumer has stopped.
var ErrClosed = errors.New("sequencer closed")

// Handler applies instructions. Handle reports true when the program should
// stop.
type Handler interface {
	Handle(Instruction) (quit bool)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(Instruction) bool

func (f HandlerFunc) Handle(ins Instruction) bool { return f(ins) }

// Sequencer is safe for concurrent Send from any number of producers. Run
// must be called exactly once.
type Sequencer struct {
	queue  chan Instruction
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger

	running atomic.Bool
	loaded  atomic.Bool
}

func New(capacity int, logger *zap.Logger) *Sequencer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sequencer{
		queue:  make(chan Instruction, capacity),
		done:   make(chan struct{}),
		logger: logger,
	}
	s.running.Store(true)
	return s
}

// Send enqueues ins, blocking while the queue is full. It fails with
// ErrClosed after shutdown and with the context error if ctx ends first.
func (s *Sequencer) Send(ctx context.Context, ins Instruction) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.queue <- ins:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes instructions in arrival order until the handler asks to quit
// or ctx is cancelled. The queue is never closed; producers observe shutdown
// through ErrClosed.
func (s *Sequencer) Run(ctx context.Context, h Handler) error {
	defer s.Stop()
	var handled int
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("sequencer cancelled", zap.Int("handled", handled))
			return ctx.Err()
		case ins := <-s.queue:
			handled++
			if _, ok := ins.(StartUI); ok {
				s.loaded.Store(true)
			}
			if h.Handle(ins) {
				s.logger.Debug("sequencer stopped", zap.Int("handled", handled))
				return nil
			}
		}
	}
}

// Stop marks the sequencer as no longer running. Pending instructions are
// dropped.
func (s *Sequencer) Stop() {
	s.once.Do(func() {
		s.running.Store(false)
		close(s.done)
	})
}

func (s *Sequencer) Done() <-chan struct{} { return s.done }
func (s *Sequencer) Running() bool         { return s.running.Load() }
func (s *Sequencer) Loaded() bool          { return s.loaded.Load() }

// Tick drives the loading animation: every interval it sends a spinner step
// and a board refresh, until the scan has finished or the sequencer stops.
func (s *Sequencer) Tick(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
		}
		if !s.Running() || s.Loaded() {
			return nil
		}
		for _, ins := range []Instruction{ToggleScanningIndicator{}, RenderAndUpdateBoard{}} {
			if err := s.Send(ctx, ins); err != nil {
				if errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}
