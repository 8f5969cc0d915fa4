package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a one-line status on w while a model run is in flight.
// The message can change between frames, e.g. after each refinement pass.
type spinner struct {
	w io.Writer

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing

	quit     chan struct{}
	finished chan struct{}
	haltOnce sync.Once
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:        w,
		message:  message,
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// start animates until halt is called or ctx is done.
func (s *spinner) start(ctx context.Context) {
	go func() {
		defer close(s.finished)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				s.clear()
				return
			case <-s.quit:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(s.message))
	s.width = max(s.width, len(s.message))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+4))
	}
}

func (s *spinner) setMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// halt stops the animation and clears the line. It may be called more than
// once, and before start.
func (s *spinner) halt() {
	s.haltOnce.Do(func() { close(s.quit) })
	select {
	case <-s.finished:
	case <-time.After(time.Second):
	}
	s.clear()
}
