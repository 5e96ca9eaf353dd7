package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// writerIsTTY returns true if w exposes an Fd() method (e.g. *os.File) and
// that fd is a terminal.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner reports the phase a sync is in. On a terminal the current phase is
// redrawn in place with an animation frame and the seconds spent in it:
//
//	/  Announcing 4 new device(s) (7s)
//
// On any other writer each new phase is printed once on its own line.
type Spinner struct {
	mu         sync.Mutex
	writer     io.Writer
	tty        bool
	phase      string
	phaseStart time.Time
	frame      int
	width      int // width of the last redraw, cleared by the next one
	running    bool
	done       chan struct{}
}

// NewSpinner creates a spinner writing to w. Nothing is shown until the
// first call to Phase.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		writer: w,
		tty:    writerIsTTY(w),
	}
}

// Phase switches the spinner to a new phase, starting it on first use.
// Repeating the current phase is a no-op.
func (s *Spinner) Phase(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running && name == s.phase {
		return
	}
	s.phase = name
	s.phaseStart = time.Now()

	if !s.tty {
		s.running = true
		fmt.Fprintf(s.writer, "%s...\n", name)
		return
	}

	s.redraw()
	if !s.running {
		s.running = true
		s.done = make(chan struct{})
		go s.animate(s.done)
	}
}

func (s *Spinner) animate(done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if s.running {
				s.frame = (s.frame + 1) % len(spinnerFrames)
				s.redraw()
			}
			s.mu.Unlock()
		case <-done:
			return
		}
	}
}

// redraw must be called with the lock held.
func (s *Spinner) redraw() {
	line := s.render(time.Since(s.phaseStart))
	pad := ""
	if n := len(line); n < s.width {
		pad = strings.Repeat(" ", s.width-n)
	}
	fmt.Fprintf(s.writer, "\r%s%s", line, pad)
	s.width = len(line)
}

func (s *Spinner) render(elapsed time.Duration) string {
	line := spinnerFrames[s.frame] + "  " + s.phase
	if secs := int(elapsed.Seconds()); secs > 0 {
		line += fmt.Sprintf(" (%ds)", secs)
	}
	return line
}

// Stop ends the animation and clears the spinner line. It is safe to call
// more than once, and before any phase was reported.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if s.tty {
		close(s.done)
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}
