package strip

import (
	tea "github.com/charmbracelet/bubbletea"
	"landing-lights.klederson.com/internal/engine"
)

// FrameMsg carries a flushed frame to the terminal UI.
type FrameMsg struct {
	Frame engine.Frame
}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Terminal renders frames in the bubbletea UI instead of on hardware.
type Terminal struct {
	program Sender
}

// NewTerminal creates a strip that forwards frames to p. Brightness is not
// applied: a dimmed strip is unreadable on screen.
func NewTerminal(p Sender) *Terminal {
	return &Terminal{program: p}
}

// Show copies the frame so the UI never shares memory with the loop.
func (s *Terminal) Show(f engine.Frame) error {
	cp := make(engine.Frame, len(f))
	copy(cp, f)
	if s.program != nil {
		s.program.Send(FrameMsg{Frame: cp})
	}
	return nil
}

// Close is a no-op.
func (s *Terminal) Close() error { return nil }
