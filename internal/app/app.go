package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"landing-lights.klederson.com/internal/controller"
	"landing-lights.klederson.com/internal/engine"
	"landing-lights.klederson.com/internal/events"
	"landing-lights.klederson.com/internal/sensor"
	"landing-lights.klederson.com/internal/strip"
	"landing-lights.klederson.com/internal/ui"
)

const (
	historySize = 240
	nudgeStep   = 10.0 // centimetres per arrow key
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	queue   *events.Queue
	mock    *sensor.Mock
	history *DistanceRing
}

// AppModel is the root Bubble Tea model for the landing lights demo. It
// never touches controller state: keys become events on the queue.
type AppModel struct {
	width  int
	height int

	sensorKind string
	length     int

	frame engine.Frame
	snap  controller.Snapshot
	err   error

	shared *shared
}

// New creates a model for a strip of length pixels. mock may be nil when
// the demo runs against a real sensor; the move keys are then ignored.
func New(length int, sensorKind string, q *events.Queue, mock *sensor.Mock) AppModel {
	return AppModel{
		sensorKind: sensorKind,
		length:     length,
		snap:       controller.Snapshot{DoorOpen: true},
		shared: &shared{
			queue:   q,
			mock:    mock,
			history: NewDistanceRing(historySize),
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.SetWindowTitle("landing-lights")
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case strip.FrameMsg:
		m.frame = msg.Frame
		return m, nil

	case SnapshotMsg:
		m.snap = controller.Snapshot(msg)
		m.shared.history.Push(float64(msg.Scaled))
		return m, nil

	case LoopDoneMsg:
		m.err = msg.Err
		if msg.Err != nil {
			logrus.WithError(msg.Err).Error("controller loop stopped")
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "d", "D":
		m.shared.queue.Push(events.Door(!m.snap.DoorOpen, "keyboard"))

	case "r", "R":
		m.shared.queue.Push(events.Query("keyboard"))

	case "up", "k":
		if m.shared.mock != nil {
			m.shared.mock.Nudge(nudgeStep)
		}

	case "down", "j":
		if m.shared.mock != nil {
			m.shared.mock.Nudge(-nudgeStep)
		}

	case "a", "A":
		if m.shared.mock != nil {
			m.shared.mock.Resume()
		}
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing landing lights..."
	}

	manual := m.shared.mock != nil && m.shared.mock.Manual()
	menuBar := ui.RenderMenuBar(m.width, m.sensorKind, manual)
	stripPanel := ui.RenderStripPanel(m.frame, m.width)
	infoPanel := ui.RenderInfoPanel(m.snap, m.length, m.shared.history.Values(), m.width)
	statusBar := ui.RenderStatusBar(m.width, m.snap.Linked, m.snap.Stats)

	return ui.ComposeLayout(menuBar, stripPanel, infoPanel, statusBar)
}

// Err returns the controller error that ended the program, if any.
func (m AppModel) Err() error {
	return m.err
}
