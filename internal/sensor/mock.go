package sensor

import (
	"context"
	"math/rand"
	"sync"
)

// Mock simulates a car driving into the garage: it approaches from the far
// end, creeps to a stop close to the wall, waits, then backs out again.
// Nudge lets the demo UI push the car around by hand.
type Mock struct {
	mu      sync.Mutex
	pos     float64 // centimetres from the sensor
	speed   float64 // centimetres per sample, negative is approaching
	hold    int     // samples left parked
	manual  bool
	noise   float64
	dropout float64 // probability of a missing echo
	rng     *rand.Rand
}

const (
	mockFar   = 320.0
	mockStop  = 10.0
	mockSpeed = 12.0
	mockHold  = 24
)

// NewMock returns a simulated sensor starting at the far end of the garage.
func NewMock() *Mock {
	return &Mock{
		pos:     mockFar,
		speed:   -mockSpeed,
		noise:   1.5,
		dropout: 0.01,
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
}

// Sample advances the simulation by one step and returns the distance.
func (m *Mock) Sample(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.manual {
		m.advance()
	}
	if m.rng.Float64() < m.dropout {
		return 0, nil
	}
	d := m.pos + (m.rng.Float64()-0.5)*2*m.noise
	if d < 0 {
		d = 0
	}
	return int(d), nil
}

func (m *Mock) advance() {
	if m.hold > 0 {
		m.hold--
		if m.hold == 0 {
			m.speed = mockSpeed
		}
		return
	}
	// slow down over the last metre like a careful driver
	step := m.speed
	if m.speed < 0 && m.pos < 100 {
		step = m.speed * (m.pos / 100)
		if step > -1 {
			step = -1
		}
	}
	m.pos += step
	switch {
	case m.speed < 0 && m.pos <= mockStop:
		m.pos = mockStop
		m.speed = 0
		m.hold = mockHold
	case m.speed > 0 && m.pos >= mockFar:
		m.pos = mockFar
		m.speed = -mockSpeed
	}
}

// Nudge moves the car by delta centimetres and freezes the automatic drive
// until Resume is called.
func (m *Mock) Nudge(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manual = true
	m.pos += delta
	if m.pos < 0 {
		m.pos = 0
	}
}

// Resume hands control back to the automatic drive.
func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manual = false
	if m.speed == 0 && m.hold == 0 {
		m.speed = -mockSpeed
	}
}

// Manual reports whether the car is under manual control.
func (m *Mock) Manual() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.manual
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }
