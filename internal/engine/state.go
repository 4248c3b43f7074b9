package engine

// State is the cross-tick memory of the controller. It is owned by a single
// goroutine and threaded through Step by value.
type State struct {
	PrevLit    int
	PrevFlash  bool
	FlashPhase bool
	DoorOpen   bool
	LastScaled int
}

// NewState returns the boot state. PrevLit is one past the strip length and
// PrevFlash is true so the first tick always renders.
func NewState(length int) State {
	return State{
		PrevLit:   length + 1,
		PrevFlash: true,
		DoorOpen:  true,
	}
}

// Reported returns the cached distance clamped to [0, length], the value
// served to distance queries without taking a new sample.
func (s State) Reported(length int) int {
	return clamp(s.LastScaled, 0, length)
}
