package engine

// GateDoor blanks the strip when the door is closed. The second return value
// reports whether the outbound distance notification may fire this tick.
func GateDoor(ind Indication, doorOpen bool) (Indication, bool) {
	if !doorOpen {
		ind.Lit = 0
		return ind, false
	}
	return ind, true
}
