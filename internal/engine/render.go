package engine

// NeedsRedraw decides whether the hardware must be refreshed. Flashing always
// redraws, otherwise only a change of lit count or flash mode does.
func NeedsRedraw(lit int, flash bool, prevLit int, prevFlash bool) bool {
	return lit != prevLit || flash != prevFlash || flash
}
