package engine

// Oscillate overrides the classifier output with a full-strip flash when the
// scaled distance is below redFlash. The phase bit flips once per call while
// in the zone and is never reset on entry or exit, so the first visible phase
// after re-entry depends on where it was left.
func Oscillate(ind Indication, scaled, redFlash, length int, phase bool) (Indication, bool) {
	if scaled >= redFlash {
		ind.Flash = false
		return ind, phase
	}
	phase = !phase
	ind.Flash = true
	ind.Zone = ZoneDangerFlash
	ind.Lit = length
	if phase {
		ind.Color = Red
	} else {
		ind.Color = Off
	}
	return ind, phase
}
