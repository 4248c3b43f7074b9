// Package engine turns distance samples into strip frames. It holds no
// goroutines or globals; callers own the State and pass it through Step.
package engine

// Params is the static tuning of the engine.
type Params struct {
	Length        int
	ScalingFactor float64
	Thresholds    Thresholds
}

// Result describes the outcome of one tick.
type Result struct {
	Raw    int
	Scaled int
	Indication

	// Redraw is set when Frame must be pushed to the strip.
	Redraw bool
	Frame  Frame

	// Notify is set when Distance should be published.
	Notify   bool
	Distance int
}

// Step runs one tick of the pipeline: scale, classify, flash override, door
// gate and render gate. The returned State replaces the one passed in.
func Step(p Params, st State, raw int) (State, Result) {
	scaled := Scale(raw, p.ScalingFactor)

	ind := Classify(scaled, p.Length, p.Thresholds)
	ind, st.FlashPhase = Oscillate(ind, scaled, p.Thresholds.RedFlash, p.Length, st.FlashPhase)

	var notify bool
	ind, notify = GateDoor(ind, st.DoorOpen)

	res := Result{
		Raw:        raw,
		Scaled:     scaled,
		Indication: ind,
		Notify:     notify,
		Distance:   clamp(scaled, 0, p.Length),
	}
	if NeedsRedraw(ind.Lit, ind.Flash, st.PrevLit, st.PrevFlash) {
		res.Redraw = true
		res.Frame = Compose(p.Length, ind.Lit, ind.Color)
	}

	st.PrevLit = ind.Lit
	st.PrevFlash = ind.Flash
	st.LastScaled = scaled
	return st, res
}
