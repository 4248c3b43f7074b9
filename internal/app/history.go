package app

// DistanceRing is a circular buffer of recent scaled distances.
type DistanceRing struct {
	buf   []float64
	pos   int
	count int
}

// NewDistanceRing creates a ring holding at most capacity values.
func NewDistanceRing(capacity int) *DistanceRing {
	if capacity < 1 {
		capacity = 1
	}
	return &DistanceRing{buf: make([]float64, capacity)}
}

// Push adds a value, overwriting the oldest when full.
func (r *DistanceRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored values oldest first.
func (r *DistanceRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
		return out
	}
	n := copy(out, r.buf[r.pos:])
	copy(out[n:], r.buf[:r.pos])
	return out
}

// Len returns the number of stored values.
func (r *DistanceRing) Len() int {
	return r.count
}
