package engine

import "fmt"

// Color is a single 8-bit-per-channel RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Zone colours.
var (
	Green  = Color{0, 255, 0}
	Yellow = Color{255, 255, 0}
	Red    = Color{255, 0, 0}
	Off    = Color{0, 0, 0}
)

// Hex returns the colour as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// IsOff reports whether every channel is zero.
func (c Color) IsOff() bool {
	return c == Off
}

// Dim scales every channel by brightness/255, the same way a strip driver
// applies a master brightness.
func (c Color) Dim(brightness uint8) Color {
	if brightness == 255 {
		return c
	}
	scale := func(v uint8) uint8 {
		return uint8((uint16(v)*uint16(brightness) + 127) / 255)
	}
	return Color{scale(c.R), scale(c.G), scale(c.B)}
}

// Frame is the full set of pixel colours for one strip refresh, index 0
// being the pixel nearest the controller.
type Frame []Color

// Compose builds a frame with the first lit pixels set to c and the rest off.
// lit is clamped to [0, length].
func Compose(length, lit int, c Color) Frame {
	lit = clamp(lit, 0, length)
	f := make(Frame, length)
	for i := 0; i < lit; i++ {
		f[i] = c
	}
	return f
}

// Lit counts the leading pixels that are not off.
func (f Frame) Lit() int {
	for i, c := range f {
		if c.IsOff() {
			return i
		}
	}
	return len(f)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
