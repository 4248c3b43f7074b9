// Package strip pushes engine frames to a light strip: a WS281x strip on
// SPI, the terminal demo view, or the log.
package strip

import (
	"strings"

	"github.com/pkg/errors"
	"landing-lights.klederson.com/internal/engine"
)

// Strip sets every pixel and flushes in one call.
type Strip interface {
	Show(f engine.Frame) error
	Close() error
}

// Encoder turns frames into the raw byte stream a driver expects.
type Encoder struct {
	order      [3]int // source channel index for each output byte
	brightness uint8
}

// NewEncoder validates order, a permutation of "RGB" such as "GRB".
func NewEncoder(order string, brightness uint8) (Encoder, error) {
	order = strings.ToUpper(order)
	var e Encoder
	if len(order) != 3 {
		return e, errors.Errorf("colour order %q is not a permutation of RGB", order)
	}
	var seen [3]bool
	for i, ch := range order {
		idx := strings.IndexRune("RGB", ch)
		if idx < 0 || seen[idx] {
			return e, errors.Errorf("colour order %q is not a permutation of RGB", order)
		}
		seen[idx] = true
		e.order[i] = idx
	}
	e.brightness = brightness
	return e, nil
}

// Encode dims every pixel and lays the channels out in the configured order.
func (e Encoder) Encode(f engine.Frame) []byte {
	out := make([]byte, 0, len(f)*3)
	for _, c := range f {
		d := c.Dim(e.brightness)
		ch := [3]uint8{d.R, d.G, d.B}
		out = append(out, ch[e.order[0]], ch[e.order[1]], ch[e.order[2]])
	}
	return out
}
