// Package sensor provides distance sources for the control loop. Every
// source reports whole centimetres and degrades to 0 when no reading is
// available in time, which the engine shows as the closest zone.
package sensor

import (
	"context"

	"github.com/pkg/errors"
	"landing-lights.klederson.com/internal/config"
)

// Sensor samples the distance to the nearest object.
type Sensor interface {
	// Sample blocks for at most the sensor's own timeout. A missing echo or
	// stale reading yields 0 with a nil error.
	Sample(ctx context.Context) (int, error)
	Close() error
}

// New builds the sensor selected by cfg.Kind.
func New(cfg config.SensorConfig) (Sensor, error) {
	switch cfg.Kind {
	case "hcsr04":
		return NewHCSR04(cfg.TriggerPin, cfg.EchoPin, cfg.EchoTimeout)
	case "ble":
		s := NewBLE(cfg.BLEAddress, cfg.MeasuredPower, cfg.PathLossExp, cfg.BLEStale)
		if err := s.Start(); err != nil {
			return nil, err
		}
		return s, nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, errors.Errorf("unknown sensor kind %q", cfg.Kind)
	}
}
