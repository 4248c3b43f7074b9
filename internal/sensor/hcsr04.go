package sensor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Sound travels one centimetre and back in about 58.2µs.
const echoMicrosPerCm = 58.2

type triggerPin interface {
	Out(l gpio.Level) error
}

type echoPin interface {
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// HCSR04 drives an HC-SR04 style ultrasonic ranger over two GPIO lines.
type HCSR04 struct {
	trig    triggerPin
	echo    echoPin
	timeout time.Duration
	sleep   func(time.Duration)
}

// NewHCSR04 initialises the host drivers and claims the named pins.
func NewHCSR04(trigName, echoName string, timeout time.Duration) (*HCSR04, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "init periph host drivers")
	}
	trig := gpioreg.ByName(trigName)
	if trig == nil {
		return nil, errors.Errorf("trigger pin %s not found", trigName)
	}
	echo := gpioreg.ByName(echoName)
	if echo == nil {
		return nil, errors.Errorf("echo pin %s not found", echoName)
	}
	if err := trig.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(err, "configure trigger pin %s", trigName)
	}
	if err := echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, errors.Wrapf(err, "configure echo pin %s", echoName)
	}
	logrus.WithFields(logrus.Fields{"trigger": trigName, "echo": echoName, "timeout": timeout}).Info("ultrasonic sensor ready")
	return newHCSR04(trig, echo, timeout), nil
}

func newHCSR04(trig triggerPin, echo echoPin, timeout time.Duration) *HCSR04 {
	return &HCSR04{
		trig:    trig,
		echo:    echo,
		timeout: timeout,
		sleep:   time.Sleep,
	}
}

// Sample fires a 10µs trigger pulse and times the echo. Each wait is bounded
// by the configured timeout; a missing edge reads as 0.
func (s *HCSR04) Sample(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.trig.Out(gpio.Low); err != nil {
		return 0, errors.Wrap(err, "trigger low")
	}
	s.sleep(2 * time.Microsecond)
	if err := s.trig.Out(gpio.High); err != nil {
		return 0, errors.Wrap(err, "trigger high")
	}
	s.sleep(10 * time.Microsecond)
	if err := s.trig.Out(gpio.Low); err != nil {
		return 0, errors.Wrap(err, "trigger low")
	}

	d := s.pulse()
	cm := EchoToCentimetres(d)
	logrus.WithFields(logrus.Fields{"echo": d, "cm": cm}).Debug("distance")
	return cm, nil
}

func (s *HCSR04) pulse() time.Duration {
	if !s.waitFor(gpio.High) {
		return 0
	}
	start := time.Now()
	if !s.waitFor(gpio.Low) {
		return 0
	}
	return time.Since(start)
}

func (s *HCSR04) waitFor(l gpio.Level) bool {
	start := time.Now()
	for s.echo.Read() != l {
		remaining := s.timeout - time.Since(start)
		if remaining <= 0 {
			return false
		}
		if !s.echo.WaitForEdge(remaining) {
			return s.echo.Read() == l
		}
	}
	return true
}

// Close leaves the trigger line low.
func (s *HCSR04) Close() error {
	return s.trig.Out(gpio.Low)
}

// EchoToCentimetres converts an echo pulse width into whole centimetres.
func EchoToCentimetres(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(float64(d.Microseconds()) / echoMicrosPerCm)
}
