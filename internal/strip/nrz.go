package strip

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"landing-lights.klederson.com/internal/engine"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// NRZ drives a WS2811/WS2812 strip through an SPI port.
type NRZ struct {
	port   spi.PortCloser
	dev    *nrzled.Dev
	enc    Encoder
	length int
}

// NewNRZ opens the SPI port and prepares a strip of length pixels.
func NewNRZ(portName string, length int, enc Encoder) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "init periph host drivers")
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, errors.Wrapf(err, "open SPI port %s", portName)
	}
	opts := nrzled.DefaultOpts
	opts.NumPixels = length
	opts.Channels = 3
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, errors.Wrap(err, "init nrzled strip")
	}
	logrus.WithFields(logrus.Fields{"port": portName, "pixels": length}).Info("LED strip ready")
	return &NRZ{port: port, dev: dev, enc: enc, length: length}, nil
}

// Show writes the whole frame.
func (s *NRZ) Show(f engine.Frame) error {
	if len(f) != s.length {
		return errors.Errorf("frame has %d pixels, strip has %d", len(f), s.length)
	}
	if _, err := s.dev.Write(s.enc.Encode(f)); err != nil {
		return errors.Wrap(err, "write strip")
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *NRZ) Close() error {
	if err := s.dev.Halt(); err != nil {
		logrus.WithError(err).Warn("halt strip")
	}
	return s.port.Close()
}
