package strip

import (
	"github.com/sirupsen/logrus"
	"landing-lights.klederson.com/internal/engine"
)

// Log is a headless strip that records each flush in the log.
type Log struct {
	flushes int
}

// NewLog creates a log-only strip.
func NewLog() *Log { return &Log{} }

func (s *Log) Show(f engine.Frame) error {
	s.flushes++
	var c engine.Color
	if len(f) > 0 {
		c = f[0]
	}
	logrus.WithFields(logrus.Fields{
		"lit":    f.Lit(),
		"pixels": len(f),
		"color":  c.Hex(),
		"flush":  s.flushes,
	}).Info("strip")
	return nil
}

func (s *Log) Close() error { return nil }
