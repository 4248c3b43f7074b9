package controller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats counts loop activity since start.
type Stats struct {
	Ticks         uint64
	Redraws       uint64
	Published     uint64
	Unsent        uint64
	Queries       uint64
	DoorEvents    uint64
	DroppedEvents uint64
}

// Fields renders the counters for structured logging.
func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"ticks":     s.Ticks,
		"redraws":   s.Redraws,
		"published": s.Published,
		"unsent":    s.Unsent,
		"queries":   s.Queries,
		"doors":     s.DoorEvents,
		"dropped":   s.DroppedEvents,
	}
}

// LogStats logs the latest snapshot's counters every interval until ctx is
// done. It reads only what the observer hands it, never the controller.
func LogStats(ctx context.Context, interval time.Duration, latest func() Stats) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logrus.WithFields(latest().Fields()).Info("stats")
		}
	}
}
