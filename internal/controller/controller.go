// Package controller runs the tick loop: maintain the broker link, drain
// inbound events, sample, step the engine, render and notify, then wait.
package controller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"landing-lights.klederson.com/internal/engine"
	"landing-lights.klederson.com/internal/events"
	"landing-lights.klederson.com/internal/sensor"
	"landing-lights.klederson.com/internal/strip"
)

// Notifier is the outbound half of the messaging link.
type Notifier interface {
	// Maintain runs once per tick and reports whether publishing is possible.
	Maintain(ctx context.Context) bool
	Publish(distance int) bool
}

// Snapshot is the per-tick status handed to an Observer.
type Snapshot struct {
	Tick      uint64
	Raw       int
	Scaled    int
	Zone      engine.Zone
	Lit       int
	Color     engine.Color
	DoorOpen  bool
	Redrawn   bool
	Linked    bool
	Published bool
	Stats     Stats
}

// Controller owns the engine State. Only the goroutine running Run or Tick
// may touch it.
type Controller struct {
	params   engine.Params
	delay    time.Duration
	sensor   sensor.Sensor
	strip    strip.Strip
	notifier Notifier
	queue    *events.Queue
	observe  func(Snapshot)

	state engine.State
	stats Stats
}

// Option customises a Controller.
type Option func(*Controller)

// WithNotifier enables distance notifications and query answers.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithObserver registers fn to receive a Snapshot after every tick.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.observe = fn }
}

// New creates a controller in the boot state.
func New(p engine.Params, delay time.Duration, s sensor.Sensor, st strip.Strip, q *events.Queue, opts ...Option) *Controller {
	c := &Controller{
		params: p,
		delay:  delay,
		sensor: s,
		strip:  st,
		queue:  q,
		state:  engine.NewState(p.Length),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run ticks until ctx is cancelled. The delay follows each tick whether or
// not it redrew.
func (c *Controller) Run(ctx context.Context) error {
	logrus.WithFields(logrus.Fields{
		"pixels": c.params.Length,
		"scale":  c.params.ScalingFactor,
		"delay":  c.delay,
	}).Info("control loop started")
	for {
		c.Tick(ctx)
		select {
		case <-ctx.Done():
			logrus.WithField("ticks", c.stats.Ticks).Info("control loop stopped")
			return nil
		case <-time.After(c.delay):
		}
	}
}

// Tick runs one iteration without the trailing delay.
func (c *Controller) Tick(ctx context.Context) Snapshot {
	linked := false
	if c.notifier != nil {
		linked = c.notifier.Maintain(ctx)
	}

	for _, e := range c.queue.Drain() {
		c.apply(e, linked)
	}

	raw, err := c.sensor.Sample(ctx)
	if err != nil {
		// ctx cancelled mid-sample; treat like a missing echo
		logrus.WithError(err).Debug("sample failed")
		raw = 0
	}

	var res engine.Result
	c.state, res = engine.Step(c.params, c.state, raw)
	c.stats.Ticks++

	if res.Redraw {
		if err := c.strip.Show(res.Frame); err != nil {
			logrus.WithError(err).Warn("strip flush failed")
		} else {
			c.stats.Redraws++
		}
	}

	published := false
	if res.Notify && linked {
		published = c.publish(res.Distance)
	}

	snap := Snapshot{
		Tick:      c.stats.Ticks,
		Raw:       res.Raw,
		Scaled:    res.Scaled,
		Zone:      res.Zone,
		Lit:       res.Lit,
		Color:     res.Color,
		DoorOpen:  c.state.DoorOpen,
		Redrawn:   res.Redraw,
		Linked:    linked,
		Published: published,
		Stats:     c.stats,
	}
	snap.Stats.DroppedEvents = c.queue.Dropped()
	if c.observe != nil {
		c.observe(snap)
	}
	return snap
}

func (c *Controller) apply(e events.Event, linked bool) {
	switch e.Kind {
	case events.DoorChanged:
		if c.state.DoorOpen != e.Open {
			logrus.WithFields(logrus.Fields{"open": e.Open, "source": e.Source}).Info("door state changed")
		}
		c.state.DoorOpen = e.Open
		c.stats.DoorEvents++
	case events.DistanceQuery:
		c.stats.Queries++
		if linked {
			c.publish(c.state.Reported(c.params.Length))
		}
	}
}

func (c *Controller) publish(distance int) bool {
	if c.notifier.Publish(distance) {
		c.stats.Published++
		return true
	}
	c.stats.Unsent++
	return false
}

// State returns a copy of the engine state.
func (c *Controller) State() engine.State {
	return c.state
}

// Stats returns a copy of the counters.
func (c *Controller) Stats() Stats {
	s := c.stats
	s.DroppedEvents = c.queue.Dropped()
	return s
}
