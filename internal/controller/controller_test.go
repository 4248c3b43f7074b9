package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"landing-lights.klederson.com/internal/engine"
	"landing-lights.klederson.com/internal/events"
)

var garage = engine.Params{
	Length:        60,
	ScalingFactor: 4,
	Thresholds:    engine.Thresholds{RedFlash: 3, Red: 20, Yellow: 40},
}

// scriptSensor returns the scripted raw readings in order, repeating the
// last one when the script runs out.
type scriptSensor struct {
	raws    []int
	samples int
}

func (s *scriptSensor) Sample(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	i := s.samples
	if i >= len(s.raws) {
		i = len(s.raws) - 1
	}
	s.samples++
	return s.raws[i], nil
}

func (s *scriptSensor) Close() error { return nil }

type recordStrip struct {
	frames []engine.Frame
	fail   bool
}

func (r *recordStrip) Show(f engine.Frame) error {
	if r.fail {
		return errors.New("spi gone")
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *recordStrip) Close() error { return nil }

type publication struct {
	distance     int
	samplesSoFar int
}

type fakeNotifier struct {
	up      bool
	failPub bool
	sensor  *scriptSensor
	pubs    []publication
	maintns int
}

func (n *fakeNotifier) Maintain(context.Context) bool {
	n.maintns++
	return n.up
}

func (n *fakeNotifier) Publish(d int) bool {
	if !n.up || n.failPub {
		return false
	}
	n.pubs = append(n.pubs, publication{d, n.sensor.samples})
	return true
}

func setup(raws ...int) (*Controller, *scriptSensor, *recordStrip, *fakeNotifier, *events.Queue) {
	s := &scriptSensor{raws: raws}
	st := &recordStrip{}
	n := &fakeNotifier{up: true, sensor: s}
	q := events.NewQueue(8)
	c := New(garage, time.Millisecond, s, st, q, WithNotifier(n))
	return c, s, st, n, q
}

func TestTickRendersOnceForSteadyDistance(t *testing.T) {
	c, _, st, n, _ := setup(100)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		c.Tick(ctx)
	}
	require.Len(t, st.frames, 1)
	assert.Equal(t, 25, st.frames[0].Lit())
	assert.Equal(t, engine.Yellow, st.frames[0][0])

	// notifications fire every tick while the door is open
	require.Len(t, n.pubs, 4)
	assert.Equal(t, 25, n.pubs[3].distance)
	assert.Equal(t, 4, n.maintns)
	assert.Equal(t, uint64(1), c.Stats().Redraws)
}

func TestTickFlashRedrawsEveryTick(t *testing.T) {
	c, _, st, _, _ := setup(8)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		snap := c.Tick(ctx)
		assert.Equal(t, engine.ZoneDangerFlash, snap.Zone)
	}
	require.Len(t, st.frames, 4)
	assert.Equal(t, 60, st.frames[0].Lit())
	assert.Equal(t, 0, st.frames[1].Lit())
	assert.Equal(t, 60, st.frames[2].Lit())
}

func TestDoorClosedBlanksAndSilences(t *testing.T) {
	c, _, st, n, q := setup(100, 8, 8)
	q.Push(events.Door(false, "garageDoors"))
	ctx := context.Background()

	snap := c.Tick(ctx)
	assert.False(t, snap.DoorOpen)
	assert.Equal(t, 0, snap.Lit)
	c.Tick(ctx)
	c.Tick(ctx)

	for _, f := range st.frames {
		assert.Equal(t, 0, f.Lit())
	}
	assert.Empty(t, n.pubs)

	q.Push(events.Door(true, "garageDoors"))
	snap = c.Tick(ctx)
	assert.True(t, snap.DoorOpen)
	assert.Equal(t, 60, snap.Lit)
	assert.Len(t, n.pubs, 1)
}

func TestQueryAnswersFromCache(t *testing.T) {
	c, s, _, n, q := setup(100, 400)
	ctx := context.Background()

	c.Tick(ctx)
	require.Equal(t, 1, s.samples)
	require.Len(t, n.pubs, 1)

	q.Push(events.Query("carDistanceQuery"))
	c.Tick(ctx)

	require.Len(t, n.pubs, 3)
	assert.Equal(t, publication{distance: 25, samplesSoFar: 1}, n.pubs[1], "answered before sampling")
	assert.Equal(t, 60, n.pubs[2].distance)
	assert.Equal(t, uint64(1), c.Stats().Queries)
}

func TestQueryAnsweredWhileDoorClosed(t *testing.T) {
	c, _, _, n, q := setup(100)
	ctx := context.Background()
	c.Tick(ctx)
	q.Push(events.Door(false, "garageDoors"))
	q.Push(events.Query("carDistanceQuery"))
	c.Tick(ctx)

	require.Len(t, n.pubs, 2)
	assert.Equal(t, 25, n.pubs[1].distance)
}

func TestLinkDownIsAbsorbed(t *testing.T) {
	c, _, st, n, q := setup(100)
	n.up = false
	q.Push(events.Query("carDistanceQuery"))

	snap := c.Tick(context.Background())
	assert.False(t, snap.Linked)
	assert.False(t, snap.Published)
	assert.Len(t, st.frames, 1, "rendering does not depend on the link")
	assert.Empty(t, n.pubs)
}

func TestFailedPublishCountsUnsent(t *testing.T) {
	c, _, _, n, q := setup(100, 100)
	n.failPub = true
	ctx := context.Background()
	c.Tick(ctx)
	q.Push(events.Query("carDistanceQuery"))
	snap := c.Tick(ctx)

	assert.True(t, snap.Linked)
	assert.False(t, snap.Published)
	assert.Equal(t, uint64(0), snap.Stats.Published)
	assert.Equal(t, uint64(3), snap.Stats.Unsent, "two ticks and one query")
	assert.Equal(t, uint64(3), c.Stats().Fields()["unsent"])
}

func TestStripFailureDoesNotStopLoop(t *testing.T) {
	c, _, st, _, _ := setup(100, 200)
	st.fail = true
	ctx := context.Background()
	c.Tick(ctx)
	st.fail = false
	c.Tick(ctx)
	assert.Len(t, st.frames, 1)
	assert.Equal(t, uint64(1), c.Stats().Redraws)
}

func TestNoNotifier(t *testing.T) {
	s := &scriptSensor{raws: []int{40}}
	st := &recordStrip{}
	q := events.NewQueue(4)
	q.Push(events.Query("keyboard"))
	c := New(garage, time.Millisecond, s, st, q)

	snap := c.Tick(context.Background())
	assert.Equal(t, 10, snap.Scaled)
	assert.Equal(t, engine.ZoneDanger, snap.Zone)
	assert.Equal(t, uint64(1), c.Stats().Queries)
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _, _, _, _ := setup(100)
	var snaps []Snapshot
	c.observe = func(s Snapshot) { snaps = append(snaps, s) }

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	require.NotEmpty(t, snaps)
	assert.Equal(t, uint64(1), snaps[0].Tick)
	assert.Equal(t, snaps[len(snaps)-1].Tick, c.Stats().Ticks)
}

func TestStatsFields(t *testing.T) {
	s := Stats{Ticks: 3, Redraws: 1}
	f := s.Fields()
	assert.Equal(t, uint64(3), f["ticks"])
	assert.Equal(t, uint64(1), f["redraws"])
}
