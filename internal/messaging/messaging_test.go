package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"landing-lights.klederson.com/internal/config"
	"landing-lights.klederson.com/internal/events"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	payload interface{}
}

type fakeClient struct {
	mqtt.Client
	connected    bool
	failConnects int
	connects     int
	subs         map[string]mqtt.MessageHandler
	pubs         []published
}

func newFakeClient() *fakeClient {
	return &fakeClient{subs: map[string]mqtt.MessageHandler{}}
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Connect() mqtt.Token {
	c.connects++
	if c.connects <= c.failConnects {
		return &fakeToken{err: errors.New("connection refused")}
	}
	c.connected = true
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.subs[topic] = cb
	return &fakeToken{}
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.pubs = append(c.pubs, published{topic, payload})
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(uint) { c.connected = false }

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func testLink(c *fakeClient) (*Link, *events.Queue) {
	q := events.NewQueue(8)
	cfg := config.Default().MQTT
	cfg.RetryAttempts = 3
	l := newLink(c, cfg, q)
	l.sleep = func(context.Context, time.Duration) {}
	return l, q
}

func TestParseDoor(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		open    bool
		ignored bool
	}{
		{"closed", "1:closed", false, false},
		{"open", "1:open", true, false},
		{"any other state is open", "1:opening", true, false},
		{"prefix of closed is open", "1:close", true, false},
		{"closed with suffix is open", "1:closed!", true, false},
		{"case matters", "1:CLOSED", true, false},
		{"other door", "2:closed", false, true},
		{"too short", "1:", false, true},
		{"empty", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, err := ParseDoor([]byte(tt.payload), '1')
			if tt.ignored {
				assert.ErrorIs(t, err, ErrIgnored)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.open, open)
		})
	}
}

func TestDistancePayload(t *testing.T) {
	assert.Equal(t, "1:25", FormatDistance(25))
	n, err := ParseDistance([]byte("1:60"))
	require.NoError(t, err)
	assert.Equal(t, 60, n)

	_, err = ParseDistance([]byte("2:60"))
	assert.Error(t, err)
	_, err = ParseDistance([]byte("1:abc"))
	assert.Error(t, err)
}

func TestMaintainConnectsAndSubscribes(t *testing.T) {
	c := newFakeClient()
	l, _ := testLink(c)

	assert.True(t, l.Maintain(context.Background()))
	assert.Equal(t, 1, c.connects)
	assert.Contains(t, c.subs, "garageDoors")
	assert.Contains(t, c.subs, "carDistanceQuery")

	assert.True(t, l.Maintain(context.Background()))
	assert.Equal(t, 1, c.connects, "already connected")
}

func TestMaintainRetriesWithinBudget(t *testing.T) {
	c := newFakeClient()
	c.failConnects = 2
	l, _ := testLink(c)
	assert.True(t, l.Maintain(context.Background()))
	assert.Equal(t, 3, c.connects)
}

func TestMaintainGivesUpAfterBudget(t *testing.T) {
	c := newFakeClient()
	c.failConnects = 10
	l, _ := testLink(c)
	assert.False(t, l.Maintain(context.Background()))
	assert.Equal(t, 3, c.connects)

	// next tick starts a fresh budget
	assert.False(t, l.Maintain(context.Background()))
	assert.Equal(t, 6, c.connects)
}

func TestMaintainDefaultBudgetCountsAttempts(t *testing.T) {
	c := newFakeClient()
	c.failConnects = 100
	cfg := config.Default().MQTT
	var slept int
	l := newLink(c, cfg, events.NewQueue(4))
	l.sleep = func(context.Context, time.Duration) { slept++ }

	assert.False(t, l.Maintain(context.Background()))
	assert.Equal(t, config.RetryAttempts, c.connects)
	assert.Equal(t, config.RetryAttempts-1, slept, "no pause after the last attempt")
}

func TestHandleQueuesEvents(t *testing.T) {
	c := newFakeClient()
	l, q := testLink(c)
	require.True(t, l.Maintain(context.Background()))

	c.subs["garageDoors"](c, fakeMessage{topic: "garageDoors", payload: []byte("1:closed")})
	c.subs["garageDoors"](c, fakeMessage{topic: "garageDoors", payload: []byte("2:open")})
	c.subs["garageDoors"](c, fakeMessage{topic: "garageDoors", payload: []byte("1:")})
	c.subs["carDistanceQuery"](c, fakeMessage{topic: "carDistanceQuery", payload: []byte("x")})

	got := q.Drain()
	assert.Equal(t, []events.Event{
		events.Door(false, "garageDoors"),
		events.Query("carDistanceQuery"),
	}, got)
}

func TestPublish(t *testing.T) {
	c := newFakeClient()
	l, _ := testLink(c)

	assert.False(t, l.Publish(10), "dropped while disconnected")
	require.True(t, l.Maintain(context.Background()))
	assert.True(t, l.Publish(25))

	require.Len(t, c.pubs, 1)
	assert.Equal(t, "carDistance", c.pubs[0].topic)
	assert.Equal(t, "1:25", c.pubs[0].payload)

	l.Close()
	assert.False(t, c.IsConnected())
	assert.False(t, l.Publish(30), "dropped after close")
	assert.Len(t, c.pubs, 1)
}
