// Package messaging connects the controller to the MQTT broker: door state
// and distance queries in, distance notifications out.
package messaging

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"landing-lights.klederson.com/internal/config"
	"landing-lights.klederson.com/internal/events"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = time.Second
)

// Link owns the broker session. Inbound messages are never applied directly;
// they are turned into events and queued for the control loop.
type Link struct {
	client mqtt.Client
	cfg    config.MQTTConfig
	queue  *events.Queue
	doorID byte
	sleep  func(ctx context.Context, d time.Duration)
}

// NewLink builds a client from cfg. It does not connect; the control loop
// calls Maintain every tick.
func NewLink(cfg config.MQTTConfig, q *events.Queue) *Link {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(false).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logrus.WithError(err).Warn("MQTT connection lost")
		})
	return newLink(mqtt.NewClient(opts), cfg, q)
}

func newLink(client mqtt.Client, cfg config.MQTTConfig, q *events.Queue) *Link {
	l := &Link{
		client: client,
		cfg:    cfg,
		queue:  q,
		sleep:  sleepCtx,
	}
	if len(cfg.DoorID) > 0 {
		l.doorID = cfg.DoorID[0]
	}
	return l
}

// Maintain makes sure the session is up. It tries at most RetryAttempts
// times, pausing RetryDelay between attempts, and reports whether the link is
// usable for this tick. Failure is absorbed: the next tick tries again.
func (l *Link) Maintain(ctx context.Context) bool {
	if l.client.IsConnected() {
		return true
	}
	for attempt := 1; attempt <= l.cfg.RetryAttempts; attempt++ {
		if ctx.Err() != nil {
			return false
		}
		logrus.WithFields(logrus.Fields{"broker": l.cfg.Broker, "attempt": attempt}).Info("connecting to MQTT")
		err := l.connect()
		if err == nil {
			logrus.WithField("broker", l.cfg.Broker).Info("MQTT connected")
			return true
		}
		logrus.WithError(err).Warn("MQTT connect failed")
		if attempt < l.cfg.RetryAttempts {
			l.sleep(ctx, l.cfg.RetryDelay)
		}
	}
	logrus.WithField("broker", l.cfg.Broker).Errorf("failed to connect to MQTT server after %d attempts", l.cfg.RetryAttempts)
	return false
}

func (l *Link) connect() error {
	token := l.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errors.New("connect timed out")
	}
	if err := token.Error(); err != nil {
		return err
	}
	for _, topic := range []string{l.cfg.DoorTopic, l.cfg.QueryTopic} {
		sub := l.client.Subscribe(topic, 0, l.handle)
		if !sub.WaitTimeout(connectTimeout) {
			return errors.Errorf("subscribe %s timed out", topic)
		}
		if err := sub.Error(); err != nil {
			return errors.Wrapf(err, "subscribe %s", topic)
		}
	}
	return nil
}

// handle runs on the client's goroutine and only enqueues.
func (l *Link) handle(_ mqtt.Client, msg mqtt.Message) {
	switch msg.Topic() {
	case l.cfg.DoorTopic:
		open, err := ParseDoor(msg.Payload(), l.doorID)
		if err != nil {
			logrus.WithField("payload", string(msg.Payload())).Debug("ignoring door message")
			return
		}
		l.queue.Push(events.Door(open, msg.Topic()))
	case l.cfg.QueryTopic:
		l.queue.Push(events.Query(msg.Topic()))
	}
}

// Publish sends the distance notification. When the link is down the
// notification is dropped, not queued.
func (l *Link) Publish(distance int) bool {
	if !l.client.IsConnected() {
		return false
	}
	payload := FormatDistance(distance)
	logrus.WithField("topic", l.cfg.DistanceTopic).Debug(payload)
	token := l.client.Publish(l.cfg.DistanceTopic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
		logrus.WithError(token.Error()).Warn("publish distance failed")
		return false
	}
	return true
}

// Close disconnects, allowing 250ms for in-flight work.
func (l *Link) Close() {
	if l.client.IsConnected() {
		l.client.Disconnect(250)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
