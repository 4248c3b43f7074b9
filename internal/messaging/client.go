package messaging

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"landing-lights.klederson.com/internal/config"
)

// Dial opens a one-off session for the command line tools, using the
// configured client id with a suffix so it never kicks the controller off.
func Dial(cfg config.MQTTConfig, suffix string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID + "-" + suffix).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(connectTimeout)
	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connect to %s", cfg.Broker)
	}
	return c, nil
}

// SendDoor publishes a door state for the configured door.
func SendDoor(c mqtt.Client, cfg config.MQTTConfig, state string) error {
	return publishWait(c, cfg.DoorTopic, cfg.DoorID+":"+state)
}

// SendQuery asks the controller to republish its cached distance.
func SendQuery(c mqtt.Client, cfg config.MQTTConfig) error {
	return publishWait(c, cfg.QueryTopic, "?")
}

// Watch calls fn for every distance notification until the client is
// disconnected by the caller.
func Watch(c mqtt.Client, cfg config.MQTTConfig, fn func(distance int, err error)) error {
	token := c.Subscribe(cfg.DistanceTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		fn(ParseDistance(msg.Payload()))
	})
	if token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "subscribe %s", cfg.DistanceTopic)
	}
	return nil
}

func publishWait(c mqtt.Client, topic, payload string) error {
	token := c.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout + time.Second) {
		return errors.Errorf("publish %s timed out", topic)
	}
	return errors.Wrapf(token.Error(), "publish %s", topic)
}
