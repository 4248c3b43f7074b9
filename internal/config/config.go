package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"landing-lights.klederson.com/internal/engine"
)

const (
	// Strip
	StripLength     = 60
	StripPort       = "/dev/spidev0.0" // SPI port driving the WS2811 data line
	StripColorOrder = "RGB"            // byte order handed to the strip driver
	StripBrightness = 10               // master brightness, 0-255

	// Decision engine
	ScalingFactor     = 4.0
	YellowThreshold   = 40
	RedThreshold      = 20
	RedFlashThreshold = 3
	TickDelay         = 250 * time.Millisecond

	// Ultrasonic sensor
	TriggerPin  = "GPIO23"
	EchoPin     = "GPIO24"
	EchoTimeout = 38 * time.Millisecond // HC-SR04 returns a 38ms pulse on no echo

	// BLE proximity sensor
	MeasuredPower = -59.0           // RSSI at 1 meter (dBm)
	PathLossExp   = 2.5             // Path loss exponent (N)
	BLEStale      = 3 * time.Second // no advert for this long reads as 0
	BLESmoothing  = 0.3             // EMA smoothing factor (30% new, 70% old)

	// MQTT
	Broker        = "tcp://localhost:1883"
	ClientID      = "LandingLights"
	DoorTopic     = "garageDoors"
	QueryTopic    = "carDistanceQuery"
	DistanceTopic = "carDistance"
	DoorID        = '1'
	RetryAttempts = 20 // connect attempts per tick, first one included
	RetryDelay    = 2 * time.Second
	QueueSize     = 32

	// Stats
	StatsInterval = time.Minute

	// App
	AppName    = "LANDING-LIGHTS"
	AppVersion = "1.0"
	LogFile    = "landing-lights.log"
)

// Environment overrides for credentials, so they stay out of config files.
const (
	EnvMQTTUsername = "LANDING_MQTT_USERNAME"
	EnvMQTTPassword = "LANDING_MQTT_PASSWORD"
)

type StripConfig struct {
	Kind       string `yaml:"kind"` // nrzled, terminal or log
	Length     int    `yaml:"length"`
	Port       string `yaml:"port"`
	ColorOrder string `yaml:"color_order"`
	Brightness uint8  `yaml:"brightness"`
}

type EngineConfig struct {
	ScalingFactor float64           `yaml:"scaling_factor"`
	Thresholds    engine.Thresholds `yaml:"thresholds"`
	TickDelay     time.Duration     `yaml:"tick_delay"`
}

type SensorConfig struct {
	Kind          string        `yaml:"kind"` // hcsr04, ble or mock
	TriggerPin    string        `yaml:"trigger_pin"`
	EchoPin       string        `yaml:"echo_pin"`
	EchoTimeout   time.Duration `yaml:"echo_timeout"`
	BLEAddress    string        `yaml:"ble_address"`
	MeasuredPower float64       `yaml:"measured_power"`
	PathLossExp   float64       `yaml:"path_loss_exp"`
	BLEStale      time.Duration `yaml:"ble_stale"`
}

type MQTTConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Broker        string        `yaml:"broker"`
	ClientID      string        `yaml:"client_id"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	DoorTopic     string        `yaml:"door_topic"`
	QueryTopic    string        `yaml:"query_topic"`
	DistanceTopic string        `yaml:"distance_topic"`
	DoorID        string        `yaml:"door_id"`
	RetryAttempts int           `yaml:"retry_attempts"` // total connect attempts per tick
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the top-level structure of landing-lights.yaml.
type Config struct {
	Strip  StripConfig  `yaml:"strip"`
	Engine EngineConfig `yaml:"engine"`
	Sensor SensorConfig `yaml:"sensor"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Log    LogConfig    `yaml:"log"`
}

// Default returns the configuration of the reference garage build.
func Default() *Config {
	return &Config{
		Strip: StripConfig{
			Kind:       "nrzled",
			Length:     StripLength,
			Port:       StripPort,
			ColorOrder: StripColorOrder,
			Brightness: StripBrightness,
		},
		Engine: EngineConfig{
			ScalingFactor: ScalingFactor,
			Thresholds: engine.Thresholds{
				RedFlash: RedFlashThreshold,
				Red:      RedThreshold,
				Yellow:   YellowThreshold,
			},
			TickDelay: TickDelay,
		},
		Sensor: SensorConfig{
			Kind:          "hcsr04",
			TriggerPin:    TriggerPin,
			EchoPin:       EchoPin,
			EchoTimeout:   EchoTimeout,
			MeasuredPower: MeasuredPower,
			PathLossExp:   PathLossExp,
			BLEStale:      BLEStale,
		},
		MQTT: MQTTConfig{
			Enabled:       true,
			Broker:        Broker,
			ClientID:      ClientID,
			DoorTopic:     DoorTopic,
			QueryTopic:    QueryTopic,
			DistanceTopic: DistanceTopic,
			DoorID:        string(rune(DoorID)),
			RetryAttempts: RetryAttempts,
			RetryDelay:    RetryDelay,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of Default. An empty path or a missing file yields
// the defaults. Credentials from the environment win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrapf(err, "read config %s", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}
	if v := os.Getenv(EnvMQTTUsername); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		cfg.MQTT.Password = v
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with. Misordered
// thresholds are allowed and only show up in Warnings.
func (c *Config) Validate() error {
	if c.Strip.Length <= 0 {
		return errors.Errorf("strip.length must be > 0, got %d", c.Strip.Length)
	}
	if c.Engine.ScalingFactor <= 0 {
		return errors.Errorf("engine.scaling_factor must be > 0, got %v", c.Engine.ScalingFactor)
	}
	if c.Engine.TickDelay <= 0 {
		return errors.Errorf("engine.tick_delay must be > 0, got %s", c.Engine.TickDelay)
	}
	switch c.Strip.Kind {
	case "nrzled", "terminal", "log":
	default:
		return errors.Errorf("unknown strip.kind %q", c.Strip.Kind)
	}
	if len(c.Strip.ColorOrder) != 3 {
		return errors.Errorf("strip.color_order must be a permutation of RGB, got %q", c.Strip.ColorOrder)
	}
	switch c.Sensor.Kind {
	case "hcsr04", "ble", "mock":
	default:
		return errors.Errorf("unknown sensor.kind %q", c.Sensor.Kind)
	}
	if c.Sensor.Kind == "ble" && c.Sensor.BLEAddress == "" {
		return errors.New("sensor.ble_address is required for the ble sensor")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return errors.New("mqtt.broker is required when mqtt is enabled")
		}
		if len(c.MQTT.DoorID) != 1 {
			return errors.Errorf("mqtt.door_id must be a single byte, got %q", c.MQTT.DoorID)
		}
		if c.MQTT.RetryAttempts < 1 {
			return errors.Errorf("mqtt.retry_attempts must be >= 1, got %d", c.MQTT.RetryAttempts)
		}
	}
	return nil
}

// Warnings lists suspicious but runnable settings.
func (c *Config) Warnings() []string {
	var w []string
	if !c.Engine.Thresholds.Ordered(c.Strip.Length) {
		t := c.Engine.Thresholds
		w = append(w, fmt.Sprintf("thresholds not increasing (red_flash=%d red=%d yellow=%d strip=%d): some zones may never show",
			t.RedFlash, t.Red, t.Yellow, c.Strip.Length))
	}
	return w
}

// Params returns the engine tuning.
func (c *Config) Params() engine.Params {
	return engine.Params{
		Length:        c.Strip.Length,
		ScalingFactor: c.Engine.ScalingFactor,
		Thresholds:    c.Engine.Thresholds,
	}
}
