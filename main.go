package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"landing-lights.klederson.com/internal/app"
	"landing-lights.klederson.com/internal/config"
	"landing-lights.klederson.com/internal/controller"
	"landing-lights.klederson.com/internal/events"
	"landing-lights.klederson.com/internal/logging"
	"landing-lights.klederson.com/internal/messaging"
	"landing-lights.klederson.com/internal/sensor"
	"landing-lights.klederson.com/internal/strip"
)

var (
	flagConfig   string
	flagDemo     bool
	flagSensor   string
	flagDisplay  string
	flagBroker   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "landing-lights",
		Short: "Landing Lights - parking guide on an addressable LED strip",
		Long: `Landing Lights reads the distance to a car from an ultrasonic sensor (or a
BLE beacon) and shows it on a WS2811/WS2812 strip: green while far, yellow
when close, red when very close and flashing red at the stop point.

The strip is blanked while the garage door is reported closed over MQTT, and
the current distance is published on every tick and on request.

Use --demo to drive a simulated car and see the strip in the terminal.`,
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "landing-lights.yaml", "Path to the YAML config file")
	pf.StringVar(&flagBroker, "broker", "", "MQTT broker URL (overrides config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run with a simulated car and a terminal strip (no hardware required)")
	rootCmd.Flags().StringVar(&flagSensor, "sensor", "", "Distance sensor: hcsr04, ble or mock (overrides config)")
	rootCmd.Flags().StringVar(&flagDisplay, "display", "", "Strip output: nrzled, terminal or log (overrides config)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(checkConfigCmd(), doorCmd(), queryCmd(), watchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flagDemo {
		cfg.Sensor.Kind = "mock"
		cfg.Strip.Kind = "terminal"
		// a demo without a broker must not stall every tick on reconnects
		cfg.MQTT.Enabled = flags.Changed("broker")
	}
	if flags.Changed("sensor") {
		cfg.Sensor.Kind = flagSensor
	}
	if flags.Changed("display") {
		cfg.Strip.Kind = flagDisplay
	}
	if flags.Changed("broker") {
		cfg.MQTT.Broker = flagBroker
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	if cfg.Strip.Kind == "terminal" && cfg.Log.File == "" {
		cfg.Log.File = config.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, w := range cfg.Warnings() {
		logrus.Warn(w)
	}

	s, err := sensor.New(cfg.Sensor)
	if err != nil {
		return errors.Wrapf(err, "open %s sensor", cfg.Sensor.Kind)
	}
	defer s.Close()

	queue := events.NewQueue(config.QueueSize)

	var opts []controller.Option
	if cfg.MQTT.Enabled {
		link := messaging.NewLink(cfg.MQTT, queue)
		defer link.Close()
		opts = append(opts, controller.WithNotifier(link))
	}

	logrus.WithFields(logrus.Fields{
		"sensor":  cfg.Sensor.Kind,
		"display": cfg.Strip.Kind,
		"length":  cfg.Strip.Length,
		"mqtt":    cfg.MQTT.Enabled,
	}).Infof("%s v%s starting", config.AppName, config.AppVersion)

	if cfg.Strip.Kind == "terminal" {
		return runTerminal(cfg, s, queue, opts)
	}
	return runHeadless(cfg, s, queue, opts)
}

// runTerminal drives the controller in the background and renders the strip
// in the bubbletea UI until the user quits.
func runTerminal(cfg *config.Config, s sensor.Sensor, queue *events.Queue, opts []controller.Option) error {
	mock, _ := s.(*sensor.Mock)
	model := app.New(cfg.Strip.Length, cfg.Sensor.Kind, queue, mock)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)

	opts = append(opts, controller.WithObserver(func(snap controller.Snapshot) {
		p.Send(app.SnapshotMsg(snap))
	}))
	ctrl := controller.New(cfg.Params(), cfg.Engine.TickDelay, s, strip.NewTerminal(p), queue, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := ctrl.Run(ctx)
		if ctx.Err() == nil {
			p.Send(app.LoopDoneMsg{Err: err})
		}
	}()

	final, err := p.Run()
	cancel()
	<-done
	if err != nil {
		return err
	}
	if m, ok := final.(app.AppModel); ok {
		return m.Err()
	}
	return nil
}

// runHeadless drives the controller on the current goroutine until SIGINT or
// SIGTERM.
func runHeadless(cfg *config.Config, s sensor.Sensor, queue *events.Queue, opts []controller.Option) error {
	st, err := newStrip(cfg.Strip)
	if err != nil {
		return errors.Wrapf(err, "open %s strip", cfg.Strip.Kind)
	}
	defer st.Close()

	var (
		mu     sync.Mutex
		latest controller.Stats
	)
	opts = append(opts, controller.WithObserver(func(snap controller.Snapshot) {
		mu.Lock()
		latest = snap.Stats
		mu.Unlock()
	}))
	ctrl := controller.New(cfg.Params(), cfg.Engine.TickDelay, s, st, queue, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go controller.LogStats(ctx, config.StatsInterval, func() controller.Stats {
		mu.Lock()
		defer mu.Unlock()
		return latest
	})

	err = ctrl.Run(ctx)
	logrus.WithFields(ctrl.Stats().Fields()).Info("stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newStrip(cfg config.StripConfig) (strip.Strip, error) {
	switch cfg.Kind {
	case "nrzled":
		enc, err := strip.NewEncoder(cfg.ColorOrder, cfg.Brightness)
		if err != nil {
			return nil, err
		}
		return strip.NewNRZ(cfg.Port, cfg.Length, enc)
	case "log":
		return strip.NewLog(), nil
	default:
		return nil, errors.Errorf("strip kind %q needs the terminal UI", cfg.Kind)
	}
}
