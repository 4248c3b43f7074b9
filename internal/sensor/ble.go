package sensor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"landing-lights.klederson.com/internal/config"
	"tinygo.org/x/bluetooth"
)

// BLE estimates the distance to a beacon carried by the car from the signal
// strength of its advertisements.
type BLE struct {
	adapter       *bluetooth.Adapter
	address       string
	measuredPower float64
	pathLossExp   float64
	stale         time.Duration
	now           func() time.Time

	mu       sync.Mutex
	rssi     float64
	seen     bool
	lastSeen time.Time
	running  bool
}

// NewBLE creates a sensor tracking the beacon with the given MAC address.
func NewBLE(address string, measuredPower, pathLossExp float64, stale time.Duration) *BLE {
	return &BLE{
		adapter:       bluetooth.DefaultAdapter,
		address:       strings.ToUpper(address),
		measuredPower: measuredPower,
		pathLossExp:   pathLossExp,
		stale:         stale,
		now:           time.Now,
	}
}

// Start enables the adapter and scans in a goroutine.
func (s *BLE) Start() error {
	if err := s.adapter.Enable(); err != nil {
		return errors.Wrap(err, "failed to enable BLE adapter (try running with sudo or setcap cap_net_admin+ep)")
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !s.isRunning() {
				return
			}
			if strings.ToUpper(result.Address.String()) != s.address {
				return
			}
			s.observe(float64(result.RSSI))
		})
		if err != nil {
			logrus.WithError(err).Error("BLE scan stopped")
		}
	}()
	logrus.WithField("beacon", s.address).Info("BLE proximity sensor scanning")
	return nil
}

// observe folds an RSSI reading into the EMA.
func (s *BLE) observe(rssi float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen {
		s.rssi = s.rssi*(1-config.BLESmoothing) + rssi*config.BLESmoothing
	} else {
		s.rssi = rssi
		s.seen = true
	}
	s.lastSeen = s.now()
}

// Sample returns the smoothed distance in centimetres, or 0 when no
// advertisement arrived within the staleness window.
func (s *BLE) Sample(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seen || s.now().Sub(s.lastSeen) > s.stale {
		return 0, nil
	}
	m := RSSIToDistance(s.rssi, s.measuredPower, s.pathLossExp)
	return int(m * 100), nil
}

func (s *BLE) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Close halts the scan.
func (s *BLE) Close() error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return s.adapter.StopScan()
}
