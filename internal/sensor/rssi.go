package sensor

import "math"

// RSSIToDistance estimates distance in metres from RSSI using the
// log-distance path loss model: d = 10^((measuredPower - rssi) / (10 * n)).
func RSSIToDistance(rssi, measuredPower, pathLossExp float64) float64 {
	if rssi >= 0 {
		return 0.1
	}
	d := math.Pow(10, (measuredPower-rssi)/(10*pathLossExp))
	if d < 0.1 {
		return 0.1
	}
	return d
}
