package messaging

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ClosedState is the only door state that switches the strip off.
const ClosedState = "closed"

// ErrIgnored marks a door payload that is too short or names another door.
var ErrIgnored = errors.New("door message ignored")

// ParseDoor decodes a garageDoors payload: door id byte, separator byte, then
// the state string. It returns whether the door is open. Payloads of two
// bytes or less, or for a different door, return ErrIgnored.
func ParseDoor(payload []byte, doorID byte) (bool, error) {
	if len(payload) <= 2 {
		return false, ErrIgnored
	}
	if payload[0] != doorID {
		return false, ErrIgnored
	}
	return string(payload[2:]) != ClosedState, nil
}

// FormatDistance renders the carDistance payload "1:<n>".
func FormatDistance(n int) string {
	return "1:" + strconv.Itoa(n)
}

// ParseDistance is the inverse of FormatDistance, used by the monitor.
func ParseDistance(payload []byte) (int, error) {
	s := string(payload)
	if !strings.HasPrefix(s, "1:") {
		return 0, errors.Errorf("malformed distance payload %q", s)
	}
	n, err := strconv.Atoi(s[2:])
	if err != nil {
		return 0, errors.Wrapf(err, "malformed distance payload %q", s)
	}
	return n, nil
}
