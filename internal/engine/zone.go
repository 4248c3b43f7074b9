package engine

// Zone is the severity class of a scaled distance.
type Zone int

const (
	ZoneNormal Zone = iota
	ZoneCaution
	ZoneDanger
	ZoneDangerFlash
)

func (z Zone) String() string {
	switch z {
	case ZoneCaution:
		return "Caution"
	case ZoneDanger:
		return "Danger"
	case ZoneDangerFlash:
		return "DangerFlash"
	default:
		return "Normal"
	}
}

// Thresholds are the zone boundaries in display units. They are expected to
// satisfy RedFlash < Red < Yellow, but nothing enforces it here.
type Thresholds struct {
	RedFlash int `yaml:"red_flash"`
	Red      int `yaml:"red"`
	Yellow   int `yaml:"yellow"`
}

// Ordered reports whether the thresholds are strictly increasing and all
// below the strip length.
func (t Thresholds) Ordered(stripLength int) bool {
	return t.RedFlash < t.Red && t.Red < t.Yellow && t.Yellow < stripLength
}
