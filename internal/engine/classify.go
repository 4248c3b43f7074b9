package engine

// Indication is what the strip should show for one tick before render gating.
type Indication struct {
	Lit   int
	Color Color
	Flash bool
	Zone  Zone
}

// Classify maps a scaled distance to a lit count and base colour. The rules
// are applied in order and later rules overwrite earlier ones:
//
//  1. lit = min(scaled, length), colour green
//  2. red <= scaled < yellow: colour yellow
//  3. scaled < red: colour red
func Classify(scaled, length int, t Thresholds) Indication {
	ind := Indication{
		Lit:   scaled,
		Color: Green,
		Zone:  ZoneNormal,
	}
	if scaled > length {
		ind.Lit = length
	}
	if scaled < 0 {
		ind.Lit = 0
	}
	if scaled < t.Yellow && scaled >= t.Red {
		ind.Color = Yellow
		ind.Zone = ZoneCaution
	}
	if scaled < t.Red {
		ind.Color = Red
		ind.Zone = ZoneDanger
	}
	return ind
}
