package radar

import (
	"fmt"
	"math"
	"math/rand"
)

// airlinePrefixes feed the synthetic callsign generator.
var airlinePrefixes = []string{"BA", "AF", "DL", "UA", "KL", "LH", "EZY", "RYR", "SAS", "IBE"}

// simAircraft is one synthetic contact flying across the sector.
type simAircraft struct {
	ac      Aircraft
	heading float64 // radians
	speed   float64 // world units per frame
}

// Traffic simulates a set of aircraft for the interactive demo and the
// headless report: straight-line flight with occasional gentle turns,
// wrapping at the sector boundary.
type Traffic struct {
	sectorW  float64
	sectorH  float64
	aircraft []simAircraft
	rng      *rand.Rand
}

// NewTraffic spawns n aircraft at deterministic pseudo-random positions.
func NewTraffic(n int, seed int64, sectorW, sectorH float64) *Traffic {
	t := &Traffic{
		sectorW: sectorW,
		sectorH: sectorH,
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- synthetic traffic only
	}
	for i := 0; i < n; i++ {
		t.spawn(i)
	}
	return t
}

func (t *Traffic) spawn(i int) {
	prefix := airlinePrefixes[t.rng.Intn(len(airlinePrefixes))]
	callsign := fmt.Sprintf("%s%d", prefix, 100+t.rng.Intn(9000))
	priority := 0.0
	// A few contacts are priority traffic (emergency squawk, medevac).
	if t.rng.Float64() < 0.08 {
		priority = 10
	}
	t.aircraft = append(t.aircraft, simAircraft{
		ac: Aircraft{
			ID:       fmt.Sprintf("ac-%03d", i),
			Callsign: callsign,
			WorldX:   t.rng.Float64() * t.sectorW,
			WorldY:   t.rng.Float64() * t.sectorH,
			Priority: priority,
		},
		heading: t.rng.Float64() * 2 * math.Pi,
		speed:   0.4 + t.rng.Float64()*1.2,
	})
}

// Advance moves every aircraft one frame, wrapping at the sector boundary.
func (t *Traffic) Advance() {
	for i := range t.aircraft {
		a := &t.aircraft[i]
		// Gentle random heading drift so routes are not perfectly straight.
		a.heading += (t.rng.Float64() - 0.5) * 0.02
		a.ac.WorldX += math.Cos(a.heading) * a.speed
		a.ac.WorldY += math.Sin(a.heading) * a.speed

		if a.ac.WorldX < 0 {
			a.ac.WorldX += t.sectorW
		} else if a.ac.WorldX > t.sectorW {
			a.ac.WorldX -= t.sectorW
		}
		if a.ac.WorldY < 0 {
			a.ac.WorldY += t.sectorH
		} else if a.ac.WorldY > t.sectorH {
			a.ac.WorldY -= t.sectorH
		}
	}
}

// Aircraft returns a snapshot of the current contacts.
func (t *Traffic) Aircraft() []Aircraft {
	out := make([]Aircraft, len(t.aircraft))
	for i, a := range t.aircraft {
		out[i] = a.ac
	}
	return out
}
