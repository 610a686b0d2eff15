package render

import (
	"image/color"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

var (
	Background     = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	BoidIdle       = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	BoidSteering   = color.RGBA{R: 255, G: 220, B: 120, A: 255}
	RepulsionColor = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	AlignColor     = color.RGBA{R: 0, G: 220, B: 255, A: 255}
	AttractColor   = color.RGBA{R: 60, G: 255, B: 60, A: 255}
)

// ZoneColor is the color of a neighbor link or zone sphere.
func ZoneColor(z flock.Zone) color.RGBA {
	switch z {
	case flock.ZoneRepulsion:
		return RepulsionColor
	case flock.ZoneAlignment:
		return AlignColor
	case flock.ZoneAttraction:
		return AttractColor
	default:
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
}

// BoidColor depends on whether the boid is still steering.
func BoidColor(state string) color.RGBA {
	if state == flock.Steering.String() {
		return BoidSteering
	}
	return BoidIdle
}

// arrows are ordered counter-clockwise from east, one per 45° sector.
var arrows = [...]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// HeadingGlyph returns the arrow closest to the screen direction (dx, dy),
// with dy growing downwards. A null direction gives a dot.
func HeadingGlyph(dx, dy float64) rune {
	if dx == 0 && dy == 0 {
		return '•'
	}
	angle := math.Atan2(-dy, dx)
	sector := int(math.Round(angle/(math.Pi/4))) % len(arrows)
	if sector < 0 {
		sector += len(arrows)
	}
	return arrows[sector]
}

// LegendEntry ties a zone to the label and color viewers show for it.
type LegendEntry struct {
	Label string
	Zone  flock.Zone
	Color color.RGBA
}

// ZoneLegend lists the three zones nearest first.
func ZoneLegend() []LegendEntry {
	return []LegendEntry{
		{"Repulsion links", flock.ZoneRepulsion, RepulsionColor},
		{"Alignment links", flock.ZoneAlignment, AlignColor},
		{"Attraction links", flock.ZoneAttraction, AttractColor},
	}
}

// LinkFilter selects which neighbor links are drawn, indexed by zone.
type LinkFilter [4]bool

// AllLinks shows every contributing zone.
func AllLinks() LinkFilter {
	var f LinkFilter
	for _, e := range ZoneLegend() {
		f[e.Zone] = true
	}
	return f
}

// Shows reports whether links of zone z are drawn. ZoneNone never is.
func (f LinkFilter) Shows(z flock.Zone) bool {
	return z > flock.ZoneNone && int(z) < len(f) && f[z]
}
