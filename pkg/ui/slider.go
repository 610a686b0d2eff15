package ui

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const trackHeight = 10

// Slider edits one numeric flock setting. Its label shows the live value.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64 // snap increment, 0 for continuous

	x, y, width float64
}

func (s *Slider) place(x, y, width float64) { s.x, s.y, s.width = x, y, width }
func (s *Slider) Height() float64           { return lineHeight + trackHeight + 8 }

// Update follows the cursor while the track is held.
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if hit(s.x, s.trackY(), s.width, trackHeight, mx, my) {
		s.Value = s.valueAt(float64(mx))
	}
}

func (s *Slider) trackY() float64 { return s.y + lineHeight }

// valueAt converts a cursor abscissa into a clamped, snapped value
func (s *Slider) valueAt(mx float64) float64 {
	v := s.Min + (mx-s.x)/s.width*(s.Max-s.Min)
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	return math.Min(math.Max(v, s.Min), s.Max)
}

// Text formats the label with the current value, counts without decimals.
func (s *Slider) Text() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%s: %.0f", s.Label, s.Value)
	}
	return fmt.Sprintf("%s: %.2f", s.Label, s.Value)
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, s.Text(), int(s.x), int(s.y))
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	ty := float32(s.trackY())
	vector.FillRect(screen, float32(s.x), ty, float32(s.width), trackHeight, trackColor, true)
	vector.FillRect(screen, float32(s.x), ty, float32(s.width*ratio), trackHeight, fillColor, true)
}
