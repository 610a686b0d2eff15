package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const boxSize = 14

// Checkbox toggles one visualization. Its box is drawn in Swatch, so a column
// of checkboxes is also the legend of what they show.
type Checkbox struct {
	Label  string
	Value  bool
	Swatch color.RGBA

	x, y, width float64
	latch       bool
}

func (c *Checkbox) place(x, y, width float64) { c.x, c.y, c.width = x, y, width }
func (c *Checkbox) Height() float64           { return boxSize + 8 }

// Update toggles on a click on the box or its label.
func (c *Checkbox) Update() {
	w := boxSize + 8 + float64(len(c.Label)*glyphWidth)
	if pressed(c.x, c.y, min(w, c.width), boxSize, &c.latch) {
		c.Value = !c.Value
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	border := c.Swatch
	if !c.Value {
		border = labelDim
	}
	vector.StrokeRect(screen, float32(c.x), float32(c.y), boxSize, boxSize, 2, border, true)
	if c.Value {
		vector.FillRect(screen, float32(c.x+3), float32(c.y+3), boxSize-6, boxSize-6, c.Swatch, true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.x+boxSize+8), int(c.y+(boxSize-lineHeight)/2))
}
