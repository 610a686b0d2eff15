package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const buttonHeight = 20

var (
	buttonColor = color.RGBA{R: 80, G: 120, B: 180, A: 255}
	hoverColor  = color.RGBA{R: 100, G: 150, B: 220, A: 255}
)

// Button runs OnClick once per click, such as restarting the flock.
type Button struct {
	Label   string
	OnClick func()

	x, y, width float64
	latch       bool
}

func (b *Button) place(x, y, width float64) { b.x, b.y, b.width = x, y, width }
func (b *Button) Height() float64           { return buttonHeight + 8 }

func (b *Button) Update() {
	if pressed(b.x, b.y, b.width, buttonHeight, &b.latch) && b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := buttonColor
	if mx, my := ebiten.CursorPosition(); hit(b.x, b.y, b.width, buttonHeight, mx, my) {
		bg = hoverColor
	}
	vector.FillRect(screen, float32(b.x), float32(b.y), float32(b.width), buttonHeight, bg, true)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.width), buttonHeight, 2, fillColor, true)

	tx := b.x + (b.width-float64(len(b.Label)*glyphWidth))/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(tx), int(b.y+(buttonHeight-lineHeight)/2))
}
