// Package ui holds the few ebiten widgets the flock viewer needs: sliders for
// the settings, checkboxes doubling as a color legend, and buttons, stacked
// in a scrollable side panel.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Debug font glyphs are 6x16.
const (
	glyphWidth = 6
	lineHeight = 16
)

var (
	labelDim   = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	trackColor = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	fillColor  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Widget is anything a Panel stacks. place is called by the panel before
// every Update and Draw with the widget's slot.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	place(x, y, width float64)
}

// hit reports whether the cursor (mx, my) is inside the rectangle.
func hit(x, y, w, h float64, mx, my int) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}

// pressed reports a fresh left click inside the rectangle. latch keeps a held
// button from firing again on the next frame.
func pressed(x, y, w, h float64, latch *bool) bool {
	mx, my := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || !hit(x, y, w, h, mx, my) {
		*latch = false
		return false
	}
	if *latch {
		return false
	}
	*latch = true
	return true
}
