// Package terminal renders the flock in a text terminal with tcell, one
// arrow glyph per boid.
package terminal

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/render"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

type Renderer struct {
	screen tcell.Screen
	camera render.Camera
	follow bool
	paused bool
}

func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: render.NewCamera(float64(w)/cellAspect, float64(h-1)),
		follow: true,
	}
}

func styleOf(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// Draw paints a full frame: the status line on the first row and the flock
// projected on the rest of the screen.
func (r *Renderer) Draw(snap *simulation.Snapshot) {
	w, h := r.screen.Size()
	r.camera.Width, r.camera.Height = float64(w)/cellAspect, float64(h-1)
	if r.follow {
		r.camera.Fit(snap, 1)
	}

	r.screen.Clear()
	for i := range snap.Agents {
		a := &snap.Agents[i]
		x, y := r.camera.Project(a.Position)
		if !r.camera.Visible(x, y) {
			continue
		}
		glyph := render.HeadingGlyph(r.camera.ProjectDir(a.Heading))
		r.screen.SetContent(int(x*cellAspect), int(y)+1, glyph, nil, styleOf(render.BoidColor(a.State)))
	}

	status := fmt.Sprintf(" tick %d | %d boids | %d steering | view %s", snap.Tick, len(snap.Agents), snap.Stats.Steering, r.camera.View)
	if r.paused {
		status += " | paused"
	}
	r.drawText(0, 0, status, tcell.StyleDefault.Reverse(true))
	r.screen.Show()
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	w, _ := r.screen.Size()
	for _, ch := range text {
		if x >= w {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// HandleKey applies a key press and reports whether the viewer should quit.
func (r *Renderer) HandleKey(ev *tcell.EventKey) (quit bool) {
	return r.applyKey(ev.Key(), ev.Rune())
}

func (r *Renderer) applyKey(key tcell.Key, ch rune) (quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		r.camera.Yaw -= 0.1
	case tcell.KeyRight:
		r.camera.Yaw += 0.1
	case tcell.KeyRune:
		switch ch {
		case 'q':
			return true
		case ' ':
			r.paused = !r.paused
		case 'v':
			r.camera.View = r.camera.View.Next()
		case 'f':
			r.follow = !r.follow
		case '+':
			r.camera.Scale *= 1.25
		case '-':
			r.camera.Scale /= 1.25
		}
	}
	return false
}

func (r *Renderer) Paused() bool { return r.paused }
