// Package viewer is the desktop front end: an ebiten game that drives the
// world actor once per frame and draws the snapshots it pushes back.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/render"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/durationpb"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 800
	panelWidth   = 280
	askTimeout   = 2 * time.Second
)

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh <-chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	cfg        *simulation.Config
	camera     render.Camera
	tick       *durationpb.Duration

	// UI Controls
	panel *ui.Panel

	// Widget references for easy access
	widgetRepulsionDistance  *ui.Slider
	widgetAlignmentDistance  *ui.Slider
	widgetAttractionDistance *ui.Slider
	widgetRepulsionForce     *ui.Slider
	widgetAlignmentForce     *ui.Slider
	widgetAttractionForce    *ui.Slider
	widgetMaxSpeed           *ui.Slider
	widgetNumBoids           *ui.Slider
	widgetSpread             *ui.Slider
	widgetShowZones          *ui.Checkbox
	widgetLinks              [len(render.LinkFilter{})]*ui.Checkbox // indexed by zone
	widgetStateColor         *ui.Checkbox
	widgetAutoFit            *ui.Checkbox
	widgetPaused             *ui.Checkbox

	status string

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame wires a viewer to a running world actor. The world must push its
// snapshots on snapshotCh.
func NewGame(ctx context.Context, cfg *simulation.Config, worldPID *actor.PID, snapshotCh <-chan *simulation.Snapshot) *Game {
	g := &Game{
		ctx:        ctx,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.Snapshot{}, // Avoid nil pointer
		cfg:        cfg,
		camera:     render.NewCamera(ScreenWidth-panelWidth, ScreenHeight),
		tick:       durationpb.New(time.Second / time.Duration(ebiten.TPS())),
	}

	// Initialize UI Panel with all configuration widgets
	panel := ui.NewPanel(ScreenWidth-panelWidth+10, 10, panelWidth-20, ScreenHeight-20, "Flock settings (restart to apply)")

	radii := panel.Section("Zone radii")
	g.widgetRepulsionDistance = radii.Slider("Repulsion", 0.5, 20, cfg.RepulsionDistance)
	g.widgetAlignmentDistance = radii.Slider("Alignment", 1, 40, cfg.AlignmentDistance)
	g.widgetAttractionDistance = radii.Slider("Attraction", 5, 150, cfg.AttractionDistance)

	forces := panel.Section("Forces")
	g.widgetRepulsionForce = forces.Slider("Repulsion force", 0, 50, cfg.RepulsionForce)
	g.widgetAlignmentForce = forces.Slider("Alignment force", 0, 50, cfg.AlignmentForce)
	g.widgetAttractionForce = forces.Slider("Attraction force", 0, 50, cfg.AttractionForce)
	g.widgetMaxSpeed = forces.Slider("Max speed", 0, 40, cfg.MaxSpeed)

	population := panel.Section("Population")
	g.widgetNumBoids = population.Slider("Boids", 0, 1000, float64(cfg.NumBoids))
	g.widgetNumBoids.Step = 1
	g.widgetSpread = population.Slider("Spread", 0, 100, cfg.Spread)
	population.Button("Restart", g.restart)

	// the link checkboxes are the zone color legend
	links := panel.Section("Neighbor links")
	shown := render.AllLinks()
	for _, e := range render.ZoneLegend() {
		g.widgetLinks[e.Zone] = links.Checkbox(e.Label, shown.Shows(e.Zone), e.Color)
	}

	view := panel.Section("Visualization")
	g.widgetShowZones = view.Checkbox("Zones of focus boid", true, render.AttractColor)
	g.widgetStateColor = view.Checkbox("Highlight steering", true, render.BoidSteering)
	g.widgetAutoFit = view.Checkbox("Follow flock", true, render.BoidIdle)
	g.widgetPaused = view.Checkbox("Pause", false, render.RepulsionColor)
	view.Button("Cycle view", func() { g.camera.View = g.camera.View.Next() })

	g.panel = panel
	return g
}

// restart asks the world to respawn the flock with the panel values.
// Invalid combinations (zone radii out of order) are reported in the status
// line and the running flock is kept.
func (g *Game) restart() {
	changes := map[string]interface{}{
		"repulsionDistance":  g.widgetRepulsionDistance.Value,
		"alignmentDistance":  g.widgetAlignmentDistance.Value,
		"attractionDistance": g.widgetAttractionDistance.Value,
		"repulsionForce":     g.widgetRepulsionForce.Value,
		"alignmentForce":     g.widgetAlignmentForce.Value,
		"attractionForce":    g.widgetAttractionForce.Value,
		"maxSpeed":           g.widgetMaxSpeed.Value,
		"numBoids":           int(g.widgetNumBoids.Value),
		"spread":             g.widgetSpread.Value,
	}
	stats, err := simulation.Reconfigure(g.ctx, g.worldPID, changes, askTimeout)
	if err != nil {
		g.status = "restart rejected: " + err.Error()
		return
	}
	g.status = fmt.Sprintf("restarted with %v boids", stats["boids"])
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update()
	g.handleKeys()

	// 2. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}
	if g.widgetAutoFit.Value {
		g.camera.Fit(g.lastState, 40)
	}

	// 3. Trigger Simulation Step
	if !g.widgetPaused.Value {
		if err := actor.Tell(g.ctx, g.worldPID, g.tick); err != nil {
			return fmt.Errorf("failed to tick world: %w", err)
		}
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.widgetPaused.Value = !g.widgetPaused.Value
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.camera.View = g.camera.View.Next()
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.camera.Yaw -= 0.03
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.camera.Yaw += 0.03
	}
	if !g.widgetAutoFit.Value {
		_, dy := ebiten.Wheel()
		if mx, my := ebiten.CursorPosition(); dy != 0 && !g.panel.Contains(mx, my) {
			g.camera.Scale *= math.Pow(1.1, dy)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()
	screen.Fill(render.Background)

	snap := g.lastState
	if filter := g.linkFilter(); filter != (render.LinkFilter{}) {
		g.drawLinks(screen, snap, filter)
	}
	if g.widgetShowZones.Value {
		g.drawZones(screen, snap)
	}
	for i := range snap.Agents {
		g.drawBoid(screen, &snap.Agents[i])
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("Tick: %d  Boids: %d  Steering: %d  Contributions: %d\nView: %s (V to cycle, arrows to orbit, space to pause)\nFPS: %.1f  TPS: %.1f  Update: %.2fms  Draw: %.2fms\n%s",
		snap.Tick, len(snap.Agents), snap.Stats.Steering, snap.Stats.Contributors,
		g.camera.View, ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg, g.status)
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

// linkFilter reads the link checkboxes.
func (g *Game) linkFilter() render.LinkFilter {
	var f render.LinkFilter
	for z, c := range g.widgetLinks {
		f[z] = c != nil && c.Value
	}
	return f
}

// boidColor keeps every boid in the idle color unless steering is highlighted
func (g *Game) boidColor(state string) color.RGBA {
	if !g.widgetStateColor.Value {
		return render.BoidIdle
	}
	return render.BoidColor(state)
}

// drawBoid draws a triangle pointing along the projected heading
func (g *Game) drawBoid(screen *ebiten.Image, b *flock.AgentSnapshot) {
	x, y := g.camera.Project(b.Position)
	if !g.camera.Visible(x, y) {
		return
	}
	dx, dy := g.camera.ProjectDir(b.Heading)
	if dx == 0 && dy == 0 {
		// heading straight at the camera
		vector.FillCircle(screen, float32(x), float32(y), 3, g.boidColor(b.State), true)
		return
	}
	angle := math.Atan2(dy, dx)

	tipX := x + math.Cos(angle)*7
	tipY := y + math.Sin(angle)*7
	rightX := x + math.Cos(angle+2.5)*5
	rightY := y + math.Sin(angle+2.5)*5
	leftX := x + math.Cos(angle-2.5)*5
	leftY := y + math.Sin(angle-2.5)*5

	clr := g.boidColor(b.State)
	r, gr, bl := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255
	vertices := []ebiten.Vertex{
		{DstX: float32(tipX), DstY: float32(tipY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: bl, ColorA: 1},
		{DstX: float32(rightX), DstY: float32(rightY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: bl, ColorA: 1},
		{DstX: float32(leftX), DstY: float32(leftY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: bl, ColorA: 1},
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

// drawLinks draws one line per contributing neighbor the filter shows,
// colored by zone
func (g *Game) drawLinks(screen *ebiten.Image, snap *simulation.Snapshot, filter render.LinkFilter) {
	positions := make(map[string]int, len(snap.Agents))
	for i, a := range snap.Agents {
		positions[a.ID] = i
	}
	for _, a := range snap.Agents {
		x0, y0 := g.camera.Project(a.Position)
		for _, l := range a.Links {
			if !filter.Shows(l.Zone) {
				continue
			}
			j, ok := positions[l.ID]
			if !ok {
				continue
			}
			x1, y1 := g.camera.Project(snap.Agents[j].Position)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, translucent(render.ZoneColor(l.Zone), 90), true)
		}
	}
}

// drawZones circles the three zones around the boid closest to the centroid
func (g *Game) drawZones(screen *ebiten.Image, snap *simulation.Snapshot) {
	focus := -1
	best := math.Inf(1)
	for i, a := range snap.Agents {
		if d := a.Position.DistanceSquaredTo(snap.Centroid); d < best {
			focus, best = i, d
		}
	}
	if focus < 0 {
		return
	}
	x, y := g.camera.Project(snap.Agents[focus].Position)
	zones := []struct {
		radius float64
		zone   flock.Zone
	}{
		{snap.Radii.Repulsion, flock.ZoneRepulsion},
		{snap.Radii.Alignment, flock.ZoneAlignment},
		{snap.Radii.Attraction, flock.ZoneAttraction},
	}
	for _, z := range zones {
		vector.StrokeCircle(screen, float32(x), float32(y), float32(z.radius*g.camera.Scale), 1, translucent(render.ZoneColor(z.zone), 120), true)
	}
}

func translucent(c color.RGBA, alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

func (g *Game) Layout(w, h int) (int, int) { return ScreenWidth, ScreenHeight }
