// Package render holds the renderer-independent part of drawing a flock:
// projecting world positions onto a 2D screen and picking colors and glyphs.
// The ebiten viewer and the terminal viewer both build on it.
package render

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

// View selects the world plane shown on screen.
type View int

const (
	// Top looks down the Y axis: X to the right, +Z (forward) up the screen.
	Top View = iota
	// Side looks along X: Z to the right, Y up.
	Side
	// Front looks along Z: X to the right, Y up.
	Front
)

func (v View) String() string {
	switch v {
	case Side:
		return "side"
	case Front:
		return "front"
	default:
		return "top"
	}
}

// Next cycles through the views.
func (v View) Next() View {
	return (v + 1) % 3
}

// Camera maps world coordinates to screen coordinates, y growing downwards.
type Camera struct {
	View   View
	Yaw    float64           // rotation around world Up applied before projecting, radians
	Scale  float64           // screen units per world unit
	Center geometry.Vector3D // world point drawn at the middle of the screen

	Width, Height float64
}

func NewCamera(width, height float64) Camera {
	return Camera{Scale: 4, Width: width, Height: height}
}

// plane returns the two world coordinates shown on screen, right and up.
func (c Camera) plane(v geometry.Vector3D) (right, up float64) {
	if c.Yaw != 0 {
		sin, cos := math.Sincos(c.Yaw)
		v = geometry.Vector3D{
			X: v.X*cos + v.Z*sin,
			Y: v.Y,
			Z: -v.X*sin + v.Z*cos,
		}
	}
	switch c.View {
	case Side:
		return v.Z, v.Y
	case Front:
		return v.X, v.Y
	default:
		return v.X, v.Z
	}
}

// Project returns the screen position of world point p.
func (c Camera) Project(p geometry.Vector3D) (x, y float64) {
	right, up := c.plane(p.Sub(c.Center))
	return c.Width/2 + right*c.Scale, c.Height/2 - up*c.Scale
}

// ProjectDir returns the screen direction of world direction d, normalized.
// A direction perpendicular to the screen gives (0, 0).
func (c Camera) ProjectDir(d geometry.Vector3D) (dx, dy float64) {
	right, up := c.plane(d)
	l := math.Hypot(right, up)
	if l < geometry.Epsilon {
		return 0, 0
	}
	return right / l, -up / l
}

// Visible reports whether the screen point lies inside the viewport.
func (c Camera) Visible(x, y float64) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

// Fit centers the camera on the flock and scales it so every boid fits
// within the viewport minus margin on each side.
func (c *Camera) Fit(snap *simulation.Snapshot, margin float64) {
	if snap == nil || len(snap.Agents) == 0 {
		return
	}
	c.Center = snap.Centroid

	var extent float64
	for _, a := range snap.Agents {
		right, up := c.plane(a.Position.Sub(c.Center))
		extent = math.Max(extent, math.Max(math.Abs(right), math.Abs(up)))
	}
	// never zoom in beyond the repulsion sphere
	extent = math.Max(extent, snap.Radii.Repulsion)
	half := math.Min(c.Width, c.Height)/2 - margin
	if half > 0 && extent > 0 {
		c.Scale = half / extent
	}
}
