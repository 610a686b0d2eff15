package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

const (
	minCellSize = 1.0
	// maxCellIndex bounds cell coordinates so far-drifted agents still map to
	// a valid int key. Beyond it cells saturate: queries stay exact since
	// distances are rechecked, only slower.
	maxCellIndex = 1 << 40
)

type gridKey struct {
	x, y, z int
}

// Grid is a uniform 3D spatial hash over agent positions. With a cell size
// equal to the sensing radius, everything in range of a point lies in the
// 3x3x3 block of cells around it.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]*flock.Agent
}

func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: math.Max(cellSize, minCellSize),
		cells:    make(map[gridKey][]*flock.Agent),
	}
}

func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) keyOf(p geometry.Vector3D) gridKey {
	return gridKey{
		x: cellIndex(p.X / g.cellSize),
		y: cellIndex(p.Y / g.cellSize),
		z: cellIndex(p.Z / g.cellSize),
	}
}

func cellIndex(v float64) int {
	c := math.Floor(v)
	switch {
	case math.IsNaN(c):
		return 0
	case c > maxCellIndex:
		return maxCellIndex
	case c < -maxCellIndex:
		return -maxCellIndex
	}
	return int(c)
}

// Rebuild re-buckets every agent by its current position.
func (g *Grid) Rebuild(agents []*flock.Agent) {
	// Keep the capacity of cells still in use and forget the ones the flock
	// left during the previous tick, so the map follows the flock around.
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = bucket[:0]
	}

	for _, a := range agents {
		key := g.keyOf(a.Position())
		g.cells[key] = append(g.cells[key], a)
	}
}

// Nearby appends to dst every agent bucketed in the 3x3x3 block around p.
func (g *Grid) Nearby(p geometry.Vector3D, dst []*flock.Agent) []*flock.Agent {
	c := g.keyOf(p)
	for i := c.x - 1; i <= c.x+1; i++ {
		for j := c.y - 1; j <= c.y+1; j++ {
			for k := c.z - 1; k <= c.z+1; k++ {
				if bucket, ok := g.cells[gridKey{x: i, y: j, z: k}]; ok {
					dst = append(dst, bucket...)
				}
			}
		}
	}
	return dst
}

// WithinRadius appends to dst the agents at distance <= radius from p,
// excluding self. radius must not exceed the cell size.
func (g *Grid) WithinRadius(p geometry.Vector3D, radius float64, self *flock.Agent, dst []*flock.Agent) []*flock.Agent {
	radiusSq := radius * radius
	c := g.keyOf(p)
	for i := c.x - 1; i <= c.x+1; i++ {
		for j := c.y - 1; j <= c.y+1; j++ {
			for k := c.z - 1; k <= c.z+1; k++ {
				for _, a := range g.cells[gridKey{x: i, y: j, z: k}] {
					if a == self {
						continue
					}
					if a.Position().DistanceSquaredTo(p) <= radiusSq {
						dst = append(dst, a)
					}
				}
			}
		}
	}
	return dst
}

// Len returns the number of non-empty cells.
func (g *Grid) Len() int {
	n := 0
	for _, bucket := range g.cells {
		if len(bucket) > 0 {
			n++
		}
	}
	return n
}
