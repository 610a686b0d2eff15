package flock

import (
	"errors"
	"slices"
	"sync"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

const (
	// SpeedSmoothing is the per tick lerp factor towards MaxSpeed
	// (about 90% of the gap is closed after 22 ticks).
	SpeedSmoothing = 0.1
	// TurnSmoothing is the per tick slerp factor towards the target rotation.
	TurnSmoothing = 0.1
	// ArrivalTolerance is the distance between target direction and heading
	// under which the steering intent is dropped.
	ArrivalTolerance = 1.0
)

// State of an agent's steering.
type State int

const (
	// Idle agents have no steering intent and keep their heading.
	Idle State = iota
	// Steering agents are turning towards an accumulated target direction.
	Steering
)

func (s State) String() string {
	if s == Steering {
		return "steering"
	}
	return "idle"
}

// TickStats describes what one Tick did.
type TickStats struct {
	Contributors int
	Zones        [4]int // indexed by Zone
	Turned       bool
}

// Link is a neighbor that contributed to the last tick, with its zone.
type Link struct {
	ID   string `json:"id"`
	Zone Zone   `json:"zone"`
}

// Agent is one boid. All methods except NeighborEntered and NeighborExited
// must be called from the simulation loop goroutine.
type Agent struct {
	ID       string
	settings *Settings

	position        geometry.Vector3D
	orientation     geometry.Orientation
	velocity        geometry.Vector3D
	speed           float64
	targetDirection geometry.Vector3D
	targetRotation  geometry.Orientation
	state           State

	// neighbors is the committed set read by Tick; pending is written by
	// the sensing side and only becomes visible on CommitNeighbors.
	neighbors []*Agent
	mu        sync.Mutex
	pending   []*Agent

	links     []Link
	lastStats TickStats
}

// NewAgent creates an agent at the origin facing +Z, sharing settings.
func NewAgent(id string, settings *Settings) (*Agent, error) {
	if settings == nil {
		return nil, errors.New("flock: agent settings cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return newAgent(id, settings), nil
}

// newAgent skips validation, callers guarantee settings are valid.
func newAgent(id string, settings *Settings) *Agent {
	return &Agent{
		ID:             id,
		settings:       settings,
		orientation:    geometry.IdentityOrientation(),
		targetRotation: geometry.IdentityOrientation(),
	}
}

// ---------------------------------------------------------------------
// Motion state
// ---------------------------------------------------------------------

func (a *Agent) Settings() *Settings                   { return a.settings }
func (a *Agent) Position() geometry.Vector3D           { return a.position }
func (a *Agent) Orientation() geometry.Orientation     { return a.orientation }
func (a *Agent) Velocity() geometry.Vector3D           { return a.velocity }
func (a *Agent) Speed() float64                        { return a.speed }
func (a *Agent) TargetDirection() geometry.Vector3D    { return a.targetDirection }
func (a *Agent) TargetRotation() geometry.Orientation  { return a.targetRotation }
func (a *Agent) State() State                          { return a.state }
func (a *Agent) LastTick() TickStats                   { return a.lastStats }
func (a *Agent) SetPosition(p geometry.Vector3D)       { a.position = p }
func (a *Agent) SetOrientation(q geometry.Orientation) { a.orientation = q.Normalize() }
func (a *Agent) Heading() geometry.Vector3D            { return geometry.HeadingOf(a.orientation) }

// SetVelocity seeds the motion state: the magnitude becomes the current
// speed and the vector becomes the steering target.
func (a *Agent) SetVelocity(v geometry.Vector3D) {
	a.speed = v.Len()
	a.targetDirection = v
	a.velocity = v
	a.refreshState()
}

// Move integrates the position along the current velocity for dt seconds.
func (a *Agent) Move(dt float64) {
	a.position = a.position.Add(a.velocity.Mul(dt))
}

// ---------------------------------------------------------------------
// Neighbor events
// ---------------------------------------------------------------------

// NeighborEntered records other as within sensing radius. It reports false
// when other is nil, the agent itself, or already known.
func (a *Agent) NeighborEntered(other *Agent) bool {
	if other == nil || other == a {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if slices.Contains(a.pending, other) {
		return false
	}
	a.pending = append(a.pending, other)
	return true
}

// NeighborExited forgets other. It reports false when other was unknown.
func (a *Agent) NeighborExited(other *Agent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := slices.Index(a.pending, other)
	if i < 0 {
		return false
	}
	a.pending = slices.Delete(a.pending, i, i+1)
	return true
}

// PendingNeighbors returns a copy of the neighbor set as last written by
// enter/exit events.
func (a *Agent) PendingNeighbors() []*Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.pending)
}

// CommitNeighbors publishes the pending set to the next Tick.
func (a *Agent) CommitNeighbors() {
	a.mu.Lock()
	a.neighbors = append(a.neighbors[:0], a.pending...)
	a.mu.Unlock()
}

// Neighbors returns a copy of the committed neighbor set.
func (a *Agent) Neighbors() []*Agent {
	return slices.Clone(a.neighbors)
}

// Links returns the neighbors that contributed to the last tick.
func (a *Agent) Links() []Link {
	return slices.Clone(a.links)
}

// ---------------------------------------------------------------------
// Steering
// ---------------------------------------------------------------------

// Tick advances the agent one simulation step: it accumulates the steering
// contributions of the committed neighbors, eases speed towards MaxSpeed and
// eases the orientation towards the averaged target direction.
func (a *Agent) Tick() TickStats {
	s := a.settings
	heading := a.Heading()

	var stats TickStats
	a.links = a.links[:0]

	// the accumulator starts from the residual target of the previous tick
	for _, other := range a.neighbors {
		zone, vecToOther := Classify(s, a.position, heading, other.position)
		force, ok := Contribution(s, zone, vecToOther, other.Heading())
		if !ok {
			continue
		}
		a.targetDirection = a.targetDirection.Add(force)
		stats.Contributors++
		stats.Zones[zone]++
		a.links = append(a.links, Link{ID: other.ID, Zone: zone})
	}

	a.speed = geometry.Lerp(a.speed, s.MaxSpeed, SpeedSmoothing)
	a.velocity = heading.Mul(a.speed)

	if stats.Contributors == 0 {
		// nothing new to steer with: the residual target carries over as is
		a.finishTick(stats)
		return stats
	}

	a.targetDirection = a.targetDirection.Mul(1 / float64(stats.Contributors))
	if a.targetDirection.IsZero() {
		a.finishTick(stats)
		return stats
	}

	a.targetRotation = geometry.LookRotation(a.targetDirection)
	a.orientation = geometry.Slerp(a.orientation, a.targetRotation, TurnSmoothing)
	stats.Turned = true

	if a.targetDirection.Sub(a.Heading()).Len() < ArrivalTolerance {
		a.targetDirection = geometry.Zero
	}

	a.finishTick(stats)
	return stats
}

func (a *Agent) finishTick(stats TickStats) {
	a.lastStats = stats
	a.refreshState()
}

func (a *Agent) refreshState() {
	if a.targetDirection.IsZero() {
		a.state = Idle
	} else {
		a.state = Steering
	}
}
