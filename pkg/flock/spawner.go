package flock

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Spawner creates the flock population. Every agent it produces shares the
// same validated settings.
type Spawner struct {
	settings *Settings
	rng      *rand.Rand
	newID    func() string
}

// SpawnerOption customizes a Spawner.
type SpawnerOption func(*Spawner)

// WithRand makes spawning reproducible.
func WithRand(r *rand.Rand) SpawnerOption {
	return func(s *Spawner) { s.rng = r }
}

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) SpawnerOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithIDGenerator replaces the default random UUID agent IDs.
func WithIDGenerator(f func() string) SpawnerOption {
	return func(s *Spawner) { s.newID = f }
}

// NewSpawner validates settings once and keeps a private copy of them.
func NewSpawner(settings Settings, opts ...SpawnerOption) (*Spawner, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &Spawner{
		settings: &settings,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Settings returns the shared settings handed to every spawned agent.
func (s *Spawner) Settings() *Settings {
	return s.settings
}

// Spawn creates count+1 agents (the loop bound is inclusive) at random points
// inside the sphere of radius spread around center, never below center's
// horizontal plane, each moving away from center at startSpeed.
func (s *Spawner) Spawn(count int, center geometry.Vector3D, spread, startSpeed float64) ([]*Agent, error) {
	if count < 0 {
		return nil, fmt.Errorf("spawn count must be >= 0, got %d", count)
	}
	if spread < 0 || math.IsNaN(spread) || math.IsInf(spread, 0) {
		return nil, fmt.Errorf("spawn spread must be a finite number >= 0, got %v", spread)
	}
	if startSpeed < 0 || math.IsNaN(startSpeed) || math.IsInf(startSpeed, 0) {
		return nil, fmt.Errorf("spawn start speed must be a finite number >= 0, got %v", startSpeed)
	}
	if !center.IsFinite() {
		return nil, fmt.Errorf("spawn center must be finite, got %v", center)
	}

	agents := make([]*Agent, 0, count+1)
	for i := 0; i <= count; i++ {
		offset := s.insideUnitSphere()
		offset.Y = math.Abs(offset.Y)
		position := center.Add(offset.Mul(spread))

		a := newAgent(s.newID(), s.settings)
		a.SetPosition(position)
		a.SetVelocity(position.Sub(center).Normalize().Mul(startSpeed))
		agents = append(agents, a)
	}
	return agents, nil
}

// insideUnitSphere samples a uniformly distributed point of the unit ball.
func (s *Spawner) insideUnitSphere() geometry.Vector3D {
	for {
		p := geometry.Vector3D{
			X: s.rng.Float64()*2 - 1,
			Y: s.rng.Float64()*2 - 1,
			Z: s.rng.Float64()*2 - 1,
		}
		if p.LenSqr() <= 1 {
			return p
		}
	}
}
