package simulation

import (
	"context"
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

// StepStats summarizes one Step.
type StepStats struct {
	Tick         uint64 `json:"tick"`
	Entered      int    `json:"entered"`
	Exited       int    `json:"exited"`
	Contributors int    `json:"contributors"`
	Repulsion    int    `json:"repulsion"`
	Alignment    int    `json:"alignment"`
	Attraction   int    `json:"attraction"`
	Steering     int    `json:"steering"` // agents with a steering intent after the tick
	Turned       int    `json:"turned"`
}

// Simulation owns a flock and advances it with an explicit loop:
// sense (enter/exit events), commit, tick every agent, then move.
// It is not safe for concurrent use; the world actor serializes access.
type Simulation struct {
	cfg      *Config
	settings *flock.Settings
	agents   []*flock.Agent
	grid     *Grid
	logger   log.Logger

	spawnOpts []flock.SpawnerOption

	tick    uint64
	elapsed float64
	last    StepStats
}

type Option func(*Simulation)

func WithLogger(l log.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithSpawnerOptions forwards options to the flock spawner, after the seed
// option derived from the config.
func WithSpawnerOptions(opts ...flock.SpawnerOption) Option {
	return func(s *Simulation) { s.spawnOpts = append(s.spawnOpts, opts...) }
}

// New validates cfg and spawns its flock.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := newSimulation(cfg, opts)

	spawnOpts := s.spawnOpts
	if cfg.Seed != 0 {
		spawnOpts = append([]flock.SpawnerOption{flock.WithSeed(cfg.Seed)}, spawnOpts...)
	}
	spawner, err := flock.NewSpawner(cfg.Settings(), spawnOpts...)
	if err != nil {
		return nil, err
	}
	s.settings = spawner.Settings()
	s.agents, err = spawner.Spawn(cfg.NumBoids, cfg.Center(), cfg.Spread, cfg.StartSpeed)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}
	s.logger.Infof("spawned %d boids around %v (spread %.1f, start speed %.1f)",
		len(s.agents), cfg.Center(), cfg.Spread, cfg.StartSpeed)
	return s, nil
}

// NewFromAgents wraps an existing population. Sensing uses the radius of
// cfg's settings.
func NewFromAgents(cfg *Config, agents []*flock.Agent, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := newSimulation(cfg, opts)
	settings := cfg.Settings()
	s.settings = &settings
	s.agents = agents
	return s, nil
}

func newSimulation(cfg *Config, opts []Option) *Simulation {
	s := &Simulation{
		cfg:    cfg,
		grid:   NewGrid(cfg.Settings().SensingRadius()),
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulation) Config() *Config           { return s.cfg }
func (s *Simulation) Settings() *flock.Settings { return s.settings }
func (s *Simulation) Agents() []*flock.Agent    { return s.agents }
func (s *Simulation) Tick() uint64              { return s.tick }
func (s *Simulation) Elapsed() float64          { return s.elapsed }
func (s *Simulation) LastStep() StepStats       { return s.last }

// Step advances the flock by dt seconds.
func (s *Simulation) Step(ctx context.Context, dt float64) (StepStats, error) {
	if !(dt >= 0) {
		return StepStats{}, fmt.Errorf("step duration must be >= 0, got %v", dt)
	}

	// 1. Sensing: positions are frozen, each agent updates its pending set
	s.grid.Rebuild(s.agents)
	counts, err := senseAll(ctx, s.grid, s.agents, s.settings.SensingRadius(), s.cfg.Workers)
	if err != nil {
		return StepStats{}, fmt.Errorf("sensing failed at tick %d: %w", s.tick, err)
	}

	// 2. Publish the new neighbor sets
	for _, a := range s.agents {
		a.CommitNeighbors()
	}

	// 3. Steering, in order: later agents see the headings of earlier ones
	s.tick++
	stats := StepStats{Tick: s.tick, Entered: counts.entered, Exited: counts.exited}
	for _, a := range s.agents {
		ts := a.Tick()
		stats.Contributors += ts.Contributors
		stats.Repulsion += ts.Zones[flock.ZoneRepulsion]
		stats.Alignment += ts.Zones[flock.ZoneAlignment]
		stats.Attraction += ts.Zones[flock.ZoneAttraction]
		if ts.Turned {
			stats.Turned++
		}
		if a.State() == flock.Steering {
			stats.Steering++
		}
	}

	// 4. Integration
	for _, a := range s.agents {
		a.Move(dt)
	}
	s.elapsed += dt
	s.last = stats

	s.logger.Debugf("tick %d: %d entered, %d exited, %d contributions, %d steering",
		stats.Tick, stats.Entered, stats.Exited, stats.Contributors, stats.Steering)
	return stats, nil
}

// ZoneRadii lets renderers draw the three zones around a boid.
type ZoneRadii struct {
	Repulsion  float64 `json:"repulsion"`
	Alignment  float64 `json:"alignment"`
	Attraction float64 `json:"attraction"`
}

// Snapshot is a read-only copy of the whole flock.
type Snapshot struct {
	Tick     uint64                `json:"tick"`
	Elapsed  float64               `json:"elapsed"`
	Radii    ZoneRadii             `json:"radii"`
	Centroid geometry.Vector3D     `json:"centroid"`
	Stats    StepStats             `json:"stats"`
	Agents   []flock.AgentSnapshot `json:"agents"`
}

func (s *Simulation) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:    s.tick,
		Elapsed: s.elapsed,
		Radii: ZoneRadii{
			Repulsion:  s.settings.RepulsionDistance,
			Alignment:  s.settings.AlignmentDistance,
			Attraction: s.settings.AttractionDistance,
		},
		Stats:  s.last,
		Agents: make([]flock.AgentSnapshot, 0, len(s.agents)),
	}
	var sum geometry.Vector3D
	for _, a := range s.agents {
		snap.Agents = append(snap.Agents, a.Snapshot())
		sum = sum.Add(a.Position())
	}
	if n := len(s.agents); n > 0 {
		snap.Centroid = sum.Mul(1 / float64(n))
	}
	return snap
}
