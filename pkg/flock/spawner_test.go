package flock

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestSpawner_InclusiveCountAndPlacement(t *testing.T) {
	sp, err := NewSpawner(DefaultSettings(), WithSeed(42))
	if err != nil {
		t.Fatalf("NewSpawner failed: %v", err)
	}

	agents, err := sp.Spawn(5, geometry.Zero, 10, 4)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if len(agents) != 6 {
		t.Fatalf("Spawn(5) produced %d agents; want 6 (inclusive bound)", len(agents))
	}

	ids := make(map[string]bool)
	for _, a := range agents {
		p := a.Position()
		if p.Y < 0 {
			t.Errorf("agent %s spawned below the center plane: %v", a.ID, p)
		}
		if d := p.Len(); d > 10+1e-9 {
			t.Errorf("agent %s spawned outside the sphere: |p|=%v", a.ID, d)
		}
		if s := a.Velocity().Len(); math.Abs(s-4) > 1e-9 {
			t.Errorf("agent %s |velocity| = %v; want 4", a.ID, s)
		}
		if a.Speed() != a.Velocity().Len() {
			t.Errorf("agent %s speed %v does not match velocity %v", a.ID, a.Speed(), a.Velocity())
		}
		// velocity points away from the center
		if a.Velocity().Dot(p) <= 0 {
			t.Errorf("agent %s velocity %v does not point outward from %v", a.ID, a.Velocity(), p)
		}
		if a.Settings() != sp.Settings() {
			t.Errorf("agent %s does not share the spawner settings", a.ID)
		}
		if ids[a.ID] {
			t.Errorf("duplicate agent id %s", a.ID)
		}
		ids[a.ID] = true
	}
}

func TestSpawner_ZeroCountStillSpawnsOne(t *testing.T) {
	sp, err := NewSpawner(DefaultSettings(), WithSeed(1))
	if err != nil {
		t.Fatalf("NewSpawner failed: %v", err)
	}
	agents, err := sp.Spawn(0, geometry.Zero, 1, 1)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if len(agents) != 1 {
		t.Errorf("Spawn(0) produced %d agents; want 1", len(agents))
	}
}

func TestSpawner_OffsetCenter(t *testing.T) {
	sp, err := NewSpawner(DefaultSettings(), WithSeed(7))
	if err != nil {
		t.Fatalf("NewSpawner failed: %v", err)
	}
	center := geometry.Vector3D{X: 100, Y: 50, Z: -20}
	agents, err := sp.Spawn(50, center, 25, 2)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	for _, a := range agents {
		p := a.Position()
		if p.Y < center.Y {
			t.Errorf("agent %s below center plane: %v", a.ID, p)
		}
		if d := p.DistanceTo(center); d > 25+1e-9 {
			t.Errorf("agent %s too far from center: %v", a.ID, d)
		}
	}
}

func TestSpawner_Deterministic(t *testing.T) {
	spawn := func() []*Agent {
		n := 0
		sp, err := NewSpawner(DefaultSettings(), WithSeed(99), WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("boid-%03d", n)
		}))
		if err != nil {
			t.Fatalf("NewSpawner failed: %v", err)
		}
		agents, err := sp.Spawn(10, geometry.Zero, 10, 4)
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		return agents
	}

	first, second := spawn(), spawn()
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Position() != second[i].Position() {
			t.Fatalf("agent %d differs between identical seeds: %s %v / %s %v",
				i, first[i].ID, first[i].Position(), second[i].ID, second[i].Position())
		}
	}
	if first[0].ID != "boid-001" {
		t.Errorf("first ID = %q; want boid-001", first[0].ID)
	}
}

func TestSpawner_RejectsBadInput(t *testing.T) {
	bad := DefaultSettings()
	bad.RepulsionDistance = 100
	if _, err := NewSpawner(bad); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("NewSpawner(bad settings) = %v; want ErrInvalidSettings", err)
	}

	sp, err := NewSpawner(DefaultSettings())
	if err != nil {
		t.Fatalf("NewSpawner failed: %v", err)
	}
	tests := []struct {
		name       string
		count      int
		center     geometry.Vector3D
		spread     float64
		startSpeed float64
	}{
		{"NegativeCount", -1, geometry.Zero, 1, 1},
		{"NegativeSpread", 3, geometry.Zero, -1, 1},
		{"NaNSpread", 3, geometry.Zero, math.NaN(), 1},
		{"NegativeSpeed", 3, geometry.Zero, 1, -2},
		{"InfiniteCenter", 3, geometry.Vector3D{X: math.Inf(1)}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sp.Spawn(tt.count, tt.center, tt.spread, tt.startSpeed); err == nil {
				t.Error("Spawn accepted invalid input")
			}
		})
	}
}
