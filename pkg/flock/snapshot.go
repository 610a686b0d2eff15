package flock

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// AgentSnapshot is a read-only copy of an agent's state for renderers.
type AgentSnapshot struct {
	ID              string            `json:"id"`
	Position        geometry.Vector3D `json:"position"`
	Heading         geometry.Vector3D `json:"heading"`
	Velocity        geometry.Vector3D `json:"velocity"`
	Speed           float64           `json:"speed"`
	TargetDirection geometry.Vector3D `json:"targetDirection"`
	State           string            `json:"state"`
	Neighbors       int               `json:"neighbors"`
	Links           []Link            `json:"links,omitempty"`
}

// Snapshot copies the agent's current state.
func (a *Agent) Snapshot() AgentSnapshot {
	return AgentSnapshot{
		ID:              a.ID,
		Position:        a.position,
		Heading:         a.Heading(),
		Velocity:        a.velocity,
		Speed:           a.speed,
		TargetDirection: a.targetDirection,
		State:           a.state.String(),
		Neighbors:       len(a.neighbors),
		Links:           a.Links(),
	}
}
