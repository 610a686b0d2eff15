package flock

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// Repulsion pushes away from a neighbor that is too close.
// Coincident agents (zero vector) contribute nothing.
func Repulsion(s *Settings, vecToOther geometry.Vector3D) geometry.Vector3D {
	return vecToOther.Normalize().Mul(-s.RepulsionForce)
}

// Alignment steers along the neighbor's own heading.
func Alignment(s *Settings, otherHeading geometry.Vector3D) geometry.Vector3D {
	return otherHeading.Mul(s.AlignmentForce)
}

// Attraction pulls towards a distant but visible neighbor.
// Coincident agents (zero vector) contribute nothing.
func Attraction(s *Settings, vecToOther geometry.Vector3D) geometry.Vector3D {
	return vecToOther.Normalize().Mul(s.AttractionForce)
}

// Contribution applies the rule matching zone. ok is false for ZoneNone.
func Contribution(s *Settings, zone Zone, vecToOther, otherHeading geometry.Vector3D) (force geometry.Vector3D, ok bool) {
	switch zone {
	case ZoneRepulsion:
		return Repulsion(s, vecToOther), true
	case ZoneAlignment:
		return Alignment(s, otherHeading), true
	case ZoneAttraction:
		return Attraction(s, vecToOther), true
	case ZoneNone:
		return geometry.Zero, false
	default:
		panic("flock: unknown zone " + zone.String())
	}
}
