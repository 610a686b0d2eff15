package flock

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Zone is one of the concentric distance bands around an agent.
type Zone int

const (
	// ZoneNone means the neighbor is behind, coincident or out of range.
	ZoneNone Zone = iota
	ZoneRepulsion
	ZoneAlignment
	ZoneAttraction
)

// zones is ordered nearest first.
var zones = [...]Zone{ZoneRepulsion, ZoneAlignment, ZoneAttraction}

func (z Zone) String() string {
	switch z {
	case ZoneNone:
		return "none"
	case ZoneRepulsion:
		return "repulsion"
	case ZoneAlignment:
		return "alignment"
	case ZoneAttraction:
		return "attraction"
	default:
		return fmt.Sprintf("Zone(%d)", int(z))
	}
}

// bounds returns the half-open interval (min, max] covered by z.
// It panics on a zone that has no extent: that is a programming error.
func (s *Settings) bounds(z Zone) (minDistance, maxDistance float64) {
	switch z {
	case ZoneRepulsion:
		return 0, s.RepulsionDistance
	case ZoneAlignment:
		return s.RepulsionDistance, s.AlignmentDistance
	case ZoneAttraction:
		return s.AlignmentDistance, s.AttractionDistance
	default:
		panic(fmt.Sprintf("flock: unknown zone %v", z))
	}
}

// ZoneAt returns the zone containing a neighbor at the given distance,
// ignoring visibility.
func (s *Settings) ZoneAt(distance float64) Zone {
	for _, z := range zones {
		lo, hi := s.bounds(z)
		if distance > lo && distance <= hi {
			return z
		}
	}
	return ZoneNone
}

// Classify decides whether other influences an agent standing at position
// and facing heading, and through which zone. vecToOther is returned so the
// steering rules do not recompute it.
func Classify(s *Settings, position, heading, otherPosition geometry.Vector3D) (zone Zone, vecToOther geometry.Vector3D) {
	vecToOther = otherPosition.Sub(position)
	// only what is in front is seen
	if heading.Dot(vecToOther) < 0 {
		return ZoneNone, vecToOther
	}
	return s.ZoneAt(vecToOther.Len()), vecToOther
}

// MarshalText encodes the zone by name in snapshots.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText decodes a zone name written by MarshalText.
func (z *Zone) UnmarshalText(text []byte) error {
	for _, candidate := range [...]Zone{ZoneNone, ZoneRepulsion, ZoneAlignment, ZoneAttraction} {
		if candidate.String() == string(text) {
			*z = candidate
			return nil
		}
	}
	return fmt.Errorf("flock: unknown zone name %q", text)
}
