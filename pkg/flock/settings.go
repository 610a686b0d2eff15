package flock

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// ErrInvalidSettings is wrapped by every settings validation failure.
var ErrInvalidSettings = errors.New("invalid flock settings")

// Settings controls the steering rules shared by every agent of a flock.
// Agents keep a pointer to one validated instance; it must not be mutated
// while a simulation is running.
type Settings struct {
	// Zone radii, strictly increasing.
	RepulsionDistance  float64 `json:"repulsionDistance" yaml:"repulsionDistance"`
	AlignmentDistance  float64 `json:"alignmentDistance" yaml:"alignmentDistance"`
	AttractionDistance float64 `json:"attractionDistance" yaml:"attractionDistance"`

	RepulsionForce  float64 `json:"repulsionForce" yaml:"repulsionForce"`
	AlignmentForce  float64 `json:"alignmentForce" yaml:"alignmentForce"`
	AttractionForce float64 `json:"attractionForce" yaml:"attractionForce"`

	MaxSpeed   float64 `json:"maxSpeed" yaml:"maxSpeed"`
	SteerSpeed float64 `json:"steerSpeed" yaml:"steerSpeed"` // degrees per second
}

// DefaultSettings returns the reference tuning of the flock.
func DefaultSettings() Settings {
	return Settings{
		RepulsionDistance:  5,
		AlignmentDistance:  9,
		AttractionDistance: 50,
		RepulsionForce:     15,
		AlignmentForce:     3,
		AttractionForce:    20,
		MaxSpeed:           10,
		SteerSpeed:         1,
	}
}

// SensingRadius is the farthest distance at which another agent is perceived.
func (s Settings) SensingRadius() float64 {
	return s.AttractionDistance
}

// Validate reports every violated constraint at once.
func (s Settings) Validate() error {
	var err error

	fields := []struct {
		name  string
		value float64
	}{
		{"repulsionDistance", s.RepulsionDistance},
		{"alignmentDistance", s.AlignmentDistance},
		{"attractionDistance", s.AttractionDistance},
		{"repulsionForce", s.RepulsionForce},
		{"alignmentForce", s.AlignmentForce},
		{"attractionForce", s.AttractionForce},
		{"maxSpeed", s.MaxSpeed},
		{"steerSpeed", s.SteerSpeed},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			err = multierr.Append(err, fmt.Errorf("%s must be a finite number, got %v", f.name, f.value))
		}
	}

	if s.RepulsionDistance <= 0 {
		err = multierr.Append(err, fmt.Errorf("repulsionDistance must be > 0, got %v", s.RepulsionDistance))
	}
	if !(s.RepulsionDistance < s.AlignmentDistance) {
		err = multierr.Append(err, fmt.Errorf("repulsionDistance (%v) must be < alignmentDistance (%v)",
			s.RepulsionDistance, s.AlignmentDistance))
	}
	if !(s.AlignmentDistance < s.AttractionDistance) {
		err = multierr.Append(err, fmt.Errorf("alignmentDistance (%v) must be < attractionDistance (%v)",
			s.AlignmentDistance, s.AttractionDistance))
	}
	if s.MaxSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("maxSpeed must be >= 0, got %v", s.MaxSpeed))
	}
	if s.SteerSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("steerSpeed must be >= 0, got %v", s.SteerSpeed))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}
