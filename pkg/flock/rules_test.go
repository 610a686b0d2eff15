package flock

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestRules(t *testing.T) {
	s := DefaultSettings() // forces 15 / 3 / 20

	t.Run("RepulsionPushesAway", func(t *testing.T) {
		got := Repulsion(&s, geometry.Vector3D{Z: 2})
		want := geometry.Vector3D{Z: -15}
		if !got.Eq(want) {
			t.Errorf("Repulsion = %v; want %v", got, want)
		}
	})

	t.Run("RepulsionCoincident", func(t *testing.T) {
		got := Repulsion(&s, geometry.Zero)
		if !got.IsZero() || !got.IsFinite() {
			t.Errorf("Repulsion(zero) = %v; want zero", got)
		}
	})

	t.Run("AlignmentUsesOtherHeading", func(t *testing.T) {
		got := Alignment(&s, geometry.Right)
		want := geometry.Vector3D{X: 3}
		if !got.Eq(want) {
			t.Errorf("Alignment = %v; want %v", got, want)
		}
	})

	t.Run("AttractionPullsTowards", func(t *testing.T) {
		got := Attraction(&s, geometry.Vector3D{Y: 30})
		want := geometry.Vector3D{Y: 20}
		if !got.Eq(want) {
			t.Errorf("Attraction = %v; want %v", got, want)
		}
	})

	t.Run("AttractionCoincident", func(t *testing.T) {
		if got := Attraction(&s, geometry.Zero); !got.IsZero() {
			t.Errorf("Attraction(zero) = %v; want zero", got)
		}
	})
}

func TestContribution(t *testing.T) {
	s := DefaultSettings()
	vec := geometry.Vector3D{Z: 4}
	heading := geometry.Up

	tests := []struct {
		zone   Zone
		want   geometry.Vector3D
		wantOK bool
	}{
		{ZoneNone, geometry.Zero, false},
		{ZoneRepulsion, geometry.Vector3D{Z: -15}, true},
		{ZoneAlignment, geometry.Vector3D{Y: 3}, true},
		{ZoneAttraction, geometry.Vector3D{Z: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.zone.String(), func(t *testing.T) {
			got, ok := Contribution(&s, tt.zone, vec, heading)
			if ok != tt.wantOK || !got.Eq(tt.want) {
				t.Errorf("Contribution(%v) = %v, %v; want %v, %v", tt.zone, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestContribution_UnknownZonePanics(t *testing.T) {
	s := DefaultSettings()
	defer func() {
		if recover() == nil {
			t.Error("Contribution with an unknown zone did not panic")
		}
	}()
	Contribution(&s, Zone(42), geometry.Forward, geometry.Forward)
}
