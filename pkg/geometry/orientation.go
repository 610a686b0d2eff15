package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is a unit quaternion rotating the local Forward axis (+Z) onto
// the current heading.
type Orientation = mgl64.Quat

// IdentityOrientation faces Forward.
func IdentityOrientation() Orientation {
	return mgl64.QuatIdent()
}

// LookRotation returns the orientation whose forward axis points along dir,
// keeping the local up axis as close as possible to world Up.
// A zero direction yields the identity orientation.
func LookRotation(dir Vector3D) Orientation {
	f := dir.Normalize()
	if f.IsZero() {
		return IdentityOrientation()
	}

	r := Up.Cross(f)
	if r.LenSqr() < Epsilon {
		// looking straight up or down: world Up is useless as a reference
		r = Right
	}
	r = r.Normalize()
	u := f.Cross(r)

	// columns are the images of the local X, Y, Z axes
	m := mgl64.Mat4{
		r.X, r.Y, r.Z, 0,
		u.X, u.Y, u.Z, 0,
		f.X, f.Y, f.Z, 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}

// Slerp eases from towards to along the shortest arc, t in [0, 1].
func Slerp(from, to Orientation, t float64) Orientation {
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, t).Normalize()
}

// HeadingOf returns the unit forward vector of q.
func HeadingOf(q Orientation) Vector3D {
	return FromVec3(q.Normalize().Rotate(Forward.Vec3())).Normalize()
}

// AngleBetween returns the angle in radians between two directions.
// Zero-length inputs give 0.
func AngleBetween(a, b Vector3D) float64 {
	na, nb := a.Normalize(), b.Normalize()
	if na.IsZero() || nb.IsZero() {
		return 0
	}
	return math.Acos(mgl64.Clamp(na.Dot(nb), -1, 1))
}
