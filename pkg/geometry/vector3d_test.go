package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2, 3)
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("NewVector(1, 2, 3) = %v; want (1, 2, 3)", v)
	}
}

func TestVector_String(t *testing.T) {
	v := Vector3D{1.234, 5.678, -0.001}
	want := "(1.23, 5.68, -0.00)"
	if got := v.String(); got != want {
		t.Errorf("Vector3D.String() = %q; want %q", got, want)
	}
}

func TestVector_Vec3RoundTrip(t *testing.T) {
	v := Vector3D{1, -2, 3}
	m := v.Vec3()
	if m != (mgl64.Vec3{1, -2, 3}) {
		t.Errorf("Vec3() = %v; want [1 -2 3]", m)
	}
	if got := FromVec3(m); got != v {
		t.Errorf("FromVec3(%v) = %v; want %v", m, got, v)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector3D{1, 2, 3}
	v2 := Vector3D{4, 5, 6}

	t.Run("Add", func(t *testing.T) {
		want := Vector3D{5, 7, 9}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector3D{-3, -3, -3}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector3D{2, 4, 6}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Neg", func(t *testing.T) {
		want := Vector3D{-1, -2, -3}
		if got := v1.Neg(); !got.Eq(want) {
			t.Errorf("%v.Neg() = %v; want %v", v1, got, want)
		}
	})

	t.Run("Div", func(t *testing.T) {
		want := Vector3D{0.5, 1, 1.5}
		got, err := v1.Div(2)
		if err != nil {
			t.Errorf("%v.Div(2) returned unexpected error: %v", v1, err)
		}
		if !got.Eq(want) {
			t.Errorf("%v.Div(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		got, err := v1.Div(0)
		if err == nil {
			t.Errorf("%v.Div(0) should have returned an error, result=%v", v1, got)
		}
		if got.IsFinite() {
			t.Errorf("Div(0) should result in Inf coordinates, got %v", got)
		}
	})
}

func TestVector_Products(t *testing.T) {
	t.Run("Dot", func(t *testing.T) {
		if got := Right.Dot(Up); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		if got := (Vector3D{1, 2, 3}).Dot(Vector3D{4, 5, 6}); got != 32 {
			t.Errorf("Dot = %v; want 32", got)
		}
	})

	t.Run("Cross", func(t *testing.T) {
		// right-handed: X × Y = Z
		if got := Right.Cross(Up); !got.Eq(Forward) {
			t.Errorf("Right x Up = %v; want %v", got, Forward)
		}
		v := Vector3D{1, 1, 1}
		if got := v.Cross(v); !got.IsZero() {
			t.Errorf("Cross self = %v; want zero", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector3D{2, 3, 6} // 2-3-6-7

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 7 {
			t.Errorf("Len = %v; want 7", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 49 {
			t.Errorf("LenSqr = %v; want 49", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector3D{2.0 / 7, 3.0 / 7, 6.0 / 7}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Zero.Normalize()
		if !got.IsZero() {
			t.Errorf("Normalize(0,0,0) = %v; want zero", got)
		}
		if !got.IsFinite() {
			t.Errorf("Normalize(0,0,0) produced non finite %v", got)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector3D{1, 1, 1}
	v2 := Vector3D{3, 4, 7}

	if got := v1.DistanceTo(v2); got != 7 {
		t.Errorf("DistanceTo = %v; want 7", got)
	}
	if got := v1.DistanceSquaredTo(v2); got != 49 {
		t.Errorf("DistanceSquaredTo = %v; want 49", got)
	}
}

func TestVector_Utilities(t *testing.T) {
	t.Run("Lerp", func(t *testing.T) {
		got := Zero.Lerp(Vector3D{10, 10, -10}, 0.5)
		want := Vector3D{5, 5, -5}
		if !got.Eq(want) {
			t.Errorf("Lerp(0.5) = %v; want %v", got, want)
		}
	})

	t.Run("ScalarLerp", func(t *testing.T) {
		if got := Lerp(0, 10, 0.1); !floatEquals(got, 1) {
			t.Errorf("Lerp(0, 10, 0.1) = %v; want 1", got)
		}
	})

	t.Run("Project", func(t *testing.T) {
		got := Vector3D{3, 3, 3}.Project(Vector3D{5, 0, 0})
		want := Vector3D{3, 0, 0}
		if !got.Eq(want) {
			t.Errorf("Project = %v; want %v", got, want)
		}
	})

	t.Run("ProjectOnZero", func(t *testing.T) {
		if got := (Vector3D{3, 3, 3}).Project(Zero); !got.IsZero() {
			t.Errorf("Project on zero = %v; want zero", got)
		}
	})
}

func TestVector_Eq(t *testing.T) {
	v := Vector3D{1, 2, 3}

	if !v.Eq(Vector3D{1, 2, 3}) {
		t.Error("Eq exact match failed")
	}

	vClose := Vector3D{1 + Epsilon/2, 2 - Epsilon/2, 3}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	if v.Eq(Vector3D{1.1, 2, 3}) {
		t.Error("Eq mismatch failed")
	}

	if !v.EqTol(Vector3D{1.05, 2, 3}, 0.1) {
		t.Error("EqTol within tolerance failed")
	}
}
