package math4d

import "math"

type Vec4 struct {
	X, Y, Z, W float64
}

func V4(x, y, z, w float64) Vec4 { return Vec4{x, y, z, w} }

// Vec4 methods.
func (v Vec4) Add(o Vec4) Vec4      { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }
func (v Vec4) Sub(o Vec4) Vec4      { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }
func (v Vec4) Scale(s float64) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }
func (v Vec4) Dot(o Vec4) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }
func (v Vec4) LenSq() float64       { return v.Dot(v) }
func (v Vec4) Len() float64         { return math.Sqrt(v.LenSq()) }
func (v Vec4) XYZ() Vec3            { return Vec3{v.X, v.Y, v.Z} }

// Component returns coordinate i (0=x, 1=y, 2=z, 3=w). Out of range yields 0.
func (v Vec4) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	case 3:
		return v.W
	}
	return 0
}

// Normalize returns v scaled to unit length, or the zero vector if v has none.
func (v Vec4) Normalize() Vec4 {
	if l := v.Len(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec4{}
}

// IsFinite reports whether no coordinate is NaN or Inf.
func (v Vec4) IsFinite() bool {
	for _, c := range [4]float64{v.X, v.Y, v.Z, v.W} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64         { return math.Sqrt(v.Dot(v)) }
