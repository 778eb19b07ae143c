package math4d

import "math"

// Plane names one of the six coordinate planes of 4D space.
type Plane string

const (
	XY Plane = "xy"
	XZ Plane = "xz"
	XW Plane = "xw"
	YZ Plane = "yz"
	YW Plane = "yw"
	ZW Plane = "zw"
)

// Planes lists every plane in the order Rotate applies them.
var Planes = [6]Plane{XY, XZ, YZ, XW, YW, ZW}

func (p Plane) Valid() bool {
	switch p {
	case XY, XZ, XW, YZ, YW, ZW:
		return true
	}
	return false
}

// ParsePlane converts a plane name such as "xw" into a Plane.
func ParsePlane(s string) (Plane, bool) {
	p := Plane(s)
	return p, p.Valid()
}

// Angles maps a plane to a rotation angle in radians. A missing plane is not
// rotated at all.
type Angles map[Plane]float64

func (a Angles) Clone() Angles {
	c := make(Angles, len(a))
	for p, v := range a {
		c[p] = v
	}
	return c
}

// RotatePlane rotates v by angle inside plane. The first axis of the plane
// name rotates toward the second. Unknown planes return v unchanged.
func RotatePlane(v Vec4, plane Plane, angle float64) Vec4 {
	s, c := math.Sincos(angle)
	x, y, z, w := v.X, v.Y, v.Z, v.W
	switch plane {
	case XY:
		return Vec4{x*c - y*s, x*s + y*c, z, w}
	case XZ:
		return Vec4{x*c - z*s, y, x*s + z*c, w}
	case XW:
		return Vec4{x*c - w*s, y, z, x*s + w*c}
	case YZ:
		return Vec4{x, y*c - z*s, y*s + z*c, w}
	case YW:
		return Vec4{x, y*c - w*s, z, y*s + w*c}
	case ZW:
		return Vec4{x, y, z*c - w*s, z*s + w*c}
	default:
		return v
	}
}

// Rotate applies every plane present in angles, in Planes order.
func Rotate(v Vec4, angles Angles) Vec4 {
	for _, p := range Planes {
		if a, ok := angles[p]; ok {
			v = RotatePlane(v, p, a)
		}
	}
	return v
}

// RotateAll writes the rotation of each src vertex into dst. dst must be at
// least as long as src.
func RotateAll(dst, src []Vec4, angles Angles) {
	for i, v := range src {
		dst[i] = Rotate(v, angles)
	}
}
