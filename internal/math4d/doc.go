// Package math4d provides the vector math used to turn 4D geometry into
// something a 3D renderer can draw.
//
//   - [Vec4], [Vec3]: value types, every operation returns a new value
//   - [RotatePlane]: rotation inside one of the six coordinate planes
//   - [Rotate]: composed rotation over an [Angles] set in a fixed order
//   - [Project]: 4D→3D perspective projection along w
//
// # Rotation Order
//
// Rotations in different 4D planes do not commute. [Rotate] always applies
// planes in the order xy, xz, yz, xw, yw, zw (see [Planes]); changing this
// order changes what is drawn.
//
// # Projection Singularities
//
// [Project] never returns NaN or Inf for finite input. Points at or behind the
// viewpoint (divisor <= [MinDivisor]) are pushed out to [FarAway] along the
// sign of each coordinate instead.
package math4d
