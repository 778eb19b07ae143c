package math4d

const (
	DefaultWDistance  = 4.0
	ProjectionEpsilon = 1e-5
	MinDivisor        = 0.01
	FarAway           = 10000.0
)

// Project maps v into 3D with a perspective divide along w, the viewpoint
// sitting at w = wDistance.
func Project(v Vec4, wDistance float64) Vec3 {
	divisor := wDistance - v.W + ProjectionEpsilon
	if divisor <= MinDivisor {
		return Vec3{sign(v.X) * FarAway, sign(v.Y) * FarAway, sign(v.Z) * FarAway}
	}
	k := wDistance / divisor
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// ProjectAll rotates and projects src into dst without allocating. dst must
// be at least as long as src. Large inputs are split across goroutines.
func ProjectAll(dst []Vec3, src []Vec4, angles Angles, wDistance float64) {
	ParallelFor(len(src), ChunkSize, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = Project(Rotate(src[i], angles), wDistance)
		}
	})
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
