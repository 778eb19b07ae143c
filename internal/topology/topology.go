// Package topology generates the vertex sets and connectivity of the 4D
// primitives the simulations draw.
package topology

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/hypersim/internal/math4d"
)

// CoordTolerance is the smallest coordinate difference counted as distinct
// when deciding whether two vertices share an edge.
const CoordTolerance = 1e-4

// Edge joins two vertex indices, A < B.
type Edge struct {
	A, B int
}

// Topology is a vertex list plus its edges. Point clouds have no edges.
type Topology struct {
	Vertices []math4d.Vec4
	Edges    []Edge
}

func (t Topology) IsPointCloud() bool { return len(t.Edges) == 0 }

// Hypercube returns the 16 vertices and 32 edges of a tesseract centred on the
// origin with the given edge length.
func Hypercube(size float64) Topology {
	v := HypercubeVertices(size)
	return Topology{Vertices: v, Edges: HypercubeEdges(v)}
}

// Hypersphere returns count points on the 3-sphere of the given radius.
func Hypersphere(radius float64, count int, rng *rand.Rand) Topology {
	return Topology{Vertices: HypersphereVertices(radius, count, rng)}
}

// HypercubeVertices enumerates ±size/2 on every axis. Bit 0 of the index picks
// x, bit 1 y, bit 2 z, bit 3 w.
func HypercubeVertices(size float64) []math4d.Vec4 {
	h := size / 2
	pick := func(i, bit int) float64 {
		if i&bit != 0 {
			return h
		}
		return -h
	}
	out := make([]math4d.Vec4, 16)
	for i := range out {
		out[i] = math4d.Vec4{X: pick(i, 1), Y: pick(i, 2), Z: pick(i, 4), W: pick(i, 8)}
	}
	return out
}

// HypercubeEdges connects every pair of vertices that differ in exactly one
// coordinate.
func HypercubeEdges(vertices []math4d.Vec4) []Edge {
	edges := make([]Edge, 0, 32)
	for i := 0; i < len(vertices); i++ {
		for j := i + 1; j < len(vertices); j++ {
			if HammingDistance(vertices[i], vertices[j]) == 1 {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	return edges
}

// HammingDistance counts the coordinates in which a and b differ by more than
// CoordTolerance.
func HammingDistance(a, b math4d.Vec4) int {
	n := 0
	for k := 0; k < 4; k++ {
		if math.Abs(a.Component(k)-b.Component(k)) > CoordTolerance {
			n++
		}
	}
	return n
}

// HypersphereVertices samples count points uniformly on the 3-sphere by
// normalising 4D Gaussian samples. Degenerate zero-length samples are skipped,
// so fewer than count points may come back. A nil rng uses a time seed.
func HypersphereVertices(radius float64, count int, rng *rand.Rand) []math4d.Vec4 {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := make([]math4d.Vec4, 0, count)
	for i := 0; i < count; i++ {
		p := math4d.Vec4{
			X: gaussian(rng),
			Y: gaussian(rng),
			Z: gaussian(rng),
			W: gaussian(rng),
		}
		r := p.Len()
		if r == 0 {
			continue
		}
		out = append(out, p.Scale(radius/r))
	}
	return out
}

// gaussian draws a standard normal variate with the Box-Muller transform.
func gaussian(rng *rand.Rand) float64 {
	u := openUnit(rng)
	v := openUnit(rng)
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}

// openUnit returns a uniform sample in (0, 1).
func openUnit(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u != 0 {
			return u
		}
	}
}
