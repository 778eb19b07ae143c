package topology

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/hypersim/internal/math4d"
)

func TestHypercubeVertices_BitEncoding(t *testing.T) {
	v := HypercubeVertices(1.5)
	require.Len(t, v, 16)

	assert.Equal(t, math4d.Vec4{X: -0.75, Y: -0.75, Z: -0.75, W: -0.75}, v[0])
	assert.Equal(t, math4d.Vec4{X: 0.75, Y: -0.75, Z: -0.75, W: -0.75}, v[1], "bit 0 selects x")
	assert.Equal(t, math4d.Vec4{X: -0.75, Y: 0.75, Z: -0.75, W: -0.75}, v[2], "bit 1 selects y")
	assert.Equal(t, math4d.Vec4{X: -0.75, Y: -0.75, Z: 0.75, W: -0.75}, v[4], "bit 2 selects z")
	assert.Equal(t, math4d.Vec4{X: -0.75, Y: -0.75, Z: -0.75, W: 0.75}, v[8], "bit 3 selects w")
	assert.Equal(t, math4d.Vec4{X: 0.75, Y: 0.75, Z: 0.75, W: 0.75}, v[15])
}

func TestHypercubeVertices_Deterministic(t *testing.T) {
	require.Equal(t, HypercubeVertices(2), HypercubeVertices(2))
}

func TestHypercubeEdges_Count(t *testing.T) {
	for _, size := range []float64{0.5, 1, 1.5, 3} {
		v := HypercubeVertices(size)
		edges := HypercubeEdges(v)
		require.Len(t, edges, 32, "size %v", size)

		seen := make(map[Edge]bool)
		for _, e := range edges {
			assert.Less(t, e.A, e.B)
			assert.Equal(t, 1, HammingDistance(v[e.A], v[e.B]), "edge %v", e)
			assert.False(t, seen[e], "duplicate edge %v", e)
			seen[e] = true
		}
	}
}

func TestHypercubeEdges_AllPairsChecked(t *testing.T) {
	v := HypercubeVertices(1.5)
	edges := HypercubeEdges(v)
	inEdges := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		inEdges[e] = true
	}

	pairs := 0
	for i := 0; i < 16; i++ {
		for j := i + 1; j < 16; j++ {
			pairs++
			// Hamming distance on the index bits matches the coordinate test.
			bits := 0
			for x := i ^ j; x != 0; x &= x - 1 {
				bits++
			}
			assert.Equal(t, bits == 1, inEdges[Edge{i, j}], "pair %d-%d", i, j)
		}
	}
	assert.Equal(t, 120, pairs)
}

func TestHypercubeEdges_ToleratesNoise(t *testing.T) {
	v := HypercubeVertices(1)
	v[3].X += 5e-5
	assert.Len(t, HypercubeEdges(v), 32)
}

func TestHypersphereVertices_OnSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := HypersphereVertices(2, 500, rng)
	require.Len(t, pts, 500)

	for i, p := range pts {
		assert.InDelta(t, 2.0, p.Len(), 1e-3, "point %d", i)
		assert.True(t, p.IsFinite())
	}
}

func TestHypersphereVertices_RoughlyCentred(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pts := HypersphereVertices(1, 4000, rng)

	var sum math4d.Vec4
	for _, p := range pts {
		sum = sum.Add(p)
	}
	mean := sum.Scale(1 / float64(len(pts)))
	assert.Less(t, mean.Len(), 0.1, "uniform samples should average near the origin")
}

func TestHypersphereVertices_SeedReproducible(t *testing.T) {
	a := HypersphereVertices(1, 10, rand.New(rand.NewSource(3)))
	b := HypersphereVertices(1, 10, rand.New(rand.NewSource(3)))
	assert.Equal(t, a, b)
}

func TestHypersphereVertices_NilSource(t *testing.T) {
	pts := HypersphereVertices(3, 20, nil)
	require.Len(t, pts, 20)
	for _, p := range pts {
		assert.InDelta(t, 3.0, p.Len(), 1e-9)
	}
}

func TestHypersphere_IsPointCloud(t *testing.T) {
	topo := Hypersphere(1, 5, rand.New(rand.NewSource(1)))
	assert.True(t, topo.IsPointCloud())
	assert.False(t, Hypercube(1).IsPointCloud())
}

func TestGaussian_Moments(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		g := gaussian(rng)
		sum += g
		sumSq += g * g
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.05)
	assert.False(t, math.IsNaN(variance))
}
