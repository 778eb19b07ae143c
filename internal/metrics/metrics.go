package metrics

import (
	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/render"
)

// Metric observes the projected scene once per frame.
type Metric interface {
	Name() string
	Observe(s *render.Scene, t float64)
	// Last is the value for the most recent frame.
	Last() float64
	// Value aggregates every frame since the last Reset.
	Value() float64
	Reset()
}

// Default returns the metrics recorded by headless runs.
func Default() []Metric {
	return []Metric{
		NewExtent(),
		NewStability(100),
		NewMotion(),
	}
}

// visit calls fn for every projected vertex in the scene, keyed by handle.
// Meshes contribute their centre.
func visit(s *render.Scene, fn func(id render.HandleID, i int, p math4d.Vec3)) {
	for _, h := range s.Handles() {
		switch v := h.(type) {
		case *render.LineSet:
			for i, p := range v.Points {
				fn(v.ID(), i, p)
			}
		case *render.PointCloud:
			for i, p := range v.Points {
				fn(v.ID(), i, p)
			}
		case *render.Mesh:
			if v.Visible {
				fn(v.ID(), 0, v.Center)
			}
		}
	}
}

func clamped(p math4d.Vec3) bool {
	return p.X == math4d.FarAway || p.X == -math4d.FarAway ||
		p.Y == math4d.FarAway || p.Y == -math4d.FarAway ||
		p.Z == math4d.FarAway || p.Z == -math4d.FarAway
}
