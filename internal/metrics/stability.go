package metrics

import (
	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/render"
)

// Stability is the share of frames in which every projected vertex stayed
// within threshold of the origin. Frames where a vertex crossed the w
// viewpoint and was clamped count as violations.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	last       float64
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		last:      1,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(scene *render.Scene, t float64) {
	s.samples++
	ok := true
	visit(scene, func(_ render.HandleID, _ int, p math4d.Vec3) {
		if ok && (clamped(p) || p.Len() > s.threshold) {
			ok = false
		}
	})
	if ok {
		s.last = 1
		return
	}
	s.last = 0
	s.violations++
}

func (s *Stability) Last() float64 { return s.last }

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.last = 1
}
