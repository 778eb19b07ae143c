package metrics

import (
	"math"

	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/render"
)

// Extent is the largest distance of a projected vertex from the origin,
// averaged over frames. Clamped singularity points are left out.
type Extent struct {
	name    string
	last    float64
	total   float64
	peak    float64
	samples int
}

func NewExtent() *Extent {
	return &Extent{name: "extent"}
}

func (e *Extent) Name() string { return e.name }

func (e *Extent) Observe(s *render.Scene, t float64) {
	frame := 0.0
	visit(s, func(_ render.HandleID, _ int, p math4d.Vec3) {
		if clamped(p) {
			return
		}
		frame = math.Max(frame, p.Len())
	})
	e.last = frame
	e.total += frame
	e.peak = math.Max(e.peak, frame)
	e.samples++
}

func (e *Extent) Last() float64 { return e.last }

func (e *Extent) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Peak is the largest single-frame extent.
func (e *Extent) Peak() float64 { return e.peak }

func (e *Extent) Reset() {
	e.last = 0
	e.total = 0
	e.peak = 0
	e.samples = 0
}
