package metrics

import (
	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/render"
)

type vertexKey struct {
	id render.HandleID
	i  int
}

// Motion is the mean distance a projected vertex travels between consecutive
// frames. Vertices seen for the first time and clamped ones are skipped.
type Motion struct {
	name    string
	prev    map[vertexKey]math4d.Vec3
	last    float64
	sum     float64
	samples int
}

func NewMotion() *Motion {
	return &Motion{
		name: "motion",
		prev: make(map[vertexKey]math4d.Vec3),
	}
}

func (m *Motion) Name() string {
	return m.name
}

func (m *Motion) Observe(s *render.Scene, t float64) {
	next := make(map[vertexKey]math4d.Vec3, len(m.prev))
	var total float64
	var n int
	visit(s, func(id render.HandleID, i int, p math4d.Vec3) {
		if clamped(p) {
			return
		}
		k := vertexKey{id, i}
		if q, ok := m.prev[k]; ok {
			total += p.Sub(q).Len()
			n++
		}
		next[k] = p
	})
	m.prev = next
	if n == 0 {
		m.last = 0
		return
	}
	m.last = total / float64(n)
	m.sum += m.last
	m.samples++
}

func (m *Motion) Last() float64 { return m.last }

func (m *Motion) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Motion) Reset() {
	m.prev = make(map[vertexKey]math4d.Vec3)
	m.last = 0
	m.sum = 0
	m.samples = 0
}
