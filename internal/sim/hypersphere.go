package sim

import (
	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/topology"
)

const (
	HypersphereKey    = "hypersphere"
	HypersphereRadius = 2.0
	HypersphereCount  = 2000

	PointSizeKey = "pointSize"
	AdditiveKey  = "useAdditiveBlending"

	defaultPointSize = 0.05
)

// Drift rates added on top of the accumulated xw and yw angles, in radians per
// second of elapsed time.
const (
	driftXW = 0.1
	driftYW = 0.15
)

// Hypersphere is a point cloud on the 3-sphere rotating in xw and yw. Points
// are colored by their rotated w coordinate.
type Hypersphere struct {
	lifecycle

	env       Env
	speeds    speeds
	wDistance float64
	pointSize float64
	additive  bool

	topo   topology.Topology
	angles math4d.Angles
	drift  math4d.Angles
	cloud  *render.PointCloud
}

func NewHypersphere(env Env) *Hypersphere {
	s := speeds{math4d.XW: 0.3, math4d.YW: 0.2}
	return &Hypersphere{
		lifecycle: newLifecycle(Info{
			Key:   HypersphereKey,
			Title: "Hypersphere Point Cloud",
			Description: "Points on a 3-sphere, the 4D analogue of a sphere, projected into 3D. " +
				"Points emerge from and recede into the centre as they pass through w.",
		}, env),
		env:       env,
		speeds:    s,
		wDistance: math4d.DefaultWDistance,
		pointSize: defaultPointSize,
		angles:    s.zeroAngles(),
		drift:     s.zeroAngles(),
	}
}

func (h *Hypersphere) Initialize() error {
	return h.initialize(func() error {
		h.topo = topology.Hypersphere(HypersphereRadius, HypersphereCount, h.env.Rand)
		cloud, err := h.target.AcquirePoints(len(h.topo.Vertices))
		if err = h.own(cloud, err); err != nil {
			return err
		}
		cloud.Opacity = 0.8
		h.cloud = cloud
		h.applyMaterial()
		h.project(0)
		return nil
	})
}

// Update accumulates the xw and yw angles by dt, then adds a drift
// proportional to elapsed. The drift is recomputed from elapsed each frame,
// never accumulated.
func (h *Hypersphere) Update(dt, elapsed float64, p params.Snapshot) error {
	if err := h.require("update"); err != nil {
		return err
	}
	h.speeds.advance(h.angles, p, dt)
	h.wDistance = p.FloatOr(WDistanceKey, h.wDistance)
	h.pointSize = p.FloatOr(PointSizeKey, h.pointSize)
	if on, ok := p.Bool(AdditiveKey); ok {
		h.additive = on
	}
	h.applyMaterial()
	h.project(elapsed)
	return nil
}

func (h *Hypersphere) applyMaterial() {
	h.cloud.Size = h.pointSize
	h.cloud.Additive = h.additive
}

func (h *Hypersphere) project(elapsed float64) {
	h.drift[math4d.XW] = h.angles[math4d.XW] + elapsed*driftXW
	h.drift[math4d.YW] = h.angles[math4d.YW] + elapsed*driftYW
	math4d.ParallelFor(len(h.topo.Vertices), math4d.ChunkSize, func(start, end int) {
		for i := start; i < end; i++ {
			r := math4d.Rotate(h.topo.Vertices[i], h.drift)
			h.cloud.Points[i] = math4d.Project(r, h.wDistance)
			wn := (r.W + HypersphereRadius) / (2 * HypersphereRadius)
			h.cloud.Colors[i] = render.HSL(0.6+wn*0.4, 0.8, 0.3+wn*0.4)
		}
	})
}

func (h *Hypersphere) OnResize(size render.Size) error { return h.resize(size) }

// Angles returns a copy of the accumulated rotation, without drift.
func (h *Hypersphere) Angles() math4d.Angles { return h.angles.Clone() }

// Vertices returns the number of points on the sphere.
func (h *Hypersphere) Vertices() int { return len(h.topo.Vertices) }

func (h *Hypersphere) Controls() []Control {
	return []Control{
		speedControl("xw", "XW", 1, 0.01, h.speeds[math4d.XW]),
		speedControl("yw", "YW", 1, 0.01, h.speeds[math4d.YW]),
		{ID: WDistanceKey, Label: "W Perspective Distance", Kind: Slider, Min: 1, Max: 10, Step: 0.1, Default: math4d.DefaultWDistance},
		{ID: PointSizeKey, Label: "Point Size", Kind: Slider, Min: 0.01, Max: 0.2, Step: 0.01, Default: defaultPointSize},
		{ID: AdditiveKey, Label: "Use Additive Blending", Kind: Checkbox, DefaultOn: false},
	}
}
