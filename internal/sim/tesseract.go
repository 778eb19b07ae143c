package sim

import (
	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/topology"
)

const (
	TesseractKey  = "tesseract"
	TesseractSize = 1.5

	// WDistanceKey overrides the w viewpoint distance of the tesseract and
	// hypersphere.
	WDistanceKey = "wPerspectiveDistance"
)

// Tesseract is a hypercube wireframe rotating in four planes, with a marker on
// each vertex tinted by its rotated w coordinate.
type Tesseract struct {
	lifecycle

	speeds    speeds
	wDistance float64

	topo    topology.Topology
	angles  math4d.Angles
	lines   *render.LineSet
	markers *render.PointCloud
}

func NewTesseract(env Env) *Tesseract {
	s := speeds{math4d.XW: 0.5, math4d.YZ: 0.7, math4d.ZW: 0.3, math4d.XY: 0.1}
	return &Tesseract{
		lifecycle: newLifecycle(Info{
			Key:   TesseractKey,
			Title: "Tesseract Explorer",
			Description: "A 4-dimensional hypercube projected into 3D space. " +
				"As it rotates through the w axis it appears to turn inside out.",
		}, env),
		speeds:    s,
		wDistance: math4d.DefaultWDistance,
		angles:    s.zeroAngles(),
	}
}

func (t *Tesseract) Initialize() error {
	return t.initialize(func() error {
		t.topo = topology.Hypercube(TesseractSize)
		n := len(t.topo.Vertices)

		lines, err := t.target.AcquireLines(n, t.topo.Edges)
		if err = t.own(lines, err); err != nil {
			return err
		}
		markers, err := t.target.AcquirePoints(n)
		if err = t.own(markers, err); err != nil {
			return err
		}

		lines.Color = render.HSL(0.52, 1, 0.43)
		lines.Opacity = 0.9
		lines.Resolution = t.size
		markers.Size = 0.05
		t.lines, t.markers = lines, markers
		t.project()
		return nil
	})
}

func (t *Tesseract) Update(dt, _ float64, p params.Snapshot) error {
	if err := t.require("update"); err != nil {
		return err
	}
	t.speeds.advance(t.angles, p, dt)
	t.wDistance = p.FloatOr(WDistanceKey, t.wDistance)
	t.project()
	return nil
}

func (t *Tesseract) project() {
	for i, v := range t.topo.Vertices {
		r := math4d.Rotate(v, t.angles)
		p := math4d.Project(r, t.wDistance)
		t.lines.Points[i] = p
		t.markers.Points[i] = p
		wn := (r.W + TesseractSize/2) / TesseractSize
		t.markers.Colors[i] = render.HSL(0.08+wn*0.05, 0.9, 0.5)
	}
}

func (t *Tesseract) OnResize(size render.Size) error {
	if err := t.resize(size); err != nil {
		return err
	}
	t.lines.Resolution = size
	return nil
}

// Angles returns a copy of the current rotation.
func (t *Tesseract) Angles() math4d.Angles { return t.angles.Clone() }

func (t *Tesseract) Controls() []Control {
	return []Control{
		speedControl("xw", "XW", 1, 0.01, t.speeds[math4d.XW]),
		speedControl("yz", "YZ", 1, 0.01, t.speeds[math4d.YZ]),
		speedControl("zw", "ZW", 1, 0.01, t.speeds[math4d.ZW]),
		speedControl("xy", "XY", 1, 0.01, t.speeds[math4d.XY]),
		{ID: WDistanceKey, Label: "W Perspective Distance", Kind: Slider, Min: 1, Max: 10, Step: 0.1, Default: math4d.DefaultWDistance},
	}
}
