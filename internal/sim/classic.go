package sim

import (
	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/topology"
)

const (
	ClassicTesseractKey = "classicTesseract"

	// PerspectiveKey is the classic variant's name for the w viewpoint distance.
	PerspectiveKey = "perspectiveDistance"
)

// ClassicTesseract steps its angles by a fixed amount per frame rather than per
// second, so its apparent speed follows the frame rate.
type ClassicTesseract struct {
	lifecycle

	speeds    speeds
	wDistance float64

	topo   topology.Topology
	angles math4d.Angles
	lines  *render.LineSet
}

func NewClassicTesseract(env Env) *ClassicTesseract {
	s := speeds{math4d.XW: 0.005, math4d.YZ: 0.007, math4d.XY: 0.002, math4d.ZW: 0.003}
	return &ClassicTesseract{
		lifecycle: newLifecycle(Info{
			Key:   ClassicTesseractKey,
			Title: "Classic Tesseract",
			Description: "The first tesseract visualisation: the inner cube appears to turn " +
				"inside out without passing through the faces of the outer cube.",
		}, env),
		speeds:    s,
		wDistance: math4d.DefaultWDistance,
		angles:    s.zeroAngles(),
	}
}

func (c *ClassicTesseract) Initialize() error {
	return c.initialize(func() error {
		c.topo = topology.Hypercube(TesseractSize)
		lines, err := c.target.AcquireLines(len(c.topo.Vertices), c.topo.Edges)
		if err = c.own(lines, err); err != nil {
			return err
		}
		lines.Color = render.HSL(0.5, 1, 0.5)
		lines.Width = 2
		lines.Resolution = c.size
		c.lines = lines
		c.project()
		return nil
	})
}

func (c *ClassicTesseract) Update(_, _ float64, p params.Snapshot) error {
	if err := c.require("update"); err != nil {
		return err
	}
	c.speeds.advance(c.angles, p, 1)
	c.wDistance = p.FloatOr(PerspectiveKey, c.wDistance)
	c.project()
	return nil
}

func (c *ClassicTesseract) project() {
	math4d.ProjectAll(c.lines.Points, c.topo.Vertices, c.angles, c.wDistance)
}

func (c *ClassicTesseract) OnResize(size render.Size) error {
	if err := c.resize(size); err != nil {
		return err
	}
	c.lines.Resolution = size
	return nil
}

func (c *ClassicTesseract) Angles() math4d.Angles { return c.angles.Clone() }

func (c *ClassicTesseract) Controls() []Control {
	return []Control{
		speedControl("xw", "XW", 0.02, 0.001, c.speeds[math4d.XW]),
		speedControl("yz", "YZ", 0.02, 0.001, c.speeds[math4d.YZ]),
		speedControl("xy", "XY", 0.02, 0.001, c.speeds[math4d.XY]),
		speedControl("zw", "ZW", 0.02, 0.001, c.speeds[math4d.ZW]),
		{ID: PerspectiveKey, Label: "Perspective Distance", Kind: Slider, Min: 1, Max: 10, Step: 0.1, Default: math4d.DefaultWDistance},
	}
}
