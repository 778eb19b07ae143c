package sim

import (
	"math"

	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/topology"
)

const (
	SlicerKey = "slicer4D"

	SliceSpeedKey     = "sliceSpeed"
	SliceAmplitudeKey = "sliceAmplitude"

	defaultSliceSpeed     = 0.3
	defaultSliceAmplitude = 1.5
)

// Slicer sweeps a w = sliceW hyperplane through a rotating tesseract and shows
// a cube whose size tracks how far the plane is from the tesseract's centre.
//
// This is a coverage heuristic, not a cross-section: the true slice would come
// from clipping every edge against the hyperplane and rebuilding the face
// polygons. The stand-in is scaled by
//
//	clamp(1 - |sliceW - centerW| / halfWidth, 0, 1)
type Slicer struct {
	lifecycle

	speeds    speeds
	edge      float64
	speed     float64
	amplitude float64

	topo     topology.Topology
	angles   math4d.Angles
	sliceW   float64
	coverage float64
	mesh     *render.Mesh
}

func NewSlicer(env Env) *Slicer {
	s := speeds{math4d.XW: 0.2, math4d.YZ: 0.14}
	return &Slicer{
		lifecycle: newLifecycle(Info{
			Key:   SlicerKey,
			Title: "4D Slicer (Tesseract)",
			Description: "3D cross-sections of a tesseract as a w hyperplane sweeps through it, " +
				"much like an MRI scan shows 2D slices of a 3D body. Approximate.",
		}, env),
		speeds:    s,
		edge:      TesseractSize,
		speed:     defaultSliceSpeed,
		amplitude: defaultSliceAmplitude,
		angles:    s.zeroAngles(),
	}
}

func (s *Slicer) Initialize() error {
	return s.initialize(func() error {
		s.topo = topology.Hypercube(s.edge)
		mesh, err := s.target.AcquireMesh()
		if err = s.own(mesh, err); err != nil {
			return err
		}
		mesh.Opacity = 0.8
		s.mesh = mesh
		s.place()
		return nil
	})
}

func (s *Slicer) Update(dt, elapsed float64, p params.Snapshot) error {
	if err := s.require("update"); err != nil {
		return err
	}
	s.speed = p.FloatOr(SliceSpeedKey, s.speed)
	s.amplitude = p.FloatOr(SliceAmplitudeKey, s.amplitude)
	s.speeds.advance(s.angles, p, dt)
	s.sliceW = s.amplitude * math.Sin(elapsed*s.speed)
	s.place()
	return nil
}

// place moves the stand-in to the projected tesseract centre and sizes it by
// the current coverage.
func (s *Slicer) place() {
	c := math4d.Rotate(math4d.Vec4{}, s.angles)
	c.W = 0
	s.mesh.Center = math4d.Project(c, math4d.DefaultWDistance)

	s.coverage = Coverage(s.sliceW, 0, s.edge/2)
	s.mesh.Scale = s.coverage * s.edge
	hue := 0.5 + s.sliceW/3
	s.mesh.Color = render.HSL(hue, 0.8, 0.5)
	s.mesh.Emissive = render.HSL(hue, 0.8, s.coverage*0.2)
	s.mesh.Visible = s.coverage > 0.01
}

// Coverage approximates the share of a tesseract centred at centerW with the
// given half width that a hyperplane at sliceW cuts. It is 1 through the
// centre and falls linearly to 0 at the boundary.
func Coverage(sliceW, centerW, halfWidth float64) float64 {
	if halfWidth <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, 1-math.Abs(sliceW-centerW)/halfWidth))
}

func (s *Slicer) OnResize(size render.Size) error { return s.resize(size) }

func (s *Slicer) SliceW() float64   { return s.sliceW }
func (s *Slicer) Coverage() float64 { return s.coverage }

func (s *Slicer) Controls() []Control {
	return []Control{
		{ID: SliceSpeedKey, Label: "Slice Speed", Kind: Slider, Min: 0.05, Max: 1, Step: 0.05, Default: defaultSliceSpeed},
		{ID: SliceAmplitudeKey, Label: "Slice Amplitude", Kind: Slider, Min: 0.5, Max: 3, Step: 0.1, Default: defaultSliceAmplitude},
		speedControl("xw", "XW", 0.5, 0.01, s.speeds[math4d.XW]),
		speedControl("yz", "YZ", 0.5, 0.01, s.speeds[math4d.YZ]),
	}
}
