package render

import (
	"math"

	"github.com/san-kum/hypersim/internal/math4d"
)

// Camera views the 3D projection from a point on a sphere around the origin.
type Camera struct {
	Yaw, Pitch float64
	Distance   float64
	FOV        float64
	Near       float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Yaw: 0.6, Pitch: 0.35, Distance: 7, FOV: math.Pi / 3, Near: 0.1, Zoom: 1}
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = math.Max(-1.5, math.Min(1.5, c.Pitch+dPitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// view rotates p into camera space, z pointing away from the viewer.
func (c *Camera) view(p math4d.Vec3) math4d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	p.X, p.Z = p.X*cy-p.Z*sy, p.X*sy+p.Z*cy
	sp, cp := math.Sincos(c.Pitch)
	p.Y, p.Z = p.Y*cp-p.Z*sp, p.Y*sp+p.Z*cp
	p.Z = c.Distance - p.Z
	return p
}

// Project maps a world point to screen coordinates on a surface of the given
// size. ok is false for points behind the near plane.
func (c *Camera) Project(p math4d.Vec3, screen Size) (x, y int, depth float64, ok bool) {
	v := c.view(p)
	if v.Z <= c.Near {
		return 0, 0, v.Z, false
	}
	minDim := float64(screen.Height)
	if w := float64(screen.Width); w < minDim {
		minDim = w
	}
	f := c.Zoom * minDim / 2 / math.Tan(c.FOV/2)
	x = int(math.Round(v.X/v.Z*f)) + screen.Width/2
	y = int(math.Round(-v.Y/v.Z*f)) + screen.Height/2
	return x, y, v.Z, true
}
