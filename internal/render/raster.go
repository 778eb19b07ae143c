package render

import (
	"math"

	"github.com/san-kum/hypersim/internal/math4d"
)

// unit cube corners and edges, for drawing meshes as wireframes
var (
	cubeCorners = [8]math4d.Vec3{
		{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5},
		{X: -0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5},
	}
	cubeEdges = [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
)

// Segment is a projected 2D line; a point when both ends coincide.
type Segment struct {
	X0, Y0, X1, Y1 int
	Depth          float64
	Color          string
}

// Segments projects every live handle in the scene through cam onto a surface
// of the given size. Edges touching a clamped far-away vertex are skipped.
func Segments(s *Scene, cam *Camera, screen Size) []Segment {
	var out []Segment
	line := func(a, b math4d.Vec3, color string) {
		if farAway(a) || farAway(b) {
			return
		}
		x0, y0, d0, ok0 := cam.Project(a, screen)
		x1, y1, d1, ok1 := cam.Project(b, screen)
		if ok0 && ok1 && onScreen(x0, y0, screen) && onScreen(x1, y1, screen) {
			out = append(out, Segment{x0, y0, x1, y1, (d0 + d1) / 2, color})
		}
	}

	for _, h := range s.Handles() {
		switch v := h.(type) {
		case *LineSet:
			col := Hex(v.Color)
			for _, e := range v.Edges {
				if e.A < len(v.Points) && e.B < len(v.Points) {
					line(v.Points[e.A], v.Points[e.B], col)
				}
			}
		case *PointCloud:
			for i, p := range v.Points {
				col := "#ffffff"
				if i < len(v.Colors) {
					col = Hex(v.Colors[i])
				}
				line(p, p, col)
			}
		case *Mesh:
			if !v.Visible || v.Scale <= 0 {
				continue
			}
			col := Hex(v.Color)
			for _, e := range cubeEdges {
				a := v.Center.Add(cubeCorners[e[0]].Scale(v.Scale))
				b := v.Center.Add(cubeCorners[e[1]].Scale(v.Scale))
				line(a, b, col)
			}
		}
	}
	return out
}

// Rasterize clears c and draws the scene onto it.
func Rasterize(c *Canvas, s *Scene, cam *Camera) {
	c.Clear()
	for _, seg := range Segments(s, cam, c.DotSize()) {
		c.Line(seg.X0, seg.Y0, seg.X1, seg.Y1)
	}
}

func farAway(p math4d.Vec3) bool {
	return math.Abs(p.X) >= math4d.FarAway || math.Abs(p.Y) >= math4d.FarAway || math.Abs(p.Z) >= math4d.FarAway
}

// onScreen allows a margin so lines leaving the edge still draw, while
// rejecting points blown up near the camera plane.
func onScreen(x, y int, screen Size) bool {
	mx, my := 2*screen.Width, 2*screen.Height
	return x > -mx && x < screen.Width+mx && y > -my && y < screen.Height+my
}
