package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/hypersim/internal/render"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// SceneToSVG draws every live handle of the scene as colored strokes seen
// through cam. Far segments are written first so near ones overlap them.
func SceneToSVG(scene *render.Scene, cam *render.Camera, size render.Size) string {
	segs := render.Segments(scene, cam, size)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth > segs[j].Depth })

	var sb strings.Builder
	header(&sb, size.Width, size.Height)
	sb.WriteString(`<g stroke-linecap="round" stroke-width="1.5">` + "\n")
	for _, s := range segs {
		if s.X0 == s.X1 && s.Y0 == s.Y1 {
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="1.5" fill="%s"/>`+"\n", s.X0, s.Y0, s.Color)
			continue
		}
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`+"\n", s.X0, s.Y0, s.X1, s.Y1, s.Color)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *render.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	dots := canvas.DotSize()

	var sb strings.Builder
	header(&sb, int(float64(dots.Width)*scale), int(float64(dots.Height)*scale))
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	r := scale * 0.4
	for y := 0; y < dots.Height; y++ {
		for x := 0; x < dots.Width; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a recorded metric against time as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
