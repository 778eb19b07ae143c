package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL builds a color from hue, saturation and lightness all in [0, 1]. Hue
// wraps around, saturation and lightness are clamped.
func HSL(h, s, l float64) colorful.Color {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	return colorful.Hsl(h*360, clamp01(s), clamp01(l)).Clamped()
}

// Hex is the #rrggbb form of c.
func Hex(c colorful.Color) string { return c.Clamped().Hex() }

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }
