package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/topology"
)

func TestScene_AcquireRelease(t *testing.T) {
	s := NewScene()
	lines, err := s.AcquireLines(16, []topology.Edge{{A: 0, B: 1}})
	require.NoError(t, err)
	points, err := s.AcquirePoints(8)
	require.NoError(t, err)
	mesh, err := s.AcquireMesh()
	require.NoError(t, err)

	assert.Len(t, lines.Points, 16)
	assert.Len(t, points.Points, 8)
	assert.Len(t, points.Colors, 8)
	assert.True(t, mesh.Visible)
	assert.Equal(t, 3, s.Live())

	require.NoError(t, s.Release(points))
	require.NoError(t, s.Release(lines))
	require.NoError(t, s.Release(mesh))
	assert.Equal(t, 0, s.Live())

	acquired, released := s.Stats()
	assert.Equal(t, 3, acquired)
	assert.Equal(t, 3, released)
}

func TestScene_DoubleRelease(t *testing.T) {
	s := NewScene()
	m, err := s.AcquireMesh()
	require.NoError(t, err)
	require.NoError(t, s.Release(m))

	err = s.Release(m)
	assert.ErrorIs(t, err, ErrReleased)
	_, released := s.Stats()
	assert.Equal(t, 1, released)
}

func TestScene_ForeignHandle(t *testing.T) {
	a, b := NewScene(), NewScene()
	m, err := a.AcquireMesh()
	require.NoError(t, err)
	// IDs collide across scenes, so release a handle b never saw by ID.
	_, err = b.AcquireLines(0, nil)
	require.NoError(t, err)
	other, err := a.AcquireMesh()
	require.NoError(t, err)

	assert.ErrorIs(t, b.Release(other), ErrUnknownHandle)
	assert.ErrorIs(t, b.Release(nil), ErrUnknownHandle)
	assert.NoError(t, a.Release(m))
}

func TestScene_TypedNilHandle(t *testing.T) {
	s := NewScene()
	for _, h := range []Handle{(*LineSet)(nil), (*PointCloud)(nil), (*Mesh)(nil)} {
		assert.NotPanics(t, func() {
			assert.ErrorIs(t, s.Release(h), ErrUnknownHandle)
		})
	}
	assert.Zero(t, s.Live())
}

func TestScene_Limit(t *testing.T) {
	s := NewScene()
	s.SetLimit(1)
	m, err := s.AcquireMesh()
	require.NoError(t, err)

	_, err = s.AcquirePoints(4)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, 1, s.Live())

	require.NoError(t, s.Release(m))
	_, err = s.AcquirePoints(4)
	assert.NoError(t, err)
}

func TestScene_LinesCopyEdges(t *testing.T) {
	s := NewScene()
	edges := []topology.Edge{{A: 0, B: 1}, {A: 1, B: 2}}
	l, err := s.AcquireLines(3, edges)
	require.NoError(t, err)
	edges[0] = topology.Edge{A: 2, B: 2}
	assert.Equal(t, topology.Edge{A: 0, B: 1}, l.Edges[0])
}

func TestHSL(t *testing.T) {
	red := HSL(0, 1, 0.5)
	assert.Equal(t, "#ff0000", Hex(red))
	assert.Equal(t, Hex(red), Hex(HSL(1, 1, 0.5)), "hue wraps")
	assert.Equal(t, Hex(red), Hex(HSL(-1, 1, 0.5)), "negative hue wraps")
	assert.Equal(t, "#ffffff", Hex(HSL(0.3, 2, 1)), "lightness clamps")
}

func TestCanvas_SetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	assert.Equal(t, Size{Width: 8, Height: 8}, c.DotSize())
	assert.Equal(t, 0, c.Lit())

	c.Set(0, 0)
	c.Set(-1, 3)
	c.Set(100, 100)
	assert.True(t, c.IsSet(0, 0))
	assert.Equal(t, 1, c.Lit())
	assert.Equal(t, rune(0x2801), c.Cell(0, 0))

	c.Clear()
	c.Line(0, 0, 7, 0)
	assert.Equal(t, 8, c.Lit())
	c.Line(0, 0, 0, 7)
	assert.Equal(t, 15, c.Lit())
}

func TestCanvas_String(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := 0
	for _, r := range c.String() {
		if r == '\n' {
			lines++
		}
	}
	assert.Equal(t, 1, lines)
}

func TestCamera_ProjectCentre(t *testing.T) {
	cam := NewCamera()
	x, y, depth, ok := cam.Project(math4d.Vec3{}, Size{Width: 80, Height: 40})
	require.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 20, y)
	assert.InDelta(t, cam.Distance, depth, 1e-9)

	cam.Yaw, cam.Pitch = 0, 0
	_, _, _, ok = cam.Project(math4d.Vec3{Z: cam.Distance + 1}, Size{Width: 80, Height: 40})
	assert.False(t, ok, "point behind the camera")
}

func TestRasterize_DrawsEveryKind(t *testing.T) {
	s := NewScene()
	l, _ := s.AcquireLines(2, []topology.Edge{{A: 0, B: 1}})
	l.Points[0] = math4d.Vec3{X: -1}
	l.Points[1] = math4d.Vec3{X: 1}

	c := NewCanvas(40, 20)
	Rasterize(c, s, NewCamera())
	withLines := c.Lit()
	assert.Positive(t, withLines)

	m, _ := s.AcquireMesh()
	m.Center = math4d.Vec3{Y: 1}
	Rasterize(c, s, NewCamera())
	assert.Greater(t, c.Lit(), withLines)

	m.Visible = false
	Rasterize(c, s, NewCamera())
	assert.Equal(t, withLines, c.Lit())
}

func TestSegments_SkipFarAway(t *testing.T) {
	s := NewScene()
	l, _ := s.AcquireLines(2, []topology.Edge{{A: 0, B: 1}})
	l.Points[0] = math4d.Vec3{}
	l.Points[1] = math4d.Vec3{X: math4d.FarAway, Y: math4d.FarAway, Z: -math4d.FarAway}

	assert.Empty(t, Segments(s, NewCamera(), Size{Width: 80, Height: 80}))
}
