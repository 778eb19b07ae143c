package render

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/topology"
)

var (
	// ErrReleased indicates a handle that was already returned to its target.
	ErrReleased = errors.New("render: handle already released")

	// ErrUnknownHandle indicates a handle the target never issued.
	ErrUnknownHandle = errors.New("render: handle not issued by this target")

	// ErrCapacity indicates the target has no room for another handle.
	ErrCapacity = errors.New("render: handle capacity exhausted")
)

// Size is a viewport size in pixels (or terminal cells).
type Size struct {
	Width, Height int
}

type HandleID uint64

type Kind uint8

const (
	KindLines Kind = iota
	KindPoints
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindLines:
		return "lines"
	case KindPoints:
		return "points"
	case KindMesh:
		return "mesh"
	}
	return "unknown"
}

// Handle is any buffer lent by a Target.
type Handle interface {
	ID() HandleID
	Kind() Kind
}

// Target lends render buffers.
type Target interface {
	AcquireLines(vertices int, edges []topology.Edge) (*LineSet, error)
	AcquirePoints(count int) (*PointCloud, error)
	AcquireMesh() (*Mesh, error)
	Release(h Handle) error
}

// LineSet is a wireframe: projected vertices joined by edges.
type LineSet struct {
	id         HandleID
	Points     []math4d.Vec3
	Edges      []topology.Edge
	Color      colorful.Color
	Opacity    float64
	Width      float64
	Resolution Size
}

func (l *LineSet) ID() HandleID { return l.id }
func (l *LineSet) Kind() Kind   { return KindLines }

// PointCloud is a set of projected points, each with its own color.
type PointCloud struct {
	id       HandleID
	Points   []math4d.Vec3
	Colors   []colorful.Color
	Size     float64
	Opacity  float64
	Additive bool
}

func (p *PointCloud) ID() HandleID { return p.id }
func (p *PointCloud) Kind() Kind   { return KindPoints }

// Mesh is a unit cube placed at Center and scaled uniformly.
type Mesh struct {
	id       HandleID
	Center   math4d.Vec3
	Scale    float64
	Color    colorful.Color
	Emissive colorful.Color
	Opacity  float64
	Visible  bool
}

func (m *Mesh) ID() HandleID { return m.id }
func (m *Mesh) Kind() Kind   { return KindMesh }
