package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/topology"
)

// Scene is an in-memory Target that keeps every live handle so it can be
// drawn and so leaks can be counted.
type Scene struct {
	mu       sync.Mutex
	next     HandleID
	live     map[HandleID]Handle
	released map[HandleID]bool
	limit    int
	acquired int
	freed    int
}

// NewScene returns a scene with no handle limit.
func NewScene() *Scene {
	return &Scene{live: make(map[HandleID]Handle), released: make(map[HandleID]bool)}
}

// SetLimit caps the number of simultaneously live handles. Zero means no cap.
func (s *Scene) SetLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = n
}

func (s *Scene) AcquireLines(vertices int, edges []topology.Edge) (*LineSet, error) {
	e := make([]topology.Edge, len(edges))
	copy(e, edges)
	l := &LineSet{Points: make([]math4d.Vec3, vertices), Edges: e, Opacity: 1, Width: 1}
	return l, s.register(func(id HandleID) Handle { l.id = id; return l })
}

func (s *Scene) AcquirePoints(count int) (*PointCloud, error) {
	p := &PointCloud{Points: make([]math4d.Vec3, count), Colors: make([]colorful.Color, count), Size: 1, Opacity: 1}
	return p, s.register(func(id HandleID) Handle { p.id = id; return p })
}

func (s *Scene) AcquireMesh() (*Mesh, error) {
	m := &Mesh{Scale: 1, Opacity: 1, Visible: true}
	return m, s.register(func(id HandleID) Handle { m.id = id; return m })
}

func (s *Scene) register(bind func(HandleID) Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.live) >= s.limit {
		return fmt.Errorf("%w (%d live)", ErrCapacity, len(s.live))
	}
	s.next++
	h := bind(s.next)
	s.live[h.ID()] = h
	s.acquired++
	return nil
}

func (s *Scene) Release(h Handle) error {
	if isNil(h) {
		return ErrUnknownHandle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := h.ID()
	if s.released[id] {
		return fmt.Errorf("%w: %s #%d", ErrReleased, h.Kind(), id)
	}
	if _, ok := s.live[id]; !ok {
		return fmt.Errorf("%w: %s #%d", ErrUnknownHandle, h.Kind(), id)
	}
	delete(s.live, id)
	s.released[id] = true
	s.freed++
	return nil
}

// isNil reports an untyped nil or a nil pointer to one of the handle types.
func isNil(h Handle) bool {
	switch v := h.(type) {
	case nil:
		return true
	case *LineSet:
		return v == nil
	case *PointCloud:
		return v == nil
	case *Mesh:
		return v == nil
	}
	return false
}

// Live is the number of handles acquired and not yet released.
func (s *Scene) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Stats reports lifetime acquire and release counts.
func (s *Scene) Stats() (acquired, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired, s.freed
}

// Handles returns the live handles in acquisition order.
func (s *Scene) Handles() []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Handle, 0, len(s.live))
	for _, h := range s.live {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
