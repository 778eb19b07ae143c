package sim

import (
	"math/rand"

	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
)

// Simulation is a pluggable 4D visualisation.
type Simulation interface {
	Key() string
	Info() Info
	State() State

	// Initialize builds topology and borrows render buffers. On failure every
	// buffer borrowed so far has been returned and the state is unchanged.
	Initialize() error

	// Update advances the simulation by dt seconds; elapsed is the time since
	// the frame clock started. Buffers are rewritten in place.
	Update(dt, elapsed float64, p params.Snapshot) error

	OnResize(size render.Size) error

	// Cleanup returns every borrowed buffer and moves to Disposed. Calling it
	// again is a no-op.
	Cleanup() error

	Controls() []Control
}

// Env is what a simulation is constructed with.
type Env struct {
	Target render.Target
	Size   render.Size
	// Rand seeds stochastic topology. Nil means a time seed.
	Rand *rand.Rand
}

type Info struct {
	Key         string
	Title       string
	Description string
}

type ControlKind uint8

const (
	Slider ControlKind = iota
	Checkbox
)

func (k ControlKind) String() string {
	if k == Checkbox {
		return "checkbox"
	}
	return "slider"
}

// Control describes one tunable parameter for a UI to render.
type Control struct {
	ID        string
	Label     string
	Kind      ControlKind
	Min, Max  float64
	Step      float64
	Default   float64
	DefaultOn bool
}

func speedControl(plane, label string, lim, step, def float64) Control {
	return Control{
		ID:      params.Key(SpeedKey, plane),
		Label:   label + " Rotation Speed",
		Kind:    Slider,
		Min:     -lim,
		Max:     lim,
		Step:    step,
		Default: def,
	}
}
