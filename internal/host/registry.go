package host

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/hypersim/internal/sim"
)

// ErrUnknownSimulation is wrapped by every UnknownSimulationError.
var ErrUnknownSimulation = errors.New("host: unknown simulation")

type UnknownSimulationError struct {
	Key string
}

func (e *UnknownSimulationError) Error() string {
	return fmt.Sprintf("host: unknown simulation %q", e.Key)
}

func (e *UnknownSimulationError) Unwrap() error { return ErrUnknownSimulation }

// Factory constructs an uninitialized simulation. It must not borrow render
// buffers; that happens in Initialize.
type Factory func(env sim.Env) sim.Simulation

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows the four built-in simulations.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(sim.TesseractKey, func(env sim.Env) sim.Simulation { return sim.NewTesseract(env) })
	r.Register(sim.ClassicTesseractKey, func(env sim.Env) sim.Simulation { return sim.NewClassicTesseract(env) })
	r.Register(sim.HypersphereKey, func(env sim.Env) sim.Simulation { return sim.NewHypersphere(env) })
	r.Register(sim.SlicerKey, func(env sim.Env) sim.Simulation { return sim.NewSlicer(env) })
	return r
}

// Register adds or replaces the factory for key.
func (r *Registry) Register(key string, f Factory) {
	r.factories[key] = f
}

func (r *Registry) Has(key string) bool {
	_, ok := r.factories[key]
	return ok
}

func (r *Registry) New(key string, env sim.Env) (sim.Simulation, error) {
	fn, ok := r.factories[key]
	if !ok {
		return nil, &UnknownSimulationError{Key: key}
	}
	return fn(env), nil
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Info describes a registered simulation without initializing it.
func (r *Registry) Info(key string) (sim.Info, error) {
	s, err := r.New(key, sim.Env{})
	if err != nil {
		return sim.Info{}, err
	}
	return s.Info(), nil
}

// Controls lists the tunable parameters of a registered simulation.
func (r *Registry) Controls(key string) ([]sim.Control, error) {
	s, err := r.New(key, sim.Env{})
	if err != nil {
		return nil, err
	}
	return s.Controls(), nil
}
