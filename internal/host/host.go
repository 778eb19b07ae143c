package host

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
)

type Host struct {
	registry *Registry
	target   render.Target
	size     render.Size
	store    *params.Store
	logger   *log.Logger

	seed   int64
	seeded bool

	active sim.Simulation
}

type Option func(*Host)

func WithLogger(l *log.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithRegistry(r *Registry) Option {
	return func(h *Host) {
		if r != nil {
			h.registry = r
		}
	}
}

// WithSeed makes stochastic topology reproducible: every selected simulation
// gets a fresh source with this seed.
func WithSeed(seed int64) Option {
	return func(h *Host) {
		h.seed = seed
		h.seeded = true
	}
}

func WithSize(size render.Size) Option {
	return func(h *Host) { h.size = size }
}

func New(target render.Target, opts ...Option) *Host {
	h := &Host{
		registry: DefaultRegistry(),
		target:   target,
		store:    params.NewStore(),
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Select replaces the active simulation with a freshly initialized key. The
// outgoing simulation is cleaned up first; a cleanup failure is logged and
// reported but does not stop the swap. Parameters are reset so the new
// simulation starts from its defaults. On any failure no simulation is active.
func (h *Host) Select(key string) error {
	var errs []error
	if err := h.drop(); err != nil {
		errs = append(errs, err)
	}
	h.store.Reset()

	s, err := h.registry.New(key, h.env())
	if err != nil {
		h.logger.Printf("failed to load simulation %s: %v", key, err)
		return errors.Join(append(errs, err)...)
	}
	if err := s.Initialize(); err != nil {
		h.logger.Printf("failed to load simulation %s: %v", key, err)
		return errors.Join(append(errs, err)...)
	}
	h.active = s
	h.logger.Printf("loaded simulation: %s", key)
	return errors.Join(errs...)
}

func (h *Host) env() sim.Env {
	env := sim.Env{Target: h.target, Size: h.size}
	if h.seeded {
		env.Rand = rand.New(rand.NewSource(h.seed))
	}
	return env
}

func (h *Host) drop() error {
	if h.active == nil {
		return nil
	}
	s := h.active
	h.active = nil
	if err := s.Cleanup(); err != nil {
		h.logger.Printf("cleanup of %s failed: %v", s.Key(), err)
		return err
	}
	return nil
}

// Tick advances the active simulation. Negative dt is treated as zero.
func (h *Host) Tick(dt, elapsed float64) error {
	if h.active == nil {
		return nil
	}
	if dt < 0 {
		dt = 0
	}
	return h.active.Update(dt, elapsed, h.store.Snapshot())
}

// Resize records the viewport size for future simulations and forwards it to
// the active one.
func (h *Host) Resize(size render.Size) error {
	h.size = size
	if h.active == nil {
		return nil
	}
	return h.active.OnResize(size)
}

// SetParam stores a parameter for the next Tick. value may be a params.Value
// or a float, int or bool.
func (h *Host) SetParam(key string, value any) error {
	v, err := params.ValueOf(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return h.store.Set(key, v)
}

// SetParams merges flat or one-level nested values.
func (h *Host) SetParams(values map[string]any) error {
	return h.store.Merge(values)
}

// ResetParams writes every control's default into the store. Simulations keep
// the last value they saw for a missing key, so clearing alone would not undo
// an override.
func (h *Host) ResetParams() {
	h.store.Reset()
	for _, c := range h.Controls() {
		v := params.Float(c.Default)
		if c.Kind == sim.Checkbox {
			v = params.Bool(c.DefaultOn)
		}
		if err := h.store.Set(c.ID, v); err != nil {
			h.logger.Printf("reset %s: %v", c.ID, err)
		}
	}
}

func (h *Host) Params() params.Snapshot { return h.store.Snapshot() }

// Active returns the active simulation or nil.
func (h *Host) Active() sim.Simulation { return h.active }

// Key returns the active simulation's key, or "" if none.
func (h *Host) Key() string {
	if h.active == nil {
		return ""
	}
	return h.active.Key()
}

func (h *Host) Controls() []sim.Control {
	if h.active == nil {
		return nil
	}
	return h.active.Controls()
}

func (h *Host) Registry() *Registry { return h.registry }

func (h *Host) Size() render.Size { return h.size }

// Close cleans up the active simulation. It is safe to call more than once.
func (h *Host) Close() error {
	return h.drop()
}
