package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/hypersim/internal/math4d"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
)

// SpeedKey is the parameter group holding per-plane angular speeds, read as
// "rotationSpeeds.<plane>".
const SpeedKey = "rotationSpeeds"

// lifecycle carries the state machine and buffer ownership every variant
// shares. Variants embed it.
type lifecycle struct {
	info   Info
	target render.Target
	size   render.Size
	state  State
	owned  []render.Handle
}

func newLifecycle(info Info, env Env) lifecycle {
	return lifecycle{info: info, target: env.Target, size: env.Size}
}

func (l *lifecycle) Key() string  { return l.info.Key }
func (l *lifecycle) Info() Info   { return l.info }
func (l *lifecycle) State() State { return l.state }

func (l *lifecycle) fail(op string, err error) error {
	return &LifecycleError{Sim: l.info.Key, Op: op, State: l.state, Err: err}
}

// initialize runs build and moves to Active. If build fails, everything it
// borrowed is returned before the error is reported.
func (l *lifecycle) initialize(build func() error) error {
	switch l.state {
	case Active:
		return l.fail("initialize", ErrAlreadyActive)
	case Disposed:
		return l.fail("initialize", ErrDisposed)
	}
	if l.target == nil {
		return fmt.Errorf("%s: initialize: no render target", l.info.Key)
	}
	if err := build(); err != nil {
		return errors.Join(fmt.Errorf("%s: initialize: %w", l.info.Key, err), l.releaseAll())
	}
	l.state = Active
	return nil
}

// require checks that a frame operation may run.
func (l *lifecycle) require(op string) error {
	switch l.state {
	case Active:
		return nil
	case Disposed:
		return l.fail(op, ErrDisposed)
	}
	return l.fail(op, ErrNotActive)
}

// own records a freshly borrowed handle. It passes err through so a call site
// reads own(target.AcquireX(...)).
func (l *lifecycle) own(h render.Handle, err error) error {
	if err != nil {
		return err
	}
	l.owned = append(l.owned, h)
	return nil
}

func (l *lifecycle) resize(size render.Size) error {
	if err := l.require("resize"); err != nil {
		return err
	}
	l.size = size
	return nil
}

// Cleanup returns all borrowed buffers, newest first. The simulation is
// Disposed afterwards even if the target complained about a handle.
func (l *lifecycle) Cleanup() error {
	if l.state == Disposed {
		return nil
	}
	err := l.releaseAll()
	l.state = Disposed
	if err != nil {
		return fmt.Errorf("%s: cleanup: %w", l.info.Key, err)
	}
	return nil
}

func (l *lifecycle) releaseAll() error {
	var errs []error
	for i := len(l.owned) - 1; i >= 0; i-- {
		errs = append(errs, l.target.Release(l.owned[i]))
	}
	l.owned = nil
	return errors.Join(errs...)
}

// speeds holds default angular speeds per plane. advance adds
// speed*scale to each owned angle, preferring the params override.
type speeds map[math4d.Plane]float64

func (s speeds) advance(angles math4d.Angles, p params.Snapshot, scale float64) {
	for _, plane := range math4d.Planes {
		def, ok := s[plane]
		if !ok {
			continue
		}
		angles[plane] += p.FloatOr(params.Key(SpeedKey, string(plane)), def) * scale
	}
}

// zeroAngles returns an angle set owning exactly the planes in s.
func (s speeds) zeroAngles() math4d.Angles {
	a := make(math4d.Angles, len(s))
	for plane := range s {
		a[plane] = 0
	}
	return a
}
