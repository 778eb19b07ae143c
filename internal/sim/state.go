package sim

import (
	"errors"
	"fmt"
)

type State uint8

const (
	Uninitialized State = iota
	Active
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Disposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Lifecycle errors. Every one reaches callers wrapped in a LifecycleError.
var (
	// ErrNotActive indicates a frame operation before Initialize.
	ErrNotActive = errors.New("sim: simulation not initialized")

	// ErrDisposed indicates any operation other than Cleanup after Cleanup.
	ErrDisposed = errors.New("sim: simulation already disposed")

	// ErrAlreadyActive indicates a second Initialize.
	ErrAlreadyActive = errors.New("sim: simulation already initialized")
)

// LifecycleError reports an operation invoked in a state that does not allow it.
type LifecycleError struct {
	Sim   string
	Op    string
	State State
	Err   error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: %s while %s: %v", e.Sim, e.Op, e.State, e.Err)
}

func (e *LifecycleError) Unwrap() error { return e.Err }
