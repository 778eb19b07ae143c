// Package host runs at most one simulation at a time against a render target.
//
// A [Host] owns the parameter store and the active [sim.Simulation]. Select
// tears the active simulation down before the next one is built, so the two
// never hold render buffers at the same time. Tick, Resize and SetParam are
// the frame clock, resize source and UI source respectively.
package host
