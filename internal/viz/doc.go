// Package viz is the terminal viewer for hypersim.
//
// [Model] is a Bubble Tea model that owns a [host.Host] drawing into an
// in-memory [render.Scene]. Every tick advances the active simulation and
// rasterizes the scene onto a braille canvas through an orbiting camera.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	Tab     - Cycle controls
//	Up/Down - Adjust the selected control
//	R       - Reset parameters to defaults
//	N/P     - Next/previous simulation
//	H/L     - Orbit camera, J/K tilt
//	+/-     - Zoom
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Help
//	Esc     - Back to the menu
package viz
