// Package render is the boundary between simulations and whatever draws them.
//
// A [Target] lends buffers to a simulation: a [LineSet] for wireframes, a
// [PointCloud] for sampled surfaces, a [Mesh] for stand-in solids. The
// simulation owns the buffer contents and rewrites them in place each frame;
// the target owns the buffer lifetime. Every acquired handle must be handed
// back through [Target.Release] exactly once.
//
// [Scene] is the in-memory target used by the terminal viewer, the headless
// runner and the tests. [Canvas] and [Camera] rasterize a Scene to braille
// text.
package render
