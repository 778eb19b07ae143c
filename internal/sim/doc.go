// Package sim defines the contract every 4D simulation implements and the
// four built-in variants.
//
// A [Simulation] moves through three states:
//
//	Uninitialized --Initialize--> Active --Cleanup--> Disposed
//
// Initialize builds the topology and borrows render buffers from a
// [render.Target]. Update, OnResize and Cleanup are only valid once
// Initialize has succeeded. Cleanup returns every borrowed buffer exactly
// once and may be called any number of times. Calls made in the wrong state
// return a [*LifecycleError].
//
// Variants:
//
//   - [Tesseract]: rotating hypercube wireframe with vertex markers
//   - [ClassicTesseract]: the same wireframe advanced by fixed per-frame steps
//   - [Hypersphere]: point cloud on the 3-sphere colored by w
//   - [Slicer]: stand-in solid sized by how much of the tesseract a moving
//     w-hyperplane would cut
package sim
