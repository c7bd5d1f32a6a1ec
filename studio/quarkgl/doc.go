// Package quarkgl provides a small, predictable software 3D engine for the hero renderer.
//
// QuarkGL draws decorative scenes: a handful of lit meshes, additive point clouds and
// translucent shells. It is not a game engine and does not provide a GPU abstraction.
//
// Pipeline (fixed):
//
//	Scene → World transform → Lighting → Projection → Rasterization → Points → Target.
//
// Opaque meshes are drawn first with depth writes, translucent meshes second with depth
// test only, point clouds last with additive blending. The renderer draws into a
// caller-provided Target and avoids allocations in the render hot path.
//
// All math is float32 (see Scalar).
package quarkgl
