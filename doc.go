// Package curvefill renders vector glyph outlines directly on the GPU.
//
// # Overview
//
// A glyph outline is tessellated into triangles carrying per-vertex
// metadata: interior triangles fill completely, while each quadratic
// Bézier edge becomes one triangle whose uv coordinates parameterize
// the curve as the implicit locus uv.y == uv.x². A single fragment-level
// predicate ([FillWeight]) decides, per pixel, which side of the curve
// is filled. The triangles rasterize at full resolution with no
// host-side bitmap step, so glyphs stay crisp at any scale.
//
// # Packages
//
// The module is organized around that predicate:
//   - curvefill (root): shared data model ([Vertex], [IndexedVertex],
//     metadata flags, [RGBA], [ColorTable]) and [FillWeight] itself.
//   - gpu: WGSL render pipelines (flat color, indexed color, LCD
//     subpixel, resolve) on top of gogpu/wgpu hal, plus the two-pass
//     frame sequencing and readback.
//   - internal/shading: pure CPU model of every fragment stage, used by
//     tests and for host-side batch validation.
//   - tessellate: glyph outline to curve-triangle mesh.
//   - textmesh: text shaping (go-text/typesetting) plus layout into
//     positioned vertex/index buffers.
//
// # Quick Start
//
//	mesh, _ := tessellate.Tessellate(outline, tessellate.WindingAuto)
//	renderer, _ := gpu.NewCurveRenderer(device, queue, gpu.DefaultRendererConfig())
//	defer renderer.Destroy()
//	verts := mesh.FlatVertices([3]float32{0.18, 0.76, 0.93})
//	pixels, _ := renderer.RenderFlat(verts, mesh.Indices, 512, 512)
//
// # Logging
//
// By default curvefill produces no log output. Call [SetLogger] with a
// *slog.Logger to enable structured logging.
package curvefill

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
