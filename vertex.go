// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package curvefill

import "fmt"

// Vertex metadata bit flags. The metadata word travels to the GPU as a
// signed 32-bit integer; only the two low bits are assigned.
const (
	// MetaInverse (bit 0) marks an inverse curve triangle: the region on
	// the convex side of the parabola fills instead of the concave side.
	// It has no effect unless MetaCurve is also set.
	MetaInverse int32 = 1 << 0

	// MetaCurve (bit 1) marks a curve triangle, enabling the parabola
	// test. Triangles without this bit fill unconditionally.
	MetaCurve int32 = 1 << 1

	// metaKnownMask covers every assigned metadata bit. Higher bits are
	// reserved and rejected by Validate.
	metaKnownMask = MetaInverse | MetaCurve
)

// Byte sizes of the serialized per-vertex records, fixed by the vertex
// buffer layouts the pipelines declare.
const (
	// VertexByteSize is the stride of a flat-color vertex:
	// position vec3 + uv vec2 + metadata i32 + color vec3.
	VertexByteSize = 36

	// IndexedVertexByteSize is the stride of an indexed-color vertex:
	// position vec3 + uv vec2 + metadata i32 + color index u32.
	IndexedVertexByteSize = 28
)

// Vertex is one corner of a curve-fill triangle with a direct RGB color,
// as consumed by the flat pass. Position is in clip space (NDC x,y plus
// depth z). UV holds curve-space coordinates; for non-curve triangles the
// value is ignored by the fill test and conventionally zero.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Metadata int32
	Color    [3]float32
}

// IndexedVertex is one corner of a curve-fill triangle referencing the
// bound color table instead of carrying a color, as consumed by the
// indexed and subpixel passes.
type IndexedVertex struct {
	Position   [3]float32
	UV         [2]float32
	Metadata   int32
	ColorIndex uint32
}

// IsCurve reports whether the metadata marks a curve triangle.
func (v Vertex) IsCurve() bool { return v.Metadata&MetaCurve != 0 }

// IsInverse reports whether the metadata marks an inverse curve triangle.
func (v Vertex) IsInverse() bool { return v.Metadata&MetaInverse != 0 }

// Validate rejects metadata with reserved bits set. Batches are checked
// host-side; the shaders decode only the two known bits and silently
// ignore the rest.
func (v Vertex) Validate() error {
	return validateMetadata(v.Metadata)
}

// IsCurve reports whether the metadata marks a curve triangle.
func (v IndexedVertex) IsCurve() bool { return v.Metadata&MetaCurve != 0 }

// IsInverse reports whether the metadata marks an inverse curve triangle.
func (v IndexedVertex) IsInverse() bool { return v.Metadata&MetaInverse != 0 }

// Validate rejects metadata with reserved bits set.
func (v IndexedVertex) Validate() error {
	return validateMetadata(v.Metadata)
}

func validateMetadata(m int32) error {
	if m&^metaKnownMask != 0 {
		return fmt.Errorf("%w: metadata %#x has bits outside %#x", ErrMetadataReserved, m, metaKnownMask)
	}
	return nil
}
