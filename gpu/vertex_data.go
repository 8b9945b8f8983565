// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/curvefill"
)

// Serialization of host-side vertex, index, instance, and color-table
// data into the little-endian byte layouts the pipelines declare.

// flatVertexStride is the byte stride of the flat pass vertex buffer:
// position (vec3) + uv (vec2) + metadata (i32) + color (vec3) = 36 bytes.
const flatVertexStride = curvefill.VertexByteSize

// indexedVertexStride is the byte stride of the indexed and subpixel
// vertex buffers: position + uv + metadata + color index = 28 bytes.
const indexedVertexStride = curvefill.IndexedVertexByteSize

// instanceStride is the byte stride of the subpixel instance buffer:
// one f32 offset per instance.
const instanceStride = 4

// subpixelInstanceCount is the instance count contract of the subpixel
// pass: one blue-shifted, one centered, one red-shifted copy.
const subpixelInstanceCount = 3

// colorTableEntrySize is the byte size of one color table entry
// (vec4<f32>).
const colorTableEntrySize = 16

// buildFlatVertexData serializes flat-color vertices into raw bytes
// suitable for GPU upload.
func buildFlatVertexData(verts []curvefill.Vertex) []byte {
	if len(verts) == 0 {
		return nil
	}
	data := make([]byte, len(verts)*flatVertexStride)
	off := 0
	for i := range verts {
		v := &verts[i]
		off += writeVertexCommon(data[off:], v.Position, v.UV, v.Metadata)
		for _, c := range v.Color {
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(c))
			off += 4
		}
	}
	return data
}

// buildIndexedVertexData serializes indexed-color vertices into raw bytes
// suitable for GPU upload. The same layout feeds the indexed and the
// subpixel pipelines.
func buildIndexedVertexData(verts []curvefill.IndexedVertex) []byte {
	if len(verts) == 0 {
		return nil
	}
	data := make([]byte, len(verts)*indexedVertexStride)
	off := 0
	for i := range verts {
		v := &verts[i]
		off += writeVertexCommon(data[off:], v.Position, v.UV, v.Metadata)
		binary.LittleEndian.PutUint32(data[off:], v.ColorIndex)
		off += 4
	}
	return data
}

// writeVertexCommon writes the shared position/uv/metadata prefix and
// returns the number of bytes written.
func writeVertexCommon(buf []byte, pos [3]float32, uv [2]float32, metadata int32) int {
	off := 0
	for _, p := range pos {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p))
		off += 4
	}
	for _, u := range uv {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(u))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:], uint32(metadata))
	return off + 4
}

// buildIndexData serializes uint16 triangle indices for GPU upload.
func buildIndexData(indices []uint16) []byte {
	if len(indices) == 0 {
		return nil
	}
	data := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	return data
}

// buildColorTableData serializes the color table as a tightly packed
// array<vec4<f32>> matching the storage buffer layout at group(0)
// binding(0) of the indexed and subpixel shaders.
func buildColorTableData(table *curvefill.ColorTable) []byte {
	entries := table.Entries()
	if len(entries) == 0 {
		return nil
	}
	data := make([]byte, len(entries)*colorTableEntrySize)
	off := 0
	for _, c := range entries {
		for _, f := range [4]float32{c.R, c.G, c.B, c.A} {
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(f))
			off += 4
		}
	}
	return data
}

// buildInstanceOffsetData serializes the three subpixel instance offsets
// {-delta, 0, +delta} in draw order.
func buildInstanceOffsetData(delta float32) []byte {
	data := make([]byte, subpixelInstanceCount*instanceStride)
	offsets := [subpixelInstanceCount]float32{-delta, 0, delta}
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(data[i*instanceStride:], math.Float32bits(o))
	}
	return data
}

// validateFlatBatch rejects vertices with reserved metadata bits before
// upload.
func validateFlatBatch(verts []curvefill.Vertex) error {
	for i := range verts {
		if err := verts[i].Validate(); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return nil
}

// validateIndexedBatch rejects vertices with reserved metadata bits or
// color indices outside the table. The GPU performs neither check.
func validateIndexedBatch(verts []curvefill.IndexedVertex, table *curvefill.ColorTable) error {
	for i := range verts {
		if err := verts[i].Validate(); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
		if err := table.Check(verts[i].ColorIndex); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return nil
}
