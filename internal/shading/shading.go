// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shading is a pure CPU model of the curve-fill fragment stages.
//
// Each function mirrors one WGSL fragment shader bit-for-bit at the level
// of the math performed per fragment. The model exists for two reasons:
// pinning shader semantics down in host-side tests that need no GPU, and
// validating batches (color indices, metadata) before submission, where
// the GPU stages themselves have undefined behavior.
package shading

import (
	"github.com/gogpu/curvefill"
)

// Varyings carries the interpolated per-fragment inputs shared by every
// curve pass: curve-space uv and the flat-interpolated metadata word.
type Varyings struct {
	UV       [2]float32
	Metadata int32
}

// fill evaluates the shared curve predicate for the fragment.
func (va Varyings) fill() float32 {
	return curvefill.FillWeightMeta(va.Metadata, va.UV[0], va.UV[1])
}

// Flat models the flat-color fragment stage: the vertex color passes
// through as rgb and the fill weight becomes the alpha.
func Flat(va Varyings, rgb [3]float32) curvefill.RGBA {
	return curvefill.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: va.fill()}
}

// Indexed models the indexed-color fragment stage: the color is fetched
// from the table and its alpha is scaled by the fill weight.
//
// Unlike the GPU stage, which has undefined behavior for an out-of-range
// index, Indexed returns curvefill.ErrColorIndexRange so hosts can
// validate batches before upload.
func Indexed(va Varyings, table *curvefill.ColorTable, idx uint32) (curvefill.RGBA, error) {
	if err := table.Check(idx); err != nil {
		return curvefill.RGBA{}, err
	}
	c := table.At(idx)
	return curvefill.RGBA{R: c.R, G: c.G, B: c.B, A: c.A * va.fill()}, nil
}

// SubpixelVector classifies a horizontal instance offset into the RGB
// channel-selection vector used by the subpixel stage:
//
//	offset < 0: (0, 0, 1)  blue subsample
//	offset > 0: (1, 0, 0)  red subsample
//	offset == 0: (1, 1, 1) center sample
func SubpixelVector(offset float32) [3]float32 {
	switch {
	case offset < 0:
		return [3]float32{0, 0, 1}
	case offset > 0:
		return [3]float32{1, 0, 0}
	default:
		return [3]float32{1, 1, 1}
	}
}

// Subpixel models the LCD-subpixel fragment stage. The table color is
// inverted, masked by the channel-selection vector, and inverted back, so
// each instance darkens only its selected channels:
//
//	rgb = 1 - (1 - c.rgb) * subpixel
//
// Alpha is the table alpha times the fill weight times the calibrated
// center/side weighting 0.6 + subpixel.g*0.4: the center instance
// (subpixel.g == 1) contributes full coverage, the side instances 0.6.
func Subpixel(va Varyings, table *curvefill.ColorTable, idx uint32, offset float32) (curvefill.RGBA, error) {
	if err := table.Check(idx); err != nil {
		return curvefill.RGBA{}, err
	}
	c := table.At(idx)
	sub := SubpixelVector(offset)
	return curvefill.RGBA{
		R: 1 - (1-c.R)*sub[0],
		G: 1 - (1-c.G)*sub[1],
		B: 1 - (1-c.B)*sub[2],
		A: c.A * va.fill() * (0.6 + sub[1]*0.4),
	}, nil
}

// BlendAlphaOver composites src over dst with the non-premultiplied
// alpha-over blend every curve pipeline declares
// (SrcAlpha, OneMinusSrcAlpha for color; One, OneMinusSrcAlpha for alpha).
func BlendAlphaOver(dst, src curvefill.RGBA) curvefill.RGBA {
	inv := 1 - src.A
	return curvefill.RGBA{
		R: src.R*src.A + dst.R*inv,
		G: src.G*src.A + dst.G*inv,
		B: src.B*src.A + dst.B*inv,
		A: src.A + dst.A*inv,
	}
}
