// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shading

import (
	"github.com/gogpu/curvefill"
)

// Pixmap is a host-side RGBA float image standing in for the accumulation
// texture during resolve-stage modeling.
type Pixmap struct {
	Width, Height int
	Pix           []curvefill.RGBA
}

// NewPixmap allocates a zeroed pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		Width:  width,
		Height: height,
		Pix:    make([]curvefill.RGBA, width*height),
	}
}

// At returns the texel at (x, y), clamping coordinates to the edge the
// way a clamp-to-edge sampler does.
func (p *Pixmap) At(x, y int) curvefill.RGBA {
	x = clampInt(x, 0, p.Width-1)
	y = clampInt(y, 0, p.Height-1)
	return p.Pix[y*p.Width+x]
}

// Set stores the texel at (x, y). Out-of-bounds coordinates are ignored.
func (p *Pixmap) Set(x, y int, c curvefill.RGBA) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	p.Pix[y*p.Width+x] = c
}

// ResolvePoint models the resolve pass with a nearest-neighbor sampler:
// normalized (u, v) in [0,1]² maps to the enclosing texel, which is
// returned unmodified. Sampling at a texel center reproduces the stored
// value exactly, so resolving at 1:1 scale is the identity.
func ResolvePoint(p *Pixmap, u, v float32) curvefill.RGBA {
	x := int(u * float32(p.Width))
	y := int(v * float32(p.Height))
	return p.At(x, y)
}

// ResolveLinear models the resolve pass with a bilinear sampler, used
// when the accumulation texture is supersampled relative to the target.
func ResolveLinear(p *Pixmap, u, v float32) curvefill.RGBA {
	// Texel space with the half-texel center convention.
	fx := u*float32(p.Width) - 0.5
	fy := v*float32(p.Height) - 0.5

	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := p.At(x0, y0)
	c10 := p.At(x0+1, y0)
	c01 := p.At(x0, y0+1)
	c11 := p.At(x0+1, y0+1)

	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func floorInt(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}
