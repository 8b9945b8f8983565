package curvefill

import (
	"fmt"
	"image/color"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are float32 because
// every consumer in this module is a GPU vertex or storage buffer.
type RGBA struct {
	R, G, B, A float32
}

// NewRGBA creates a color from RGBA components.
func NewRGBA(r, g, b, a float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(float64(c.R) * 255)),
		G: uint8(clamp255(float64(c.G) * 255)),
		B: uint8(clamp255(float64(c.B) * 255)),
		A: uint8(clamp255(float64(c.A) * 255)),
	}
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{
		R: c.R * c.A,
		G: c.G * c.A,
		B: c.B * c.A,
		A: c.A,
	}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = NewRGBA(0, 0, 0, 0)
)

// ColorTable is the host-side model of the read-only storage color table
// bound by the indexed and subpixel passes (group 0, binding 0). Entries
// are looked up by the per-vertex color index; the GPU performs no bounds
// checking, so hosts validate indices with [ColorTable.Check] before
// uploading a batch.
//
// Intern deduplicates colors so that many glyphs sharing a palette stay in
// one draw batch. The zero value is an empty, ready-to-use table.
type ColorTable struct {
	entries []RGBA
	lookup  map[RGBA]uint32
}

// Intern returns the index of c, appending it to the table on first use.
func (t *ColorTable) Intern(c RGBA) uint32 {
	if idx, ok := t.lookup[c]; ok {
		return idx
	}
	if t.lookup == nil {
		t.lookup = make(map[RGBA]uint32)
	}
	idx := uint32(len(t.entries))
	t.entries = append(t.entries, c)
	t.lookup[c] = idx
	return idx
}

// Len returns the number of entries in the table.
func (t *ColorTable) Len() int { return len(t.entries) }

// At returns the entry at idx. It panics if idx is out of range, matching
// slice semantics; use Check for validated access.
func (t *ColorTable) At(idx uint32) RGBA { return t.entries[idx] }

// Entries returns the backing slice in index order. The slice is shared
// with the table; callers must not mutate it.
func (t *ColorTable) Entries() []RGBA { return t.entries }

// Check reports whether idx is a valid index into the table.
// Out-of-range indices are undefined behavior on the GPU, so batches are
// validated host-side before upload.
func (t *ColorTable) Check(idx uint32) error {
	if int(idx) >= len(t.entries) {
		return fmt.Errorf("%w: index %d, table length %d", ErrColorIndexRange, idx, len(t.entries))
	}
	return nil
}
