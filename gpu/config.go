package gpu

import (
	"github.com/gogpu/gputypes"
)

// ResolveFilter selects how the resolve pass samples the accumulation
// texture.
type ResolveFilter int

const (
	// FilterLinear uses bilinear sampling. This is the right choice when
	// the accumulation texture is supersampled relative to the target.
	FilterLinear ResolveFilter = iota

	// FilterNearest uses point sampling. At 1:1 scale the resolve pass
	// then reproduces the accumulation texture exactly.
	FilterNearest
)

// RendererConfig holds configuration for a CurveRenderer.
type RendererConfig struct {
	// Format is the color format of the accumulation and target textures.
	// Default: RGBA8Unorm.
	Format gputypes.TextureFormat

	// SupersampleScale is the integer factor by which the accumulation
	// texture exceeds the target in each dimension. The resolve pass
	// downsamples it through the sampler. Default: 1.
	SupersampleScale uint32

	// Filter selects the resolve sampler. Default: FilterLinear.
	Filter ResolveFilter

	// SubpixelDelta is the horizontal displacement, in NDC units, of the
	// side instances in the subpixel pass. The three instances are drawn
	// at offsets {-SubpixelDelta, 0, +SubpixelDelta}.
	// Default: 1/1024 (one third of a pixel at a 512-wide viewport,
	// expressed in the [-1, 1] NDC range).
	SubpixelDelta float32
}

// DefaultRendererConfig returns default configuration.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		Format:           gputypes.TextureFormatRGBA8Unorm,
		SupersampleScale: 1,
		Filter:           FilterLinear,
		SubpixelDelta:    1.0 / 1024.0,
	}
}

// withDefaults fills zero-valued fields with defaults.
func (c RendererConfig) withDefaults() RendererConfig {
	def := DefaultRendererConfig()
	if c.Format == 0 {
		c.Format = def.Format
	}
	if c.SupersampleScale == 0 {
		c.SupersampleScale = def.SupersampleScale
	}
	if c.SubpixelDelta == 0 {
		c.SubpixelDelta = def.SubpixelDelta
	}
	return c
}
