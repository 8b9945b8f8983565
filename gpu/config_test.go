package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDefaultRendererConfig(t *testing.T) {
	cfg := DefaultRendererConfig()
	if cfg.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", cfg.Format)
	}
	if cfg.SupersampleScale != 1 {
		t.Errorf("SupersampleScale = %d, want 1", cfg.SupersampleScale)
	}
	if cfg.Filter != FilterLinear {
		t.Errorf("Filter = %v, want FilterLinear", cfg.Filter)
	}
	if cfg.SubpixelDelta != 1.0/1024.0 {
		t.Errorf("SubpixelDelta = %v, want 1/1024", cfg.SubpixelDelta)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := RendererConfig{}.withDefaults()
	if cfg != DefaultRendererConfig() {
		t.Errorf("zero config with defaults = %+v, want defaults", cfg)
	}

	custom := RendererConfig{
		Format:           gputypes.TextureFormatBGRA8Unorm,
		SupersampleScale: 4,
		Filter:           FilterNearest,
		SubpixelDelta:    0.005,
	}
	if got := custom.withDefaults(); got != custom {
		t.Errorf("custom config altered by withDefaults: %+v", got)
	}
}
