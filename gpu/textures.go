package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureSet owns the two textures a frame renders through:
//
//   - accumTex: the accumulation texture the curve passes draw into,
//     sized scale times the target in each dimension. It doubles as a
//     sampled texture for the resolve pass, so its usage includes
//     TextureBinding.
//   - targetTex: the single-sample target the resolve pass writes, with
//     CopySrc usage for CPU readback. Not created in surface mode, where
//     the caller's surface view is the resolve target.
//
// Textures are recreated lazily when the requested dimensions change.
type textureSet struct {
	accumTex  hal.Texture
	accumView hal.TextureView

	targetTex  hal.Texture
	targetView hal.TextureView

	width, height uint32
	scale         uint32
}

// ensureTextures creates or recreates both textures if the requested
// target dimensions or scale differ from the current ones. A matching
// call is a no-op.
func (ts *textureSet) ensureTextures(device hal.Device, format gputypes.TextureFormat, w, h, scale uint32) error {
	if ts.width == w && ts.height == h && ts.scale == scale && ts.accumTex != nil && ts.targetTex != nil {
		return nil
	}
	ts.destroyTextures(device)

	if err := ts.createAccum(device, format, w, h, scale); err != nil {
		return err
	}

	targetTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "curve_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create target texture: %w", err)
	}
	ts.targetTex = targetTex

	targetView, err := device.CreateTextureView(targetTex, &hal.TextureViewDescriptor{
		Label: "curve_target_view",
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create target texture view: %w", err)
	}
	ts.targetView = targetView

	ts.width = w
	ts.height = h
	ts.scale = scale
	return nil
}

// ensureSurfaceTextures creates only the accumulation texture. Used in
// surface mode, where the resolve pass targets the caller's view.
func (ts *textureSet) ensureSurfaceTextures(device hal.Device, format gputypes.TextureFormat, w, h, scale uint32) error {
	if ts.width == w && ts.height == h && ts.scale == scale && ts.accumTex != nil {
		return nil
	}
	ts.destroyTextures(device)

	if err := ts.createAccum(device, format, w, h, scale); err != nil {
		return err
	}

	ts.width = w
	ts.height = h
	ts.scale = scale
	return nil
}

func (ts *textureSet) createAccum(device hal.Device, format gputypes.TextureFormat, w, h, scale uint32) error {
	accumTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "curve_accum",
		Size:          hal.Extent3D{Width: w * scale, Height: h * scale, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create accumulation texture: %w", err)
	}
	ts.accumTex = accumTex

	accumView, err := device.CreateTextureView(accumTex, &hal.TextureViewDescriptor{
		Label: "curve_accum_view",
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create accumulation texture view: %w", err)
	}
	ts.accumView = accumView
	return nil
}

// destroyTextures releases all views and textures, resetting dimensions
// to zero. Each resource is nil-checked to support partial cleanup.
func (ts *textureSet) destroyTextures(device hal.Device) {
	if ts.targetView != nil {
		device.DestroyTextureView(ts.targetView)
		ts.targetView = nil
	}
	if ts.targetTex != nil {
		device.DestroyTexture(ts.targetTex)
		ts.targetTex = nil
	}
	if ts.accumView != nil {
		device.DestroyTextureView(ts.accumView)
		ts.accumView = nil
	}
	if ts.accumTex != nil {
		device.DestroyTexture(ts.accumTex)
		ts.accumTex = nil
	}
	ts.width = 0
	ts.height = 0
	ts.scale = 0
}
