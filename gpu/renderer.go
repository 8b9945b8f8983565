// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/curvefill"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Renderer errors.
var (
	// ErrNilDevice is returned when constructing a renderer without a device.
	ErrNilDevice = errors.New("curvefill: hal device is nil")

	// ErrNilQueue is returned when constructing a renderer without a queue.
	ErrNilQueue = errors.New("curvefill: hal queue is nil")

	// ErrInvalidViewport is returned for zero-sized render targets.
	ErrInvalidViewport = errors.New("curvefill: viewport dimensions must be positive")

	// ErrEmptyMesh is returned when rendering with no geometry.
	ErrEmptyMesh = errors.New("curvefill: empty mesh")

	// ErrIndexOutOfRange is returned when a triangle index references a
	// vertex beyond the end of the vertex slice.
	ErrIndexOutOfRange = errors.New("curvefill: triangle index out of range")
)

// CurveRenderer renders curve-fill triangle meshes through a two-stage
// frame: one render pass accumulates coverage into the accumulation
// texture (flat, indexed, or subpixel pipeline), then the resolve pass
// samples it into the target.
//
// In the default offscreen mode the target is copied to a staging buffer
// and read back; Render* methods return tightly packed pixel rows in the
// configured texture format. With SetSurfaceTarget the resolve pass
// writes directly to a caller-provided view and no readback occurs.
//
// CurveRenderer is safe for concurrent use; frames are serialized by an
// internal mutex.
type CurveRenderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	config RendererConfig

	pipelines curvePipelines
	resolve   resolvePipeline
	textures  textureSet

	pipelinesReady bool

	// Surface mode. When surfaceView is non-nil, the resolve pass targets
	// the surface instead of the readback target.
	surfaceView   hal.TextureView
	surfaceWidth  uint32
	surfaceHeight uint32
}

// NewCurveRenderer creates a renderer with the given device and queue.
// Pipelines and textures are created lazily on the first frame.
func NewCurveRenderer(device hal.Device, queue hal.Queue, config RendererConfig) (*CurveRenderer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	return &CurveRenderer{
		device:    device,
		queue:     queue,
		config:    config.withDefaults(),
		pipelines: curvePipelines{device: device},
		resolve:   resolvePipeline{device: device},
	}, nil
}

// Config returns the renderer configuration with defaults applied.
func (r *CurveRenderer) Config() RendererConfig {
	return r.config
}

// SetSurfaceTarget configures the renderer to resolve directly into the
// given texture view instead of the internal readback target. Render*
// methods then return nil pixel data. Call with a nil view to return to
// offscreen mode. The caller retains ownership of the surface view.
func (r *CurveRenderer) SetSurfaceTarget(view hal.TextureView, width, height uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	modeChanged := (view == nil) != (r.surfaceView == nil)
	if modeChanged || width != r.surfaceWidth || height != r.surfaceHeight {
		r.textures.destroyTextures(r.device)
	}
	r.surfaceView = view
	r.surfaceWidth = width
	r.surfaceHeight = height
}

// Size returns the current target dimensions, or zeros before the first
// frame.
func (r *CurveRenderer) Size() (width, height uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textures.width, r.textures.height
}

// Destroy releases all GPU resources held by the renderer. Safe to call
// more than once. A surface view set by the caller is not destroyed.
func (r *CurveRenderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.textures.destroyTextures(r.device)
	r.resolve.destroyPipeline()
	r.pipelines.destroyPipelines()
	r.pipelinesReady = false
	r.surfaceView = nil
	r.surfaceWidth = 0
	r.surfaceHeight = 0
}

// RenderFlat renders a flat-color mesh and returns the resolved pixels,
// or nil in surface mode.
func (r *CurveRenderer) RenderFlat(verts []curvefill.Vertex, indices []uint16, width, height uint32) ([]byte, error) {
	if len(verts) == 0 || len(indices) == 0 {
		return nil, ErrEmptyMesh
	}
	if err := validateFlatBatch(verts); err != nil {
		return nil, err
	}
	if err := checkIndices(indices, len(verts)); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	vertData := buildFlatVertexData(verts)
	return r.renderLocked(width, height, func(frame *frameResources) error {
		vertBuf, err := r.createAndUploadBuffer("curve_flat_verts", vertData,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.trackBuffer(vertBuf)

		idxBuf, err := r.createAndUploadBuffer("curve_flat_indices", buildIndexData(indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.trackBuffer(idxBuf)

		frame.record = func(rp hal.RenderPassEncoder) {
			rp.SetPipeline(r.pipelines.flat)
			rp.SetVertexBuffer(0, vertBuf, 0)
			rp.SetIndexBuffer(idxBuf, gputypes.IndexFormatUint16, 0)
			rp.DrawIndexed(uint32(len(indices)), 1, 0, 0, 0)
		}
		return nil
	})
}

// RenderIndexed renders an indexed-color mesh against the given color
// table and returns the resolved pixels, or nil in surface mode.
func (r *CurveRenderer) RenderIndexed(verts []curvefill.IndexedVertex, indices []uint16, table *curvefill.ColorTable, width, height uint32) ([]byte, error) {
	return r.renderIndexed(verts, indices, table, width, height, false)
}

// RenderSubpixel renders an indexed-color mesh with the subpixel
// pipeline: three instances of the mesh at horizontal offsets
// {-SubpixelDelta, 0, +SubpixelDelta}, each writing one color channel.
func (r *CurveRenderer) RenderSubpixel(verts []curvefill.IndexedVertex, indices []uint16, table *curvefill.ColorTable, width, height uint32) ([]byte, error) {
	return r.renderIndexed(verts, indices, table, width, height, true)
}

func (r *CurveRenderer) renderIndexed(verts []curvefill.IndexedVertex, indices []uint16, table *curvefill.ColorTable, width, height uint32, subpixel bool) ([]byte, error) {
	if len(verts) == 0 || len(indices) == 0 {
		return nil, ErrEmptyMesh
	}
	if err := validateIndexedBatch(verts, table); err != nil {
		return nil, err
	}
	if err := checkIndices(indices, len(verts)); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	vertData := buildIndexedVertexData(verts)
	tableData := buildColorTableData(table)
	return r.renderLocked(width, height, func(frame *frameResources) error {
		vertBuf, err := r.createAndUploadBuffer("curve_indexed_verts", vertData,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.trackBuffer(vertBuf)

		idxBuf, err := r.createAndUploadBuffer("curve_indexed_indices", buildIndexData(indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.trackBuffer(idxBuf)

		tableBuf, err := r.createAndUploadBuffer("curve_color_table", tableData,
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.trackBuffer(tableBuf)

		tableBind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "curve_color_table_bind",
			Layout: r.pipelines.colorTableLayout,
			Entries: []gputypes.BindGroupEntry{
				{
					Binding: 0,
					Resource: gputypes.BufferBinding{
						Buffer: tableBuf.NativeHandle(),
						Offset: 0,
						Size:   uint64(len(tableData)),
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("create color table bind group: %w", err)
		}
		frame.trackBindGroup(tableBind)

		if !subpixel {
			frame.record = func(rp hal.RenderPassEncoder) {
				rp.SetPipeline(r.pipelines.indexed)
				rp.SetBindGroup(0, tableBind, nil)
				rp.SetVertexBuffer(0, vertBuf, 0)
				rp.SetIndexBuffer(idxBuf, gputypes.IndexFormatUint16, 0)
				rp.DrawIndexed(uint32(len(indices)), 1, 0, 0, 0)
			}
			return nil
		}

		instBuf, err := r.createAndUploadBuffer("curve_subpixel_offsets",
			buildInstanceOffsetData(r.config.SubpixelDelta),
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.trackBuffer(instBuf)

		frame.record = func(rp hal.RenderPassEncoder) {
			rp.SetPipeline(r.pipelines.subpixel)
			rp.SetBindGroup(0, tableBind, nil)
			rp.SetVertexBuffer(0, vertBuf, 0)
			rp.SetVertexBuffer(1, instBuf, 0)
			rp.SetIndexBuffer(idxBuf, gputypes.IndexFormatUint16, 0)
			rp.DrawIndexed(uint32(len(indices)), subpixelInstanceCount, 0, 0, 0)
		}
		return nil
	})
}

// frameResources tracks per-frame GPU objects for deferred cleanup and
// carries the draw recording closure built by each Render* entry point.
type frameResources struct {
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
	record     func(hal.RenderPassEncoder)
}

func (f *frameResources) trackBuffer(buf hal.Buffer) {
	f.buffers = append(f.buffers, buf)
}

func (f *frameResources) trackBindGroup(bg hal.BindGroup) {
	f.bindGroups = append(f.bindGroups, bg)
}

func (f *frameResources) destroy(device hal.Device) {
	for i := len(f.bindGroups) - 1; i >= 0; i-- {
		device.DestroyBindGroup(f.bindGroups[i])
	}
	for i := len(f.buffers) - 1; i >= 0; i-- {
		device.DestroyBuffer(f.buffers[i])
	}
}

// renderLocked runs one frame: build per-frame resources via setup,
// encode the curve pass into the accumulation texture, transition it to
// sampled usage, encode the resolve pass, then submit and, in offscreen
// mode, read the target back. Callers hold r.mu.
func (r *CurveRenderer) renderLocked(width, height uint32, setup func(*frameResources) error) ([]byte, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidViewport
	}

	if err := r.ensurePipelinesLocked(); err != nil {
		return nil, err
	}
	if err := r.ensureTexturesLocked(width, height); err != nil {
		return nil, err
	}

	frame := &frameResources{}
	defer frame.destroy(r.device)
	if err := setup(frame); err != nil {
		return nil, err
	}

	// The resolve bind group references the accumulation view, which
	// changes on resize, so it is rebuilt each frame.
	resolveBind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "resolve_bind",
		Layout: r.resolve.sampleLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding:  0,
				Resource: gputypes.TextureViewBinding{TextureView: r.textures.accumView.NativeHandle()},
			},
			{
				Binding:  1,
				Resource: gputypes.SamplerBinding{Sampler: r.resolve.sampler.NativeHandle()},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create resolve bind group: %w", err)
	}
	frame.trackBindGroup(resolveBind)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "curve_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("curve_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// Pass 1: accumulate curve coverage, cleared to transparent black.
	accumPass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "curve_accum_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       r.textures.accumView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	frame.record(accumPass)
	accumPass.End()

	// Between the passes the accumulation texture switches from render
	// target to sampled texture.
	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: r.textures.accumTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageTextureBinding,
			},
		},
	})

	resolveTarget := r.textures.targetView
	if r.surfaceView != nil {
		resolveTarget = r.surfaceView
	}

	// Pass 2: full-viewport resolve triangle.
	resolvePass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "curve_resolve_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       resolveTarget,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	resolvePass.SetPipeline(r.resolve.pipeline)
	resolvePass.SetBindGroup(0, resolveBind, nil)
	resolvePass.Draw(3, 1, 0, 0)
	resolvePass.End()

	// Return the accumulation texture to render-attachment usage for the
	// next frame's clear.
	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: r.textures.accumTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageTextureBinding,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		},
	})

	if r.surfaceView != nil {
		if err := r.submitAndWait(encoder); err != nil {
			return nil, err
		}
		slogger().Debug("frame resolved to surface", "width", width, "height", height)
		return nil, nil
	}

	pixels, err := r.copyOutAndSubmit(encoder, width, height)
	if err != nil {
		return nil, err
	}
	slogger().Debug("frame read back", "width", width, "height", height, "bytes", len(pixels))
	return pixels, nil
}

// copyOutAndSubmit records the target-to-staging copy, submits the frame,
// and reads the pixels back with the row padding stripped.
func (r *CurveRenderer) copyOutAndSubmit(encoder hal.CommandEncoder, w, h uint32) ([]byte, error) {
	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: r.textures.targetTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		},
	})

	// Texture-to-buffer copies require BytesPerRow aligned to 256.
	const copyPitchAlignment = 256
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "curve_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(r.textures.targetTex, stagingBuf, []hal.BufferTextureCopy{
		{
			BufferLayout: hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  alignedBytesPerRow,
				RowsPerImage: h,
			},
			TextureBase: hal.ImageCopyTexture{
				Texture:  r.textures.targetTex,
				MipLevel: 0,
			},
			Size: hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		},
	})

	// The next frame's render pass expects the target back in
	// render-attachment usage.
	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: r.textures.targetTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		},
	})

	if err := r.submitAndWait(encoder); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(h)], nil
	}
	tight := make([]byte, uint64(bytesPerRow)*uint64(h))
	for row := uint32(0); row < h; row++ {
		src := readback[row*alignedBytesPerRow:]
		copy(tight[row*bytesPerRow:(row+1)*bytesPerRow], src[:bytesPerRow])
	}
	return tight, nil
}

// submitAndWait finishes encoding, submits the command buffer behind a
// fence, and blocks until the GPU signals it.
func (r *CurveRenderer) submitAndWait(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := r.device.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return fmt.Errorf("wait for fence: %w", err)
	}
	if !ok {
		return errors.New("curvefill: fence wait timed out")
	}
	return nil
}

// ensurePipelinesLocked lazily creates the curve and resolve pipelines.
func (r *CurveRenderer) ensurePipelinesLocked() error {
	if r.pipelinesReady {
		return nil
	}
	if err := r.pipelines.createPipelines(r.config.Format); err != nil {
		r.pipelines.destroyPipelines()
		return err
	}
	if err := r.resolve.createPipeline(r.config.Format, r.config.Filter); err != nil {
		r.resolve.destroyPipeline()
		r.pipelines.destroyPipelines()
		return err
	}
	r.pipelinesReady = true
	return nil
}

// ensureTexturesLocked sizes the texture set for the requested target.
func (r *CurveRenderer) ensureTexturesLocked(w, h uint32) error {
	if r.surfaceView != nil {
		return r.textures.ensureSurfaceTextures(r.device, r.config.Format, w, h, r.config.SupersampleScale)
	}
	return r.textures.ensureTextures(r.device, r.config.Format, w, h, r.config.SupersampleScale)
}

// createAndUploadBuffer creates a GPU buffer and uploads data through the
// queue.
func (r *CurveRenderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// checkIndices verifies the indices form whole triangles and every index
// references a real vertex.
func checkIndices(indices []uint16, vertexCount int) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrEmptyMesh, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("%w: index %d at position %d, vertex count %d",
				ErrIndexOutOfRange, idx, i, vertexCount)
		}
	}
	return nil
}
