// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/curvefill"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// triangleFlat returns a minimal one-triangle flat mesh covering the
// center of the viewport.
func triangleFlat() ([]curvefill.Vertex, []uint16) {
	verts := []curvefill.Vertex{
		{Position: [3]float32{-0.5, -0.5, 0}, UV: [2]float32{0, 0}, Metadata: curvefill.MetaCurve, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{0.5, -0.5, 0}, UV: [2]float32{0.5, 0}, Metadata: curvefill.MetaCurve, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 0.5, 0}, UV: [2]float32{1, 1}, Metadata: curvefill.MetaCurve, Color: [3]float32{1, 0, 0}},
	}
	return verts, []uint16{0, 1, 2}
}

// triangleIndexed returns the same triangle with a color table index.
func triangleIndexed(table *curvefill.ColorTable) ([]curvefill.IndexedVertex, []uint16) {
	idx := table.Intern(curvefill.RGBA{R: 0, G: 0, B: 0, A: 1})
	verts := []curvefill.IndexedVertex{
		{Position: [3]float32{-0.5, -0.5, 0}, UV: [2]float32{0, 0}, Metadata: curvefill.MetaCurve, ColorIndex: idx},
		{Position: [3]float32{0.5, -0.5, 0}, UV: [2]float32{0.5, 0}, Metadata: curvefill.MetaCurve, ColorIndex: idx},
		{Position: [3]float32{0, 0.5, 0}, UV: [2]float32{1, 1}, Metadata: curvefill.MetaCurve, ColorIndex: idx},
	}
	return verts, []uint16{0, 1, 2}
}

func TestNewCurveRenderer(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	if r.device != device {
		t.Error("device not stored correctly")
	}
	if r.queue != queue {
		t.Error("queue not stored correctly")
	}
	if r.pipelinesReady {
		t.Error("expected lazy pipeline creation")
	}

	cfg := r.Config()
	if cfg.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("expected default format RGBA8Unorm, got %v", cfg.Format)
	}
	if cfg.SupersampleScale != 1 {
		t.Errorf("expected default scale 1, got %d", cfg.SupersampleScale)
	}

	w, h := r.Size()
	if w != 0 || h != 0 {
		t.Errorf("expected size (0, 0) before first frame, got (%d, %d)", w, h)
	}
}

func TestNewCurveRendererNilDevice(t *testing.T) {
	_, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewCurveRenderer(nil, queue, RendererConfig{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("expected ErrNilDevice, got %v", err)
	}
}

func TestNewCurveRendererNilQueue(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewCurveRenderer(device, nil, RendererConfig{}); !errors.Is(err, ErrNilQueue) {
		t.Errorf("expected ErrNilQueue, got %v", err)
	}
}

func TestRenderFlatTriangle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	verts, indices := triangleFlat()
	pixels, err := r.RenderFlat(verts, indices, 64, 64)
	if err != nil {
		t.Fatalf("RenderFlat failed: %v", err)
	}

	// Noop backend returns zeroed readback data, so verify the byte count
	// rather than pixel values.
	if len(pixels) != 64*64*4 {
		t.Errorf("expected %d bytes, got %d", 64*64*4, len(pixels))
	}
	if !r.pipelinesReady {
		t.Error("expected pipelines created after first frame")
	}

	w, h := r.Size()
	if w != 64 || h != 64 {
		t.Errorf("expected size (64, 64), got (%d, %d)", w, h)
	}
}

func TestRenderFlatUnalignedWidth(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	// 100*4 = 400 bytes per row, not a multiple of 256: the readback
	// path must strip the row padding.
	verts, indices := triangleFlat()
	pixels, err := r.RenderFlat(verts, indices, 100, 50)
	if err != nil {
		t.Fatalf("RenderFlat failed: %v", err)
	}
	if len(pixels) != 100*50*4 {
		t.Errorf("expected %d bytes, got %d", 100*50*4, len(pixels))
	}
}

func TestRenderFlatEmptyMesh(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	if _, err := r.RenderFlat(nil, nil, 64, 64); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}

func TestRenderFlatInvalidViewport(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	verts, indices := triangleFlat()
	if _, err := r.RenderFlat(verts, indices, 0, 64); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("expected ErrInvalidViewport, got %v", err)
	}
}

func TestRenderFlatBadIndex(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	verts, _ := triangleFlat()
	if _, err := r.RenderFlat(verts, []uint16{0, 1, 3}, 64, 64); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRenderFlatReservedMetadata(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	verts, indices := triangleFlat()
	verts[1].Metadata = 1 << 4
	if _, err := r.RenderFlat(verts, indices, 64, 64); !errors.Is(err, curvefill.ErrMetadataReserved) {
		t.Errorf("expected ErrMetadataReserved, got %v", err)
	}
}

func TestRenderIndexedTriangle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	table := &curvefill.ColorTable{}
	verts, indices := triangleIndexed(table)
	pixels, err := r.RenderIndexed(verts, indices, table, 32, 32)
	if err != nil {
		t.Fatalf("RenderIndexed failed: %v", err)
	}
	if len(pixels) != 32*32*4 {
		t.Errorf("expected %d bytes, got %d", 32*32*4, len(pixels))
	}
}

func TestRenderIndexedBadColorIndex(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	table := &curvefill.ColorTable{}
	verts, indices := triangleIndexed(table)
	verts[0].ColorIndex = 99
	if _, err := r.RenderIndexed(verts, indices, table, 32, 32); !errors.Is(err, curvefill.ErrColorIndexRange) {
		t.Errorf("expected ErrColorIndexRange, got %v", err)
	}
}

func TestRenderSubpixelTriangle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	table := &curvefill.ColorTable{}
	verts, indices := triangleIndexed(table)
	pixels, err := r.RenderSubpixel(verts, indices, table, 48, 48)
	if err != nil {
		t.Fatalf("RenderSubpixel failed: %v", err)
	}
	if len(pixels) != 48*48*4 {
		t.Errorf("expected %d bytes, got %d", 48*48*4, len(pixels))
	}
}

func TestRenderResize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	verts, indices := triangleFlat()
	if _, err := r.RenderFlat(verts, indices, 64, 64); err != nil {
		t.Fatalf("first frame failed: %v", err)
	}
	if _, err := r.RenderFlat(verts, indices, 128, 96); err != nil {
		t.Fatalf("resized frame failed: %v", err)
	}

	w, h := r.Size()
	if w != 128 || h != 96 {
		t.Errorf("expected size (128, 96) after resize, got (%d, %d)", w, h)
	}
}

func TestRenderSupersampled(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{SupersampleScale: 4})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	verts, indices := triangleFlat()
	pixels, err := r.RenderFlat(verts, indices, 64, 64)
	if err != nil {
		t.Fatalf("RenderFlat failed: %v", err)
	}
	// Readback stays target sized regardless of supersampling.
	if len(pixels) != 64*64*4 {
		t.Errorf("expected %d bytes, got %d", 64*64*4, len(pixels))
	}
	if r.textures.scale != 4 {
		t.Errorf("expected accumulation scale 4, got %d", r.textures.scale)
	}
}

func TestRenderSurfaceMode(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}
	defer r.Destroy()

	surfaceTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_surface",
		Size:          hal.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	defer device.DestroyTexture(surfaceTex)

	surfaceView, err := device.CreateTextureView(surfaceTex, &hal.TextureViewDescriptor{Label: "test_surface_view"})
	if err != nil {
		t.Fatalf("CreateTextureView failed: %v", err)
	}
	defer device.DestroyTextureView(surfaceView)

	r.SetSurfaceTarget(surfaceView, 64, 64)

	verts, indices := triangleFlat()
	pixels, err := r.RenderFlat(verts, indices, 64, 64)
	if err != nil {
		t.Fatalf("RenderFlat to surface failed: %v", err)
	}
	if pixels != nil {
		t.Errorf("expected nil pixels in surface mode, got %d bytes", len(pixels))
	}
	if r.textures.targetTex != nil {
		t.Error("expected no readback target in surface mode")
	}

	// Back to offscreen mode.
	r.SetSurfaceTarget(nil, 0, 0)
	pixels, err = r.RenderFlat(verts, indices, 64, 64)
	if err != nil {
		t.Fatalf("RenderFlat after leaving surface mode failed: %v", err)
	}
	if len(pixels) != 64*64*4 {
		t.Errorf("expected %d bytes, got %d", 64*64*4, len(pixels))
	}
}

func TestRendererDestroyIdempotent(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewCurveRenderer(device, queue, RendererConfig{})
	if err != nil {
		t.Fatalf("NewCurveRenderer failed: %v", err)
	}

	verts, indices := triangleFlat()
	if _, err := r.RenderFlat(verts, indices, 64, 64); err != nil {
		t.Fatalf("RenderFlat failed: %v", err)
	}

	r.Destroy()
	r.Destroy()

	if r.pipelinesReady {
		t.Error("expected pipelinesReady false after Destroy")
	}
	if r.textures.accumTex != nil {
		t.Error("expected textures released after Destroy")
	}
}

func TestCheckIndices(t *testing.T) {
	if err := checkIndices([]uint16{0, 1, 2}, 3); err != nil {
		t.Errorf("valid indices rejected: %v", err)
	}
	if err := checkIndices([]uint16{0, 1}, 3); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh for partial triangle, got %v", err)
	}
	if err := checkIndices([]uint16{0, 1, 5}, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
