// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestResolvePipelineCreate(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	rp := resolvePipeline{device: device}
	defer rp.destroyPipeline()

	if err := rp.createPipeline(gputypes.TextureFormatRGBA8Unorm, FilterLinear); err != nil {
		t.Fatalf("createPipeline failed: %v", err)
	}

	if rp.pipeline == nil {
		t.Error("expected non-nil pipeline")
	}
	if rp.sampler == nil {
		t.Error("expected non-nil sampler")
	}
	if rp.sampleLayout == nil {
		t.Error("expected non-nil sample layout")
	}
}

func TestResolvePipelineNearestFilter(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	rp := resolvePipeline{device: device}
	defer rp.destroyPipeline()

	if err := rp.createPipeline(gputypes.TextureFormatRGBA8Unorm, FilterNearest); err != nil {
		t.Fatalf("createPipeline with nearest filter failed: %v", err)
	}
	if rp.sampler == nil {
		t.Error("expected non-nil sampler")
	}
}

func TestResolvePipelineDestroyIdempotent(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	rp := resolvePipeline{device: device}
	if err := rp.createPipeline(gputypes.TextureFormatRGBA8Unorm, FilterLinear); err != nil {
		t.Fatalf("createPipeline failed: %v", err)
	}

	rp.destroyPipeline()
	if rp.pipeline != nil || rp.sampler != nil || rp.shader != nil {
		t.Error("expected nil resources after destroy")
	}
	rp.destroyPipeline()
}
