// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// curvePipelines owns the shader modules, layouts, and render pipelines
// of the three curve passes. All three share the parabola fill test; they
// differ in how the fragment color is sourced:
//
//	flat     per-vertex vec3 color, no bindings
//	indexed  per-vertex u32 index into a storage color table
//	subpixel indexed layout plus a per-instance f32 offset
//
// The indexed and subpixel pipelines share one bind group layout (the
// color table at group(0) binding(0)).
type curvePipelines struct {
	device hal.Device

	flatShader     hal.ShaderModule
	indexedShader  hal.ShaderModule
	subpixelShader hal.ShaderModule

	colorTableLayout hal.BindGroupLayout

	flatPipeLayout    hal.PipelineLayout
	indexedPipeLayout hal.PipelineLayout

	flat     hal.RenderPipeline
	indexed  hal.RenderPipeline
	subpixel hal.RenderPipeline
}

// alphaBlend is the blend state shared by all curve passes:
// non-premultiplied alpha-over, so overlapping triangle coverage
// accumulates the way the fill model expects.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// flatVertexLayout returns the vertex buffer layout for the flat pass.
// Matches VertexInput in flat_curve.wgsl:
//
//	location 0: position (vec3<f32>)
//	location 1: uv (vec2<f32>)
//	location 2: metadata (i32)
//	location 3: color (vec3<f32>)
func flatVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: flatVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatSint32, Offset: 20, ShaderLocation: 2},    // metadata
				{Format: gputypes.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 3}, // color
			},
		},
	}
}

// indexedVertexLayout returns the vertex buffer layout shared by the
// indexed and subpixel passes. Matches VertexInput in indexed_curve.wgsl:
//
//	location 0: position (vec3<f32>)
//	location 1: uv (vec2<f32>)
//	location 2: metadata (i32)
//	location 3: color_index (u32)
func indexedVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: indexedVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatSint32, Offset: 20, ShaderLocation: 2},    // metadata
				{Format: gputypes.VertexFormatUint32, Offset: 24, ShaderLocation: 3},    // color_index
			},
		},
	}
}

// subpixelVertexLayout extends the indexed layout with a second buffer
// stepped per instance. Matches VertexInput in subpixel_curve.wgsl:
//
//	location 4: offset (f32), instance step mode
func subpixelVertexLayout() []gputypes.VertexBufferLayout {
	layout := indexedVertexLayout()
	return append(layout, gputypes.VertexBufferLayout{
		ArrayStride: instanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 4}, // offset
		},
	})
}

// createPipelines compiles the three curve shaders and creates their
// render pipelines targeting the given color format.
func (cp *curvePipelines) createPipelines(format gputypes.TextureFormat) error { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	flatShader, err := cp.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "flat_curve_shader",
		Source: hal.ShaderSource{WGSL: flatCurveShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile flat curve shader: %w", err)
	}
	cp.flatShader = flatShader

	indexedShader, err := cp.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "indexed_curve_shader",
		Source: hal.ShaderSource{WGSL: indexedCurveShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile indexed curve shader: %w", err)
	}
	cp.indexedShader = indexedShader

	subpixelShader, err := cp.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "subpixel_curve_shader",
		Source: hal.ShaderSource{WGSL: subpixelCurveShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile subpixel curve shader: %w", err)
	}
	cp.subpixelShader = subpixelShader

	// Bind group layout shared by indexed and subpixel pipelines:
	// the read-only color table at group(0) binding(0), fragment stage.
	colorTableLayout, err := cp.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "color_table_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create color table layout: %w", err)
	}
	cp.colorTableLayout = colorTableLayout

	// The flat pass has no bindings at all.
	flatPipeLayout, err := cp.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "flat_curve_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{},
	})
	if err != nil {
		return fmt.Errorf("create flat pipeline layout: %w", err)
	}
	cp.flatPipeLayout = flatPipeLayout

	indexedPipeLayout, err := cp.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "indexed_curve_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{cp.colorTableLayout},
	})
	if err != nil {
		return fmt.Errorf("create indexed pipeline layout: %w", err)
	}
	cp.indexedPipeLayout = indexedPipeLayout

	// Shared primitive state: triangle list, no culling. Glyph meshes mix
	// windings (holes, inverse curves), so culling would drop geometry.
	primitive := gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyTriangleList,
		CullMode: gputypes.CullModeNone,
	}
	multisample := gputypes.MultisampleState{
		Count: 1,
		Mask:  0xFFFFFFFF,
	}
	blend := alphaBlend()
	targets := []gputypes.ColorTargetState{
		{
			Format:    format,
			Blend:     &blend,
			WriteMask: gputypes.ColorWriteMaskAll,
		},
	}

	flat, err := cp.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "flat_curve_pipeline",
		Layout: cp.flatPipeLayout,
		Vertex: hal.VertexState{
			Module:     cp.flatShader,
			EntryPoint: "vs_main",
			Buffers:    flatVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     cp.flatShader,
			EntryPoint: "fs_main",
			Targets:    targets,
		},
		Primitive:   primitive,
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create flat curve pipeline: %w", err)
	}
	cp.flat = flat

	indexed, err := cp.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "indexed_curve_pipeline",
		Layout: cp.indexedPipeLayout,
		Vertex: hal.VertexState{
			Module:     cp.indexedShader,
			EntryPoint: "vs_main",
			Buffers:    indexedVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     cp.indexedShader,
			EntryPoint: "fs_main",
			Targets:    targets,
		},
		Primitive:   primitive,
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create indexed curve pipeline: %w", err)
	}
	cp.indexed = indexed

	subpixel, err := cp.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "subpixel_curve_pipeline",
		Layout: cp.indexedPipeLayout,
		Vertex: hal.VertexState{
			Module:     cp.subpixelShader,
			EntryPoint: "vs_main",
			Buffers:    subpixelVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     cp.subpixelShader,
			EntryPoint: "fs_main",
			Targets:    targets,
		},
		Primitive:   primitive,
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create subpixel curve pipeline: %w", err)
	}
	cp.subpixel = subpixel

	return nil
}

// destroyPipelines releases all pipeline resources in reverse creation
// order. Safe to call on partially created pipelines or more than once.
func (cp *curvePipelines) destroyPipelines() {
	if cp.device == nil {
		return
	}
	if cp.subpixel != nil {
		cp.device.DestroyRenderPipeline(cp.subpixel)
		cp.subpixel = nil
	}
	if cp.indexed != nil {
		cp.device.DestroyRenderPipeline(cp.indexed)
		cp.indexed = nil
	}
	if cp.flat != nil {
		cp.device.DestroyRenderPipeline(cp.flat)
		cp.flat = nil
	}
	if cp.indexedPipeLayout != nil {
		cp.device.DestroyPipelineLayout(cp.indexedPipeLayout)
		cp.indexedPipeLayout = nil
	}
	if cp.flatPipeLayout != nil {
		cp.device.DestroyPipelineLayout(cp.flatPipeLayout)
		cp.flatPipeLayout = nil
	}
	if cp.colorTableLayout != nil {
		cp.device.DestroyBindGroupLayout(cp.colorTableLayout)
		cp.colorTableLayout = nil
	}
	if cp.subpixelShader != nil {
		cp.device.DestroyShaderModule(cp.subpixelShader)
		cp.subpixelShader = nil
	}
	if cp.indexedShader != nil {
		cp.device.DestroyShaderModule(cp.indexedShader)
		cp.indexedShader = nil
	}
	if cp.flatShader != nil {
		cp.device.DestroyShaderModule(cp.flatShader)
		cp.flatShader = nil
	}
}
