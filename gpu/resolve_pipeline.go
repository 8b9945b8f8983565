package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// resolvePipeline owns the resources of the resolve pass: a full-viewport
// triangle generated from the vertex index (no vertex buffer) whose
// fragment stage samples the accumulation texture and writes it
// unmodified to the target. Downsampling, when the accumulation texture
// is supersampled, happens entirely in the sampler.
type resolvePipeline struct {
	device hal.Device

	shader       hal.ShaderModule
	sampleLayout hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.RenderPipeline
	sampler      hal.Sampler
}

// createPipeline compiles the resolve shader and creates the render
// pipeline and sampler. No blending: the pass is a plain copy.
func (rp *resolvePipeline) createPipeline(format gputypes.TextureFormat, filter ResolveFilter) error {
	shader, err := rp.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "resolve_shader",
		Source: hal.ShaderSource{WGSL: resolveShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile resolve shader: %w", err)
	}
	rp.shader = shader

	// Bind group layout:
	//   Binding 0: accumulation texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	sampleLayout, err := rp.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "resolve_sample_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create resolve sample layout: %w", err)
	}
	rp.sampleLayout = sampleLayout

	pipeLayout, err := rp.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "resolve_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{rp.sampleLayout},
	})
	if err != nil {
		return fmt.Errorf("create resolve pipeline layout: %w", err)
	}
	rp.pipeLayout = pipeLayout

	mode := gputypes.FilterModeLinear
	if filter == FilterNearest {
		mode = gputypes.FilterModeNearest
	}
	sampler, err := rp.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "resolve_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    mode,
		MinFilter:    mode,
		MipmapFilter: mode,
	})
	if err != nil {
		return fmt.Errorf("create resolve sampler: %w", err)
	}
	rp.sampler = sampler

	pipeline, err := rp.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "resolve_pipeline",
		Layout: rp.pipeLayout,
		Vertex: hal.VertexState{
			Module:     rp.shader,
			EntryPoint: "vs_main",
			// The triangle is generated from the vertex index; there is
			// no vertex buffer.
			Buffers: []gputypes.VertexBufferLayout{},
		},
		Fragment: &hal.FragmentState{
			Module:     rp.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create resolve pipeline: %w", err)
	}
	rp.pipeline = pipeline

	return nil
}

// destroyPipeline releases all resources in reverse creation order.
func (rp *resolvePipeline) destroyPipeline() {
	if rp.device == nil {
		return
	}
	if rp.pipeline != nil {
		rp.device.DestroyRenderPipeline(rp.pipeline)
		rp.pipeline = nil
	}
	if rp.sampler != nil {
		rp.device.DestroySampler(rp.sampler)
		rp.sampler = nil
	}
	if rp.pipeLayout != nil {
		rp.device.DestroyPipelineLayout(rp.pipeLayout)
		rp.pipeLayout = nil
	}
	if rp.sampleLayout != nil {
		rp.device.DestroyBindGroupLayout(rp.sampleLayout)
		rp.sampleLayout = nil
	}
	if rp.shader != nil {
		rp.device.DestroyShaderModule(rp.shader)
		rp.shader = nil
	}
}
