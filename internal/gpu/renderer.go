package gpu

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sprite.wgsl
var spriteShaderWGSL string

//go:embed shaders/rect.wgsl
var rectShaderWGSL string

// spriteVertexStride is the byte stride of one sprite vertex:
// position (vec2<f32>) + tex_coords (vec2<f32>).
const spriteVertexStride = 16

// rectVertexStride is the byte stride of one rect vertex:
// position (vec2<f32>) only.
const rectVertexStride = 8

// Renderer owns the device-lifetime GPU objects: compiled shaders, bind
// group layouts, pipelines, samplers and the shared quad geometry.
// Per-frame objects (instance buffers, the transform pool upload) are
// created by Frame.
//
// Renderer is confined to the goroutine that created it, matching the
// engine's single-threaded frame model.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	log    *slog.Logger

	spriteShader hal.ShaderModule
	rectShader   hal.ShaderModule

	// Sprite pipeline bind group layouts, in group index order:
	// 0 texture+sampler, 1 transform uniform, 2 UV window, 3 instances.
	texLayout       hal.BindGroupLayout
	transformLayout hal.BindGroupLayout
	uvLayout        hal.BindGroupLayout
	instanceLayout  hal.BindGroupLayout

	// Rect pipeline reuses transformLayout at group 0 so the shared
	// identity bind group works for both pipelines.
	rectInstanceLayout hal.BindGroupLayout

	spritePipeLayout hal.PipelineLayout
	rectPipeLayout   hal.PipelineLayout

	spritePipeline hal.RenderPipeline
	rectPipeline   hal.RenderPipeline

	linearSampler  hal.Sampler
	nearestSampler hal.Sampler

	// Shared quad geometry. The sprite quad spans (0,0)-(1,1); the rect
	// quad is centered, spanning (-1,-1)-(1,1). Both share one index
	// buffer.
	spriteVerts hal.Buffer
	rectVerts   hal.Buffer
	quadIndex   hal.Buffer

	// Identity transform and full-texture UV window, bound for batches
	// that need no group-level adjustment.
	identityBuf  hal.Buffer
	defaultUVBuf hal.Buffer

	identityGroup  hal.BindGroup
	defaultUVGroup hal.BindGroup

	format      gputypes.TextureFormat
	initialized bool
}

// NewRenderer compiles the shaders and creates all device-lifetime
// objects. format is the color attachment format of the render target.
// On error the caller falls back to the CPU rasterizer.
func NewRenderer(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, log *slog.Logger) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: device and queue are required")
	}
	if log == nil {
		log = nopLogger()
	}

	r := &Renderer{
		device: device,
		queue:  queue,
		log:    log,
		format: format,
	}
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	if err := r.createShaders(); err != nil {
		return err
	}
	if err := r.createLayouts(); err != nil {
		return err
	}
	if err := r.createSamplers(); err != nil {
		return err
	}
	if err := r.createPipelines(); err != nil {
		return err
	}
	if err := r.createSharedBuffers(); err != nil {
		return err
	}
	r.initialized = true
	r.log.Debug("gpu renderer initialized", "format", r.format)
	return nil
}

// compileWGSL compiles WGSL source to SPIR-V words for the shader
// module descriptor.
func compileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

func (r *Renderer) createShaders() error {
	spriteSPIRV, err := compileWGSL(spriteShaderWGSL)
	if err != nil {
		return fmt.Errorf("gpu: compile sprite shader: %w", err)
	}
	sprite, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{SPIRV: spriteSPIRV},
	})
	if err != nil {
		return fmt.Errorf("gpu: create sprite shader module: %w", err)
	}
	r.spriteShader = sprite

	rectSPIRV, err := compileWGSL(rectShaderWGSL)
	if err != nil {
		return fmt.Errorf("gpu: compile rect shader: %w", err)
	}
	rect, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "rect_shader",
		Source: hal.ShaderSource{SPIRV: rectSPIRV},
	})
	if err != nil {
		return fmt.Errorf("gpu: create rect shader module: %w", err)
	}
	r.rectShader = rect
	return nil
}

func (r *Renderer) createLayouts() error {
	texLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_texture_layout",
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
		return fmt.Errorf("gpu: create texture layout: %w", err)
	}
	r.texLayout = texLayout

	transformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "transform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create transform layout: %w", err)
	}
	r.transformLayout = transformLayout

	uvLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "uv_window_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create uv window layout: %w", err)
	}
	r.uvLayout = uvLayout

	instanceLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_instance_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create instance layout: %w", err)
	}
	r.instanceLayout = instanceLayout

	rectInstanceLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "rect_instance_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create rect instance layout: %w", err)
	}
	r.rectInstanceLayout = rectInstanceLayout
	return nil
}

func (r *Renderer) createSamplers() error {
	linear, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler_linear",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("gpu: create linear sampler: %w", err)
	}
	r.linearSampler = linear

	// Font atlases sample nearest so glyph edges stay crisp at the
	// rasterized size.
	nearest, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler_nearest",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("gpu: create nearest sampler: %w", err)
	}
	r.nearestSampler = nearest
	return nil
}

func (r *Renderer) createPipelines() error {
	spriteLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{
			r.texLayout, r.transformLayout, r.uvLayout, r.instanceLayout,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create sprite pipeline layout: %w", err)
	}
	r.spritePipeLayout = spriteLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	spritePipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: r.spritePipeLayout,
		Vertex: hal.VertexState{
			Module:     r.spriteShader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: spriteVertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &hal.FragmentState{
			Module:     r.spriteShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &premulBlend,
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
		return fmt.Errorf("gpu: create sprite pipeline: %w", err)
	}
	r.spritePipeline = spritePipeline

	rectLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "rect_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{
			r.transformLayout, r.rectInstanceLayout,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create rect pipeline layout: %w", err)
	}
	r.rectPipeLayout = rectLayout

	rectPipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "rect_pipeline",
		Layout: r.rectPipeLayout,
		Vertex: hal.VertexState{
			Module:     r.rectShader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: rectVertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &hal.FragmentState{
			Module:     r.rectShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &premulBlend,
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
		return fmt.Errorf("gpu: create rect pipeline: %w", err)
	}
	r.rectPipeline = rectPipeline
	return nil
}

func (r *Renderer) createSharedBuffers() error {
	var err error
	r.spriteVerts, err = r.createAndUploadBuffer("sprite_quad_verts",
		spriteQuadVertexData(), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.rectVerts, err = r.createAndUploadBuffer("rect_quad_verts",
		rectQuadVertexData(), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.quadIndex, err = r.createAndUploadBuffer("quad_indices",
		quadIndexData(), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	identity := TransformUniform{Model: Identity()}
	identityBytes := make([]byte, TransformUniformSize)
	identity.Bytes(identityBytes, 0)
	r.identityBuf, err = r.createAndUploadBuffer("identity_transform",
		identityBytes, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	full := FullWindow()
	uvBytes := make([]byte, 16)
	writeFloat32(uvBytes, 0, full.Offset[0])
	writeFloat32(uvBytes, 4, full.Offset[1])
	writeFloat32(uvBytes, 8, full.Scale[0])
	writeFloat32(uvBytes, 12, full.Scale[1])
	r.defaultUVBuf, err = r.createAndUploadBuffer("default_uv_window",
		uvBytes, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	r.identityGroup, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "identity_transform_bind",
		Layout: r.transformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.identityBuf.NativeHandle(), Offset: 0, Size: TransformUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create identity bind group: %w", err)
	}

	r.defaultUVGroup, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "default_uv_bind",
		Layout: r.uvLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.defaultUVBuf.NativeHandle(), Offset: 0, Size: 16,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create default uv bind group: %w", err)
	}
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads initial data.
func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Destroy releases all device-lifetime objects in reverse creation
// order. Safe to call multiple times.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	if r.defaultUVGroup != nil {
		r.device.DestroyBindGroup(r.defaultUVGroup)
		r.defaultUVGroup = nil
	}
	if r.identityGroup != nil {
		r.device.DestroyBindGroup(r.identityGroup)
		r.identityGroup = nil
	}
	for _, buf := range []*hal.Buffer{
		&r.defaultUVBuf, &r.identityBuf, &r.quadIndex, &r.rectVerts, &r.spriteVerts,
	} {
		if *buf != nil {
			r.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	if r.rectPipeline != nil {
		r.device.DestroyRenderPipeline(r.rectPipeline)
		r.rectPipeline = nil
	}
	if r.spritePipeline != nil {
		r.device.DestroyRenderPipeline(r.spritePipeline)
		r.spritePipeline = nil
	}
	if r.rectPipeLayout != nil {
		r.device.DestroyPipelineLayout(r.rectPipeLayout)
		r.rectPipeLayout = nil
	}
	if r.spritePipeLayout != nil {
		r.device.DestroyPipelineLayout(r.spritePipeLayout)
		r.spritePipeLayout = nil
	}
	if r.nearestSampler != nil {
		r.device.DestroySampler(r.nearestSampler)
		r.nearestSampler = nil
	}
	if r.linearSampler != nil {
		r.device.DestroySampler(r.linearSampler)
		r.linearSampler = nil
	}
	for _, layout := range []*hal.BindGroupLayout{
		&r.rectInstanceLayout, &r.instanceLayout,
		&r.uvLayout, &r.transformLayout, &r.texLayout,
	} {
		if *layout != nil {
			r.device.DestroyBindGroupLayout(*layout)
			*layout = nil
		}
	}
	if r.rectShader != nil {
		r.device.DestroyShaderModule(r.rectShader)
		r.rectShader = nil
	}
	if r.spriteShader != nil {
		r.device.DestroyShaderModule(r.spriteShader)
		r.spriteShader = nil
	}
	r.initialized = false
}
