// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"regexp"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/shaderdecl"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

var (
	vertexEntry   = regexp.MustCompile(`@vertex\s+fn\s+(\w+)`)
	fragmentEntry = regexp.MustCompile(`@fragment\s+fn\s+(\w+)`)
)

// uniformSize is the byte size of a vec4<f32> uniform.
const uniformSize = 16

// shader holds WGSL source. Compilation runs the naga front end for
// diagnostics; the HAL module is created at link time.
type shader struct {
	typ      glprint.Enum
	source   string
	compiled bool
	log      string
	entry    string
	decls    shaderdecl.Decls
}

func (s *shader) compile() {
	s.compiled, s.log, s.entry, s.decls = false, "", "", nil
	if _, err := naga.Compile(s.source); err != nil {
		s.log = err.Error()
		return
	}
	re, stage := vertexEntry, "@vertex"
	if s.typ == glprint.FragmentShader {
		re, stage = fragmentEntry, "@fragment"
	}
	m := re.FindStringSubmatch(s.source)
	if m == nil {
		s.log = fmt.Sprintf("no %s entry point", stage)
		return
	}
	s.entry = m[1]
	s.decls = shaderdecl.ParseWGSL(s.source)
	s.compiled = true
}

// uniform is one vec4 uniform backed by its own buffer in bind group 0.
type uniform struct {
	decl   shaderdecl.Decl
	buffer hal.Buffer
}

// program is a linked vertex and fragment pair with its GPU layout
// objects. The render pipeline depends on the vertex layout and is built
// by the context at draw time.
type program struct {
	vertex   *shader
	fragment *shader

	linked   bool
	log      string
	attribs  shaderdecl.Decls
	uniforms []uniform

	vsModule    hal.ShaderModule
	fsModule    hal.ShaderModule
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	bindGroup   hal.BindGroup
	pipeline    hal.RenderPipeline
	pipelineKey string
}

func (p *program) attach(s *shader) {
	if s.typ == glprint.VertexShader {
		p.vertex = s
	} else {
		p.fragment = s
	}
}

func (p *program) link(d hal.Device) {
	p.destroy(d)
	p.linked, p.log = false, ""
	if err := p.resolve(); err != nil {
		p.log = err.Error()
		return
	}
	if err := p.createLayout(d); err != nil {
		p.destroy(d)
		p.log = err.Error()
		return
	}
	p.linked = true
}

func (p *program) resolve() error {
	if p.vertex == nil || p.fragment == nil {
		return fmt.Errorf("missing vertex or fragment shader")
	}
	if !p.vertex.compiled || !p.fragment.compiled {
		return fmt.Errorf("attached shader not compiled")
	}
	p.attribs = p.vertex.decls.Of(shaderdecl.Attribute)

	p.uniforms = nil
	seen := make(map[int]string)
	decls := append(p.vertex.decls.Of(shaderdecl.Uniform), p.fragment.decls.Of(shaderdecl.Uniform)...)
	for _, u := range decls {
		if u.Group != 0 {
			return fmt.Errorf("uniform %q: only @group(0) is supported", u.Name)
		}
		if u.Type != "vec4<f32>" {
			return fmt.Errorf("uniform %q: type %s not supported", u.Name, u.Type)
		}
		if prev, ok := seen[u.Location]; ok {
			if prev == u.Name {
				continue
			}
			return fmt.Errorf("uniforms %q and %q share @binding(%d)", prev, u.Name, u.Location)
		}
		seen[u.Location] = u.Name
		p.uniforms = append(p.uniforms, uniform{decl: u})
	}
	return nil
}

func (p *program) createLayout(d hal.Device) error {
	var err error
	p.vsModule, err = d.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glprint_vertex",
		Source: hal.ShaderSource{WGSL: p.vertex.source},
	})
	if err != nil {
		return fmt.Errorf("create vertex module: %w", err)
	}
	p.fsModule, err = d.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glprint_fragment",
		Source: hal.ShaderSource{WGSL: p.fragment.source},
	})
	if err != nil {
		return fmt.Errorf("create fragment module: %w", err)
	}

	layoutEntries := make([]gputypes.BindGroupLayoutEntry, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		layoutEntries = append(layoutEntries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(u.decl.Location),
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	p.bindLayout, err = d.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "glprint_uniform_layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.pipeLayout, err = d.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glprint_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	entries := make([]gputypes.BindGroupEntry, 0, len(p.uniforms))
	for i := range p.uniforms {
		u := &p.uniforms[i]
		u.buffer, err = d.CreateBuffer(&hal.BufferDescriptor{
			Label: "glprint_uniform_" + u.decl.Name,
			Size:  uniformSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create uniform buffer %s: %w", u.decl.Name, err)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: uint32(u.decl.Location),
			Resource: gputypes.BufferBinding{
				Buffer: u.buffer.NativeHandle(),
				Offset: 0,
				Size:   uniformSize,
			},
		})
	}
	p.bindGroup, err = d.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "glprint_uniforms",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	return nil
}

// ensurePipeline returns the render pipeline for the given vertex layout,
// rebuilding it when the layout changed since the last draw.
func (p *program) ensurePipeline(d hal.Device, layout []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	key := fmt.Sprint(layout)
	if p.pipeline != nil && p.pipelineKey == key {
		return p.pipeline, nil
	}
	if p.pipeline != nil {
		d.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	pipeline, err := d.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glprint_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vsModule,
			EntryPoint: p.vertex.entry,
			Buffers:    layout,
		},
		Fragment: &hal.FragmentState{
			Module:     p.fsModule,
			EntryPoint: p.fragment.entry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
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
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline, p.pipelineKey = pipeline, key
	return pipeline, nil
}

func (p *program) attribLocation(name string) int {
	if a, ok := p.attribs.Find(shaderdecl.Attribute, name); ok {
		return a.Location
	}
	return -1
}

func (p *program) uniformLocation(name string) glprint.Uniform {
	for i, u := range p.uniforms {
		if u.decl.Name == name {
			return glprint.Uniform(i)
		}
	}
	return glprint.NoUniform
}

func (p *program) destroy(d hal.Device) {
	if p.pipeline != nil {
		d.DestroyRenderPipeline(p.pipeline)
	}
	if p.bindGroup != nil {
		d.DestroyBindGroup(p.bindGroup)
	}
	for _, u := range p.uniforms {
		if u.buffer != nil {
			d.DestroyBuffer(u.buffer)
		}
	}
	if p.pipeLayout != nil {
		d.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		d.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.fsModule != nil {
		d.DestroyShaderModule(p.fsModule)
	}
	if p.vsModule != nil {
		d.DestroyShaderModule(p.vsModule)
	}
	p.pipeline, p.bindGroup, p.pipeLayout, p.bindLayout = nil, nil, nil, nil
	p.vsModule, p.fsModule, p.pipelineKey = nil, nil, ""
	for i := range p.uniforms {
		p.uniforms[i].buffer = nil
	}
}
