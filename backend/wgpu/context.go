// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/pixels"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// WebGL error classes recorded by the context.
var (
	errInvalidEnum      = errors.New("wgpu: invalid enum")
	errInvalidValue     = errors.New("wgpu: invalid value")
	errInvalidOperation = errors.New("wgpu: invalid operation")
	errDevice           = errors.New("wgpu: device error")
)

const maxVertexAttribs = 16

type vertexAttrib struct {
	enabled bool
	size    int
	stride  int
	offset  int
	buffer  glprint.Buffer
}

// vertexBuffer is an array buffer and its GPU copy.
type vertexBuffer struct {
	gpu  hal.Buffer
	size int
}

// glContext implements glprint.Context on a HAL device.
type glContext struct {
	surface *Surface
	device  hal.Device
	queue   hal.Queue

	next     uint32
	shaders  map[glprint.Shader]*shader
	programs map[glprint.Program]*program
	buffers  map[glprint.Buffer]*vertexBuffer

	arrayBuffer glprint.Buffer
	current     *program
	attribs     [maxVertexAttribs]vertexAttrib
	clearColor  gputypes.Color

	err error
}

var _ glprint.Context = (*glContext)(nil)

func newContext(s *Surface) *glContext {
	return &glContext{
		surface:  s,
		device:   s.device.device,
		queue:    s.device.queue,
		shaders:  make(map[glprint.Shader]*shader),
		programs: make(map[glprint.Program]*program),
		buffers:  make(map[glprint.Buffer]*vertexBuffer),
	}
}

func (c *glContext) fail(class error, format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf("%w: %s", class, fmt.Sprintf(format, args...))
	}
}

func (c *glContext) handle() uint32 {
	c.next++
	return c.next
}

func (c *glContext) destroy() {
	for _, p := range c.programs {
		p.destroy(c.device)
	}
	for _, b := range c.buffers {
		if b.gpu != nil {
			c.device.DestroyBuffer(b.gpu)
		}
	}
	c.programs, c.buffers, c.current = nil, nil, nil
}

func (c *glContext) ShadingLanguage() glprint.ShadingLanguage { return glprint.WGSL }

func (c *glContext) CreateShader(typ glprint.Enum) glprint.Shader {
	if typ != glprint.VertexShader && typ != glprint.FragmentShader {
		c.fail(errInvalidEnum, "createShader(0x%04x)", uint32(typ))
		return glprint.NoShader
	}
	s := glprint.Shader(c.handle())
	c.shaders[s] = &shader{typ: typ}
	return s
}

func (c *glContext) ShaderSource(s glprint.Shader, src string) {
	if sh := c.shader(s); sh != nil {
		sh.source = src
	}
}

func (c *glContext) CompileShader(s glprint.Shader) {
	if sh := c.shader(s); sh != nil {
		sh.compile()
	}
}

func (c *glContext) ShaderCompiled(s glprint.Shader) bool {
	sh := c.shaders[s]
	return sh != nil && sh.compiled
}

func (c *glContext) ShaderInfoLog(s glprint.Shader) string {
	if sh := c.shaders[s]; sh != nil {
		return sh.log
	}
	return ""
}

func (c *glContext) DeleteShader(s glprint.Shader) { delete(c.shaders, s) }

func (c *glContext) shader(s glprint.Shader) *shader {
	sh := c.shaders[s]
	if sh == nil {
		c.fail(errInvalidValue, "no shader %d", s)
	}
	return sh
}

func (c *glContext) CreateProgram() glprint.Program {
	p := glprint.Program(c.handle())
	c.programs[p] = &program{}
	return p
}

func (c *glContext) AttachShader(p glprint.Program, s glprint.Shader) {
	prog, sh := c.programs[p], c.shaders[s]
	if prog == nil || sh == nil {
		c.fail(errInvalidValue, "attachShader(%d, %d)", p, s)
		return
	}
	prog.attach(sh)
}

func (c *glContext) LinkProgram(p glprint.Program) {
	prog := c.programs[p]
	if prog == nil {
		c.fail(errInvalidValue, "linkProgram(%d)", p)
		return
	}
	prog.link(c.device)
}

func (c *glContext) ProgramLinked(p glprint.Program) bool {
	prog := c.programs[p]
	return prog != nil && prog.linked
}

func (c *glContext) ProgramInfoLog(p glprint.Program) string {
	if prog := c.programs[p]; prog != nil {
		return prog.log
	}
	return ""
}

func (c *glContext) UseProgram(p glprint.Program) {
	if p == glprint.NoProgram {
		c.current = nil
		return
	}
	prog := c.programs[p]
	if prog == nil || !prog.linked {
		c.fail(errInvalidOperation, "useProgram(%d): program not linked", p)
		return
	}
	c.current = prog
}

func (c *glContext) CreateBuffer() glprint.Buffer {
	b := glprint.Buffer(c.handle())
	c.buffers[b] = &vertexBuffer{}
	return b
}

func (c *glContext) BindBuffer(target glprint.Enum, b glprint.Buffer) {
	if target != glprint.ArrayBuffer {
		c.fail(errInvalidEnum, "bindBuffer(0x%04x)", uint32(target))
		return
	}
	if _, ok := c.buffers[b]; !ok && b != glprint.NoBuffer {
		c.fail(errInvalidOperation, "bindBuffer: no buffer %d", b)
		return
	}
	c.arrayBuffer = b
}

func (c *glContext) BufferData(target glprint.Enum, data []float32, _ glprint.Enum) {
	if target != glprint.ArrayBuffer {
		c.fail(errInvalidEnum, "bufferData(0x%04x)", uint32(target))
		return
	}
	vb := c.buffers[c.arrayBuffer]
	if vb == nil {
		c.fail(errInvalidOperation, "bufferData: no buffer bound")
		return
	}
	if vb.gpu != nil {
		c.device.DestroyBuffer(vb.gpu)
		vb.gpu, vb.size = nil, 0
	}
	if len(data) == 0 {
		return
	}
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glprint_vertices",
		Size:  uint64(len(data) * 4),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		c.fail(errDevice, "create vertex buffer: %v", err)
		return
	}
	c.queue.WriteBuffer(buf, 0, float32Bytes(data))
	vb.gpu, vb.size = buf, len(data)*4
}

func (c *glContext) GetAttribLocation(p glprint.Program, name string) int {
	prog := c.programs[p]
	if prog == nil || !prog.linked {
		c.fail(errInvalidOperation, "getAttribLocation(%d, %q)", p, name)
		return -1
	}
	return prog.attribLocation(name)
}

func (c *glContext) EnableVertexAttribArray(index int) {
	if index < 0 || index >= maxVertexAttribs {
		c.fail(errInvalidValue, "enableVertexAttribArray(%d)", index)
		return
	}
	c.attribs[index].enabled = true
}

func (c *glContext) VertexAttribPointer(index, size int, typ glprint.Enum, _ bool, stride, offset int) {
	switch {
	case index < 0 || index >= maxVertexAttribs:
		c.fail(errInvalidValue, "vertexAttribPointer: index %d", index)
	case typ != glprint.Float:
		c.fail(errInvalidEnum, "vertexAttribPointer: type 0x%04x", uint32(typ))
	case size < 1 || size > 4 || stride < 0 || offset < 0 || stride%4 != 0 || offset%4 != 0:
		c.fail(errInvalidValue, "vertexAttribPointer(%d, %d, stride %d, offset %d)", index, size, stride, offset)
	case c.arrayBuffer == glprint.NoBuffer:
		c.fail(errInvalidOperation, "vertexAttribPointer: no buffer bound")
	default:
		c.attribs[index] = vertexAttrib{
			enabled: c.attribs[index].enabled,
			size:    size,
			stride:  stride,
			offset:  offset,
			buffer:  c.arrayBuffer,
		}
	}
}

func (c *glContext) GetUniformLocation(p glprint.Program, name string) glprint.Uniform {
	prog := c.programs[p]
	if prog == nil || !prog.linked {
		c.fail(errInvalidOperation, "getUniformLocation(%d, %q)", p, name)
		return glprint.NoUniform
	}
	return prog.uniformLocation(name)
}

func (c *glContext) Uniform4f(u glprint.Uniform, v0, v1, v2, v3 float32) {
	if u == glprint.NoUniform {
		return
	}
	if c.current == nil {
		c.fail(errInvalidOperation, "uniform4f: no current program")
		return
	}
	if int(u) < 0 || int(u) >= len(c.current.uniforms) {
		c.fail(errInvalidOperation, "uniform4f: location %d", u)
		return
	}
	c.queue.WriteBuffer(c.current.uniforms[u].buffer, 0, float32Bytes([]float32{v0, v1, v2, v3}))
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	c.clearColor = gputypes.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}

func (c *glContext) Clear(mask glprint.Enum) {
	if mask&^glprint.ColorBufferBit != 0 {
		c.fail(errInvalidValue, "clear(0x%04x)", uint32(mask))
		return
	}
	if mask&glprint.ColorBufferBit == 0 {
		return
	}
	if err := c.surface.pass("glprint_clear", gputypes.LoadOpClear, c.clearColor, nil); err != nil {
		c.fail(errDevice, "clear: %v", err)
	}
}

func (c *glContext) DrawArrays(mode glprint.Enum, first, count int) {
	if mode != glprint.Triangles {
		c.fail(errInvalidEnum, "drawArrays: mode 0x%04x", uint32(mode))
		return
	}
	if first < 0 || count < 0 {
		c.fail(errInvalidValue, "drawArrays(%d, %d)", first, count)
		return
	}
	if c.current == nil {
		c.fail(errInvalidOperation, "drawArrays: no current program")
		return
	}
	if count == 0 {
		return
	}

	prog := c.current
	layout, slots, err := c.vertexLayout(prog, first+count)
	if err != nil {
		c.fail(errInvalidOperation, "drawArrays: %v", err)
		return
	}
	pipeline, err := prog.ensurePipeline(c.device, layout)
	if err != nil {
		c.fail(errDevice, "drawArrays: %v", err)
		return
	}
	err = c.surface.pass("glprint_draw", gputypes.LoadOpLoad, gputypes.Color{}, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(pipeline)
		rp.SetBindGroup(0, prog.bindGroup, nil)
		for i, s := range slots {
			rp.SetVertexBuffer(uint32(i), s.buffer, s.offset)
		}
		rp.Draw(uint32(count), 1, uint32(first), 0)
	})
	if err != nil {
		c.fail(errDevice, "drawArrays: %v", err)
	}
}

type vertexSlot struct {
	buffer hal.Buffer
	offset uint64
}

// vertexLayout builds one vertex buffer slot per program attribute, in
// location order, and checks that vertices fit the bound buffers.
func (c *glContext) vertexLayout(prog *program, vertices int) ([]gputypes.VertexBufferLayout, []vertexSlot, error) {
	layout := make([]gputypes.VertexBufferLayout, 0, len(prog.attribs))
	slots := make([]vertexSlot, 0, len(prog.attribs))
	for _, decl := range prog.attribs {
		if decl.Location < 0 || decl.Location >= maxVertexAttribs {
			return nil, nil, fmt.Errorf("attribute %s: location %d out of range", decl.Name, decl.Location)
		}
		a := c.attribs[decl.Location]
		if !a.enabled {
			return nil, nil, fmt.Errorf("attribute %s not enabled", decl.Name)
		}
		vb := c.buffers[a.buffer]
		if vb == nil || vb.gpu == nil {
			return nil, nil, fmt.Errorf("attribute %s has no buffer data", decl.Name)
		}
		stride := a.stride
		if stride == 0 {
			stride = a.size * 4
		}
		if end := a.offset + (vertices-1)*stride + a.size*4; end > vb.size {
			return nil, nil, fmt.Errorf("attribute %s reads %d bytes past a %d-byte buffer", decl.Name, end, vb.size)
		}
		layout = append(layout, gputypes.VertexBufferLayout{
			ArrayStride: uint64(stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: vertexFormat(a.size), Offset: 0, ShaderLocation: uint32(decl.Location)},
			},
		})
		slots = append(slots, vertexSlot{buffer: vb.gpu, offset: uint64(a.offset)})
	}
	return layout, slots, nil
}

func vertexFormat(size int) gputypes.VertexFormat {
	switch size {
	case 1:
		return gputypes.VertexFormatFloat32
	case 3:
		return gputypes.VertexFormatFloat32x3
	case 4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatFloat32x2
	}
}

func (c *glContext) DrawingBufferSize() (int, int) {
	return int(c.surface.width), int(c.surface.height)
}

func (c *glContext) ReadPixels(x, y, width, height int, format, typ glprint.Enum, dst []byte) {
	if format != glprint.RGBA || typ != glprint.UnsignedByte {
		c.fail(errInvalidEnum, "readPixels: format 0x%04x type 0x%04x", uint32(format), uint32(typ))
		return
	}
	if width < 0 || height < 0 {
		c.fail(errInvalidValue, "readPixels(%d, %d)", width, height)
		return
	}
	if len(dst) < width*height*pixels.BytesPerPixel {
		c.fail(errInvalidOperation, "readPixels: destination holds %d bytes, need %d", len(dst), width*height*pixels.BytesPerPixel)
		return
	}
	src, err := c.surface.readTarget()
	if err != nil {
		c.fail(errDevice, "readPixels: %v", err)
		return
	}
	pixels.CopyRect(dst, src, int(c.surface.width), int(c.surface.height), x, y, width, height)
}

func (c *glContext) Err() error { return c.err }

// float32Bytes encodes v as little-endian IEEE 754, the layout WGSL f32
// vertex and uniform data use.
func float32Bytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
