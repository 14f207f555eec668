package glprint

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// fakeHost hands out fakeSurfaces and counts them.
type fakeHost struct {
	gl         *fakeContext
	surfaceErr error
	noContext  bool

	surfaces int
	released int
}

func (h *fakeHost) Name() string { return "fake" }

func (h *fakeHost) NewSurface() (Surface, error) {
	if h.surfaceErr != nil {
		return nil, h.surfaceErr
	}
	h.surfaces++
	return &fakeSurface{host: h}, nil
}

type fakeSurface struct {
	host *fakeHost
}

func (s *fakeSurface) Context(api string) Context {
	if s.host.noContext || api != ContextAPI {
		return nil
	}
	return s.host.gl
}

func (s *fakeSurface) Release() { s.host.released++ }

// fakeContext records every call and succeeds unless told otherwise.
type fakeContext struct {
	width, height int
	lang          ShadingLanguage
	failStage     Enum
	failLink      bool
	fill          byte
	err           error

	calls   []string
	next    uint32
	shaders map[Shader]Enum
	sources map[Shader]string
	deleted []Shader
}

func newFakeContext(w, h int) *fakeContext {
	return &fakeContext{
		width:   w,
		height:  h,
		shaders: make(map[Shader]Enum),
		sources: make(map[Shader]string),
	}
}

func (c *fakeContext) record(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *fakeContext) called(name string) bool {
	for _, call := range c.calls {
		if call == name || strings.HasPrefix(call, name+"(") {
			return true
		}
	}
	return false
}

func (c *fakeContext) ShadingLanguage() ShadingLanguage { return c.lang }

func (c *fakeContext) CreateShader(typ Enum) Shader {
	c.next++
	s := Shader(c.next)
	c.shaders[s] = typ
	c.record("CreateShader(%s)", stageName(typ))
	return s
}

func (c *fakeContext) ShaderSource(s Shader, src string) { c.sources[s] = src }
func (c *fakeContext) CompileShader(s Shader)            { c.record("CompileShader(%d)", s) }

func (c *fakeContext) ShaderCompiled(s Shader) bool {
	return c.failStage == 0 || c.shaders[s] != c.failStage
}

func (c *fakeContext) ShaderInfoLog(s Shader) string {
	if c.ShaderCompiled(s) {
		return ""
	}
	return "ERROR: 0:1: syntax error"
}

func (c *fakeContext) DeleteShader(s Shader) { c.deleted = append(c.deleted, s) }

func (c *fakeContext) CreateProgram() Program {
	c.next++
	return Program(c.next)
}

func (c *fakeContext) AttachShader(Program, Shader) {}

func (c *fakeContext) LinkProgram(Program)        { c.record("LinkProgram") }
func (c *fakeContext) ProgramLinked(Program) bool { return !c.failLink }

func (c *fakeContext) ProgramInfoLog(Program) string {
	if c.failLink {
		return "varying mismatch"
	}
	return ""
}

func (c *fakeContext) UseProgram(Program) { c.record("UseProgram") }

func (c *fakeContext) CreateBuffer() Buffer {
	c.next++
	return Buffer(c.next)
}

func (c *fakeContext) BindBuffer(target Enum, _ Buffer) { c.record("BindBuffer(0x%04x)", uint32(target)) }

func (c *fakeContext) BufferData(target Enum, data []float32, usage Enum) {
	c.record("BufferData(0x%04x, %v, 0x%04x)", uint32(target), data, uint32(usage))
}

func (c *fakeContext) GetAttribLocation(_ Program, name string) int {
	if name == PositionAttribute {
		return 0
	}
	return -1
}

func (c *fakeContext) EnableVertexAttribArray(index int) { c.record("EnableVertexAttribArray(%d)", index) }

func (c *fakeContext) VertexAttribPointer(index, size int, typ Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer(%d, %d, 0x%04x, %t, %d, %d)", index, size, uint32(typ), normalized, stride, offset)
}

func (c *fakeContext) GetUniformLocation(_ Program, name string) Uniform {
	if name == ColorUniform {
		return 0
	}
	return NoUniform
}

func (c *fakeContext) Uniform4f(u Uniform, v0, v1, v2, v3 float32) {
	c.record("Uniform4f(%d, %g, %g, %g, %g)", u, v0, v1, v2, v3)
}

func (c *fakeContext) ClearColor(r, g, b, a float32) { c.record("ClearColor(%g, %g, %g, %g)", r, g, b, a) }
func (c *fakeContext) Clear(mask Enum)               { c.record("Clear(0x%04x)", uint32(mask)) }

func (c *fakeContext) DrawArrays(mode Enum, first, count int) {
	c.record("DrawArrays(0x%04x, %d, %d)", uint32(mode), first, count)
}

func (c *fakeContext) DrawingBufferSize() (int, int) { return c.width, c.height }

func (c *fakeContext) ReadPixels(x, y, w, h int, format, typ Enum, dst []byte) {
	c.record("ReadPixels(%d, %d, %d, %d, 0x%04x, 0x%04x, %d)", x, y, w, h, uint32(format), uint32(typ), len(dst))
	for i := range dst {
		dst[i] = c.fill
	}
}

func (c *fakeContext) Err() error { return c.err }

// countingDigester wraps SHA256 and counts invocations.
type countingDigester struct {
	calls int
	err   error
}

func (d *countingDigester) Digest(ctx context.Context, data []byte) ([]byte, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return SHA256.Digest(ctx, data)
}

var errFakeDevice = errors.New("fake device lost")
